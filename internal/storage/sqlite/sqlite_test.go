package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/cashier/internal/models"
	"github.com/mmynk/cashier/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "cashier-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func receiptFor(orderID int64, orderNumber, status string, lines ...models.CartLine) *models.Receipt {
	conf := models.OrderConfirmation{ID: orderID, OrderNumber: orderNumber, Status: status}
	return models.NewReceipt(conf, "cashier-1", lines)
}

func line(id int64, name, price string, qty int) models.CartLine {
	return models.CartLine{ProductID: id, Name: name, UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func TestReceipts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateReceipt generates ID when missing", func(t *testing.T) {
		r := receiptFor(1, "ORD-1", "COMPLETED", line(1, "Kopi", "18000", 2))
		r.ID = ""
		r.CreatedAt = 0

		if err := store.CreateReceipt(ctx, r); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}
		if r.ID == "" {
			t.Error("Expected receipt ID to be generated")
		}
		if r.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetReceipt retrieves exact amounts and line order", func(t *testing.T) {
		original := receiptFor(2, "ORD-2", "COMPLETED",
			line(3, "Roti Bakar", "15000.25", 1),
			line(1, "Kopi", "0.10", 3),
		)
		if err := store.CreateReceipt(ctx, original); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}

		got, err := store.GetReceipt(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if got.OrderNumber != "ORD-2" || got.CashierID != "cashier-1" {
			t.Errorf("receipt = %+v", got)
		}
		if !got.Total.Equal(decimal.RequireFromString("15000.55")) {
			t.Errorf("Total mismatch: got %s, want 15000.55", got.Total)
		}
		if len(got.Lines) != 2 || got.Lines[0].Name != "Roti Bakar" || got.Lines[1].Quantity != 3 {
			t.Fatalf("lines = %+v", got.Lines)
		}
		if !got.Lines[1].Subtotal().Equal(decimal.RequireFromString("0.3")) {
			t.Errorf("line subtotal = %s, want 0.3", got.Lines[1].Subtotal())
		}
	})

	t.Run("GetReceipt returns ErrNotFound for nonexistent receipt", func(t *testing.T) {
		_, err := store.GetReceipt(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestListReceipts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []*models.Receipt{
		receiptFor(10, "ORD-10", "COMPLETED", line(1, "Kopi Susu", "18000", 1)),
		receiptFor(11, "ORD-11", "PENDING", line(2, "Teh Manis", "8000", 2)),
		receiptFor(12, "ORD-12", "COMPLETED", line(3, "Roti Bakar", "15000", 1), line(2, "Teh Manis", "8000", 1)),
		receiptFor(13, "X_100%", "CANCELLED", line(4, "Pisang", "12000", 1)),
	}
	for i, r := range seed {
		r.CreatedAt = int64(1000 + i)
		if err := store.CreateReceipt(ctx, r); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter models.ReceiptFilter
		want   []string
	}{
		{name: "no filter returns newest first", want: []string{"X_100%", "ORD-12", "ORD-11", "ORD-10"}},
		{name: "all status is no filter", filter: models.ReceiptFilter{Status: "all"}, want: []string{"X_100%", "ORD-12", "ORD-11", "ORD-10"}},
		{name: "status", filter: models.ReceiptFilter{Status: "COMPLETED"}, want: []string{"ORD-12", "ORD-10"}},
		{name: "order number search", filter: models.ReceiptFilter{Search: "ord-11"}, want: []string{"ORD-11"}},
		{name: "line name search", filter: models.ReceiptFilter{Search: "teh"}, want: []string{"ORD-12", "ORD-11"}},
		{name: "status and search", filter: models.ReceiptFilter{Status: "PENDING", Search: "teh"}, want: []string{"ORD-11"}},
		{name: "like wildcards are literal", filter: models.ReceiptFilter{Search: "_100%"}, want: []string{"X_100%"}},
		{name: "underscore does not match any rune", filter: models.ReceiptFilter{Search: "ORD_1"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListReceipts(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListReceipts failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d receipts, want %v", len(got), tt.want)
			}
			for i, r := range got {
				if r.OrderNumber != tt.want[i] {
					t.Errorf("receipt %d = %s, want %s", i, r.OrderNumber, tt.want[i])
				}
				if len(r.Lines) == 0 {
					t.Errorf("receipt %s loaded without lines", r.OrderNumber)
				}
			}
		})
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n, err := store.CountUsers(ctx)
	if err != nil || n != 0 {
		t.Fatalf("CountUsers = %d, %v; want 0", n, err)
	}

	user := models.NewUser("siti", "Siti", "hash", models.RoleCashier)
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("lookup by username and ID", func(t *testing.T) {
		byName, err := store.GetUserByUsername(ctx, "siti")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if byName.ID != user.ID || byName.Role != models.RoleCashier {
			t.Errorf("user = %+v", byName)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Username != "siti" {
			t.Errorf("username = %q", byID.Username)
		}
	})

	t.Run("unknown user is ErrNotFound", func(t *testing.T) {
		if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetUserByID(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		if err := store.CreateUser(ctx, models.NewUser("siti", "Other", "hash", models.RoleUser)); err == nil {
			t.Error("expected unique constraint error")
		}
	})

	if n, _ := store.CountUsers(ctx); n != 1 {
		t.Errorf("CountUsers = %d, want 1", n)
	}
}
