package register

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/mmynk/cashier/internal/checkout"
	"github.com/mmynk/cashier/internal/clock"
	"github.com/mmynk/cashier/internal/metrics"
	"github.com/mmynk/cashier/internal/models"
	"github.com/mmynk/cashier/internal/notify"
	"github.com/mmynk/cashier/internal/scan"
)

type fakeBackend struct {
	mu         sync.Mutex
	products   []models.Product
	categories []models.Category
	listErr    error
	lookupErr  error
	orderErr   error
	orders     []models.OrderRequest
	lookups    []string
}

func (b *fakeBackend) ListProducts(ctx context.Context) ([]models.Product, error) {
	return b.products, b.listErr
}

func (b *fakeBackend) ListCategories(ctx context.Context) ([]models.Category, error) {
	return b.categories, nil
}

func (b *fakeBackend) GetProductByBarcode(ctx context.Context, code string) (*models.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lookups = append(b.lookups, code)
	if b.lookupErr != nil {
		return nil, b.lookupErr
	}
	for _, p := range b.products {
		if p.Barcode == code {
			return &p, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (b *fakeBackend) CreateOrder(ctx context.Context, sess models.Session, key string, req models.OrderRequest) (*models.OrderConfirmation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.orderErr != nil {
		return nil, b.orderErr
	}
	b.orders = append(b.orders, req)
	return &models.OrderConfirmation{ID: int64(len(b.orders)), OrderNumber: "ORD-1", Status: "COMPLETED"}, nil
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		products: []models.Product{
			{ID: 1, Name: "Kopi Susu", Price: decimal.NewFromInt(1000), CategoryID: 10, Barcode: "8991001"},
			{ID: 2, Name: "Teh Manis", Price: decimal.NewFromInt(8000), CategoryID: 10, Barcode: "8991002"},
			{ID: 3, Name: "Roti Bakar", Price: decimal.NewFromInt(15000), CategoryID: 20, Barcode: "8992001"},
		},
		categories: []models.Category{{ID: 10, Name: "Drinks"}, {ID: 20, Name: "Food"}},
	}
}

type harness struct {
	term    *Terminal
	backend *fakeBackend
	clock   *clock.Fake
	notices *notify.Queue
	metrics *metrics.Registry
}

func setup(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		backend: newBackend(),
		clock:   clock.NewFake(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)),
		notices: notify.NewQueue(50),
		metrics: metrics.NewRegistry(),
	}
	cfg := DefaultConfig()
	cfg.Clock = h.clock
	cfg.Notifier = h.notices
	cfg.Metrics = h.metrics
	h.term = New(h.backend, cfg)
	t.Cleanup(h.term.Close)

	if err := h.term.RefreshCatalog(context.Background()); err != nil {
		t.Fatalf("RefreshCatalog failed: %v", err)
	}
	return h
}

func titles(notices []notify.Notice) []string {
	out := make([]string, len(notices))
	for i, n := range notices {
		out[i] = n.Title
	}
	return out
}

func TestTerminal_CartScenario(t *testing.T) {
	h := setup(t)

	for i := 0; i < 2; i++ {
		if _, err := h.term.AddProduct(1); err != nil {
			t.Fatalf("AddProduct failed: %v", err)
		}
	}
	h.term.AdjustQuantity(1, 3)

	c := h.term.Cart()
	if len(c.Lines) != 1 || c.Lines[0].Quantity != 5 {
		t.Fatalf("lines = %+v, want one line with quantity 5", c.Lines)
	}
	if !c.Lines[0].Subtotal().Equal(decimal.NewFromInt(5000)) || !c.Total.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("subtotal = %s total = %s, want 5000", c.Lines[0].Subtotal(), c.Total)
	}
	if got := testutil.ToFloat64(h.metrics.ItemsAdded); got != 2 {
		t.Errorf("items added = %v, want 2", got)
	}
}

func TestTerminal_AddUnknownProduct(t *testing.T) {
	h := setup(t)
	if _, err := h.term.AddProduct(404); !errors.Is(err, models.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if len(h.term.Cart().Lines) != 0 {
		t.Error("cart changed")
	}
}

func TestTerminal_SearchIsDebounced(t *testing.T) {
	h := setup(t)

	h.term.SetQuery("roti")
	if got := len(h.term.Products()); got != 3 {
		t.Fatalf("query applied before debounce: %d products", got)
	}
	h.clock.Advance(300 * time.Millisecond)
	if got := h.term.Products(); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("products = %+v, want only Roti Bakar", got)
	}

	cat := int64(10)
	h.term.SetCategory(&cat)
	if got := len(h.term.Products()); got != 0 {
		t.Errorf("category and query should intersect to nothing, got %d", got)
	}
}

func TestTerminal_KeyboardScanAddsProduct(t *testing.T) {
	h := setup(t)

	for _, r := range "8991002" {
		h.term.Key(r)
		h.clock.Advance(3 * time.Millisecond)
	}
	h.clock.Advance(50 * time.Millisecond)

	c := h.term.Cart()
	if len(c.Lines) != 1 || c.Lines[0].ProductID != 2 {
		t.Fatalf("lines = %+v, want Teh Manis", c.Lines)
	}
	if h.term.ScanState() != scan.Idle {
		t.Errorf("scan state = %v, want idle", h.term.ScanState())
	}
	if got := testutil.ToFloat64(h.metrics.ScanLookups.WithLabelValues(lookupFound)); got != 1 {
		t.Errorf("found lookups = %v, want 1", got)
	}
}

func TestTerminal_TypingDoesNotLookUp(t *testing.T) {
	h := setup(t)

	for _, r := range "8991002" {
		h.term.Key(r)
		h.clock.Advance(150 * time.Millisecond)
	}
	if len(h.backend.lookups) != 0 {
		t.Fatalf("typing triggered lookups: %v", h.backend.lookups)
	}
}

func TestTerminal_ScanBarcode(t *testing.T) {
	t.Run("unknown barcode is a new product, not an error notice", func(t *testing.T) {
		h := setup(t)
		h.notices.Drain()

		_, err := h.term.ScanBarcode(context.Background(), "0000000")
		if !errors.Is(err, models.ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
		notices := h.notices.Drain()
		if len(notices) != 1 || notices[0].Title != "New Product" || notices[0].Kind != notify.KindInfo {
			t.Errorf("notices = %v", titles(notices))
		}
	})

	t.Run("lookup failure is reported", func(t *testing.T) {
		h := setup(t)
		h.notices.Drain()
		h.backend.lookupErr = errors.New("down")

		if _, err := h.term.ScanBarcode(context.Background(), "8991001"); err == nil {
			t.Fatal("expected an error")
		}
		notices := h.notices.Drain()
		if len(notices) != 1 || notices[0].Kind != notify.KindError {
			t.Errorf("notices = %+v", notices)
		}
		if len(h.term.Cart().Lines) != 0 {
			t.Error("cart changed")
		}
	})

	t.Run("found barcode adds one unit", func(t *testing.T) {
		h := setup(t)
		p, err := h.term.ScanBarcode(context.Background(), "8992001")
		if err != nil {
			t.Fatalf("ScanBarcode failed: %v", err)
		}
		if p.ID != 3 || h.term.Cart().Lines[0].Quantity != 1 {
			t.Errorf("product = %+v cart = %+v", p, h.term.Cart().Lines)
		}
	})
}

func TestTerminal_Checkout(t *testing.T) {
	sess := models.Session{UserID: "u-9", Role: models.RoleCashier}

	t.Run("empty cart never reaches the backend", func(t *testing.T) {
		h := setup(t)
		if _, err := h.term.Checkout(context.Background(), sess); !errors.Is(err, checkout.ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
		if len(h.backend.orders) != 0 {
			t.Error("order sent for an empty cart")
		}
	})

	t.Run("success empties the cart", func(t *testing.T) {
		h := setup(t)
		h.term.AddProduct(1)
		h.term.AddProduct(3)

		conf, err := h.term.Checkout(context.Background(), sess)
		if err != nil {
			t.Fatalf("Checkout failed: %v", err)
		}
		if conf.OrderNumber != "ORD-1" {
			t.Errorf("confirmation = %+v", conf)
		}
		if len(h.term.Cart().Lines) != 0 {
			t.Error("cart not cleared")
		}
		if got := testutil.ToFloat64(h.metrics.CartLines); got != 0 {
			t.Errorf("cart lines gauge = %v, want 0", got)
		}
	})

	t.Run("failure keeps the cart", func(t *testing.T) {
		h := setup(t)
		h.term.AddProduct(2)
		h.backend.orderErr = errors.New("down")

		if _, err := h.term.Checkout(context.Background(), sess); err == nil {
			t.Fatal("expected an error")
		}
		if c := h.term.Cart(); len(c.Lines) != 1 || c.Processing {
			t.Errorf("cart = %+v", c)
		}
	})
}

func TestTerminal_RefreshFailureKeepsCatalog(t *testing.T) {
	h := setup(t)
	h.backend.listErr = errors.New("catalog down")

	if err := h.term.RefreshCatalog(context.Background()); err == nil {
		t.Fatal("expected refresh to fail")
	}
	if got := len(h.term.Products()); got != 3 {
		t.Errorf("products = %d, want previous catalog kept", got)
	}
	if got := testutil.ToFloat64(h.metrics.CatalogRefreshFailed); got != 1 {
		t.Errorf("refresh failures = %v, want 1", got)
	}
}

func TestTerminal_CloseCancelsTimers(t *testing.T) {
	h := setup(t)
	h.term.SetQuery("teh")
	h.term.Keys("8991001")
	h.term.Close()

	h.clock.Advance(time.Second)
	if len(h.backend.lookups) != 0 {
		t.Error("scan fired after Close")
	}
	if _, q := h.term.Filter(); q != "" {
		t.Errorf("query %q applied after Close", q)
	}
	if h.clock.Pending() != 0 {
		t.Errorf("%d timers pending after Close", h.clock.Pending())
	}
}
