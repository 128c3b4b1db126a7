package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/mmynk/cashier/internal/cart"
	"github.com/mmynk/cashier/internal/metrics"
	"github.com/mmynk/cashier/internal/models"
	"github.com/mmynk/cashier/internal/notify"
)

var cashier = models.Session{UserID: "u-1", Username: "siti", Role: models.RoleCashier}

type fakeOrders struct {
	mu    sync.Mutex
	calls []models.OrderRequest
	keys  []string
	conf  *models.OrderConfirmation
	err   error
	// block, when set, holds CreateOrder until it is closed or ctx ends
	block   chan struct{}
	started chan struct{}
}

func (f *fakeOrders) CreateOrder(ctx context.Context, sess models.Session, key string, req models.OrderRequest) (*models.OrderConfirmation, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.keys = append(f.keys, key)
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.conf, f.err
}

func (f *fakeOrders) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeJournal struct {
	receipts []*models.Receipt
	err      error
}

func (j *fakeJournal) CreateReceipt(ctx context.Context, r *models.Receipt) error {
	j.receipts = append(j.receipts, r)
	return j.err
}

type messageErr struct{ msg string }

func (e *messageErr) Error() string           { return "api error: " + e.msg }
func (e *messageErr) OperatorMessage() string { return e.msg }

func product(id int64, name string, price int64) models.Product {
	return models.Product{ID: id, Name: name, Price: decimal.NewFromInt(price)}
}

func filledCart() *cart.Store {
	s := cart.NewStore(nil)
	s.AddItem(product(1, "Kopi", 18000))
	s.AddItem(product(1, "Kopi", 18000))
	s.AddItem(product(2, "Roti", 15000))
	return s
}

func lastNotice(t *testing.T, q *notify.Queue) notify.Notice {
	t.Helper()
	notices := q.Drain()
	if len(notices) == 0 {
		t.Fatal("expected a notice")
	}
	return notices[len(notices)-1]
}

func TestSubmit_EmptyCart(t *testing.T) {
	orders := &fakeOrders{}
	q := notify.NewQueue(10)
	m := metrics.NewRegistry()
	o := New(cart.NewStore(nil), orders, q, WithMetrics(m))

	_, err := o.Submit(context.Background(), cashier)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if orders.callCount() != 0 {
		t.Errorf("collaborator called %d times for an empty cart", orders.callCount())
	}
	n := lastNotice(t, q)
	if n.Kind != notify.KindError || n.Title != "Cart is empty" {
		t.Errorf("notice = %+v", n)
	}
	if o.Processing() {
		t.Error("still processing after empty cart")
	}
	if got := testutil.ToFloat64(m.Checkouts.WithLabelValues(metrics.OutcomeEmptyCart)); got != 1 {
		t.Errorf("empty cart outcome = %v, want 1", got)
	}
}

func TestSubmit_Success(t *testing.T) {
	conf := &models.OrderConfirmation{ID: 77, OrderNumber: "ORD-77", TotalAmount: decimal.NewFromInt(51000), Status: "COMPLETED"}
	orders := &fakeOrders{conf: conf}
	journal := &fakeJournal{}
	q := notify.NewQueue(10)
	store := filledCart()
	o := New(store, orders, q, WithJournal(journal))

	got, err := o.Submit(context.Background(), cashier)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got.OrderNumber != "ORD-77" {
		t.Errorf("order number = %q", got.OrderNumber)
	}

	req := orders.calls[0]
	want := []models.OrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}}
	if len(req.Items) != len(want) {
		t.Fatalf("items = %+v, want %+v", req.Items, want)
	}
	for i := range want {
		if req.Items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, req.Items[i], want[i])
		}
	}
	if orders.keys[0] == "" {
		t.Error("expected an idempotency key")
	}

	if store.Len() != 0 {
		t.Errorf("cart not cleared: %d lines", store.Len())
	}
	if n := lastNotice(t, q); n.Kind != notify.KindSuccess || n.Description != "Payment processed successfully" {
		t.Errorf("notice = %+v", n)
	}

	if len(journal.receipts) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(journal.receipts))
	}
	r := journal.receipts[0]
	if r.OrderID != 77 || r.CashierID != "u-1" || len(r.Lines) != 2 {
		t.Errorf("receipt = %+v", r)
	}
	if !r.Total.Equal(decimal.NewFromInt(51000)) {
		t.Errorf("receipt total = %s, want 51000", r.Total)
	}
}

func TestSubmit_SuccessClearsCartDespiteStalePrices(t *testing.T) {
	// the service prices the order itself; the register's snapshot may be stale
	conf := &models.OrderConfirmation{ID: 1, TotalAmount: decimal.NewFromInt(99999), Status: "COMPLETED"}
	store := filledCart()
	o := New(store, &fakeOrders{conf: conf}, nil)

	if _, err := o.Submit(context.Background(), cashier); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("cart not cleared")
	}
}

func TestSubmit_FailureLeavesCartUntouched(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		description string
	}{
		{
			name:        "collaborator message is shown",
			err:         &messageErr{msg: "Insufficient stock for Kopi"},
			description: "Insufficient stock for Kopi",
		},
		{
			name:        "plain error falls back to the generic message",
			err:         errors.New("connection reset"),
			description: "Failed to process payment",
		},
		{
			name:        "empty collaborator message falls back too",
			err:         &messageErr{},
			description: "Failed to process payment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := filledCart()
			before := store.Lines()
			journal := &fakeJournal{}
			q := notify.NewQueue(10)
			o := New(store, &fakeOrders{err: tt.err}, q, WithJournal(journal))

			_, err := o.Submit(context.Background(), cashier)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected wrapped %v, got %v", tt.err, err)
			}

			after := store.Lines()
			if len(after) != len(before) {
				t.Fatalf("lines changed: %+v -> %+v", before, after)
			}
			for i := range before {
				if before[i].ProductID != after[i].ProductID || before[i].Quantity != after[i].Quantity ||
					!before[i].UnitPrice.Equal(after[i].UnitPrice) {
					t.Errorf("line %d changed: %+v -> %+v", i, before[i], after[i])
				}
			}
			if n := lastNotice(t, q); n.Kind != notify.KindError || n.Description != tt.description {
				t.Errorf("notice = %+v, want description %q", n, tt.description)
			}
			if o.Processing() {
				t.Error("still processing after failure")
			}
			if len(journal.receipts) != 0 {
				t.Error("receipt written for a failed order")
			}
		})
	}
}

func TestSubmit_ConcurrentCallIsRejected(t *testing.T) {
	orders := &fakeOrders{
		conf:    &models.OrderConfirmation{ID: 5, Status: "COMPLETED"},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	m := metrics.NewRegistry()
	store := filledCart()
	o := New(store, orders, nil, WithMetrics(m))

	errc := make(chan error, 1)
	go func() {
		_, err := o.Submit(context.Background(), cashier)
		errc <- err
	}()
	<-orders.started

	if !o.Processing() {
		t.Error("expected processing while the order call is in flight")
	}
	if _, err := o.Submit(context.Background(), cashier); !errors.Is(err, ErrInProgress) {
		t.Fatalf("expected ErrInProgress, got %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("rejected call mutated the cart")
	}

	close(orders.block)
	if err := <-errc; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if orders.callCount() != 1 {
		t.Errorf("collaborator called %d times, want 1", orders.callCount())
	}
	if got := testutil.ToFloat64(m.Checkouts.WithLabelValues(metrics.OutcomeInProgress)); got != 1 {
		t.Errorf("in-progress outcome = %v, want 1", got)
	}
}

func TestSubmit_TimeoutRecovers(t *testing.T) {
	orders := &fakeOrders{
		conf:  &models.OrderConfirmation{ID: 9},
		block: make(chan struct{}),
	}
	defer close(orders.block)
	q := notify.NewQueue(10)
	m := metrics.NewRegistry()
	store := filledCart()
	o := New(store, orders, q, WithTimeout(20*time.Millisecond), WithMetrics(m))

	_, err := o.Submit(context.Background(), cashier)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if o.Processing() {
		t.Error("processing not reset after timeout")
	}
	if store.Len() != 2 {
		t.Errorf("cart changed after timeout")
	}
	if n := lastNotice(t, q); n.Description != "Payment timed out, please try again" {
		t.Errorf("notice = %+v", n)
	}
	if got := testutil.ToFloat64(m.Checkouts.WithLabelValues(metrics.OutcomeTimeout)); got != 1 {
		t.Errorf("timeout outcome = %v, want 1", got)
	}
}

func TestSubmit_JournalFailureDoesNotFailCheckout(t *testing.T) {
	store := filledCart()
	o := New(store, &fakeOrders{conf: &models.OrderConfirmation{ID: 3}}, nil,
		WithJournal(&fakeJournal{err: errors.New("disk full")}))

	if _, err := o.Submit(context.Background(), cashier); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if store.Len() != 0 {
		t.Error("cart not cleared")
	}
}

func TestSubmit_EachSubmissionGetsAFreshKey(t *testing.T) {
	orders := &fakeOrders{err: errors.New("down")}
	o := New(filledCart(), orders, nil)

	o.Submit(context.Background(), cashier)
	o.Submit(context.Background(), cashier)

	if len(orders.keys) != 2 || orders.keys[0] == orders.keys[1] {
		t.Errorf("keys = %v, want two distinct keys", orders.keys)
	}
}
