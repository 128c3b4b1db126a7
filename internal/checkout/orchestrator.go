// Package checkout turns the cart into an order.
//
// An Orchestrator allows at most one submission at a time. The cart is
// cleared only after the order service confirms the order; on any failure
// the cart is left exactly as it was.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/cashier/internal/cart"
	"github.com/mmynk/cashier/internal/metrics"
	"github.com/mmynk/cashier/internal/models"
	"github.com/mmynk/cashier/internal/notify"
)

// DefaultTimeout bounds one order submission.
const DefaultTimeout = 15 * time.Second

var (
	// ErrEmptyCart is returned when there is nothing to submit.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInProgress is returned while another submission is running.
	ErrInProgress = errors.New("checkout already in progress")
)

// OrderCreator is the order collaborator. idempotencyKey is unique per
// submission so a retried request cannot create a second order.
type OrderCreator interface {
	CreateOrder(ctx context.Context, sess models.Session, idempotencyKey string, req models.OrderRequest) (*models.OrderConfirmation, error)
}

// Journal records receipts for confirmed orders.
type Journal interface {
	CreateReceipt(ctx context.Context, r *models.Receipt) error
}

// OperatorMessager is implemented by collaborator errors whose message can
// be shown to the cashier as is.
type OperatorMessager interface {
	OperatorMessage() string
}

// Orchestrator submits the cart.
type Orchestrator struct {
	cart     *cart.Store
	orders   OrderCreator
	journal  Journal
	notifier notify.Notifier
	metrics  *metrics.Registry
	timeout  time.Duration

	processing atomic.Bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout bounds each order call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithJournal writes a receipt after every confirmed order.
func WithJournal(j Journal) Option {
	return func(o *Orchestrator) { o.journal = j }
}

// WithMetrics records outcomes and latency into m.
func WithMetrics(m *metrics.Registry) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// New returns an Orchestrator over store that submits to orders.
func New(store *cart.Store, orders OrderCreator, notifier notify.Notifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cart:     store,
		orders:   orders,
		notifier: notifier,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics == nil {
		o.metrics = metrics.NewRegistry()
	}
	if o.notifier == nil {
		o.notifier = notify.Multi{}
	}
	return o
}

// Processing reports whether a submission is in flight.
func (o *Orchestrator) Processing() bool {
	return o.processing.Load()
}

type result struct {
	conf *models.OrderConfirmation
	err  error
}

// Submit sends the cart to the order service on behalf of sess.
//
// It returns ErrEmptyCart without calling the collaborator when the cart has
// no lines, and ErrInProgress without side effects while another submission
// is running. A call that outlives the timeout fails with
// context.DeadlineExceeded and processing is reset even if the collaborator
// never answers.
func (o *Orchestrator) Submit(ctx context.Context, sess models.Session) (*models.OrderConfirmation, error) {
	if !o.processing.CompareAndSwap(false, true) {
		o.metrics.Checkouts.WithLabelValues(metrics.OutcomeInProgress).Inc()
		return nil, ErrInProgress
	}
	defer o.processing.Store(false)

	lines := o.cart.Lines()
	if len(lines) == 0 {
		o.metrics.Checkouts.WithLabelValues(metrics.OutcomeEmptyCart).Inc()
		o.notifier.Notify(notify.Error("Cart is empty", "Please add items to cart before payment"))
		return nil, ErrEmptyCart
	}

	key := uuid.New().String()
	req := models.NewOrderRequest(lines)
	slog.Info("Submitting order", "idempotency_key", key, "lines", len(lines), "user_id", sess.UserID)

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan result, 1)
	go func() {
		conf, err := o.orders.CreateOrder(ctx, sess, key, req)
		done <- result{conf: conf, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res = result{err: ctx.Err()}
		go func() {
			if late := <-done; late.err == nil && late.conf != nil {
				slog.Warn("Order confirmed after checkout gave up", "idempotency_key", key, "order_id", late.conf.ID)
			}
		}()
	}
	o.metrics.CheckoutLatencySec.Observe(time.Since(start).Seconds())

	if res.err != nil {
		return nil, o.fail(key, res.err)
	}
	if res.conf == nil {
		return nil, o.fail(key, errors.New("order service returned no confirmation"))
	}

	o.cart.Clear()
	o.metrics.Checkouts.WithLabelValues(metrics.OutcomeSuccess).Inc()
	slog.Info("Checkout completed",
		"order_id", res.conf.ID,
		"order_number", res.conf.OrderNumber,
		"status", res.conf.Status,
	)
	o.notifier.Notify(notify.Success("Success", "Payment processed successfully"))

	if o.journal != nil {
		receipt := models.NewReceipt(*res.conf, sess.UserID, lines)
		// the order already exists upstream, so the journal must not depend on the caller's deadline
		if err := o.journal.CreateReceipt(context.WithoutCancel(ctx), receipt); err != nil {
			slog.Error("Failed to record receipt", "order_id", res.conf.ID, "error", err)
		}
	}
	return res.conf, nil
}

func (o *Orchestrator) fail(key string, err error) error {
	description := "Failed to process payment"
	outcome := metrics.OutcomeFailure
	var msg OperatorMessager
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		description = "Payment timed out, please try again"
		outcome = metrics.OutcomeTimeout
	case errors.As(err, &msg) && msg.OperatorMessage() != "":
		description = msg.OperatorMessage()
	}

	o.metrics.Checkouts.WithLabelValues(outcome).Inc()
	slog.Warn("Checkout failed", "idempotency_key", key, "error", err)
	o.notifier.Notify(notify.Error("Error", description))
	return fmt.Errorf("failed to create order: %w", err)
}
