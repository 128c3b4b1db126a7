// Package register wires the cart engine together for one register: the
// catalog view, the cart, the scanner input and checkout.
package register

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/cashier/internal/cart"
	"github.com/mmynk/cashier/internal/catalog"
	"github.com/mmynk/cashier/internal/checkout"
	"github.com/mmynk/cashier/internal/clock"
	"github.com/mmynk/cashier/internal/metrics"
	"github.com/mmynk/cashier/internal/models"
	"github.com/mmynk/cashier/internal/notify"
	"github.com/mmynk/cashier/internal/scan"
)

// Lookup results, used as the "result" label of scan lookups.
const (
	lookupFound    = "found"
	lookupNotFound = "not_found"
	lookupError    = "error"
)

// Backend is everything the register needs from the product and order service.
type Backend interface {
	catalog.Source
	checkout.OrderCreator
	GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error)
}

// Config tunes a Terminal. Zero fields take the defaults; a negative
// SearchDebounce applies search text immediately and a negative
// CheckoutTimeout disables the checkout bound.
type Config struct {
	Scan            scan.Policy
	SearchDebounce  time.Duration
	CheckoutTimeout time.Duration
	LookupTimeout   time.Duration

	Clock    clock.Clock
	Notifier notify.Notifier
	Metrics  *metrics.Registry
	Journal  checkout.Journal
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Scan:            scan.DefaultPolicy(),
		SearchDebounce:  300 * time.Millisecond,
		CheckoutTimeout: checkout.DefaultTimeout,
		LookupTimeout:   5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Scan.QuietPeriod <= 0 {
		c.Scan.QuietPeriod = d.Scan.QuietPeriod
	}
	if c.Scan.MinLength <= 0 {
		c.Scan.MinLength = d.Scan.MinLength
	}
	switch {
	case c.SearchDebounce == 0:
		c.SearchDebounce = d.SearchDebounce
	case c.SearchDebounce < 0:
		c.SearchDebounce = 0
	}
	if c.CheckoutTimeout == 0 {
		c.CheckoutTimeout = d.CheckoutTimeout
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = d.LookupTimeout
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.Notifier == nil {
		c.Notifier = notify.NewLogNotifier(nil)
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewRegistry()
	}
	return c
}

// CartSummary is a consistent read of the cart.
type CartSummary struct {
	Lines      []models.CartLine
	Total      decimal.Decimal
	Processing bool
}

// Terminal is one register.
type Terminal struct {
	cfg     Config
	backend Backend

	view     *catalog.View
	cart     *cart.Store
	scanner  *scan.Disambiguator
	checkout *checkout.Orchestrator
}

// New returns a Terminal with an empty catalog and cart. Call
// RefreshCatalog to load products.
func New(backend Backend, cfg Config) *Terminal {
	cfg = cfg.withDefaults()
	t := &Terminal{
		cfg:     cfg,
		backend: backend,
		view:    catalog.NewView(cfg.Clock, cfg.SearchDebounce),
		cart:    cart.NewStore(cfg.Notifier),
	}

	opts := []checkout.Option{
		checkout.WithTimeout(cfg.CheckoutTimeout),
		checkout.WithMetrics(cfg.Metrics),
	}
	if cfg.Journal != nil {
		opts = append(opts, checkout.WithJournal(cfg.Journal))
	}
	t.checkout = checkout.New(t.cart, backend, cfg.Notifier, opts...)
	t.scanner = scan.New(cfg.Scan, cfg.Clock, t.submitScan, cfg.Metrics)
	return t
}

// RefreshCatalog reloads products and categories. On failure the previous
// catalog stays in place.
func (t *Terminal) RefreshCatalog(ctx context.Context) error {
	snap, err := catalog.Load(ctx, t.backend)
	if err != nil {
		t.cfg.Metrics.CatalogRefreshFailed.Inc()
		t.cfg.Notifier.Notify(notify.Error("Error", "Failed to load products and categories"))
		return err
	}
	t.view.SetCatalog(snap)
	t.cfg.Metrics.CatalogRefreshes.Inc()
	t.cfg.Metrics.CatalogProducts.Set(float64(len(snap.Products)))
	slog.Info("Catalog loaded", "products", len(snap.Products), "categories", len(snap.Categories))
	return nil
}

// RefreshEvery reloads the catalog every interval until ctx is done.
func (t *Terminal) RefreshEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.RefreshCatalog(ctx); err != nil {
				slog.Warn("Catalog refresh failed", "error", err)
			}
		}
	}
}

// SetCategory selects a category filter; nil shows all categories.
func (t *Terminal) SetCategory(id *int64) { t.view.SetCategory(id) }

// SetQuery updates the search text. The product list follows after the
// search debounce.
func (t *Terminal) SetQuery(text string) { t.view.SetQuery(text) }

// FlushQuery applies pending search text now.
func (t *Terminal) FlushQuery() { t.view.Flush() }

// Products returns the filtered product list.
func (t *Terminal) Products() []models.Product { return t.view.Visible() }

// CatalogSize returns the number of products in the loaded catalog,
// ignoring the filter.
func (t *Terminal) CatalogSize() int { return t.view.Size() }

// Categories returns the category list.
func (t *Terminal) Categories() []models.Category { return t.view.Categories() }

// Filter returns the applied category and search text.
func (t *Terminal) Filter() (*int64, string) { return t.view.Filter() }

// AddProduct adds one unit of a catalog product to the cart.
func (t *Terminal) AddProduct(id int64) (models.Product, error) {
	p, ok := t.view.Product(id)
	if !ok {
		return models.Product{}, fmt.Errorf("product %d: %w", id, models.ErrProductNotFound)
	}
	t.addToCart(p)
	return p, nil
}

// AdjustQuantity changes a line's quantity by delta; see cart.Store.
func (t *Terminal) AdjustQuantity(productID int64, delta int) bool {
	changed := t.cart.AdjustQuantity(productID, delta)
	t.cfg.Metrics.CartLines.Set(float64(t.cart.Len()))
	return changed
}

// RemoveItem drops a line from the cart.
func (t *Terminal) RemoveItem(productID int64) bool {
	removed := t.cart.RemoveItem(productID)
	t.cfg.Metrics.CartLines.Set(float64(t.cart.Len()))
	return removed
}

// Cart returns the cart lines, total and checkout state.
func (t *Terminal) Cart() CartSummary {
	lines := t.cart.Lines()
	return CartSummary{
		Lines:      lines,
		Total:      models.SumSubtotals(lines),
		Processing: t.checkout.Processing(),
	}
}

// Key feeds one keystroke from the scanner-capable input field.
func (t *Terminal) Key(r rune) { t.scanner.Key(r) }

// Keys feeds every rune of s as its own keystroke.
func (t *Terminal) Keys(s string) { t.scanner.Type(s) }

// ScanState reports the scanner input's state.
func (t *Terminal) ScanState() scan.State { return t.scanner.State() }

// ScanBuffered returns how many keystrokes await a scan decision.
func (t *Terminal) ScanBuffered() int { return t.scanner.Buffered() }

// ScanLastKey returns the time of the most recent scanner-field keystroke.
func (t *Terminal) ScanLastKey() time.Time { return t.scanner.LastKey() }

// ScanBarcode looks a barcode up and adds the product to the cart. An
// unknown barcode returns models.ErrProductNotFound after a "New Product"
// notice; it is not reported as a failure.
func (t *Terminal) ScanBarcode(ctx context.Context, code string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.LookupTimeout)
	defer cancel()

	p, err := t.backend.GetProductByBarcode(ctx, code)
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		t.cfg.Metrics.ScanLookups.WithLabelValues(lookupNotFound).Inc()
		t.cfg.Notifier.Notify(notify.Info("New Product", "Barcode available for new product registration"))
		return nil, err
	case err != nil:
		t.cfg.Metrics.ScanLookups.WithLabelValues(lookupError).Inc()
		t.cfg.Notifier.Notify(notify.Error("Error", "Failed to process barcode"))
		return nil, err
	}

	t.cfg.Metrics.ScanLookups.WithLabelValues(lookupFound).Inc()
	t.addToCart(*p)
	return p, nil
}

// Checkout submits the cart on behalf of sess.
func (t *Terminal) Checkout(ctx context.Context, sess models.Session) (*models.OrderConfirmation, error) {
	conf, err := t.checkout.Submit(ctx, sess)
	t.cfg.Metrics.CartLines.Set(float64(t.cart.Len()))
	return conf, err
}

// Close cancels pending search and scan timers.
func (t *Terminal) Close() {
	t.view.Close()
	t.scanner.Close()
}

func (t *Terminal) addToCart(p models.Product) {
	t.cart.AddItem(p)
	t.cfg.Metrics.ItemsAdded.Inc()
	t.cfg.Metrics.CartLines.Set(float64(t.cart.Len()))
}

func (t *Terminal) submitScan(ctx context.Context, code string) error {
	_, err := t.ScanBarcode(ctx, code)
	if errors.Is(err, models.ErrProductNotFound) {
		return nil
	}
	return err
}
