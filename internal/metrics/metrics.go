package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout outcomes, used as the "outcome" label.
const (
	OutcomeSuccess    = "success"
	OutcomeFailure    = "failure"
	OutcomeTimeout    = "timeout"
	OutcomeEmptyCart  = "empty_cart"
	OutcomeInProgress = "in_progress"
)

type Registry struct {
	reg *prometheus.Registry

	ItemsAdded prometheus.Counter
	CartLines  prometheus.Gauge

	Checkouts          *prometheus.CounterVec
	CheckoutLatencySec prometheus.Histogram

	// Scan disambiguation
	ScansCommitted  prometheus.Counter
	ScansDiscarded  prometheus.Counter
	ScansSuppressed prometheus.Counter
	ScanLookups     *prometheus.CounterVec

	CatalogRefreshes     prometheus.Counter
	CatalogRefreshFailed prometheus.Counter
	CatalogProducts      prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	itemsAdded := prometheus.NewCounter(prometheus.CounterOpts{Name: "cashier_cart_items_added_total"})
	cartLines := prometheus.NewGauge(prometheus.GaugeOpts{Name: "cashier_cart_lines"})

	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cashier_checkouts_total"}, []string{"outcome"})
	checkoutLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cashier_checkout_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	committed := prometheus.NewCounter(prometheus.CounterOpts{Name: "cashier_scans_committed_total"})
	discarded := prometheus.NewCounter(prometheus.CounterOpts{Name: "cashier_scans_discarded_total"})
	suppressed := prometheus.NewCounter(prometheus.CounterOpts{Name: "cashier_scans_suppressed_total"})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cashier_scan_lookups_total"}, []string{"result"})

	refreshes := prometheus.NewCounter(prometheus.CounterOpts{Name: "cashier_catalog_refreshes_total"})
	refreshFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "cashier_catalog_refresh_failures_total"})
	products := prometheus.NewGauge(prometheus.GaugeOpts{Name: "cashier_catalog_products"})

	r.MustRegister(itemsAdded, cartLines, checkouts, checkoutLatency, committed, discarded, suppressed, lookups,
		refreshes, refreshFailed, products)
	return &Registry{
		reg:                  r,
		ItemsAdded:           itemsAdded,
		CartLines:            cartLines,
		Checkouts:            checkouts,
		CheckoutLatencySec:   checkoutLatency,
		ScansCommitted:       committed,
		ScansDiscarded:       discarded,
		ScansSuppressed:      suppressed,
		ScanLookups:          lookups,
		CatalogRefreshes:     refreshes,
		CatalogRefreshFailed: refreshFailed,
		CatalogProducts:      products,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
