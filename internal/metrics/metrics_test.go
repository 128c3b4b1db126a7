package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.ItemsAdded.Add(3)
	r.Checkouts.WithLabelValues(OutcomeSuccess).Inc()
	r.ScanLookups.WithLabelValues("not_found").Inc()

	if got := testutil.ToFloat64(r.ItemsAdded); got != 3 {
		t.Errorf("expected 3 items added, got %v", got)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		"cashier_cart_items_added_total 3",
		`cashier_checkouts_total{outcome="success"} 1`,
		`cashier_scan_lookups_total{result="not_found"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNewRegistry_Independent(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	a.ScansCommitted.Inc()

	if testutil.ToFloat64(b.ScansCommitted) != 0 {
		t.Error("registries share counters")
	}
}
