package catalog

import (
	"sync"
	"time"

	"github.com/mmynk/cashier/internal/clock"
	"github.com/mmynk/cashier/internal/models"
)

// View is the cashier's filtered window onto the catalog.
//
// Category changes apply immediately. Query changes are debounced: the
// visible list is recomputed once typing has paused for the debounce
// interval. Every recomputation starts from the full catalog.
type View struct {
	debounce *clock.Debouncer

	mu         sync.RWMutex
	products   []models.Product
	categories []models.Category
	byID       map[int64]int
	category   *int64
	query      string // applied
	pending    string // typed, not yet applied
	visible    []models.Product
}

// NewView returns an empty view. A zero debounce applies queries immediately.
func NewView(clk clock.Clock, debounce time.Duration) *View {
	return &View{
		debounce: clock.NewDebouncer(clk, debounce),
		byID:     make(map[int64]int),
	}
}

// SetCatalog replaces the full product and category lists and recomputes
// the visible products with the current filter.
func (v *View) SetCatalog(snap Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.products = append([]models.Product(nil), snap.Products...)
	v.categories = append([]models.Category(nil), snap.Categories...)
	v.byID = make(map[int64]int, len(v.products))
	for i, p := range v.products {
		if _, dup := v.byID[p.ID]; !dup {
			v.byID[p.ID] = i
		}
	}
	v.recomputeLocked()
}

// SetCategory selects a category; nil selects all categories.
func (v *View) SetCategory(id *int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if id != nil {
		c := *id
		id = &c
	}
	v.category = id
	v.recomputeLocked()
}

// SetQuery records typed search text. The visible list follows once the
// debounce interval passes without another SetQuery.
func (v *View) SetQuery(text string) {
	v.mu.Lock()
	v.pending = text
	v.mu.Unlock()

	if v.debounce.Wait() <= 0 {
		v.applyPending()
		return
	}
	v.debounce.Trigger(v.applyPending)
}

// Flush applies a pending query immediately.
func (v *View) Flush() {
	v.debounce.Cancel()
	v.applyPending()
}

// Visible returns the filtered products.
func (v *View) Visible() []models.Product {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Product(nil), v.visible...)
}

// Filter returns the applied category and query.
func (v *View) Filter() (category *int64, query string) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.category != nil {
		c := *v.category
		category = &c
	}
	return category, v.query
}

// Categories returns the category list.
func (v *View) Categories() []models.Category {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]models.Category(nil), v.categories...)
}

// Product looks up a product by ID in the full catalog.
func (v *View) Product(id int64) (models.Product, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	i, ok := v.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return v.products[i], true
}

// Size returns the number of products in the full catalog.
func (v *View) Size() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.products)
}

// Close cancels a pending query update.
func (v *View) Close() {
	v.debounce.Close()
}

func (v *View) applyPending() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = v.pending
	v.recomputeLocked()
}

func (v *View) recomputeLocked() {
	v.visible = Filter(v.products, v.category, v.query)
}
