// Package cart holds the in-memory cart of the register.
package cart

import (
	"fmt"
	"math"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mmynk/cashier/internal/models"
	"github.com/mmynk/cashier/internal/notify"
)

// Store maps product IDs to cart lines.
//
// Invariants: at most one line per product, every line has Quantity >= 1,
// and Total always equals the sum of Quantity × UnitPrice over the lines.
// All methods are safe for concurrent use; each mutation runs in a single
// critical section.
type Store struct {
	notifier notify.Notifier

	mu    sync.RWMutex
	lines []models.CartLine
	index map[int64]int
}

// NewStore creates an empty cart. Notices for added items go to notifier.
func NewStore(notifier notify.Notifier) *Store {
	return &Store{
		notifier: notifier,
		index:    make(map[int64]int),
	}
}

// AddItem adds one unit of p. A product already in the cart has its
// quantity incremented; otherwise a new line snapshots p's name and price.
func (s *Store) AddItem(p models.Product) {
	s.mu.Lock()
	if i, ok := s.index[p.ID]; ok {
		if s.lines[i].Quantity < math.MaxInt {
			s.lines[i].Quantity++
		}
	} else {
		s.index[p.ID] = len(s.lines)
		s.lines = append(s.lines, models.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  1,
		})
	}
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Notify(notify.Success("Added to cart", fmt.Sprintf("%s added to cart", p.Name)))
	}
}

// AdjustQuantity adds delta to the quantity of productID, clamping at zero
// and saturating at math.MaxInt. A line that reaches zero is removed.
// Adjusting a product that is not in the cart is a no-op. It reports
// whether the cart changed.
func (s *Store) AdjustQuantity(productID int64, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok || delta == 0 {
		return false
	}
	q := s.lines[i].Quantity
	if delta > math.MaxInt-q {
		q = math.MaxInt
	} else {
		q += delta
	}
	if q <= 0 {
		s.removeLocked(i)
		return true
	}
	s.lines[i].Quantity = q
	return true
}

// RemoveItem drops the line for productID entirely.
func (s *Store) RemoveItem(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return false
	}
	s.removeLocked(i)
	return true
}

// Total returns the sum of all line subtotals.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.SumSubtotals(s.lines)
}

// Lines returns a copy of the cart lines in the order they were first added.
func (s *Store) Lines() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Quantity returns the quantity of productID, or 0 if it is not in the cart.
func (s *Store) Quantity(productID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.index[productID]; ok {
		return s.lines[i].Quantity
	}
	return 0
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// Clear empties the cart. Only called after a confirmed checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.index = make(map[int64]int)
}

func (s *Store) removeLocked(i int) {
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.index = make(map[int64]int, len(s.lines))
	for j, l := range s.lines {
		s.index[l.ProductID] = j
	}
}
