// Package catalog maintains the register's copy of the product catalog and
// the filtered view shown to the cashier.
package catalog

import (
	"strings"

	"github.com/mmynk/cashier/internal/models"
)

// Filter returns the products in category (nil means all categories) whose
// name, description or barcode contains query, case-insensitively. Source
// order is preserved. An empty query with a nil category returns a copy of
// the full list.
func Filter(products []models.Product, category *int64, query string) []models.Product {
	q := strings.ToLower(query)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != nil && p.CategoryID != *category {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p models.Product, lowered string) bool {
	return strings.Contains(strings.ToLower(p.Name), lowered) ||
		strings.Contains(strings.ToLower(p.Description), lowered) ||
		strings.Contains(strings.ToLower(p.Barcode), lowered)
}
