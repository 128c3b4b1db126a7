package models

import "github.com/shopspring/decimal"

// CartLine is one row of the cart.
//
// Name and UnitPrice are captured when the product is first added; later
// catalog price changes do not alter an existing line.
type CartLine struct {
	// ProductID identifies the product. Unique within a cart.
	ProductID int64

	// Name is the product name at add time.
	Name string

	// UnitPrice is the product price at add time.
	UnitPrice decimal.Decimal

	// Quantity is always >= 1 for a line present in the cart.
	Quantity int
}

// Subtotal returns Quantity × UnitPrice.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SumSubtotals returns the sum of the lines' subtotals.
func SumSubtotals(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
