package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is the register's local record of a confirmed sale.
// It is written after the order service confirms an order.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string

	// OrderID and OrderNumber come from the order confirmation.
	OrderID     int64
	OrderNumber string

	// Status is the order status reported at confirmation (e.g. "COMPLETED").
	Status string

	// CashierID is the user ID of the operator who rang up the sale.
	CashierID string

	// Lines are the cart lines at checkout time, prices as snapshotted.
	Lines []ReceiptLine

	// Total is the register-side sum of the line subtotals.
	Total decimal.Decimal

	// CreatedAt is the Unix timestamp when the receipt was recorded.
	CreatedAt int64
}

// ReceiptLine is one cart line frozen onto a receipt.
type ReceiptLine struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Subtotal returns Quantity × UnitPrice.
func (l ReceiptLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ReceiptFilter narrows a receipt listing.
type ReceiptFilter struct {
	// Status matches exactly. Empty or "all" matches every status.
	Status string

	// Search matches case-insensitively against the order number or any line name.
	Search string
}

// NewReceipt builds a receipt with a fresh ID from a confirmation and the
// checked-out lines.
func NewReceipt(conf OrderConfirmation, cashierID string, lines []CartLine) *Receipt {
	r := &Receipt{
		ID:          uuid.New().String(),
		OrderID:     conf.ID,
		OrderNumber: conf.OrderNumber,
		Status:      conf.Status,
		CashierID:   cashierID,
		Lines:       make([]ReceiptLine, len(lines)),
		Total:       SumSubtotals(lines),
		CreatedAt:   time.Now().Unix(),
	}
	for i, l := range lines {
		r.Lines[i] = ReceiptLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		}
	}
	return r
}
