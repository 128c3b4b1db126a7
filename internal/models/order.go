package models

import "github.com/shopspring/decimal"

// OrderItem is one {productId, quantity} pair sent to the order service.
type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest is the body of an order creation call.
type OrderRequest struct {
	Items []OrderItem `json:"items"`
}

// OrderConfirmation is the order service's reply to a successful creation.
type OrderConfirmation struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
}

// NewOrderRequest maps cart lines to order items, preserving line order.
func NewOrderRequest(lines []CartLine) OrderRequest {
	items := make([]OrderItem, len(lines))
	for i, l := range lines {
		items[i] = OrderItem{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return OrderRequest{Items: items}
}
