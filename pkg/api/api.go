// Package api defines the messages of the cashier.v1 RPC services.
//
// Messages are plain Go structs carried as JSON by the codec in
// package apiconnect. Money is an exact decimal encoded as a string.
package api

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"categoryId"`
	Barcode     string          `json:"barcode,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	IsActive    bool            `json:"isActive"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CartLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Cart struct {
	Lines      []CartLine      `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	Processing bool            `json:"processing"`
}

type Order struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
}

type Notice struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	At          int64  `json:"at"`
}

type Receipt struct {
	ID          string          `json:"id"`
	OrderID     int64           `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Status      string          `json:"status"`
	CashierID   string          `json:"cashierId"`
	Lines       []CartLine      `json:"lines"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   int64           `json:"createdAt"`
}

type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	CreatedAt   int64  `json:"createdAt"`
}

// RegisterService

type RefreshCatalogRequest struct{}

type RefreshCatalogResponse struct {
	Products   int `json:"products"`
	Categories int `json:"categories"`
}

type ListProductsRequest struct{}

type ListProductsResponse struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
	CategoryID *int64     `json:"categoryId,omitempty"`
	Query      string     `json:"query"`
}

// SetFilterRequest changes the product filter. A nil Query leaves the
// search text alone; ClearCategory selects all categories. Flush applies
// the search text without waiting for the debounce.
type SetFilterRequest struct {
	CategoryID    *int64  `json:"categoryId,omitempty"`
	ClearCategory bool    `json:"clearCategory,omitempty"`
	Query         *string `json:"query,omitempty"`
	Flush         bool    `json:"flush,omitempty"`
}

type AddItemRequest struct {
	ProductID int64 `json:"productId"`
}

type AdjustQuantityRequest struct {
	ProductID int64 `json:"productId"`
	Delta     int   `json:"delta"`
}

type RemoveItemRequest struct {
	ProductID int64 `json:"productId"`
}

type GetCartRequest struct{}

type CartResponse struct {
	Cart Cart `json:"cart"`
}

// KeyRequest carries keystrokes from the scanner-capable input field, one
// rune per keystroke, in arrival order.
type KeyRequest struct {
	Text string `json:"text"`
}

// KeyResponse reports the scanner field after the keystrokes. LastKeyAt is
// Unix milliseconds, zero before the first keystroke.
type KeyResponse struct {
	State     string `json:"state"`
	Buffered  int    `json:"buffered"`
	LastKeyAt int64  `json:"lastKeyAt"`
}

type ScanBarcodeRequest struct {
	Barcode string `json:"barcode"`
}

type ScanBarcodeResponse struct {
	Found   bool     `json:"found"`
	Product *Product `json:"product,omitempty"`
	Cart    Cart     `json:"cart"`
}

type CheckoutRequest struct{}

type CheckoutResponse struct {
	Order Order `json:"order"`
	Cart  Cart  `json:"cart"`
}

type DrainNoticesRequest struct{}

type DrainNoticesResponse struct {
	Notices []Notice `json:"notices"`
}

type ListReceiptsRequest struct {
	Status string `json:"status,omitempty"`
	Search string `json:"search,omitempty"`
}

type ListReceiptsResponse struct {
	Receipts []Receipt `json:"receipts"`
}

// AuthService

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type CreateOperatorRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

type CreateOperatorResponse struct {
	User User `json:"user"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}
