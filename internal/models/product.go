package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrProductNotFound signals that a barcode or id is not registered in the
// catalog. For barcode scans it means "new product", not a failure.
var ErrProductNotFound = errors.New("product not found")

// Product represents a sellable catalog item.
// Products are owned by the catalog service; the register never mutates them.
type Product struct {
	// ID is the catalog identifier of the product.
	ID int64 `json:"id"`

	// Name is the display name shown on product cards and cart lines.
	Name string `json:"name"`

	// Description is free text, searched by the catalog filter.
	Description string `json:"description"`

	// Price is the current unit price (non-negative).
	Price decimal.Decimal `json:"price"`

	// CategoryID references the Category the product belongs to.
	CategoryID int64 `json:"categoryId"`

	// Barcode is the code printed on the product.
	// Not guaranteed unique by the catalog service.
	Barcode string `json:"barcode"`

	// ImageURL is an optional picture reference.
	ImageURL *string `json:"imageUrl"`

	// IsActive mirrors the catalog's active flag.
	IsActive bool `json:"isActive"`
}

// Category is a flat grouping of products. Categories do not nest.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
