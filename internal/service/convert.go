package service

import (
	"github.com/mmynk/cashier/internal/models"
	"github.com/mmynk/cashier/internal/register"
	"github.com/mmynk/cashier/pkg/api"
)

func productToAPI(p models.Product) api.Product {
	out := api.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		Barcode:     p.Barcode,
		IsActive:    p.IsActive,
	}
	if p.ImageURL != nil {
		out.ImageURL = *p.ImageURL
	}
	return out
}

func cartToAPI(c register.CartSummary) api.Cart {
	out := api.Cart{
		Lines:      make([]api.CartLine, len(c.Lines)),
		Total:      c.Total,
		Processing: c.Processing,
	}
	for i, l := range c.Lines {
		out.Lines[i] = api.CartLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		}
	}
	return out
}

func receiptToAPI(r *models.Receipt) api.Receipt {
	out := api.Receipt{
		ID:          r.ID,
		OrderID:     r.OrderID,
		OrderNumber: r.OrderNumber,
		Status:      r.Status,
		CashierID:   r.CashierID,
		Lines:       make([]api.CartLine, len(r.Lines)),
		Total:       r.Total,
		CreatedAt:   r.CreatedAt,
	}
	for i, l := range r.Lines {
		out.Lines[i] = api.CartLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		}
	}
	return out
}

func userToAPI(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}
