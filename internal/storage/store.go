// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/cashier/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for the register's local records: the
// receipt journal and operator accounts.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateReceipt persists a receipt with its lines.
	// The receipt.ID and CreatedAt fields are populated if empty.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt retrieves a receipt by its ID.
	// Returns ErrNotFound if the receipt does not exist.
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)

	// ListReceipts returns receipts matching filter, newest first.
	ListReceipts(ctx context.Context, filter models.ReceiptFilter) ([]*models.Receipt, error)

	// CreateUser persists a new operator account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername and GetUserByID return ErrNotFound for unknown users.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CountUsers returns the number of operator accounts.
	CountUsers(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
