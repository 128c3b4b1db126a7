// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/cashier/internal/models"
	"github.com/mmynk/cashier/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateReceipt persists a receipt and its lines in one transaction.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (id, order_id, order_number, status, cashier_id, total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID, receipt.OrderID, receipt.OrderNumber, receipt.Status,
		receipt.CashierID, receipt.Total.String(), receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i, line := range receipt.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO receipt_lines (receipt_id, position, product_id, name, unit_price, quantity)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			receipt.ID, i, line.ProductID, line.Name, line.UnitPrice.String(), line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetReceipt retrieves a receipt by ID, including its lines.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, order_id, order_number, status, cashier_id, total, created_at
		 FROM receipts WHERE id = ?`,
		receiptID,
	).Scan(&receipt.ID, &receipt.OrderID, &receipt.OrderNumber, &receipt.Status,
		&receipt.CashierID, &receipt.Total, &receipt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	if receipt.Lines, err = s.receiptLines(ctx, receipt.ID); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListReceipts returns receipts matching filter, newest first. Search
// matches the order number or any line name, case-insensitively.
func (s *SQLiteStore) ListReceipts(ctx context.Context, filter models.ReceiptFilter) ([]*models.Receipt, error) {
	query := `SELECT id, order_id, order_number, status, cashier_id, total, created_at FROM receipts`
	var where []string
	var args []any

	if status := strings.TrimSpace(filter.Status); status != "" && !strings.EqualFold(status, "all") {
		where = append(where, "status = ?")
		args = append(args, status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		where = append(where, `(order_number LIKE ? ESCAPE '\' OR EXISTS (
			SELECT 1 FROM receipt_lines rl WHERE rl.receipt_id = receipts.id AND rl.name LIKE ? ESCAPE '\'))`)
		args = append(args, pattern, pattern)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}

	var receipts []*models.Receipt
	for rows.Next() {
		r := &models.Receipt{}
		if err := rows.Scan(&r.ID, &r.OrderID, &r.OrderNumber, &r.Status,
			&r.CashierID, &r.Total, &r.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}

	// lines are loaded after the cursor is closed so the single connection is free
	for _, r := range receipts {
		if r.Lines, err = s.receiptLines(ctx, r.ID); err != nil {
			return nil, err
		}
	}
	return receipts, nil
}

func (s *SQLiteStore) receiptLines(ctx context.Context, receiptID string) ([]models.ReceiptLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, name, unit_price, quantity FROM receipt_lines
		 WHERE receipt_id = ? ORDER BY position`,
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt lines: %w", err)
	}
	defer rows.Close()

	var lines []models.ReceiptLine
	for rows.Next() {
		var line models.ReceiptLine
		if err := rows.Scan(&line.ProductID, &line.Name, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan receipt line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipt lines: %w", err)
	}
	return lines, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
