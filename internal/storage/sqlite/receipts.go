package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// CreateReceipt persists a new receipt and its items.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}
	if receipt.Currency == "" {
		receipt.Currency = "$"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (id, user_id, store, date, tax, tip, discount, total, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID, receipt.UserID, receipt.Store, receipt.Date,
		receipt.Tax, receipt.Tip, receipt.Discount, receipt.Total,
		receipt.Currency, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i, item := range receipt.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO receipt_items (receipt_id, position, name, price) VALUES (?, ?, ?, ?)",
			receipt.ID, i, item.Name, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetReceipt retrieves a receipt by ID, with items in receipt order.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, store, date, tax, tip, discount, total, currency, created_at
		 FROM receipts WHERE id = ?`,
		receiptID,
	).Scan(&receipt.ID, &receipt.UserID, &receipt.Store, &receipt.Date,
		&receipt.Tax, &receipt.Tip, &receipt.Discount, &receipt.Total,
		&receipt.Currency, &receipt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, price FROM receipt_items WHERE receipt_id = ? ORDER BY position",
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.Name, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		receipt.Items = append(receipt.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return receipt, nil
}
