package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// CreateReceipt persists a new receipt and its items.
func (s *PostgresStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}
	if receipt.Currency == "" {
		receipt.Currency = "$"
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO receipts (id, user_id, store, date, tax, tip, discount, total, currency, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			receipt.ID, receipt.UserID, receipt.Store, receipt.Date,
			receipt.Tax, receipt.Tip, receipt.Discount, receipt.Total,
			receipt.Currency, receipt.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt: %w", err)
		}

		batch := &pgx.Batch{}
		for i, item := range receipt.Items {
			batch.Queue(
				"INSERT INTO receipt_items (receipt_id, position, name, price) VALUES ($1, $2, $3, $4)",
				receipt.ID, i, item.Name, item.Price,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert items: %w", err)
		}
		return nil
	})
}

// GetReceipt retrieves a receipt by ID, with items in receipt order.
func (s *PostgresStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, store, date, tax, tip, discount, total, currency, created_at
		 FROM receipts WHERE id = $1`,
		receiptID,
	).Scan(&receipt.ID, &receipt.UserID, &receipt.Store, &receipt.Date,
		&receipt.Tax, &receipt.Tip, &receipt.Discount, &receipt.Total,
		&receipt.Currency, &receipt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		"SELECT name, price FROM receipt_items WHERE receipt_id = $1 ORDER BY position",
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	receipt.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Item, error) {
		var item models.Item
		err := row.Scan(&item.Name, &item.Price)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan items: %w", err)
	}

	return receipt, nil
}
