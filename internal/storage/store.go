// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/receiptsplit/internal/models"
)

// ErrNotFound is returned (wrapped) when a receipt or split does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for receipt and split storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateReceipt persists a newly extracted receipt.
	// The receipt.ID and receipt.CreatedAt fields are populated by the store if unset.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt retrieves a receipt with its items in receipt order.
	// Returns an error wrapping ErrNotFound if the receipt does not exist.
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)

	// SaveSplitResult persists a finalized split, replacing any earlier split
	// of the same receipt. If receipt is non-nil its store and date are
	// written in the same transaction, so either both land or neither does.
	SaveSplitResult(ctx context.Context, result *models.SplitResult, receipt *models.Receipt) error

	// GetSplitResult retrieves a split by its ID.
	// Returns an error wrapping ErrNotFound if the split does not exist.
	GetSplitResult(ctx context.Context, splitID string) (*models.SplitResult, error)

	// ListSplitsByUser returns the user's finalized splits, newest first.
	ListSplitsByUser(ctx context.Context, userID string) ([]*models.SplitSummary, error)

	// Close releases any resources held by the store.
	Close() error
}
