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

// SaveSplitResult persists a finalized split, superseding any previous split
// of the same receipt. When receipt is non-nil its store and date are updated
// in the same transaction.
func (s *PostgresStore) SaveSplitResult(ctx context.Context, result *models.SplitResult, receipt *models.Receipt) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.CreatedAt == 0 {
		result.CreatedAt = time.Now().Unix()
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if receipt != nil {
			tag, err := tx.Exec(ctx,
				"UPDATE receipts SET store = $1, date = $2 WHERE id = $3",
				receipt.Store, receipt.Date, result.ReceiptID,
			)
			if err != nil {
				return fmt.Errorf("failed to update receipt: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("receipt %s: %w", result.ReceiptID, storage.ErrNotFound)
			}
		}

		if _, err := tx.Exec(ctx, "DELETE FROM split_results WHERE receipt_id = $1", result.ReceiptID); err != nil {
			return fmt.Errorf("failed to remove previous split: %w", err)
		}

		_, err := tx.Exec(ctx,
			"INSERT INTO split_results (id, receipt_id, user_id, total, created_at) VALUES ($1, $2, $3, $4, $5)",
			result.ID, result.ReceiptID, result.UserID, result.Total(), result.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}

		batch := &pgx.Batch{}
		for i, p := range result.People {
			batch.Queue(
				`INSERT INTO split_people (split_id, position, person, items_total, tax, tip, discount, total)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				result.ID, i, p.Person, p.ItemsTotal, p.Tax, p.Tip, p.Discount, p.Total,
			)
		}
		for i, item := range result.Items {
			batch.Queue(
				"INSERT INTO split_items (split_id, position, item_name, price) VALUES ($1, $2, $3, $4)",
				result.ID, i, item.ItemName, item.Price,
			)
			for j, share := range item.Shares {
				batch.Queue(
					"INSERT INTO split_shares (split_id, item_position, position, person, amount) VALUES ($1, $2, $3, $4, $5)",
					result.ID, i, j, share.Person, share.Amount,
				)
			}
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert split rows: %w", err)
		}
		return nil
	})
}

// GetSplitResult retrieves a split by ID, including people and item breakdown.
func (s *PostgresStore) GetSplitResult(ctx context.Context, splitID string) (*models.SplitResult, error) {
	result := &models.SplitResult{}
	err := s.pool.QueryRow(ctx,
		"SELECT id, receipt_id, user_id, created_at FROM split_results WHERE id = $1",
		splitID,
	).Scan(&result.ID, &result.ReceiptID, &result.UserID, &result.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT person, items_total, tax, tip, discount, total
		 FROM split_people WHERE split_id = $1 ORDER BY position`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}
	result.People, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PersonSplit, error) {
		var p models.PersonSplit
		err := row.Scan(&p.Person, &p.ItemsTotal, &p.Tax, &p.Tip, &p.Discount, &p.Total)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan people: %w", err)
	}

	rows, err = s.pool.Query(ctx,
		"SELECT item_name, price FROM split_items WHERE split_id = $1 ORDER BY position",
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	result.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ItemSplit, error) {
		var item models.ItemSplit
		err := row.Scan(&item.ItemName, &item.Price)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan items: %w", err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT item_position, person, amount FROM split_shares
		 WHERE split_id = $1 ORDER BY item_position, position`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pos int
		var share models.ItemShare
		if err := rows.Scan(&pos, &share.Person, &share.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		if pos < 0 || pos >= len(result.Items) {
			return nil, fmt.Errorf("share references missing item %d", pos)
		}
		result.Items[pos].Shares = append(result.Items[pos].Shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return result, nil
}

// ListSplitsByUser returns summaries of the user's splits, newest first.
func (s *PostgresStore) ListSplitsByUser(ctx context.Context, userID string) ([]*models.SplitSummary, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT s.id, s.receipt_id, r.store, r.date, s.total, s.created_at,
		        (SELECT COUNT(*) FROM split_people p WHERE p.split_id = s.id)
		 FROM split_results s
		 JOIN receipts r ON r.id = s.receipt_id
		 WHERE s.user_id = $1
		 ORDER BY s.created_at DESC, s.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}

	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.SplitSummary, error) {
		sum := &models.SplitSummary{}
		err := row.Scan(&sum.ID, &sum.ReceiptID, &sum.Store, &sum.Date, &sum.Total, &sum.CreatedAt, &sum.PeopleCount)
		return sum, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan split summaries: %w", err)
	}
	return summaries, nil
}
