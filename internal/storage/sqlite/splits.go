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

// SaveSplitResult persists a finalized split, superseding any previous split
// of the same receipt. When receipt is non-nil its store and date are updated
// in the same transaction.
func (s *SQLiteStore) SaveSplitResult(ctx context.Context, result *models.SplitResult, receipt *models.Receipt) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.CreatedAt == 0 {
		result.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if receipt != nil {
		res, err := tx.ExecContext(ctx,
			"UPDATE receipts SET store = ?, date = ? WHERE id = ?",
			receipt.Store, receipt.Date, result.ReceiptID,
		)
		if err != nil {
			return fmt.Errorf("failed to update receipt: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("receipt %s: %w", result.ReceiptID, storage.ErrNotFound)
		}
	}

	// Children go with the old row via ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, "DELETE FROM split_results WHERE receipt_id = ?", result.ReceiptID); err != nil {
		return fmt.Errorf("failed to remove previous split: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO split_results (id, receipt_id, user_id, total, created_at) VALUES (?, ?, ?, ?, ?)",
		result.ID, result.ReceiptID, result.UserID, result.Total(), result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	for i, p := range result.People {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO split_people (split_id, position, person, items_total, tax, tip, discount, total)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			result.ID, i, p.Person, p.ItemsTotal, p.Tax, p.Tip, p.Discount, p.Total,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person split: %w", err)
		}
	}

	for i, item := range result.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO split_items (split_id, position, item_name, price) VALUES (?, ?, ?, ?)",
			result.ID, i, item.ItemName, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item split: %w", err)
		}
		for j, share := range item.Shares {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO split_shares (split_id, item_position, position, person, amount) VALUES (?, ?, ?, ?, ?)",
				result.ID, i, j, share.Person, share.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert share: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSplitResult retrieves a split by ID, including people and item breakdown.
func (s *SQLiteStore) GetSplitResult(ctx context.Context, splitID string) (*models.SplitResult, error) {
	result := &models.SplitResult{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, receipt_id, user_id, created_at FROM split_results WHERE id = ?",
		splitID,
	).Scan(&result.ID, &result.ReceiptID, &result.UserID, &result.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}

	people, err := s.db.QueryContext(ctx,
		`SELECT person, items_total, tax, tip, discount, total
		 FROM split_people WHERE split_id = ? ORDER BY position`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}
	defer people.Close()

	for people.Next() {
		var p models.PersonSplit
		if err := people.Scan(&p.Person, &p.ItemsTotal, &p.Tax, &p.Tip, &p.Discount, &p.Total); err != nil {
			return nil, fmt.Errorf("failed to scan person split: %w", err)
		}
		result.People = append(result.People, p)
	}
	if err := people.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}

	items, err := s.db.QueryContext(ctx,
		"SELECT item_name, price FROM split_items WHERE split_id = ? ORDER BY position",
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer items.Close()

	for items.Next() {
		var item models.ItemSplit
		if err := items.Scan(&item.ItemName, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item split: %w", err)
		}
		result.Items = append(result.Items, item)
	}
	if err := items.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	shares, err := s.db.QueryContext(ctx,
		`SELECT item_position, person, amount FROM split_shares
		 WHERE split_id = ? ORDER BY item_position, position`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer shares.Close()

	for shares.Next() {
		var pos int
		var share models.ItemShare
		if err := shares.Scan(&pos, &share.Person, &share.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		if pos < 0 || pos >= len(result.Items) {
			return nil, fmt.Errorf("share references missing item %d", pos)
		}
		result.Items[pos].Shares = append(result.Items[pos].Shares, share)
	}
	if err := shares.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return result, nil
}

// ListSplitsByUser returns summaries of the user's splits, newest first.
func (s *SQLiteStore) ListSplitsByUser(ctx context.Context, userID string) ([]*models.SplitSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.receipt_id, r.store, r.date, s.total, s.created_at,
		        (SELECT COUNT(*) FROM split_people p WHERE p.split_id = s.id)
		 FROM split_results s
		 JOIN receipts r ON r.id = s.receipt_id
		 WHERE s.user_id = ?
		 ORDER BY s.created_at DESC, s.rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var summaries []*models.SplitSummary
	for rows.Next() {
		sum := &models.SplitSummary{}
		if err := rows.Scan(&sum.ID, &sum.ReceiptID, &sum.Store, &sum.Date, &sum.Total, &sum.CreatedAt, &sum.PeopleCount); err != nil {
			return nil, fmt.Errorf("failed to scan split summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return summaries, nil
}
