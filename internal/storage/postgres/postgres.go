// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using a pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/receiptsplit/internal/storage"
)

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Options tunes the connection pool. Zero values keep pgx defaults.
type Options struct {
	MaxConns int32
}

// New connects to databaseURL, verifies the connection and creates the
// schema if needed.
func New(ctx context.Context, databaseURL string, opts Options) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	config.MaxConnLifetime = time.Hour
	config.HealthCheckPeriod = 15 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS receipts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    store TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL DEFAULT '',
    tax NUMERIC(12,2) NOT NULL,
    tip NUMERIC(12,2) NOT NULL,
    discount NUMERIC(12,2) NOT NULL,
    total NUMERIC(12,2) NOT NULL,
    currency TEXT NOT NULL DEFAULT '$',
    created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_receipts_user_id ON receipts(user_id);

CREATE TABLE IF NOT EXISTS receipt_items (
    receipt_id TEXT NOT NULL REFERENCES receipts(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    price NUMERIC(12,2) NOT NULL,
    PRIMARY KEY (receipt_id, position)
);

CREATE TABLE IF NOT EXISTS split_results (
    id TEXT PRIMARY KEY,
    receipt_id TEXT NOT NULL UNIQUE REFERENCES receipts(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    total NUMERIC(12,2) NOT NULL,
    created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_split_results_user_id ON split_results(user_id, created_at);

CREATE TABLE IF NOT EXISTS split_people (
    split_id TEXT NOT NULL REFERENCES split_results(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    person TEXT NOT NULL,
    items_total NUMERIC(12,2) NOT NULL,
    tax NUMERIC(12,2) NOT NULL,
    tip NUMERIC(12,2) NOT NULL,
    discount NUMERIC(12,2) NOT NULL,
    total NUMERIC(12,2) NOT NULL,
    PRIMARY KEY (split_id, position)
);

CREATE TABLE IF NOT EXISTS split_items (
    split_id TEXT NOT NULL REFERENCES split_results(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    item_name TEXT NOT NULL,
    price NUMERIC(12,2) NOT NULL,
    PRIMARY KEY (split_id, position)
);

CREATE TABLE IF NOT EXISTS split_shares (
    split_id TEXT NOT NULL REFERENCES split_results(id) ON DELETE CASCADE,
    item_position INTEGER NOT NULL,
    position INTEGER NOT NULL,
    person TEXT NOT NULL,
    amount NUMERIC(12,2) NOT NULL,
    PRIMARY KEY (split_id, item_position, position)
);
`

// initSchema creates the tables if they do not exist yet.
func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
