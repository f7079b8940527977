package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const upsertKV = `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE SET
		value = EXCLUDED.value,
		updated_at = NOW()
`

// Postgres stores keys in the kv_store table created by db.InitPostgres.
type Postgres struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgres creates a Postgres store over db.
// db must be a valid connection to a PostgreSQL instance.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

// Get fetches the value stored under key.
// It reports false without an error when the key does not exist.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := p.DB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value stored under key.
func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	if _, err := p.DB.ExecContext(ctx, upsertKV, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// SetAll upserts every entry within one transaction, so a flush is applied
// completely or not at all.
func (p *Postgres) SetAll(ctx context.Context, entries map[string][]byte) error {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, key := range sortedKeys(entries) {
		if _, err := tx.ExecContext(ctx, upsertKV, key, entries[key]); err != nil {
			return fmt.Errorf("upsert %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
