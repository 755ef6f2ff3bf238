package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Backend = (*PostgresBackend)(nil)

const createStateTableSQL = `
CREATE TABLE IF NOT EXISTS app_state
(
    key        VARCHAR PRIMARY KEY,
    blob       JSONB                    NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`

// PostgresBackend keeps the blob in one row of the app_state table.
type PostgresBackend struct {
	db  *pgxpool.Pool
	key string
}

func NewPostgresBackend(db *pgxpool.Pool, key string) *PostgresBackend {
	return &PostgresBackend{
		db:  db,
		key: key,
	}
}

// Migrate creates the app_state table if it does not exist yet.
func (b *PostgresBackend) Migrate(ctx context.Context) error {
	if _, err := b.db.Exec(ctx, createStateTableSQL); err != nil {
		return fmt.Errorf("create app_state table: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Name() string {
	return "postgres"
}

func (b *PostgresBackend) Read(ctx context.Context) ([]byte, error) {
	var blob []byte
	err := b.db.QueryRow(ctx, `SELECT blob FROM app_state WHERE key = $1`, b.key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (b *PostgresBackend) Write(ctx context.Context, blob []byte) error {
	_, err := b.db.Exec(ctx, `
		INSERT INTO app_state (key, blob, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET blob = EXCLUDED.blob, updated_at = EXCLUDED.updated_at
	`, b.key, blob)
	return err
}
