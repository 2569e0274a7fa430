package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend keeps one jsonb row per collection.
type PostgresBackend struct {
	db *pgxpool.Pool
}

func NewPostgresBackend(db *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Name() string { return "postgres" }

// EnsureSchema creates the collections table when it does not exist.
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS collections (
            name       TEXT PRIMARY KEY,
            body       JSONB NOT NULL DEFAULT '[]'::jsonb,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `
	if _, err := b.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create collections table: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	query := `
        SELECT body::text
        FROM collections
        WHERE name = $1
    `
	var body string
	err := b.db.QueryRow(ctx, query, collection).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

func (b *PostgresBackend) Write(ctx context.Context, collection string, data []byte) error {
	query := `
        INSERT INTO collections (name, body, updated_at)
        VALUES ($1, $2::jsonb, NOW())
        ON CONFLICT (name) DO UPDATE
        SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
    `
	_, err := b.db.Exec(ctx, query, collection, string(data))
	return err
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}
