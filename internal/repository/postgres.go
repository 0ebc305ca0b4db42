package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps documents in the PostgreSQL documents table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore. The schema is applied by
// db.Migrate.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get returns the document body, or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT body FROM documents WHERE key = $1`

	var body []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document %s: %w", key, err)
	}
	return body, nil
}

// Put upserts all documents in one transaction.
func (s *PostgresStore) Put(ctx context.Context, docs ...Document) error {
	const query = `
		INSERT INTO documents (key, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
	`

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, d := range docs {
			if _, err := tx.Exec(ctx, query, d.Key, string(d.Body)); err != nil {
				return fmt.Errorf("failed to put document %s: %w", d.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit documents: %w", err)
	}
	return nil
}
