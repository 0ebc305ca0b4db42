package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps documents in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the SQLite database at path and
// applies the documents schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps writers serialized inside the process.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the document body, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = ?`, key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document %s: %w", key, err)
	}
	return []byte(body), nil
}

// Put upserts all documents in one transaction.
func (s *SQLiteStore) Put(ctx context.Context, docs ...Document) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		const query = `
			INSERT INTO documents (key, body, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
		for _, d := range docs {
			if _, err := tx.ExecContext(ctx, query, d.Key, string(d.Body)); err != nil {
				return fmt.Errorf("put document %s: %w", d.Key, err)
			}
		}
		return nil
	})
}

// withTx runs fn inside a SQL transaction.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
