// Package db provides PostgreSQL database connection management.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"lucky-dice-bot/internal/config"
)

// Pool wraps pgxpool.Pool with schema management.
type Pool struct {
	*pgxpool.Pool
}

// Fallbacks for unset pool settings.
const (
	defaultConnectTimeout  = 10 * time.Second
	defaultMaxConnLifetime = time.Hour
	defaultMaxConnIdleTime = 30 * time.Minute
	healthCheckPeriod      = 30 * time.Second
)

// NewPool creates a new PostgreSQL connection pool.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	configurePool(poolConfig, cfg)

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("Connecting to PostgreSQL")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to PostgreSQL")

	return &Pool{Pool: pool}, nil
}

// configurePool sizes the pool for the document store. A commit holds one
// connection for a single batched upsert, and commits of one player never
// overlap, so pool_size bounds how many players are written at once. One
// connection stays warm for reads between bursts.
func configurePool(pc *pgxpool.Config, cfg *config.DatabaseConfig) {
	pc.MaxConns = max(int32(cfg.PoolSize), 1)
	pc.MinConns = 1

	pc.ConnConfig.ConnectTimeout = orDefault(cfg.ConnectTimeout, defaultConnectTimeout)
	pc.MaxConnLifetime = orDefault(cfg.MaxConnLifetime, defaultMaxConnLifetime)
	pc.MaxConnIdleTime = orDefault(cfg.MaxConnIdleTime, defaultMaxConnIdleTime)
	pc.HealthCheckPeriod = healthCheckPeriod
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

// Close closes the connection pool.
func (p *Pool) Close() {
	if p.Pool != nil {
		p.Pool.Close()
		log.Info().Msg("PostgreSQL connection pool closed")
	}
}

// Migrate creates the documents table. Every game document is one row
// holding a whole JSON snapshot.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	log.Info().Msg("Running database migrations...")

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			body JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_documents_updated ON documents(updated_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}

	log.Info().Msg("Migration: documents table ready")
	return nil
}
