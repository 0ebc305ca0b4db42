package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"lucky-dice-bot/internal/config"
	"lucky-dice-bot/internal/pkg/db"
)

// Open connects the store selected by cfg.Storage.Driver. The returned
// cleanup releases the underlying connections.
func Open(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory storage, progress is lost on restart")
		return NewMemoryStore(), func() {}, nil

	case config.DriverSQLite:
		s, err := OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.Storage.SQLitePath).Msg("SQLite storage opened")
		return s, func() { _ = s.Close() }, nil

	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pool.Pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return NewPostgresStore(pool.Pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
