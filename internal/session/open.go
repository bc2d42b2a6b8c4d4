package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/safar/artprint/internal/config"
	"github.com/safar/artprint/internal/database"
	"github.com/safar/artprint/migrations"
)

// OpenStorage builds the storage backend named by cfg.Session.Backend.
func OpenStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Storage, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendFile:
		logger.Debug().Str("path", cfg.Session.FilePath).Msg("using file session storage")
		return NewFileStorage(cfg.Session.FilePath), nil

	case config.SessionBackendRedis:
		logger.Debug().Str("addr", cfg.Redis.Addr).Msg("using redis session storage")
		return NewRedisStorage(ctx, cfg.Redis)

	case config.SessionBackendPostgres:
		db, err := database.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		if _, err := database.Migrate(ctx, db, migrations.FS, "up"); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate session storage: %w", err)
		}
		logger.Debug().Msg("using postgres session storage")
		return NewPostgresStorage(db), nil
	}

	return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
}
