package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/safar/artprint/internal/config"
	"github.com/safar/artprint/internal/database"
	"github.com/safar/artprint/migrations"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		log.Fatal().Msg("Usage: go run scripts/run_migrations.go [up|down]")
	}
	direction := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Load config")
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Connect to database")
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db, migrations.FS, direction)
	if err != nil {
		log.Fatal().Err(err).Msg("Run migrations")
	}

	for _, name := range applied {
		log.Info().Str("file", name).Msg("Ran migration")
	}
	log.Info().Int("count", len(applied)).Str("direction", direction).Msg("Migrations complete")
}
