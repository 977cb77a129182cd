package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/collective-pool/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/collective-pool/internal/config"
)

// usage: migrations [-steps n] up|down
func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal().Msg("a direction (up or down) is required")
	}

	cfg, err := config.New(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("error while loading config")
	}
	if err := cfg.Postgres.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid postgres config")
	}

	db, err := postgres.Connect(context.Background(), cfg.Postgres.DSN(), cfg.Storage.RetryAttempts, cfg.Storage.RetryDelay)
	if err != nil {
		log.Fatal().Err(err).Msg("error while connecting to postgres")
	}
	defer db.Close()

	switch flag.Arg(0) {
	case "up":
		err = postgres.MigrateUp(db)
	case "down":
		err = postgres.MigrateDown(db, *steps)
	default:
		log.Fatal().Str("direction", flag.Arg(0)).Msg("unknown direction")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	log.Info().Str("direction", flag.Arg(0)).Msg("migrations executed successfully")
}
