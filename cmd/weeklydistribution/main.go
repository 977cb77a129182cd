package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/collective-pool/internal/bootstrap"
	"github.com/vncsmyrnk/collective-pool/internal/config"
	"github.com/vncsmyrnk/collective-pool/internal/observability/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	var cfgPath string
	var timeout time.Duration
	flag.StringVar(&cfgPath, "config", os.Getenv("CONFIG_FILE"), "YAML config file")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "job timeout")
	flag.Parse()

	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("error while loading config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// bound the run so a stuck store cannot hang the job
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	svc, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while opening ledger store")
	}
	defer svc.Close()

	log.Info().Msg("starting weekly distribution job")

	report, err := svc.Distributions.DistributeAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("weekly distribution failed")
	}

	for _, id := range report.SkippedPools {
		log.Warn().Str("pool_id", id).Msg("skipped pool without members")
	}
	log.Info().
		Int("distributed", len(report.Distributions)).
		Int("skipped", len(report.SkippedPools)).
		Msg("weekly distribution completed successfully")
}
