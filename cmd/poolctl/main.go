package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/collective-pool/cmd/poolctl/cli"
	"github.com/vncsmyrnk/collective-pool/internal/bootstrap"
	"github.com/vncsmyrnk/collective-pool/internal/config"
	"github.com/vncsmyrnk/collective-pool/internal/observability/logging"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func open(ctx context.Context, cfgPath string) (*bootstrap.Services, error) {
	cfg, err := config.New(cfgPath)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log.Level, "console")

	return bootstrap.New(ctx, cfg)
}

func main() {
	if err := cli.NewRootCmd(open).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
