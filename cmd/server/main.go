package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/collective-pool/internal/adapters/handler/http"
	"github.com/vncsmyrnk/collective-pool/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/collective-pool/internal/bootstrap"
	"github.com/vncsmyrnk/collective-pool/internal/config"
	"github.com/vncsmyrnk/collective-pool/internal/core/services"
	"github.com/vncsmyrnk/collective-pool/internal/observability/logging"
	"github.com/vncsmyrnk/collective-pool/internal/observability/metrics"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	cfg, err := config.New(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("error while loading config")
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid server config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while opening ledger store")
	}
	defer svc.Close()

	auth := services.NewAuthService(google.NewVerifier(), cfg.Auth.JWTSecret, cfg.Auth.GoogleClientID, services.SystemClock{}, cfg.Auth.TokenTTL)

	handler := http.NewHandler(http.RouterConfig{
		Pools:          http.NewPoolHandler(svc.Pools, svc.Distributions, svc.Forecasts),
		Distributions:  http.NewDistributionHandler(svc.Distributions),
		Auth:           http.NewAuthHandler(auth, cfg.Auth.RedirectURL, cfg.Auth.CookieDomain, stdhttp.SameSiteLaxMode, cfg.Auth.TokenTTL),
		Users:          http.NewUserHandler(svc.Pools),
		Tokens:         auth,
		Metrics:        metrics.Handler(),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})
	server := &stdhttp.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("shutdown failed")
	}
}
