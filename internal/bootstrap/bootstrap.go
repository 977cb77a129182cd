package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/collective-pool/internal/adapters/repository"
	"github.com/vncsmyrnk/collective-pool/internal/adapters/repository/file"
	"github.com/vncsmyrnk/collective-pool/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/collective-pool/internal/adapters/repository/mongodb"
	"github.com/vncsmyrnk/collective-pool/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/collective-pool/internal/config"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
	"github.com/vncsmyrnk/collective-pool/internal/core/services"
)

// Services is the wired application core shared by the server and the CLIs.
type Services struct {
	Ledger        *services.Ledger
	Pools         ports.PoolService
	Distributions ports.DistributionService
	Forecasts     ports.ForecastService

	close func() error
}

func (s *Services) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStore connects the ledger store selected by cfg.Storage.Driver. The
// returned close func releases any connection it holds.
func OpenStore(ctx context.Context, cfg *config.Config) (ports.LedgerStore, func() error, error) {
	noop := func() error { return nil }

	var store ports.LedgerStore
	closeFn := noop

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store = memory.NewLedgerStore()

	case config.DriverFile:
		s, err := file.NewLedgerStore(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		store = s

	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, cfg.Postgres.DSN(), cfg.Storage.RetryAttempts, cfg.Storage.RetryDelay)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.AutoMigrate {
			if err := postgres.MigrateUp(db); err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("auto migrate: %w", err)
			}
			log.Info().Msg("postgres migrations applied")
		}
		store = postgres.NewLedgerStore(db)
		closeFn = db.Close

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.DB, cfg.Storage.RetryAttempts, cfg.Storage.RetryDelay)
		if err != nil {
			return nil, nil, err
		}
		store = mongodb.NewLedgerStore(db)
		closeFn = func() error { return client.Disconnect(context.Background()) }

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	log.Info().Str("driver", cfg.Storage.Driver).Str("key", cfg.Storage.Key).Msg("ledger store ready")
	return repository.NewStoreWithMetrics(store, cfg.Storage.Driver), closeFn, nil
}

func New(ctx context.Context, cfg *config.Config) (*Services, error) {
	store, closeFn, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := Wire(store, cfg.Storage.Key, services.SystemClock{}, services.NewUniformAmount(nil), services.UUIDGenerator{})
	svc.close = closeFn
	return svc, nil
}

// Wire builds the services over an already opened store.
func Wire(store ports.LedgerStore, key string, clock ports.Clock, amounts ports.AmountSource, ids ports.IDGenerator) *Services {
	ledger := services.NewLedger(store, key)
	engine := services.NewDistributionService(ledger, amounts, clock, ids)

	return &Services{
		Ledger:        ledger,
		Pools:         services.NewPoolService(ledger, engine, clock, ids),
		Distributions: engine,
		Forecasts:     services.NewForecastService(ledger),
	}
}
