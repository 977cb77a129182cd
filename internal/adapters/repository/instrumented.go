package repository

import (
	"context"
	"time"

	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
	"github.com/vncsmyrnk/collective-pool/internal/observability/metrics"
)

// StoreWithMetrics records the latency of every call on the wrapped store.
type StoreWithMetrics struct {
	store  ports.LedgerStore
	driver string
}

func NewStoreWithMetrics(store ports.LedgerStore, driver string) *StoreWithMetrics {
	return &StoreWithMetrics{store: store, driver: driver}
}

func (s *StoreWithMetrics) Get(ctx context.Context, key string) (blob []byte, err error) {
	//nolint:errcheck
	s.run("get", func() error {
		blob, err = s.store.Get(ctx, key)
		return err
	})

	return
}

func (s *StoreWithMetrics) Put(ctx context.Context, key string, blob []byte) error {
	return s.run("put", func() error {
		return s.store.Put(ctx, key, blob)
	})
}

func (s *StoreWithMetrics) run(op string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordStoreLatency(duration, s.driver, op, err != nil)
	return err
}
