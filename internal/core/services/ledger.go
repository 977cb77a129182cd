package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

// DefaultStorageKey is the key the ledger document lives under.
const DefaultStorageKey = "fuse_collective_pool_v1"

// errNoChange lets an Update callback finish without writing.
var errNoChange = errors.New("no change")

// Ledger is the explicit handle over the persisted ledger document. Every
// operation loads the full document, works on that copy and saves it whole.
type Ledger struct {
	store ports.LedgerStore
	key   string
	seed  func() *domain.Ledger

	mu sync.Mutex
}

func NewLedger(store ports.LedgerStore, key string) *Ledger {
	if key == "" {
		key = DefaultStorageKey
	}
	return &Ledger{
		store: store,
		key:   key,
		seed:  domain.SeedLedger,
	}
}

// LoadOrSeed returns the stored ledger, writing the seed ledger first when
// nothing usable is stored.
func (l *Ledger) LoadOrSeed(ctx context.Context) (*domain.Ledger, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.load(ctx)
}

// Save overwrites the stored ledger. It performs no validation.
func (l *Ledger) Save(ctx context.Context, ledger *domain.Ledger) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.save(ctx, ledger)
}

// Update runs fn against a freshly loaded ledger and saves the result if fn
// succeeds. Nothing is written when fn fails.
func (l *Ledger) Update(ctx context.Context, fn func(*domain.Ledger) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ledger, err := l.load(ctx)
	if err != nil {
		return err
	}

	if err := fn(ledger); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}

	return l.save(ctx, ledger)
}

func (l *Ledger) load(ctx context.Context) (*domain.Ledger, error) {
	if l.store == nil {
		return nil, fmt.Errorf("load ledger: %w", domain.ErrStorageUnavailable)
	}

	blob, err := l.store.Get(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	if blob != nil {
		ledger, err := domain.DecodeLedger(blob)
		if err == nil {
			return ledger, nil
		}
		log.Warn().Err(err).Str("key", l.key).Msg("discarding unreadable ledger, reseeding")
	}

	seeded := l.seed()
	if err := l.save(ctx, seeded); err != nil {
		return nil, fmt.Errorf("seed ledger: %w", err)
	}
	log.Info().Str("key", l.key).Msg("seeded ledger")

	return seeded, nil
}

func (l *Ledger) save(ctx context.Context, ledger *domain.Ledger) error {
	if l.store == nil {
		return fmt.Errorf("save ledger: %w", domain.ErrStorageUnavailable)
	}

	blob, err := ledger.Encode()
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	if err := l.store.Put(ctx, l.key, blob); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}
