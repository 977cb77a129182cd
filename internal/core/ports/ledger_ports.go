package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerStore keeps one opaque document per storage key.
type LedgerStore interface {
	// Get returns nil, nil when nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, blob []byte) error
}

type Clock interface {
	Now() time.Time
}

// AmountSource draws the pool total for a distribution.
type AmountSource interface {
	Draw() decimal.Decimal
}

type IDGenerator interface {
	NewID(prefix string) string
	// Suffix returns a short random token used to keep pool slugs unique.
	Suffix() string
}
