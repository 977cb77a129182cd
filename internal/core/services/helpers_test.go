package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/collective-pool/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

var testNow = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

// amountSeq hands out amounts in order, repeating the last one.
type amountSeq struct {
	amounts []decimal.Decimal
	drawn   int
}

func amounts(values ...string) *amountSeq {
	seq := &amountSeq{}
	for _, v := range values {
		seq.amounts = append(seq.amounts, amt(v))
	}
	return seq
}

func (s *amountSeq) Draw() decimal.Decimal {
	i := min(s.drawn, len(s.amounts)-1)
	s.drawn++
	return s.amounts[i]
}

type seqIDs struct {
	n        int
	suffixes []string
}

func (g *seqIDs) NewID(prefix string) string {
	g.n++
	return fmt.Sprintf("%s_%d", prefix, g.n)
}

func (g *seqIDs) Suffix() string {
	if len(g.suffixes) > 0 {
		s := g.suffixes[0]
		g.suffixes = g.suffixes[1:]
		return s
	}
	g.n++
	return fmt.Sprintf("%04x", g.n)
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Put(context.Context, string, []byte) error   { return f.err }

type fixture struct {
	store   *memory.LedgerStore
	ledger  *Ledger
	clock   *fixedClock
	amounts *amountSeq
	ids     *seqIDs
	pools   ports.PoolService
	engine  ports.DistributionService
}

func newFixture(t *testing.T, draws ...string) *fixture {
	t.Helper()
	if len(draws) == 0 {
		draws = []string{"100.0"}
	}

	f := &fixture{
		store:   memory.NewLedgerStore(),
		clock:   &fixedClock{now: testNow},
		amounts: amounts(draws...),
		ids:     &seqIDs{},
	}
	f.ledger = NewLedger(f.store, "")
	f.engine = NewDistributionService(f.ledger, f.amounts, f.clock, f.ids)
	f.pools = NewPoolService(f.ledger, f.engine, f.clock, f.ids)
	return f
}

// put stores l as the current ledger, bypassing the services.
func (f *fixture) put(t *testing.T, l *domain.Ledger) []byte {
	t.Helper()
	blob, err := l.Encode()
	require.NoError(t, err)
	require.NoError(t, f.store.Put(context.Background(), DefaultStorageKey, blob))
	return blob
}

func (f *fixture) stored(t *testing.T) []byte {
	t.Helper()
	blob, err := f.store.Get(context.Background(), DefaultStorageKey)
	require.NoError(t, err)
	return blob
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, amt(want).Equal(got), "want %s, got %s", want, got)
}

func memberByID(members []domain.Member, id string) domain.Member {
	for _, m := range members {
		if m.UserID == id {
			return m
		}
	}
	return domain.Member{}
}
