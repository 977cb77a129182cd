package services

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (UUIDGenerator) Suffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}

// UniformAmount draws pool totals uniformly from [Min, Max), rounded to one decimal.
type UniformAmount struct {
	Min decimal.Decimal
	Max decimal.Decimal
	rng *rand.Rand
}

// NewUniformAmount returns the demo source drawing from [40, 80). A nil rng
// gets a randomly seeded generator.
func NewUniformAmount(rng *rand.Rand) *UniformAmount {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &UniformAmount{
		Min: decimal.NewFromInt(40),
		Max: decimal.NewFromInt(80),
		rng: rng,
	}
}

func (u *UniformAmount) Draw() decimal.Decimal {
	span := u.Max.Sub(u.Min)
	return domain.Round(u.Min.Add(span.Mul(decimal.NewFromFloat(u.rng.Float64()))))
}
