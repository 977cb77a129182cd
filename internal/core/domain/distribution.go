package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Distribution is one immutable payout event. Histories are kept newest-first.
type Distribution struct {
	ID          string          `json:"id"`
	PoolID      string          `json:"poolId"`
	CreatedAt   time.Time       `json:"createdAt"`
	PoolAmount  decimal.Decimal `json:"poolAmount"`
	MemberCount int             `json:"memberCount"`
}
