package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
)

type DistributeAllReport struct {
	Distributions []domain.Distribution `json:"distributions"`
	SkippedPools  []string              `json:"skippedPools"`
}

type DistributionService interface {
	// SimulateDistribution records one distribution dated asOf; a zero asOf means now.
	SimulateDistribution(ctx context.Context, poolID string, asOf time.Time) (*domain.Distribution, error)
	// PreviewSplit computes a split without writing anything. Unknown pools yield nil, nil.
	PreviewSplit(ctx context.Context, poolID string, amount decimal.Decimal) (*domain.SplitResult, error)
	// DistributeAll runs one distribution for every pool that has members.
	DistributeAll(ctx context.Context) (*DistributeAllReport, error)
}

type ForecastService interface {
	Forecast(ctx context.Context, poolID, userID string) (*domain.Forecast, error)
}
