package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
	"github.com/vncsmyrnk/collective-pool/internal/observability/metrics"
)

const distributeWorkers = 4

type distributionService struct {
	ledger  *Ledger
	amounts ports.AmountSource
	clock   ports.Clock
	ids     ports.IDGenerator
}

func NewDistributionService(ledger *Ledger, amounts ports.AmountSource, clock ports.Clock, ids ports.IDGenerator) ports.DistributionService {
	return &distributionService{
		ledger:  ledger,
		amounts: amounts,
		clock:   clock,
		ids:     ids,
	}
}

func (s *distributionService) SimulateDistribution(ctx context.Context, poolID string, asOf time.Time) (*domain.Distribution, error) {
	if asOf.IsZero() {
		asOf = s.clock.Now()
	}

	var dist domain.Distribution
	var split domain.SplitResult
	err := s.ledger.Update(ctx, func(l *domain.Ledger) error {
		target, ok := l.Pool(poolID)
		if !ok {
			return domain.ErrPoolNotFound
		}

		var err error
		split, err = domain.Split(target, l.Members(poolID), s.amounts.Draw())
		if err != nil {
			return err
		}

		dist, err = l.RecordDistribution(poolID, s.ids.NewID("dist"), asOf, split)
		return err
	})
	if err != nil {
		metrics.RecordDistribution(metrics.Error, decimal.Zero)
		return nil, fmt.Errorf("distribute pool %s: %w", poolID, err)
	}

	metrics.RecordDistribution(metrics.Success, dist.PoolAmount)
	log.Info().
		Str("pool_id", poolID).
		Str("distribution_id", dist.ID).
		Stringer("pool_amount", dist.PoolAmount).
		Stringer("per_member", split.PerMember).
		Int("member_count", dist.MemberCount).
		Msg("distribution recorded")

	return &dist, nil
}

func (s *distributionService) PreviewSplit(ctx context.Context, poolID string, amount decimal.Decimal) (*domain.SplitResult, error) {
	l, err := s.ledger.LoadOrSeed(ctx)
	if err != nil {
		return nil, err
	}

	target, ok := l.Pool(poolID)
	if !ok {
		return nil, nil
	}

	split, err := domain.Split(target, l.Members(poolID), amount)
	if err != nil {
		return nil, err
	}
	return &split, nil
}

// DistributeAll pays out every pool once. Pools are fanned out to a bounded
// worker pool; the ledger handle still applies the writes one at a time.
// Pools without members are reported as skipped and any other failure cancels
// the remaining work.
func (s *distributionService) DistributeAll(ctx context.Context) (*ports.DistributeAllReport, error) {
	l, err := s.ledger.LoadOrSeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pools: %w", err)
	}

	type outcome struct {
		poolID  string
		dist    *domain.Distribution
		skipped bool
	}

	now := s.clock.Now()
	ids := l.PoolIDs()
	p := pool.NewWithResults[outcome]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(distributeWorkers)

	for _, id := range ids {
		p.Go(func(ctx context.Context) (outcome, error) {
			if err := ctx.Err(); err != nil {
				return outcome{}, err
			}
			dist, err := s.SimulateDistribution(ctx, id, now)
			if errors.Is(err, domain.ErrEmptyPool) {
				log.Warn().Str("pool_id", id).Msg("skipping pool without members")
				return outcome{poolID: id, skipped: true}, nil
			}
			if err != nil {
				return outcome{}, err
			}
			return outcome{poolID: id, dist: dist}, nil
		})
	}

	outcomes, err := p.Wait()

	byPool := make(map[string]outcome, len(outcomes))
	for _, o := range outcomes {
		byPool[o.poolID] = o
	}

	report := &ports.DistributeAllReport{
		Distributions: []domain.Distribution{},
		SkippedPools:  []string{},
	}
	for _, id := range ids {
		o, ok := byPool[id]
		switch {
		case !ok:
		case o.skipped:
			report.SkippedPools = append(report.SkippedPools, id)
		default:
			report.Distributions = append(report.Distributions, *o.dist)
		}
	}

	if err != nil {
		return report, fmt.Errorf("distribute all: %w", err)
	}
	return report, nil
}
