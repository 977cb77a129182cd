package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
	"github.com/vncsmyrnk/collective-pool/internal/observability/metrics"
)

const (
	maxSlugAttempts = 8
	historyWeeks    = 3
	day             = 24 * time.Hour
	week            = 7 * day
)

type poolService struct {
	ledger *Ledger
	engine ports.DistributionService
	clock  ports.Clock
	ids    ports.IDGenerator
}

func NewPoolService(ledger *Ledger, engine ports.DistributionService, clock ports.Clock, ids ports.IDGenerator) ports.PoolService {
	return &poolService{
		ledger: ledger,
		engine: engine,
		clock:  clock,
		ids:    ids,
	}
}

// CreatePool adds a pool with its founder and three synthetic neighbors, then
// backfills three weekly distributions so the pool has history right away.
func (s *poolService) CreatePool(ctx context.Context, input ports.CreatePoolInput) (*domain.Pool, error) {
	if err := input.Founder.Validate(); err != nil {
		return nil, err
	}

	name := domain.PoolName(input.Name)
	now := s.clock.Now()

	var poolID string
	err := s.ledger.Update(ctx, func(l *domain.Ledger) error {
		id, err := s.uniquePoolID(l, name)
		if err != nil {
			return err
		}
		poolID = id

		pool := domain.Pool{
			ID:              id,
			Name:            name,
			FounderUserID:   input.Founder.UserID,
			ContributionBps: domain.DefaultContributionBps,
			FounderBonusBps: domain.DefaultFounderBonusBps,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		members := []domain.Member{domain.NewMember(input.Founder, now, true)}
		for i, n := range domain.Neighbors {
			neighbor := domain.Identity{
				UserID:        fmt.Sprintf("dummy_%s_%s", strings.ToLower(n.DisplayName), s.ids.NewID("u")),
				DisplayName:   n.DisplayName,
				WalletAddress: n.WalletAddress,
			}
			members = append(members, domain.NewMember(neighbor, now.Add(-time.Duration(i+1)*day), false))
		}

		l.AddPool(pool, members)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	for i := 0; i < historyWeeks; i++ {
		asOf := now.Add(-time.Duration(historyWeeks-i) * week)
		if _, err := s.engine.SimulateDistribution(ctx, poolID, asOf); err != nil {
			return nil, fmt.Errorf("backfill distribution: %w", err)
		}
	}

	l, err := s.ledger.LoadOrSeed(ctx)
	if err != nil {
		return nil, err
	}
	pool, ok := l.Pool(poolID)
	if !ok {
		return nil, fmt.Errorf("reload created pool %s: %w", poolID, domain.ErrPoolNotFound)
	}

	metrics.RecordPoolCreated()
	log.Info().Str("pool_id", pool.ID).Str("founder", pool.FounderUserID).Msg("pool created")

	return &pool, nil
}

func (s *poolService) uniquePoolID(l *domain.Ledger, name string) (string, error) {
	slug := domain.Slug(name)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		id := slug + "-" + s.ids.Suffix()
		if _, exists := l.Pool(id); !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("no free pool id for %q after %d attempts", slug, maxSlugAttempts)
}

func (s *poolService) GetPoolPreview(ctx context.Context, poolID string) (*ports.PoolPreview, error) {
	l, err := s.ledger.LoadOrSeed(ctx)
	if err != nil {
		return nil, err
	}

	pool, ok := l.Pool(poolID)
	if !ok {
		return nil, nil
	}

	members := l.Members(poolID)
	preview := &ports.PoolPreview{Pool: pool, MemberCount: len(members)}
	if i := domain.FounderIndex(pool, members); i >= 0 {
		founder := members[i]
		preview.Founder = &founder
	}

	return preview, nil
}

func (s *poolService) GetPoolDetail(ctx context.Context, poolID string) (*ports.PoolDetail, error) {
	l, err := s.ledger.LoadOrSeed(ctx)
	if err != nil {
		return nil, err
	}

	pool, ok := l.Pool(poolID)
	if !ok {
		return nil, nil
	}

	return &ports.PoolDetail{
		Pool:          pool,
		Members:       l.Members(poolID),
		Distributions: l.Distributions(poolID),
	}, nil
}

// JoinPool appends the member unless the user id is already in the pool, in
// which case it reports Added=false and writes nothing.
func (s *poolService) JoinPool(ctx context.Context, input ports.JoinPoolInput) (ports.JoinResult, error) {
	if err := input.Member.Validate(); err != nil {
		return ports.JoinResult{}, err
	}

	var result ports.JoinResult
	err := s.ledger.Update(ctx, func(l *domain.Ledger) error {
		now := s.clock.Now()
		added, err := l.AddMember(input.PoolID, domain.NewMember(input.Member, now, false), now)
		if err != nil {
			return err
		}
		result.Added = added
		if !added {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		metrics.RecordPoolJoin(metrics.Error)
		return ports.JoinResult{}, fmt.Errorf("join pool %s: %w", input.PoolID, err)
	}

	if result.Added {
		metrics.RecordPoolJoin(metrics.Added)
		log.Info().Str("pool_id", input.PoolID).Str("user_id", input.Member.UserID).Msg("member joined")
	} else {
		metrics.RecordPoolJoin(metrics.AlreadyMember)
	}

	return result, nil
}

// ListMemberships returns every pool userID belongs to, oldest pool first.
func (s *poolService) ListMemberships(ctx context.Context, userID string) ([]ports.Membership, error) {
	l, err := s.ledger.LoadOrSeed(ctx)
	if err != nil {
		return nil, err
	}

	memberships := []ports.Membership{}
	for _, id := range l.PoolIDs() {
		for _, m := range l.Members(id) {
			if m.UserID == userID {
				pool, _ := l.Pool(id)
				memberships = append(memberships, ports.Membership{Pool: pool, Member: m})
				break
			}
		}
	}

	return memberships, nil
}
