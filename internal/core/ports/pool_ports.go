package ports

import (
	"context"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
)

type CreatePoolInput struct {
	Name    string
	Founder domain.Identity
}

type JoinPoolInput struct {
	PoolID string
	Member domain.Identity
}

type JoinResult struct {
	Added bool `json:"added"`
}

type PoolPreview struct {
	Pool        domain.Pool    `json:"pool"`
	Founder     *domain.Member `json:"founder,omitempty"`
	MemberCount int            `json:"memberCount"`
}

type PoolDetail struct {
	Pool          domain.Pool           `json:"pool"`
	Members       []domain.Member       `json:"members"`
	Distributions []domain.Distribution `json:"distributions"`
}

type Membership struct {
	Pool   domain.Pool   `json:"pool"`
	Member domain.Member `json:"member"`
}

// PoolService owns pool lifecycle. Lookups return nil, nil for unknown pools.
type PoolService interface {
	CreatePool(ctx context.Context, input CreatePoolInput) (*domain.Pool, error)
	GetPoolPreview(ctx context.Context, poolID string) (*PoolPreview, error)
	GetPoolDetail(ctx context.Context, poolID string) (*PoolDetail, error)
	JoinPool(ctx context.Context, input JoinPoolInput) (JoinResult, error)
	ListMemberships(ctx context.Context, userID string) ([]Membership, error)
}
