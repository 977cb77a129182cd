package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const SeedPoolID = "bristol-gardens"

// Neighbors are the synthetic members added to every new pool so splits look realistic.
var Neighbors = []Identity{
	{DisplayName: "Tom", WalletAddress: "0x5e6f...7g8h"},
	{DisplayName: "Lisa", WalletAddress: "0x9i0j...1k2l"},
	{DisplayName: "James", WalletAddress: "0x3m4n...5o6p"},
}

// SeedLedger is the ledger written on first access: one example pool with a
// founder, three neighbors and three weeks of history. Lifetime totals include
// activity from before the recorded history.
func SeedLedger() *Ledger {
	now := time.Date(2026, time.January, 13, 12, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour
	amount := decimal.RequireFromString

	member := func(id, name, wallet string, founder bool, received string) Member {
		return Member{
			UserID:           id,
			DisplayName:      name,
			WalletAddress:    wallet,
			JoinedAt:         now,
			IsFounder:        founder,
			LifetimeReceived: amount(received),
		}
	}

	l := NewLedger()
	l.Pools[SeedPoolID] = Pool{
		ID:                  SeedPoolID,
		Name:                "Bristol Gardens",
		FounderUserID:       "seed_sarah",
		ContributionBps:     DefaultContributionBps,
		FounderBonusBps:     DefaultFounderBonusBps,
		CreatedAt:           now,
		UpdatedAt:           now,
		TotalPooledLifetime: amount("247.5"),
		LastDistributionAt:  &now,
	}
	l.MembersByPoolID[SeedPoolID] = []Member{
		member("seed_sarah", "Sarah", "0x1a2b...3c4d", true, "61.8"),
		member("seed_tom", "Tom", "0x5e6f...7g8h", false, "45.2"),
		member("seed_lisa", "Lisa", "0x9i0j...1k2l", false, "46.1"),
		member("seed_james", "James", "0x3m4n...5o6p", false, "44.4"),
	}
	l.DistributionsByPoolID[SeedPoolID] = []Distribution{
		{ID: "dist_2026_01_13", PoolID: SeedPoolID, CreatedAt: now, PoolAmount: amount("62.4"), MemberCount: 4},
		{ID: "dist_2026_01_06", PoolID: SeedPoolID, CreatedAt: now.Add(-week), PoolAmount: amount("58.1"), MemberCount: 4},
		{ID: "dist_2025_12_30", PoolID: SeedPoolID, CreatedAt: now.Add(-2 * week), PoolAmount: amount("51.2"), MemberCount: 3},
	}
	return l
}
