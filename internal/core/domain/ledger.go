package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Ledger is the whole persisted state: pools, members in join order and
// distribution histories newest-first. It is always loaded and saved as one document.
type Ledger struct {
	Pools                 map[string]Pool           `json:"pools"`
	MembersByPoolID       map[string][]Member       `json:"membersByPoolId"`
	DistributionsByPoolID map[string][]Distribution `json:"distributionsByPoolId"`
}

func NewLedger() *Ledger {
	return &Ledger{
		Pools:                 make(map[string]Pool),
		MembersByPoolID:       make(map[string][]Member),
		DistributionsByPoolID: make(map[string][]Distribution),
	}
}

// DecodeLedger parses a stored document. Anything that does not look like a
// ledger yields ErrCorruptLedger.
func DecodeLedger(blob []byte) (*Ledger, error) {
	var l Ledger
	if err := json.Unmarshal(blob, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLedger, err)
	}
	if l.Pools == nil {
		return nil, fmt.Errorf("%w: missing pools", ErrCorruptLedger)
	}
	if l.MembersByPoolID == nil {
		l.MembersByPoolID = make(map[string][]Member)
	}
	if l.DistributionsByPoolID == nil {
		l.DistributionsByPoolID = make(map[string][]Distribution)
	}
	l.normalize()
	return &l, nil
}

// normalize puts every stored amount at AmountPlaces so that 62 read back from
// a document equals the 62.0 that was written.
func (l *Ledger) normalize() {
	for id, pool := range l.Pools {
		pool.TotalPooledLifetime = Round(pool.TotalPooledLifetime)
		l.Pools[id] = pool
	}
	for _, members := range l.MembersByPoolID {
		for i := range members {
			members[i].LifetimeReceived = Round(members[i].LifetimeReceived)
		}
	}
	for _, dists := range l.DistributionsByPoolID {
		for i := range dists {
			dists[i].PoolAmount = Round(dists[i].PoolAmount)
		}
	}
}

func (l *Ledger) Encode() ([]byte, error) {
	return json.Marshal(l)
}

func (l *Ledger) Pool(id string) (Pool, bool) {
	p, ok := l.Pools[id]
	return p, ok
}

// Members returns a copy of the pool's member list.
func (l *Ledger) Members(poolID string) []Member {
	return append([]Member{}, l.MembersByPoolID[poolID]...)
}

// Distributions returns a copy of the pool's history, newest first.
func (l *Ledger) Distributions(poolID string) []Distribution {
	return append([]Distribution{}, l.DistributionsByPoolID[poolID]...)
}

// PoolIDs returns pool ids ordered by creation time, then id.
func (l *Ledger) PoolIDs() []string {
	ids := make([]string, 0, len(l.Pools))
	for id := range l.Pools {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := l.Pools[ids[i]], l.Pools[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return ids[i] < ids[j]
	})
	return ids
}

// AddPool registers a pool with its initial members and an empty history.
func (l *Ledger) AddPool(pool Pool, members []Member) {
	pool.TotalPooledLifetime = Round(pool.TotalPooledLifetime)
	for i := range members {
		members[i].LifetimeReceived = Round(members[i].LifetimeReceived)
	}
	l.Pools[pool.ID] = pool
	l.MembersByPoolID[pool.ID] = members
	l.DistributionsByPoolID[pool.ID] = []Distribution{}
}

// AddMember appends a member unless the user id is already present.
func (l *Ledger) AddMember(poolID string, m Member, at time.Time) (bool, error) {
	pool, ok := l.Pools[poolID]
	if !ok {
		return false, ErrPoolNotFound
	}
	members := l.MembersByPoolID[poolID]
	if HasMember(members, m.UserID) {
		return false, nil
	}
	m.LifetimeReceived = Round(m.LifetimeReceived)
	l.MembersByPoolID[poolID] = append(members, m)
	pool.UpdatedAt = at
	l.Pools[poolID] = pool
	return true, nil
}

// RecordDistribution applies a split to member and pool balances and prepends
// the resulting distribution to the pool history.
func (l *Ledger) RecordDistribution(poolID, id string, at time.Time, split SplitResult) (Distribution, error) {
	pool, ok := l.Pools[poolID]
	if !ok {
		return Distribution{}, ErrPoolNotFound
	}

	members := l.MembersByPoolID[poolID]
	payouts := make(map[string]Payout, len(split.Payouts))
	for _, p := range split.Payouts {
		payouts[p.UserID] = p
	}
	for i := range members {
		p, ok := payouts[members[i].UserID]
		if !ok {
			continue
		}
		members[i].LifetimeReceived = Round(members[i].LifetimeReceived.Add(p.Amount))
	}

	amount := Round(split.PoolAmount)
	dist := Distribution{
		ID:          id,
		PoolID:      poolID,
		CreatedAt:   at,
		PoolAmount:  amount,
		MemberCount: len(members),
	}
	l.DistributionsByPoolID[poolID] = append([]Distribution{dist}, l.DistributionsByPoolID[poolID]...)

	pool.TotalPooledLifetime = Round(pool.TotalPooledLifetime.Add(amount))
	last := at
	pool.LastDistributionAt = &last
	pool.UpdatedAt = at
	l.Pools[poolID] = pool

	return dist, nil
}
