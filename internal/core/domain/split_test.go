package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, amt(want).Equal(got), "want %s, got %s", want, got)
}

func fourMembers(founderID string) []Member {
	return []Member{
		{UserID: founderID, DisplayName: "Sarah", IsFounder: true},
		{UserID: "tom", DisplayName: "Tom"},
		{UserID: "lisa", DisplayName: "Lisa"},
		{UserID: "james", DisplayName: "James"},
	}
}

func TestSplit_FounderBonusAndEqualShare(t *testing.T) {
	pool := Pool{ID: "p", FounderUserID: "sarah", FounderBonusBps: 500}

	res, err := Split(pool, fourMembers("sarah"), amt("100.0"))
	require.NoError(t, err)

	assertAmount(t, "5.0", res.FounderBonus)
	assertAmount(t, "95.0", res.Remainder)
	assertAmount(t, "23.8", res.PerMember)
	assert.Equal(t, "sarah", res.FounderUserID)
	assert.Equal(t, 4, res.MemberCount)

	require.Len(t, res.Payouts, 4)
	assert.True(t, res.Payouts[0].IsFounder)
	assertAmount(t, "28.8", res.Payouts[0].Amount)
	for _, p := range res.Payouts[1:] {
		assert.False(t, p.IsFounder)
		assertAmount(t, "23.8", p.Amount)
	}
	assertAmount(t, "100.2", res.Total())
}

func TestSplit_FounderFallsBackToFlag(t *testing.T) {
	pool := Pool{ID: "p", FounderUserID: "someone-else", FounderBonusBps: 500}
	members := fourMembers("sarah")

	res, err := Split(pool, members, amt("100.0"))
	require.NoError(t, err)

	assert.Equal(t, "sarah", res.FounderUserID)
	assertAmount(t, "28.8", res.Payouts[0].Amount)
}

func TestSplit_UnresolvedFounderGetsNoBonus(t *testing.T) {
	pool := Pool{ID: "p", FounderUserID: "ghost", FounderBonusBps: 500}
	members := fourMembers("sarah")
	members[0].IsFounder = false

	res, err := Split(pool, members, amt("100.0"))
	require.NoError(t, err)

	assert.Empty(t, res.FounderUserID)
	for _, p := range res.Payouts {
		assert.False(t, p.IsFounder)
		assertAmount(t, "23.8", p.Amount)
	}
	assertAmount(t, "95.2", res.Total())
}

func TestSplit_Errors(t *testing.T) {
	pool := Pool{ID: "p", FounderUserID: "sarah", FounderBonusBps: 500}

	_, err := Split(pool, nil, amt("50"))
	assert.ErrorIs(t, err, ErrEmptyPool)

	_, err = Split(pool, fourMembers("sarah"), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	pool.FounderBonusBps = 10_001
	_, err = Split(pool, fourMembers("sarah"), amt("50"))
	assert.ErrorIs(t, err, ErrInvalidBonusRate)
}

func TestSplit_RoundingDriftIsBounded(t *testing.T) {
	pool := Pool{ID: "p", FounderUserID: "u0", FounderBonusBps: DefaultFounderBonusBps}

	for n := 1; n <= 12; n++ {
		members := make([]Member, n)
		for i := range members {
			members[i] = Member{UserID: fmt.Sprintf("u%d", i)}
		}
		tolerance := decimal.NewFromFloat(0.1).Mul(decimal.NewFromInt(int64(n)))

		for tenths := 400; tenths < 800; tenths++ {
			amount := decimal.New(int64(tenths), -1)
			res, err := Split(pool, members, amount)
			require.NoError(t, err)

			require.True(t, res.FounderBonus.Add(res.Remainder).Equal(amount))
			drift := res.Total().Sub(amount).Abs()
			require.True(t, drift.LessThanOrEqual(tolerance),
				"amount %s members %d drift %s", amount, n, drift)
		}
	}
}
