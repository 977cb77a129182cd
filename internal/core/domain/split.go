package domain

import (
	"github.com/shopspring/decimal"
)

type Payout struct {
	UserID    string          `json:"userId"`
	IsFounder bool            `json:"isFounder"`
	Amount    decimal.Decimal `json:"amount"`
}

// SplitResult is the breakdown of one pool amount across a member set.
//
// FounderUserID is empty when no founder could be resolved. In that case nobody
// receives the bonus and the payouts sum to less than PoolAmount.
type SplitResult struct {
	PoolAmount    decimal.Decimal `json:"poolAmount"`
	FounderBonus  decimal.Decimal `json:"founderBonus"`
	Remainder     decimal.Decimal `json:"remainder"`
	PerMember     decimal.Decimal `json:"perMember"`
	MemberCount   int             `json:"memberCount"`
	FounderUserID string          `json:"founderUserId,omitempty"`
	Payouts       []Payout        `json:"payouts"`
}

// Split computes the founder bonus and the equal share of the remainder.
// Bonus and per-member share are each rounded to one decimal place.
func Split(pool Pool, members []Member, poolAmount decimal.Decimal) (SplitResult, error) {
	if len(members) == 0 {
		return SplitResult{}, ErrEmptyPool
	}
	if !poolAmount.IsPositive() {
		return SplitResult{}, ErrInvalidAmount
	}
	if !ValidBonusRate(pool.FounderBonusBps) {
		return SplitResult{}, ErrInvalidBonusRate
	}

	founderBonus := Round(poolAmount.Mul(BpsRate(pool.FounderBonusBps)))
	remainder := poolAmount.Sub(founderBonus)
	perMember := Round(remainder.Div(decimal.NewFromInt(int64(len(members)))))

	res := SplitResult{
		PoolAmount:   poolAmount,
		FounderBonus: founderBonus,
		Remainder:    remainder,
		PerMember:    perMember,
		MemberCount:  len(members),
		Payouts:      make([]Payout, 0, len(members)),
	}

	founder := FounderIndex(pool, members)
	if founder >= 0 {
		res.FounderUserID = members[founder].UserID
	}

	for i, m := range members {
		p := Payout{UserID: m.UserID, Amount: perMember}
		if i == founder {
			p.IsFounder = true
			p.Amount = founderBonus.Add(perMember)
		}
		res.Payouts = append(res.Payouts, p)
	}

	return res, nil
}

// Total is the sum of all payouts.
func (s SplitResult) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payouts {
		total = total.Add(p.Amount)
	}
	return total
}
