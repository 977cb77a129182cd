package domain

import "github.com/shopspring/decimal"

// ForecastContributionPerMember is the assumed weekly contribution of one member.
const ForecastContributionPerMember = 50

type ForecastScenario struct {
	Members   int             `json:"members"`
	PoolTotal decimal.Decimal `json:"poolTotal"`
	YourShare decimal.Decimal `json:"yourShare"`
}

type Forecast struct {
	PoolID      string             `json:"poolId"`
	IsFounder   bool               `json:"isFounder"`
	Current     ForecastScenario   `json:"current"`
	Projections []ForecastScenario `json:"projections"`
}

// ProjectGrowth estimates the weekly share at the current member count and at
// three larger sizes. Intermediate values keep full precision; only the reported
// totals are rounded.
func ProjectGrowth(pool Pool, memberCount int, isFounder bool) Forecast {
	counts := []int{
		memberCount,
		max(memberCount+2, 6),
		max(memberCount+4, 10),
		max(memberCount+8, 15),
	}

	scenarios := make([]ForecastScenario, 0, len(counts))
	for _, n := range counts {
		scenarios = append(scenarios, scenario(pool, n, isFounder))
	}

	return Forecast{
		PoolID:      pool.ID,
		IsFounder:   isFounder,
		Current:     scenarios[0],
		Projections: scenarios[1:],
	}
}

func scenario(pool Pool, members int, isFounder bool) ForecastScenario {
	total := decimal.NewFromInt(int64(members * ForecastContributionPerMember))
	if members == 0 {
		return ForecastScenario{Members: 0, PoolTotal: total, YourShare: decimal.Zero}
	}

	bonus := total.Mul(BpsRate(pool.FounderBonusBps))
	perMember := total.Sub(bonus).Div(decimal.NewFromInt(int64(members)))
	share := perMember
	if isFounder {
		share = bonus.Add(perMember)
	}

	return ForecastScenario{
		Members:   members,
		PoolTotal: Round(total),
		YourShare: Round(share),
	}
}
