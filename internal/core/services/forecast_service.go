package services

import (
	"context"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

type forecastService struct {
	ledger *Ledger
}

func NewForecastService(ledger *Ledger) ports.ForecastService {
	return &forecastService{ledger: ledger}
}

// Forecast projects userID's weekly share in poolID. Unknown pools yield nil, nil.
func (s *forecastService) Forecast(ctx context.Context, poolID, userID string) (*domain.Forecast, error) {
	l, err := s.ledger.LoadOrSeed(ctx)
	if err != nil {
		return nil, err
	}

	pool, ok := l.Pool(poolID)
	if !ok {
		return nil, nil
	}

	members := l.Members(poolID)
	isFounder := false
	if i := domain.FounderIndex(pool, members); i >= 0 {
		isFounder = members[i].UserID == userID
	}

	forecast := domain.ProjectGrowth(pool, len(members), isFounder)
	return &forecast, nil
}
