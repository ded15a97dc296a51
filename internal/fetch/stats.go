package fetch

import (
	"context"

	"github.com/promptart/backend/internal/models"
	"github.com/promptart/backend/internal/services"
)

// StatsFetcher exposes the gallery summary counters through a Single.
type StatsFetcher struct {
	*Single[*models.SummaryStats]
}

func NewStatsFetcher(stats *services.StatsService) *StatsFetcher {
	return &StatsFetcher{
		Single: NewSingle(func(ctx context.Context) (*models.SummaryStats, error) {
			return stats.GetStats(ctx)
		}),
	}
}
