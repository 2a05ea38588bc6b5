package service

import (
	"context"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

// StatsService exposes the dashboard aggregates. It's a thin pass-through to
// the stats provider — the aggregation itself lives in the repository layer
// where it can be done in SQL — but it keeps handlers off the repository and
// gives the numbers one place to grow rules later.
type StatsService struct {
	stats repository.StatsProvider
}

func NewStatsService(stats repository.StatsProvider) *StatsService {
	return &StatsService{stats: stats}
}

// Snapshot returns the full activity aggregate, freshly computed.
func (s *StatsService) Snapshot(ctx context.Context, userID string) (model.StatsSnapshot, error) {
	if userID == "" {
		return model.StatsSnapshot{}, apperror.ValidationFailed("userID", "user ID is required")
	}
	return s.stats.Snapshot(ctx, userID)
}

// StreakDays returns the 7-day activity strip, oldest first.
func (s *StatsService) StreakDays(ctx context.Context, userID string) ([]model.DayActivity, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userID", "user ID is required")
	}
	return s.stats.StreakDays(ctx, userID)
}

// Heatmap returns 84 days of practice intensity (0-3), oldest first.
func (s *StatsService) Heatmap(ctx context.Context, userID string) ([]int, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userID", "user ID is required")
	}
	return s.stats.Heatmap(ctx, userID)
}
