package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/milestone"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

// MilestoneService awards achievements and reports their status.
//
// The award path is deliberately not transactional across users' other
// activity: CheckAndAward recomputes a fresh stats snapshot, runs the pure
// rule engine over it, and inserts the winners. The UNIQUE(user_id,
// milestone_id) constraint in the milestones table is the only concurrency
// control — a duplicate insert means another request got there first, and is
// silently skipped rather than reported.
type MilestoneService struct {
	milestones repository.MilestoneRepository
	stats      repository.StatsProvider
	catalog    []milestone.Definition
	logger     *slog.Logger
}

func NewMilestoneService(
	milestones repository.MilestoneRepository,
	stats repository.StatsProvider,
	logger *slog.Logger,
) *MilestoneService {
	return &MilestoneService{
		milestones: milestones,
		stats:      stats,
		catalog:    milestone.Catalog(),
		logger:     logger,
	}
}

// CheckAndAward evaluates every milestone rule against the user's current
// stats and persists any newly satisfied ones. It returns only the milestones
// this call actually awarded, in catalog order, so the caller can show
// "you just earned X" toasts without double-announcing.
//
// Calling it any number of times is safe: once a milestone row exists, later
// satisfied evaluations hit the unique constraint and are skipped. A failed
// insert for one milestone never blocks the others — it's logged and the loop
// moves on; the milestone will be picked up by a future check.
func (s *MilestoneService) CheckAndAward(ctx context.Context, userID string) ([]model.Milestone, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userID", "user ID is required")
	}

	snap, err := s.stats.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/milestone: computing stats for %s: %w", userID, err)
	}

	rows, err := s.milestones.ListMilestones(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/milestone: loading milestone catalog: %w", err)
	}
	bySlug := make(map[string]model.Milestone, len(rows))
	for _, m := range rows {
		bySlug[m.Slug] = m
	}

	earned, err := s.milestones.ListEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/milestone: loading earned milestones: %w", err)
	}
	earnedIDs := make(map[string]bool, len(earned))
	for _, um := range earned {
		earnedIDs[um.MilestoneID] = true
	}

	satisfied := milestone.Evaluate(snap, s.catalog)

	now := time.Now().UTC()
	var awarded []model.Milestone
	for _, def := range satisfied {
		row, ok := bySlug[def.Slug]
		if !ok {
			// Catalog code and seed data disagree; loud log, keep going.
			s.logger.Error("milestone rule has no catalog row", slog.String("slug", def.Slug))
			continue
		}
		if earnedIDs[row.ID] {
			continue
		}

		err := s.milestones.AwardMilestone(ctx, userID, row.ID, now)
		if errors.Is(err, apperror.ErrConflict) {
			// A concurrent check inserted it between our read and our write.
			// The milestone IS earned — it's just not ours to announce.
			continue
		}
		if err != nil {
			s.logger.Error("failed to award milestone",
				slog.String("userID", userID),
				slog.String("slug", def.Slug),
				slog.String("error", err.Error()),
			)
			continue
		}

		s.logger.Info("milestone awarded",
			slog.String("userID", userID),
			slog.String("slug", def.Slug),
		)
		awarded = append(awarded, row)
	}

	return awarded, nil
}

// ListWithStatus returns the full catalog merged with the user's earned
// state, in catalog order — the shape the milestones page renders.
func (s *MilestoneService) ListWithStatus(ctx context.Context, userID string) ([]model.MilestoneStatus, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userID", "user ID is required")
	}

	rows, err := s.milestones.ListMilestones(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/milestone: loading milestone catalog: %w", err)
	}

	earned, err := s.milestones.ListEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/milestone: loading earned milestones: %w", err)
	}
	earnedAt := make(map[string]time.Time, len(earned))
	for _, um := range earned {
		earnedAt[um.MilestoneID] = um.EarnedAt
	}

	statuses := make([]model.MilestoneStatus, 0, len(rows))
	for _, m := range rows {
		st := model.MilestoneStatus{Milestone: m}
		if at, ok := earnedAt[m.ID]; ok {
			st.Earned = true
			at := at
			st.EarnedAt = &at
		}
		statuses = append(statuses, st)
	}

	return statuses, nil
}
