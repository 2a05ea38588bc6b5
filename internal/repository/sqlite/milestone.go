package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

var _ repository.MilestoneRepository = (*DB)(nil)

func (db *DB) ListMilestones(ctx context.Context) ([]model.Milestone, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, slug, title, description, icon, created_at
		 FROM milestones ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing milestones: %w", err)
	}
	defer rows.Close()

	var milestones []model.Milestone
	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(&m.ID, &m.Slug, &m.Title, &m.Description, &m.Icon, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning milestone row: %w", err)
		}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating milestones: %w", err)
	}

	return milestones, nil
}

func (db *DB) ListEarned(ctx context.Context, userID string) ([]model.UserMilestone, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, milestone_id, earned_at
		 FROM user_milestones WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing earned milestones: %w", err)
	}
	defer rows.Close()

	var earned []model.UserMilestone
	for rows.Next() {
		var um model.UserMilestone
		if err := rows.Scan(&um.UserID, &um.MilestoneID, &um.EarnedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning earned milestone row: %w", err)
		}
		earned = append(earned, um)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating earned milestones: %w", err)
	}

	return earned, nil
}

// AwardMilestone inserts the award fact. This is the check-then-act race's
// backstop: when two concurrent evaluations both decide to award the same
// milestone, the UNIQUE(user_id, milestone_id) constraint rejects the loser,
// which we report as apperror.ErrConflict for the service to swallow.
func (db *DB) AwardMilestone(ctx context.Context, userID, milestoneID string, earnedAt time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_milestones (user_id, milestone_id, earned_at)
		 VALUES (?, ?, ?)`,
		userID, milestoneID, earnedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user_milestone", milestoneID)
		}
		return fmt.Errorf("sqlite: inserting milestone award %s: %w", milestoneID, err)
	}

	return nil
}
