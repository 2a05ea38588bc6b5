package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

var _ repository.NudgeRepository = (*DB)(nil)

// ActiveNudge returns the newest un-dismissed nudge for the user.
// Nudge rows are written by the AI worker; this side only reads them.
func (db *DB) ActiveNudge(ctx context.Context, userID string) (*model.Nudge, error) {
	var n model.Nudge

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, nudge_type, message, suggested_action, action_data, urgency, acted_on, created_at
		 FROM nudges
		 WHERE user_id = ? AND acted_on = 0
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(
		&n.ID, &n.UserID, &n.NudgeType, &n.Message, &n.SuggestedAction,
		&n.ActionData, &n.Urgency, &n.ActedOn, &n.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("nudge", userID)
		}
		return nil, fmt.Errorf("sqlite: getting active nudge: %w", err)
	}

	return &n, nil
}

func (db *DB) DismissNudge(ctx context.Context, userID, nudgeID string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE nudges SET acted_on = 1 WHERE id = ? AND user_id = ?`,
		nudgeID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: dismissing nudge %s: %w", nudgeID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("nudge", nudgeID)
	}

	return nil
}
