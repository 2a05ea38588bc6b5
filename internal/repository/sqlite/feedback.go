package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

var _ repository.FeedbackRepository = (*DB)(nil)

// SaveFeedback upserts the AI feedback for a session. The list fields are
// stored as JSON arrays in TEXT columns — they're opaque display content, and
// we never query inside them, so columns-per-item would buy nothing.
func (db *DB) SaveFeedback(ctx context.Context, fb *model.Feedback) error {
	observations, err := json.Marshal(fb.Observations)
	if err != nil {
		return fmt.Errorf("sqlite: encoding observations: %w", err)
	}
	growth, err := json.Marshal(fb.Growth)
	if err != nil {
		return fmt.Errorf("sqlite: encoding growth: %w", err)
	}
	suggestions, err := json.Marshal(fb.Suggestions)
	if err != nil {
		return fmt.Errorf("sqlite: encoding suggestions: %w", err)
	}

	fb.CreatedAt = time.Now().UTC()

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO ai_feedback (session_id, observations, growth, suggestions, celebration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id)
		 DO UPDATE SET observations = excluded.observations,
		               growth = excluded.growth,
		               suggestions = excluded.suggestions,
		               celebration = excluded.celebration`,
		fb.SessionID, string(observations), string(growth), string(suggestions),
		fb.Celebration, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving feedback for session %s: %w", fb.SessionID, err)
	}

	return nil
}

func (db *DB) GetFeedbackBySession(ctx context.Context, sessionID string) (*model.Feedback, error) {
	var fb model.Feedback
	var observations, growth, suggestions string

	err := db.conn.QueryRowContext(ctx,
		`SELECT session_id, observations, growth, suggestions, celebration, created_at
		 FROM ai_feedback WHERE session_id = ?`,
		sessionID,
	).Scan(&fb.SessionID, &observations, &growth, &suggestions, &fb.Celebration, &fb.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("feedback", sessionID)
		}
		return nil, fmt.Errorf("sqlite: getting feedback for session %s: %w", sessionID, err)
	}

	if err := json.Unmarshal([]byte(observations), &fb.Observations); err != nil {
		return nil, fmt.Errorf("sqlite: decoding observations: %w", err)
	}
	if err := json.Unmarshal([]byte(growth), &fb.Growth); err != nil {
		return nil, fmt.Errorf("sqlite: decoding growth: %w", err)
	}
	if err := json.Unmarshal([]byte(suggestions), &fb.Suggestions); err != nil {
		return nil, fmt.Errorf("sqlite: decoding suggestions: %w", err)
	}

	return &fb, nil
}
