package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

var _ repository.SessionRepository = (*DB)(nil)

func (db *DB) CreateSession(ctx context.Context, session *model.Session) error {
	session.ID = newID()
	session.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO practice_sessions
		   (id, user_id, user_hobby_id, user_challenge_id, session_type, duration, mood, notes, image_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.UserHobbyID,
		session.UserChallengeID,
		session.SessionType,
		session.Duration,
		session.Mood,
		session.Notes,
		session.ImageURL,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting session: %w", err)
	}

	return nil
}

// GetSessionByID returns one session with its hobby and any stored AI
// feedback joined in. Scoped to userID — asking for someone else's session
// looks the same as it not existing.
func (db *DB) GetSessionByID(ctx context.Context, userID, id string) (*model.Session, error) {
	var s model.Session
	var h model.Hobby

	err := db.conn.QueryRowContext(ctx,
		`SELECT s.id, s.user_id, s.user_hobby_id, s.user_challenge_id, s.session_type,
		        s.duration, s.mood, s.notes, s.image_url, s.created_at,
		        h.id, h.slug, h.name, h.category
		 FROM practice_sessions s
		 JOIN user_hobbies uh ON uh.id = s.user_hobby_id
		 JOIN hobbies h ON h.id = uh.hobby_id
		 WHERE s.id = ? AND s.user_id = ?`,
		id, userID,
	).Scan(
		&s.ID, &s.UserID, &s.UserHobbyID, &s.UserChallengeID, &s.SessionType,
		&s.Duration, &s.Mood, &s.Notes, &s.ImageURL, &s.CreatedAt,
		&h.ID, &h.Slug, &h.Name, &h.Category,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("session", id)
		}
		return nil, fmt.Errorf("sqlite: getting session %s: %w", id, err)
	}
	s.Hobby = &h

	// Feedback is optional — most sessions never request it.
	fb, err := db.GetFeedbackBySession(ctx, s.ID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	s.Feedback = fb

	return &s, nil
}

func (db *DB) ListSessions(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Session, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT s.id, s.user_id, s.user_hobby_id, s.user_challenge_id, s.session_type,
		        s.duration, s.mood, s.notes, s.image_url, s.created_at,
		        h.id, h.slug, h.name, h.category
		 FROM practice_sessions s
		 JOIN user_hobbies uh ON uh.id = s.user_hobby_id
		 JOIN hobbies h ON h.id = uh.hobby_id
		 WHERE s.user_id = ?
		 ORDER BY s.created_at DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.Session, 0, limit)
	for rows.Next() {
		var s model.Session
		var h model.Hobby
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.UserHobbyID, &s.UserChallengeID, &s.SessionType,
			&s.Duration, &s.Mood, &s.Notes, &s.ImageURL, &s.CreatedAt,
			&h.ID, &h.Slug, &h.Name, &h.Category,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning session row: %w", err)
		}
		s.Hobby = &h
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating sessions: %w", err)
	}

	return sessions, nil
}

func (db *DB) ListRecentByHobby(ctx context.Context, userID, userHobbyID string, limit int) ([]model.Session, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, user_hobby_id, user_challenge_id, session_type,
		        duration, mood, notes, image_url, created_at
		 FROM practice_sessions
		 WHERE user_id = ? AND user_hobby_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		userID, userHobbyID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing recent sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.Session, 0, limit)
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.UserHobbyID, &s.UserChallengeID, &s.SessionType,
			&s.Duration, &s.Mood, &s.Notes, &s.ImageURL, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning recent session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating recent sessions: %w", err)
	}

	return sessions, nil
}
