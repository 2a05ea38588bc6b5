package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

var _ repository.ChallengeRepository = (*DB)(nil)

func (db *DB) ListUserChallenges(ctx context.Context, userID string) ([]model.UserChallenge, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT uc.id, uc.user_id, uc.challenge_id, uc.status, uc.started_at, uc.completed_at,
		        c.id, c.hobby_id, c.title, c.description, c.difficulty
		 FROM user_challenges uc
		 JOIN challenges c ON c.id = uc.challenge_id
		 WHERE uc.user_id = ?
		 ORDER BY uc.started_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing user challenges: %w", err)
	}
	defer rows.Close()

	var result []model.UserChallenge
	for rows.Next() {
		var uc model.UserChallenge
		var c model.Challenge
		var completedAt sql.NullTime
		if err := rows.Scan(
			&uc.ID, &uc.UserID, &uc.ChallengeID, &uc.Status, &uc.StartedAt, &completedAt,
			&c.ID, &c.HobbyID, &c.Title, &c.Description, &c.Difficulty,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user challenge row: %w", err)
		}
		if completedAt.Valid {
			uc.CompletedAt = &completedAt.Time
		}
		uc.Challenge = &c
		result = append(result, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user challenges: %w", err)
	}

	return result, nil
}

func (db *DB) GetUserChallenge(ctx context.Context, userID, id string) (*model.UserChallenge, error) {
	var uc model.UserChallenge
	var c model.Challenge
	var completedAt sql.NullTime

	err := db.conn.QueryRowContext(ctx,
		`SELECT uc.id, uc.user_id, uc.challenge_id, uc.status, uc.started_at, uc.completed_at,
		        c.id, c.hobby_id, c.title, c.description, c.difficulty
		 FROM user_challenges uc
		 JOIN challenges c ON c.id = uc.challenge_id
		 WHERE uc.id = ? AND uc.user_id = ?`,
		id, userID,
	).Scan(
		&uc.ID, &uc.UserID, &uc.ChallengeID, &uc.Status, &uc.StartedAt, &completedAt,
		&c.ID, &c.HobbyID, &c.Title, &c.Description, &c.Difficulty,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("challenge", id)
		}
		return nil, fmt.Errorf("sqlite: getting user challenge %s: %w", id, err)
	}

	if completedAt.Valid {
		uc.CompletedAt = &completedAt.Time
	}
	uc.Challenge = &c
	return &uc, nil
}

// SetChallengeStatus moves an accepted challenge to completed or skipped.
// RowsAffected detects "not found" without a prior SELECT.
func (db *DB) SetChallengeStatus(ctx context.Context, userID, id string, status model.ChallengeStatus, completedAt *time.Time) error {
	var ts any
	if completedAt != nil {
		ts = completedAt.UTC()
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE user_challenges SET status = ?, completed_at = ?
		 WHERE id = ? AND user_id = ?`,
		status, ts, id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating challenge %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("challenge", id)
	}

	return nil
}

// SaveGeneratedChallenge inserts a generated challenge and its active
// assignment in one transaction. The challenge ID comes from the caller (it
// keys on the job that produced it), so re-saving the same job's output hits
// the primary key and comes back as a conflict instead of a duplicate.
func (db *DB) SaveGeneratedChallenge(ctx context.Context, userID string, ch *model.Challenge) (*model.UserChallenge, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO challenges (id, hobby_id, title, description, difficulty)
		 VALUES (?, ?, ?, ?, ?)`,
		ch.ID, ch.HobbyID, ch.Title, ch.Description, ch.Difficulty,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("challenge", ch.ID)
		}
		return nil, fmt.Errorf("sqlite: inserting generated challenge: %w", err)
	}

	uc := &model.UserChallenge{
		ID:          newID(),
		UserID:      userID,
		ChallengeID: ch.ID,
		Status:      model.ChallengeActive,
		StartedAt:   time.Now().UTC(),
		Challenge:   ch,
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_challenges (id, user_id, challenge_id, status, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uc.ID, uc.UserID, uc.ChallengeID, uc.Status, uc.StartedAt,
	); err != nil {
		return nil, fmt.Errorf("sqlite: assigning generated challenge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing generated challenge: %w", err)
	}
	return uc, nil
}

// CompletedChallengeTitles feeds the feedback job's context: the titles of up
// to limit recently completed challenges.
func (db *DB) CompletedChallengeTitles(ctx context.Context, userID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.title
		 FROM user_challenges uc
		 JOIN challenges c ON c.id = uc.challenge_id
		 WHERE uc.user_id = ? AND uc.status = 'completed'
		 ORDER BY uc.completed_at DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing completed challenge titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("sqlite: scanning challenge title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating challenge titles: %w", err)
	}

	return titles, nil
}
