package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

var _ repository.QuizRepository = (*DB)(nil)

// UpsertResponses writes a batch of quiz answers in one transaction.
// ON CONFLICT on the (user_id, question_id) primary key makes retaking the
// quiz overwrite answers instead of stacking duplicates.
func (db *DB) UpsertResponses(ctx context.Context, userID string, responses []model.QuizResponse) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning quiz transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, r := range responses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO quiz_responses (user_id, question_id, answer, updated_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(user_id, question_id)
			 DO UPDATE SET answer = excluded.answer, updated_at = excluded.updated_at`,
			userID, r.QuestionID, r.Answer, now,
		)
		if err != nil {
			return fmt.Errorf("sqlite: upserting quiz response q%d: %w", r.QuestionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing quiz responses: %w", err)
	}
	return nil
}

func (db *DB) ListResponses(ctx context.Context, userID string) ([]model.QuizResponse, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, question_id, answer, updated_at
		 FROM quiz_responses WHERE user_id = ?
		 ORDER BY question_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing quiz responses: %w", err)
	}
	defer rows.Close()

	var responses []model.QuizResponse
	for rows.Next() {
		var r model.QuizResponse
		if err := rows.Scan(&r.UserID, &r.QuestionID, &r.Answer, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning quiz response row: %w", err)
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating quiz responses: %w", err)
	}

	return responses, nil
}
