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

var _ repository.HobbyRepository = (*DB)(nil)

func (db *DB) ListHobbies(ctx context.Context) ([]model.Hobby, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, slug, name, category FROM hobbies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing hobbies: %w", err)
	}
	defer rows.Close()

	var hobbies []model.Hobby
	for rows.Next() {
		var h model.Hobby
		if err := rows.Scan(&h.ID, &h.Slug, &h.Name, &h.Category); err != nil {
			return nil, fmt.Errorf("sqlite: scanning hobby row: %w", err)
		}
		hobbies = append(hobbies, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating hobbies: %w", err)
	}

	return hobbies, nil
}

func (db *DB) GetHobbyBySlug(ctx context.Context, slug string) (*model.Hobby, error) {
	var h model.Hobby
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, slug, name, category FROM hobbies WHERE slug = ?`, slug,
	).Scan(&h.ID, &h.Slug, &h.Name, &h.Category)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("hobby", slug)
		}
		return nil, fmt.Errorf("sqlite: getting hobby %s: %w", slug, err)
	}
	return &h, nil
}

// AddUserHobby links a user to a hobby. The UNIQUE(user_id, hobby_id)
// constraint turns a duplicate add into apperror.ErrConflict.
func (db *DB) AddUserHobby(ctx context.Context, uh *model.UserHobby) error {
	uh.ID = newID()
	uh.StartedAt = time.Now().UTC()
	if uh.Status == "" {
		uh.Status = model.HobbyActive
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_hobbies (id, user_id, hobby_id, status, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uh.ID, uh.UserID, uh.HobbyID, uh.Status, uh.StartedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user_hobby", uh.HobbyID)
		}
		return fmt.Errorf("sqlite: inserting user hobby: %w", err)
	}

	return nil
}

func (db *DB) ListUserHobbies(ctx context.Context, userID string) ([]model.UserHobby, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT uh.id, uh.user_id, uh.hobby_id, uh.status, uh.started_at,
		        h.id, h.slug, h.name, h.category
		 FROM user_hobbies uh
		 JOIN hobbies h ON h.id = uh.hobby_id
		 WHERE uh.user_id = ?
		 ORDER BY uh.started_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing user hobbies: %w", err)
	}
	defer rows.Close()

	var result []model.UserHobby
	for rows.Next() {
		var uh model.UserHobby
		var h model.Hobby
		if err := rows.Scan(
			&uh.ID, &uh.UserID, &uh.HobbyID, &uh.Status, &uh.StartedAt,
			&h.ID, &h.Slug, &h.Name, &h.Category,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user hobby row: %w", err)
		}
		uh.Hobby = &h
		result = append(result, uh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user hobbies: %w", err)
	}

	return result, nil
}

// GetUserHobby fetches one link row with the hobby joined in. The user_id
// predicate is part of the query so a caller can never read another user's row.
func (db *DB) GetUserHobby(ctx context.Context, userID, id string) (*model.UserHobby, error) {
	var uh model.UserHobby
	var h model.Hobby

	err := db.conn.QueryRowContext(ctx,
		`SELECT uh.id, uh.user_id, uh.hobby_id, uh.status, uh.started_at,
		        h.id, h.slug, h.name, h.category
		 FROM user_hobbies uh
		 JOIN hobbies h ON h.id = uh.hobby_id
		 WHERE uh.id = ? AND uh.user_id = ?`,
		id, userID,
	).Scan(
		&uh.ID, &uh.UserID, &uh.HobbyID, &uh.Status, &uh.StartedAt,
		&h.ID, &h.Slug, &h.Name, &h.Category,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user hobby", id)
		}
		return nil, fmt.Errorf("sqlite: getting user hobby %s: %w", id, err)
	}

	uh.Hobby = &h
	return &uh, nil
}
