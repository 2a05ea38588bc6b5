package model

import "time"

// Challenge is a catalog entry: a creative prompt tied to one hobby.
type Challenge struct {
	ID          string `json:"id"          db:"id"`
	HobbyID     string `json:"hobbyId"     db:"hobby_id"`
	Title       string `json:"title"       db:"title"`
	Description string `json:"description" db:"description"`
	Difficulty  string `json:"difficulty"  db:"difficulty"` // beginner | intermediate | advanced
}

// ChallengeStatus is the lifecycle of an accepted challenge.
// Skipping is a first-class outcome — the motivation nudge uses the skip rate
// as an engagement signal, so we keep skipped rows rather than deleting them.
type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"
	ChallengeCompleted ChallengeStatus = "completed"
	ChallengeSkipped   ChallengeStatus = "skipped"
)

// UserChallenge links a user to a challenge they accepted.
type UserChallenge struct {
	ID          string          `json:"id"                    db:"id"`
	UserID      string          `json:"userId"                db:"user_id"`
	ChallengeID string          `json:"challengeId"           db:"challenge_id"`
	Status      ChallengeStatus `json:"status"                db:"status"`
	StartedAt   time.Time       `json:"startedAt"             db:"started_at"`
	CompletedAt *time.Time      `json:"completedAt,omitempty" db:"completed_at"`

	Challenge *Challenge `json:"challenge,omitempty" db:"-"`
}
