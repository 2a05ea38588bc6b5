package model

import "time"

// Milestone is a catalog row: one achievement that can be earned once.
// The rule that decides when it's earned lives in the milestone package as
// code, keyed by Slug — the DB row only carries the display data and identity.
type Milestone struct {
	ID          string    `json:"id"          db:"id"`
	Slug        string    `json:"slug"        db:"slug"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon"        db:"icon"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

// UserMilestone is the fact "this user earned this milestone at this time".
// (user_id, milestone_id) is UNIQUE in the DB — that single constraint is the
// whole concurrency story for awarding. Rows are created once and never
// mutated or deleted.
type UserMilestone struct {
	UserID      string    `json:"userId"      db:"user_id"`
	MilestoneID string    `json:"milestoneId" db:"milestone_id"`
	EarnedAt    time.Time `json:"earnedAt"    db:"earned_at"`
}

// MilestoneStatus is a milestone merged with one user's earned state,
// the shape the milestones page renders.
type MilestoneStatus struct {
	Milestone
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earnedAt,omitempty"`
}
