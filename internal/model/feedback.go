package model

import "time"

// Feedback is the AI-generated reflection on one practice session, persisted
// once the feedback job completes so it survives beyond the job record.
// One row per session at most.
type Feedback struct {
	SessionID    string    `json:"sessionId"    db:"session_id"`
	Observations []string  `json:"observations" db:"observations"` // stored as a JSON array
	Growth       []string  `json:"growth"       db:"growth"`
	Suggestions  []string  `json:"suggestions"  db:"suggestions"`
	Celebration  string    `json:"celebration"  db:"celebration"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
}
