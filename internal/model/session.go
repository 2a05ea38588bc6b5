package model

import "time"

// SessionType distinguishes hands-on practice from "thought about it" days.
// Both keep a streak alive, but only practice counts toward hour totals
// shown on the heatmap at full intensity.
type SessionType string

const (
	SessionPractice SessionType = "practice"
	SessionThought  SessionType = "thought"
)

// Mood is the user's self-reported feeling after a session.
// Empty string means "didn't say" — we deliberately don't force a check-in.
type Mood string

const (
	MoodLoved       Mood = "loved"
	MoodGood        Mood = "good"
	MoodOkay        Mood = "okay"
	MoodFrustrated  Mood = "frustrated"
	MoodDiscouraged Mood = "discouraged"
)

// ValidMood reports whether m is a known mood or the empty "unset" value.
func ValidMood(m Mood) bool {
	switch m {
	case "", MoodLoved, MoodGood, MoodOkay, MoodFrustrated, MoodDiscouraged:
		return true
	}
	return false
}

// Session is one logged practice session.
type Session struct {
	ID              string      `json:"id"                        db:"id"`
	UserID          string      `json:"userId"                    db:"user_id"`
	UserHobbyID     string      `json:"userHobbyId"               db:"user_hobby_id"`
	UserChallengeID string      `json:"userChallengeId,omitempty" db:"user_challenge_id"` // empty unless logged against a challenge
	SessionType     SessionType `json:"sessionType"               db:"session_type"`
	Duration        int         `json:"duration"                  db:"duration"` // minutes
	Mood            Mood        `json:"mood,omitempty"            db:"mood"`
	Notes           string      `json:"notes"                     db:"notes"`
	ImageURL        string      `json:"imageUrl,omitempty"        db:"image_url"`
	CreatedAt       time.Time   `json:"createdAt"                 db:"created_at"`

	// Populated on detail reads.
	Hobby    *Hobby    `json:"hobby,omitempty"    db:"-"`
	Feedback *Feedback `json:"feedback,omitempty" db:"-"`
}
