package model

import "time"

// NudgeUrgency grades how strongly a motivation nudge should be presented.
type NudgeUrgency string

const (
	NudgeGentle   NudgeUrgency = "gentle"
	NudgeCheckIn  NudgeUrgency = "check_in"
	NudgeReEngage NudgeUrgency = "re_engage"
)

// Nudge is a motivational message written by the AI worker when a user's
// engagement signals suggest they're drifting. The worker inserts rows as a
// side effect of a motivation-check job; this app only reads and dismisses them.
type Nudge struct {
	ID              string       `json:"id"              db:"id"`
	UserID          string       `json:"userId"          db:"user_id"`
	NudgeType       string       `json:"nudgeType"       db:"nudge_type"`
	Message         string       `json:"message"         db:"message"`
	SuggestedAction string       `json:"suggestedAction" db:"suggested_action"`
	ActionData      string       `json:"actionData"      db:"action_data"`
	Urgency         NudgeUrgency `json:"urgency"         db:"urgency"`
	ActedOn         bool         `json:"actedOn"         db:"acted_on"`
	CreatedAt       time.Time    `json:"createdAt"       db:"created_at"`
}
