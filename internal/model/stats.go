package model

// StatsSnapshot is a point-in-time aggregate of one user's activity.
// It is computed on demand and never stored — the session/challenge/hobby
// tables are the source of truth, this is just their summary.
//
// The JSON shape is snake_case, matching the AI job API. (An earlier version
// of the app accepted both snake_case and camelCase with per-field fallbacks;
// snake_case is now the one canonical shape.)
//
// LongestStreak >= CurrentStreak is expected from any sane producer but not
// enforced here — the milestone engine trusts the aggregate it's given.
type StatsSnapshot struct {
	TotalSessions       int     `json:"total_sessions"`
	CurrentStreak       int     `json:"current_streak"`  // consecutive days ending today or yesterday
	LongestStreak       int     `json:"longest_streak"`  // best run ever
	ChallengesCompleted int     `json:"challenges_completed"`
	HobbiesExplored     int     `json:"hobbies_explored"`
	TotalHours          float64 `json:"total_hours"`
	DaysSinceJoining    int     `json:"days_since_joining"`
}

// DayActivity summarises one day on the 7-day streak strip.
type DayActivity string

const (
	DayPracticed DayActivity = "practiced"
	DayThought   DayActivity = "thought"
	DayNone      DayActivity = "none"
)
