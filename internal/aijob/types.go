// Package aijob is the client for the external AI job service.
//
// Every AI computation (hobby-match discovery, practice feedback, motivation
// nudges) follows the same two-phase shape: a trigger call that returns an
// opaque job ID, then repeated polls of that ID until the job reaches a
// terminal state. Only the payloads and endpoint paths differ per kind.
//
// The client is deliberately dumb: it validates shapes at the boundary and
// reports what the remote said, nothing more. It never caches, never retries,
// and never re-triggers a job on its own — poll cadence, backoff, and max
// attempts are the caller's policy, not the client's.
package aijob

import (
	"encoding/json"
	"fmt"
)

// Status is the client-observed job state.
// Jobs move pending → running → exactly one of {completed, failed}, and the
// worker never moves them again after that.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the job has finished, successfully or not.
// Polling a terminal job is a restartable read: it returns the same payload
// every time.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s Status) known() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// JobStatus is one poll observation. Exactly one of Result and Error is set
// once the job is terminal; both are empty while it's pending or running.
// Result stays raw here — each job kind decodes it with the typed helpers below.
type JobStatus struct {
	JobID     string          `json:"job_id"`
	Status    Status          `json:"status"`
	Result    json.RawMessage `json:"result"`
	Error     string          `json:"error"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// HobbyMatch is one entry in a completed discovery result.
type HobbyMatch struct {
	HobbySlug       string   `json:"hobby_slug"`
	MatchPercentage float64  `json:"match_percentage"`
	MatchTags       []string `json:"match_tags"`
	Reasoning       string   `json:"reasoning"`
}

// DiscoveryResult is the payload of a completed discovery job.
type DiscoveryResult struct {
	Matches       []HobbyMatch `json:"matches"`
	Encouragement string       `json:"encouragement,omitempty"`
}

// FeedbackResult is the payload of a completed practice-feedback job.
type FeedbackResult struct {
	Observations []string `json:"observations"`
	Growth       []string `json:"growth"`
	Suggestions  []string `json:"suggestions"`
	Celebration  string   `json:"celebration"`
}

// FeedbackInput is everything the worker needs to reflect on one session.
// The context strings (RecentSessions, CompletedChallenges) are prose
// summaries, not structured data — the worker feeds them straight to a model.
type FeedbackInput struct {
	SessionID           string `json:"session_id"`
	UserID              string `json:"user_id"`
	HobbyName           string `json:"hobby_name"`
	SessionType         string `json:"session_type"`
	Duration            int    `json:"duration"`
	Mood                string `json:"mood"`
	Notes               string `json:"notes"`
	ImageURL            string `json:"image_url"`
	RecentSessions      string `json:"recent_sessions"`
	CompletedChallenges string `json:"completed_challenges"`
}

// ChallengeInput carries the practice-history signals the worker uses to
// tailor a generated challenge. Like FeedbackInput, the aggregate fields are
// prose summaries ("good: 3, okay: 1"), not structured data.
type ChallengeInput struct {
	UserID              string `json:"user_id"`
	HobbyName           string `json:"hobby_name"`
	HobbySlug           string `json:"hobby_slug"`
	SessionCount        int    `json:"session_count"`
	AvgDuration         int    `json:"avg_duration"`
	MoodDistribution    string `json:"mood_distribution"`
	DaysActive          int    `json:"days_active"`
	CompletedChallenges string `json:"completed_challenges"`
	SkippedChallenges   string `json:"skipped_challenges"`
	RecentFeedback      string `json:"recent_feedback"`
	LastMoodTrend       string `json:"last_mood_trend"`
}

// ChallengeResult is the payload of a completed challenge-generation job.
// The worker returns more fields than the app stores (tips, skills, time
// estimates); only the ones with a column behind them are decoded.
type ChallengeResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

// MotivationInput carries the engagement signals for a motivation check.
// The worker decides whether a nudge is warranted and, if so, writes it to
// the nudges table itself — there is no poll step for this kind.
type MotivationInput struct {
	UserID                string  `json:"user_id"`
	HobbyName             string  `json:"hobby_name"`
	HobbySlug             string  `json:"hobby_slug"`
	DaysSinceLastSession  int     `json:"days_since_last_session"`
	RecentMoods           string  `json:"recent_moods"`
	ChallengeSkipRate     float64 `json:"challenge_skip_rate"`
	CurrentStreak         int     `json:"current_streak"`
	LongestStreak         int     `json:"longest_streak"`
	SessionFrequencyTrend string  `json:"session_frequency_trend"`
}

// DecodeResult unmarshals a completed job's result into the kind-specific
// type. Calling it on a non-completed job is a caller bug, reported as an
// error rather than a zero value so it can't be mistaken for an empty result.
func DecodeResult[T any](js *JobStatus) (*T, error) {
	if js.Status != StatusCompleted {
		return nil, fmt.Errorf("aijob: decoding result of non-completed job %s (status %s)", js.JobID, js.Status)
	}
	var out T
	if err := json.Unmarshal(js.Result, &out); err != nil {
		return nil, fmt.Errorf("aijob: decoding result of job %s: %w", js.JobID, err)
	}
	return &out, nil
}
