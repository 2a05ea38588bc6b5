// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage implements them; tests swap in
// in-memory fakes. Services never import the sqlite package directly.
package repository

import (
	"context"
	"time"

	"github.com/anikasharma/meraki/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	// CreateWithPassword inserts a new password account.
	// Returns apperror.ErrConflict if the email is already registered.
	CreateWithPassword(ctx context.Context, user *model.User) error
	// UpsertGoogle inserts or refreshes an account keyed by Google subject ID.
	UpsertGoogle(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type HobbyRepository interface {
	ListHobbies(ctx context.Context) ([]model.Hobby, error)
	GetHobbyBySlug(ctx context.Context, slug string) (*model.Hobby, error)
	// AddUserHobby links a user to a hobby.
	// Returns apperror.ErrConflict if the link already exists.
	AddUserHobby(ctx context.Context, uh *model.UserHobby) error
	ListUserHobbies(ctx context.Context, userID string) ([]model.UserHobby, error)
	// GetUserHobby returns the link row (with Hobby populated) only if it
	// belongs to userID — ownership is checked in the query, not the caller.
	GetUserHobby(ctx context.Context, userID, id string) (*model.UserHobby, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSessionByID(ctx context.Context, userID, id string) (*model.Session, error)
	ListSessions(ctx context.Context, userID string, opts ListOptions) ([]model.Session, error)
	// ListRecentByHobby returns the newest sessions for one user hobby,
	// used to build context for the feedback job.
	ListRecentByHobby(ctx context.Context, userID, userHobbyID string, limit int) ([]model.Session, error)
}

type ChallengeRepository interface {
	ListUserChallenges(ctx context.Context, userID string) ([]model.UserChallenge, error)
	GetUserChallenge(ctx context.Context, userID, id string) (*model.UserChallenge, error)
	SetChallengeStatus(ctx context.Context, userID, id string, status model.ChallengeStatus, completedAt *time.Time) error
	CompletedChallengeTitles(ctx context.Context, userID string, limit int) ([]string, error)
	// SaveGeneratedChallenge inserts a worker-generated challenge and assigns
	// it to the user as active, atomically. The caller supplies the challenge
	// ID; saving an ID that already exists returns apperror.ErrConflict, which
	// is how re-polls of the same completed job avoid assigning it twice.
	SaveGeneratedChallenge(ctx context.Context, userID string, ch *model.Challenge) (*model.UserChallenge, error)
}

type MilestoneRepository interface {
	ListMilestones(ctx context.Context) ([]model.Milestone, error)
	ListEarned(ctx context.Context, userID string) ([]model.UserMilestone, error)
	// AwardMilestone inserts the (userID, milestoneID) fact.
	// Returns apperror.ErrConflict if the user already holds the milestone —
	// callers treat that as "someone else got there first", not a failure.
	AwardMilestone(ctx context.Context, userID, milestoneID string, earnedAt time.Time) error
}

type QuizRepository interface {
	UpsertResponses(ctx context.Context, userID string, responses []model.QuizResponse) error
	ListResponses(ctx context.Context, userID string) ([]model.QuizResponse, error)
}

type FeedbackRepository interface {
	// SaveFeedback upserts by session ID — re-running a feedback job for the
	// same session replaces the stored result rather than duplicating it.
	SaveFeedback(ctx context.Context, fb *model.Feedback) error
	GetFeedbackBySession(ctx context.Context, sessionID string) (*model.Feedback, error)
}

type NudgeRepository interface {
	// ActiveNudge returns the newest un-acted nudge for the user, or
	// apperror.ErrNotFound if there is none.
	ActiveNudge(ctx context.Context, userID string) (*model.Nudge, error)
	DismissNudge(ctx context.Context, userID, nudgeID string) error
}

// StatsProvider supplies the on-demand activity aggregate the milestone
// engine evaluates, plus the dashboard's streak strip and heatmap.
type StatsProvider interface {
	Snapshot(ctx context.Context, userID string) (model.StatsSnapshot, error)
	StreakDays(ctx context.Context, userID string) ([]model.DayActivity, error)
	Heatmap(ctx context.Context, userID string) ([]int, error)
}
