package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anikasharma/meraki/internal/aijob"
	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

// noSessionSentinel is what days_since_last_session reports when the user has
// never logged a session — large enough that the worker treats it as "long
// gone" without a special case on its side.
const noSessionSentinel = 999

// NudgeService reads and dismisses motivation nudges, and assembles the
// engagement signals for a motivation-check job. Nudge rows themselves are
// written by the AI worker as a job side effect; this side never inserts them.
type NudgeService struct {
	nudges     repository.NudgeRepository
	sessions   repository.SessionRepository
	challenges repository.ChallengeRepository
	hobbies    repository.HobbyRepository
	stats      repository.StatsProvider
	ai         aijob.API
	logger     *slog.Logger
}

func NewNudgeService(
	nudges repository.NudgeRepository,
	sessions repository.SessionRepository,
	challenges repository.ChallengeRepository,
	hobbies repository.HobbyRepository,
	stats repository.StatsProvider,
	ai aijob.API,
	logger *slog.Logger,
) *NudgeService {
	return &NudgeService{
		nudges:     nudges,
		sessions:   sessions,
		challenges: challenges,
		hobbies:    hobbies,
		stats:      stats,
		ai:         ai,
		logger:     logger,
	}
}

// Active returns the newest un-dismissed nudge, or apperror.ErrNotFound when
// there is none — the dashboard shows nothing in that case.
func (s *NudgeService) Active(ctx context.Context, userID string) (*model.Nudge, error) {
	return s.nudges.ActiveNudge(ctx, userID)
}

// Dismiss marks a nudge acted-on so it stops appearing.
func (s *NudgeService) Dismiss(ctx context.Context, userID, nudgeID string) error {
	if nudgeID == "" {
		return apperror.ValidationFailed("nudgeID", "nudge ID is required")
	}
	if err := s.nudges.DismissNudge(ctx, userID, nudgeID); err != nil {
		return fmt.Errorf("service/nudge: dismissing nudge %s: %w", nudgeID, err)
	}

	s.logger.Info("nudge dismissed",
		slog.String("userID", userID),
		slog.String("nudgeID", nudgeID),
	)
	return nil
}

// TriggerMotivationCheck computes the user's engagement signals and submits
// them for evaluation. The worker decides whether a nudge is warranted and
// writes it to the nudges table itself; there is nothing to poll.
//
// The signals are computed against the user's first active hobby — the check
// is about the person drifting, not one hobby in particular, but the worker
// wants a hobby name to write a concrete message around.
func (s *NudgeService) TriggerMotivationCheck(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperror.ValidationFailed("userID", "user ID is required")
	}

	hobbyName, hobbySlug := "your hobby", ""
	userHobbies, err := s.hobbies.ListUserHobbies(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("service/nudge: loading user hobbies: %w", err)
	}
	for _, uh := range userHobbies {
		if uh.Status == model.HobbyActive && uh.Hobby != nil {
			hobbyName, hobbySlug = uh.Hobby.Name, uh.Hobby.Slug
			break
		}
	}

	recent, err := s.sessions.ListSessions(ctx, userID, repository.ListOptions{Limit: recentSessionContext})
	if err != nil {
		return "", fmt.Errorf("service/nudge: loading recent sessions: %w", err)
	}

	daysSince := noSessionSentinel
	if len(recent) > 0 {
		daysSince = int(time.Since(recent[0].CreatedAt).Hours() / 24)
	}

	snap, err := s.stats.Snapshot(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("service/nudge: computing stats: %w", err)
	}

	skipRate, err := s.challengeSkipRate(ctx, userID)
	if err != nil {
		return "", err
	}

	in := aijob.MotivationInput{
		UserID:                userID,
		HobbyName:             hobbyName,
		HobbySlug:             hobbySlug,
		DaysSinceLastSession:  daysSince,
		RecentMoods:           recentMoods(recent),
		ChallengeSkipRate:     skipRate,
		CurrentStreak:         snap.CurrentStreak,
		LongestStreak:         snap.LongestStreak,
		SessionFrequencyTrend: frequencyTrend(recent),
	}

	jobID, err := s.ai.TriggerMotivationCheck(ctx, in)
	if err != nil {
		return "", fmt.Errorf("service/nudge: starting motivation check: %w", err)
	}

	s.logger.Info("motivation check started",
		slog.String("userID", userID),
		slog.String("jobID", jobID),
		slog.Int("daysSinceLastSession", daysSince),
	)

	return jobID, nil
}

// challengeSkipRate is skipped / (completed + skipped). Active challenges
// don't count — the user hasn't decided on them yet.
func (s *NudgeService) challengeSkipRate(ctx context.Context, userID string) (float64, error) {
	all, err := s.challenges.ListUserChallenges(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service/nudge: loading challenges: %w", err)
	}

	var skipped, decided int
	for _, uc := range all {
		switch uc.Status {
		case model.ChallengeSkipped:
			skipped++
			decided++
		case model.ChallengeCompleted:
			decided++
		}
	}
	if decided == 0 {
		return 0, nil
	}
	return float64(skipped) / float64(decided), nil
}

// recentMoods joins the moods of the newest sessions, newest first, skipping
// sessions where the user didn't report one. "No data" when nothing remains.
func recentMoods(sessions []model.Session) string {
	moods := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		if sess.Mood != "" {
			moods = append(moods, string(sess.Mood))
		}
	}
	if len(moods) == 0 {
		return "No data"
	}
	return strings.Join(moods, ", ")
}

// frequencyTrend compares session counts in the last 7 days against the 7
// days before that.
func frequencyTrend(sessions []model.Session) string {
	now := time.Now().UTC()
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	var thisWeek, lastWeek int
	for _, sess := range sessions {
		switch {
		case sess.CreatedAt.After(weekAgo):
			thisWeek++
		case sess.CreatedAt.After(twoWeeksAgo):
			lastWeek++
		}
	}

	switch {
	case thisWeek > lastWeek:
		return "increasing"
	case thisWeek < lastWeek:
		return "decreasing"
	default:
		return "stable"
	}
}
