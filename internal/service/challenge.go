package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anikasharma/meraki/internal/aijob"
	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

// generationHistoryWindow caps how many recent sessions feed the
// challenge-generation prompt.
const generationHistoryWindow = 50

// ChallengeService manages the lifecycle of a user's accepted challenges.
// Challenges enter the system through generation jobs: the worker tailors one
// to the user's practice history, and the completed result is filed here.
// Skips are kept, not deleted — the skip rate feeds the motivation check.
type ChallengeService struct {
	challenges repository.ChallengeRepository
	sessions   repository.SessionRepository
	hobbies    repository.HobbyRepository
	ai         aijob.API
	logger     *slog.Logger
}

func NewChallengeService(
	challenges repository.ChallengeRepository,
	sessions repository.SessionRepository,
	hobbies repository.HobbyRepository,
	ai aijob.API,
	logger *slog.Logger,
) *ChallengeService {
	return &ChallengeService{
		challenges: challenges,
		sessions:   sessions,
		hobbies:    hobbies,
		ai:         ai,
		logger:     logger,
	}
}

// List returns the user's challenges with catalog data joined.
func (s *ChallengeService) List(ctx context.Context, userID string) ([]model.UserChallenge, error) {
	return s.challenges.ListUserChallenges(ctx, userID)
}

// Complete marks an active challenge completed, stamping the completion time.
// Completing a challenge that is already terminal is a conflict, not a no-op:
// the completed count feeds a milestone rule, so double completion must never
// slip through.
func (s *ChallengeService) Complete(ctx context.Context, userID, challengeID string) (*model.UserChallenge, error) {
	return s.transition(ctx, userID, challengeID, model.ChallengeCompleted)
}

// Skip marks an active challenge skipped.
func (s *ChallengeService) Skip(ctx context.Context, userID, challengeID string) (*model.UserChallenge, error) {
	return s.transition(ctx, userID, challengeID, model.ChallengeSkipped)
}

// Generate gathers the user's practice history for one hobby and submits a
// challenge-generation job. The generated challenge lands via PollGeneration.
func (s *ChallengeService) Generate(ctx context.Context, userID, hobbySlug string) (string, error) {
	if hobbySlug == "" {
		return "", apperror.ValidationFailed("hobbySlug", "hobby slug is required")
	}

	hobby, err := s.hobbies.GetHobbyBySlug(ctx, hobbySlug)
	if err != nil {
		return "", fmt.Errorf("service/challenge: loading hobby %s: %w", hobbySlug, err)
	}

	sessions, err := s.sessions.ListSessions(ctx, userID, repository.ListOptions{Limit: generationHistoryWindow})
	if err != nil {
		return "", fmt.Errorf("service/challenge: loading sessions: %w", err)
	}
	ucs, err := s.challenges.ListUserChallenges(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("service/challenge: loading challenges: %w", err)
	}

	totalMinutes := 0
	for _, sess := range sessions {
		totalMinutes += sess.Duration
	}
	avgDuration := 0
	if len(sessions) > 0 {
		avgDuration = totalMinutes / len(sessions)
	}

	in := aijob.ChallengeInput{
		UserID:              userID,
		HobbyName:           hobby.Name,
		HobbySlug:           hobby.Slug,
		SessionCount:        len(sessions),
		AvgDuration:         avgDuration,
		MoodDistribution:    moodDistribution(sessions),
		DaysActive:          activeDays(sessions),
		CompletedChallenges: joinOrNone(challengeTitles(ucs, model.ChallengeCompleted)),
		SkippedChallenges:   joinOrNone(challengeTitles(ucs, model.ChallengeSkipped)),
		RecentFeedback:      "None",
		LastMoodTrend:       recentMoods(sessions),
	}

	jobID, err := s.ai.TriggerChallengeGeneration(ctx, in)
	if err != nil {
		return "", fmt.Errorf("service/challenge: starting generation job: %w", err)
	}

	s.logger.Info("challenge generation started",
		slog.String("userID", userID),
		slog.String("hobbySlug", hobbySlug),
		slog.String("jobID", jobID),
	)

	return jobID, nil
}

// PollGeneration reads the job state and, on completion, persists the
// generated challenge and assigns it to the user as active. The challenge row
// is keyed by the job ID, so re-polling a completed job cannot assign it twice.
func (s *ChallengeService) PollGeneration(ctx context.Context, userID, jobID, hobbySlug string) (*aijob.JobStatus, error) {
	js, err := s.ai.PollChallengeGeneration(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if js.Status == aijob.StatusCompleted && hobbySlug != "" {
		result, err := aijob.DecodeResult[aijob.ChallengeResult](js)
		if err != nil {
			return nil, apperror.Poll(jobID, err)
		}

		hobby, err := s.hobbies.GetHobbyBySlug(ctx, hobbySlug)
		if err != nil {
			return nil, fmt.Errorf("service/challenge: loading hobby %s: %w", hobbySlug, err)
		}

		difficulty := result.Difficulty
		if difficulty == "" {
			difficulty = "beginner"
		}
		ch := &model.Challenge{
			ID:          jobID,
			HobbyID:     hobby.ID,
			Title:       result.Title,
			Description: result.Description,
			Difficulty:  difficulty,
		}

		_, err = s.challenges.SaveGeneratedChallenge(ctx, userID, ch)
		switch {
		case errors.Is(err, apperror.ErrConflict):
			// An earlier poll already filed it.
		case err != nil:
			// Unlike feedback, storage is the only home this result has.
			// Fail the poll so the client retries and the save runs again.
			return nil, fmt.Errorf("service/challenge: saving generated challenge: %w", err)
		default:
			s.logger.Info("generated challenge saved",
				slog.String("userID", userID),
				slog.String("jobID", jobID),
				slog.String("title", result.Title),
			)
		}
	}

	return js, nil
}

// moodDistribution renders mood counts in first-seen order, "good: 3, okay: 1".
func moodDistribution(sessions []model.Session) string {
	counts := make(map[model.Mood]int)
	var order []model.Mood
	for _, sess := range sessions {
		if sess.Mood == "" {
			continue
		}
		if counts[sess.Mood] == 0 {
			order = append(order, sess.Mood)
		}
		counts[sess.Mood]++
	}
	if len(order) == 0 {
		return "No data"
	}
	parts := make([]string, 0, len(order))
	for _, mood := range order {
		parts = append(parts, fmt.Sprintf("%s: %d", mood, counts[mood]))
	}
	return strings.Join(parts, ", ")
}

// activeDays counts distinct calendar days with at least one session.
func activeDays(sessions []model.Session) int {
	days := make(map[string]struct{}, len(sessions))
	for _, sess := range sessions {
		days[sess.CreatedAt.UTC().Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}

func challengeTitles(ucs []model.UserChallenge, status model.ChallengeStatus) []string {
	var titles []string
	for _, uc := range ucs {
		if uc.Status == status && uc.Challenge != nil {
			titles = append(titles, uc.Challenge.Title)
		}
	}
	return titles
}

func (s *ChallengeService) transition(ctx context.Context, userID, challengeID string, to model.ChallengeStatus) (*model.UserChallenge, error) {
	if challengeID == "" {
		return nil, apperror.ValidationFailed("challengeID", "challenge ID is required")
	}

	uc, err := s.challenges.GetUserChallenge(ctx, userID, challengeID)
	if err != nil {
		return nil, fmt.Errorf("service/challenge: loading challenge %s: %w", challengeID, err)
	}
	if uc.Status != model.ChallengeActive {
		return nil, apperror.Conflict("challenge", challengeID)
	}

	var completedAt *time.Time
	if to == model.ChallengeCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	if err := s.challenges.SetChallengeStatus(ctx, userID, challengeID, to, completedAt); err != nil {
		return nil, fmt.Errorf("service/challenge: updating challenge %s: %w", challengeID, err)
	}
	uc.Status = to
	uc.CompletedAt = completedAt

	s.logger.Info("challenge "+string(to),
		slog.String("userID", userID),
		slog.String("challengeID", challengeID),
	)

	return uc, nil
}
