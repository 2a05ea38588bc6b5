package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anikasharma/meraki/internal/aijob"
	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

// recentSessionContext caps how many prior sessions and completed challenges
// go into the feedback prompt context.
const recentSessionContext = 5

// FeedbackService requests AI reflections on practice sessions and persists
// completed results so they outlive the job record.
type FeedbackService struct {
	sessions   repository.SessionRepository
	challenges repository.ChallengeRepository
	feedback   repository.FeedbackRepository
	ai         aijob.API
	logger     *slog.Logger
}

func NewFeedbackService(
	sessions repository.SessionRepository,
	challenges repository.ChallengeRepository,
	feedback repository.FeedbackRepository,
	ai aijob.API,
	logger *slog.Logger,
) *FeedbackService {
	return &FeedbackService{
		sessions:   sessions,
		challenges: challenges,
		feedback:   feedback,
		ai:         ai,
		logger:     logger,
	}
}

// Request builds the feedback prompt context from the session plus recent
// history and submits the job. The session is loaded user-scoped, so a user
// can only request feedback on their own sessions.
func (s *FeedbackService) Request(ctx context.Context, userID, sessionID string) (string, error) {
	session, err := s.sessions.GetSessionByID(ctx, userID, sessionID)
	if err != nil {
		return "", fmt.Errorf("service/feedback: loading session %s: %w", sessionID, err)
	}

	recent, err := s.sessions.ListRecentByHobby(ctx, userID, session.UserHobbyID, recentSessionContext)
	if err != nil {
		return "", fmt.Errorf("service/feedback: loading recent sessions: %w", err)
	}

	titles, err := s.challenges.CompletedChallengeTitles(ctx, userID, recentSessionContext)
	if err != nil {
		return "", fmt.Errorf("service/feedback: loading completed challenges: %w", err)
	}

	in := aijob.FeedbackInput{
		SessionID:           session.ID,
		UserID:              userID,
		HobbyName:           session.Hobby.Name,
		SessionType:         string(session.SessionType),
		Duration:            session.Duration,
		Mood:                string(session.Mood),
		Notes:               session.Notes,
		ImageURL:            session.ImageURL,
		RecentSessions:      summarizeSessions(recent, session.ID),
		CompletedChallenges: joinOrNone(titles),
	}

	jobID, err := s.ai.TriggerFeedback(ctx, in)
	if err != nil {
		return "", fmt.Errorf("service/feedback: starting feedback job: %w", err)
	}

	s.logger.Info("feedback job started",
		slog.String("userID", userID),
		slog.String("sessionID", sessionID),
		slog.String("jobID", jobID),
	)

	return jobID, nil
}

// Poll reads the job state and, the first time it observes completion,
// decodes and persists the result keyed by session. The session must belong
// to the polling user. The upsert makes the persistence idempotent — every
// later poll of the same completed job rewrites the same row.
func (s *FeedbackService) Poll(ctx context.Context, userID, sessionID, jobID string) (*aijob.JobStatus, error) {
	js, err := s.ai.PollFeedback(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if js.Status == aijob.StatusCompleted && sessionID != "" {
		// Attaching the result requires owning the session. Job IDs are not
		// secrets; without this check any caller could file arbitrary job
		// output under another user's session.
		if _, err := s.sessions.GetSessionByID(ctx, userID, sessionID); err != nil {
			return nil, fmt.Errorf("service/feedback: loading session %s: %w", sessionID, err)
		}

		result, err := aijob.DecodeResult[aijob.FeedbackResult](js)
		if err != nil {
			return nil, apperror.Poll(jobID, err)
		}

		fb := &model.Feedback{
			SessionID:    sessionID,
			Observations: result.Observations,
			Growth:       result.Growth,
			Suggestions:  result.Suggestions,
			Celebration:  result.Celebration,
		}
		if err := s.feedback.SaveFeedback(ctx, fb); err != nil {
			// The job result is still good; losing the cache is not worth
			// failing the poll over. Log it and hand the result back.
			s.logger.Error("failed to persist feedback",
				slog.String("sessionID", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}

	return js, nil
}

// GetForSession returns previously persisted feedback for one session.
func (s *FeedbackService) GetForSession(ctx context.Context, userID, sessionID string) (*model.Feedback, error) {
	// Ownership check rides on the session lookup.
	if _, err := s.sessions.GetSessionByID(ctx, userID, sessionID); err != nil {
		return nil, fmt.Errorf("service/feedback: loading session %s: %w", sessionID, err)
	}
	return s.feedback.GetFeedbackBySession(ctx, sessionID)
}

// summarizeSessions renders recent sessions as the prose summary the worker
// feeds to its model: "practice 30min, mood: good, notes: ..." joined by " | ".
// The session being reviewed is excluded; with nothing left it says "None".
func summarizeSessions(sessions []model.Session, excludeID string) string {
	parts := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		if sess.ID == excludeID {
			continue
		}
		part := fmt.Sprintf("%s %dmin", sess.SessionType, sess.Duration)
		if sess.Mood != "" {
			part += ", mood: " + string(sess.Mood)
		}
		if sess.Notes != "" {
			part += ", notes: " + truncate(sess.Notes, 120)
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, " | ")
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
