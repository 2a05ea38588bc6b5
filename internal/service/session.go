package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

const (
	MaxSessionNotesLength  = 5000
	MaxSessionDuration     = 24 * 60 // minutes; anything longer is a typo
	DefaultSessionPageSize = 20
)

// SessionService handles logging and reading practice sessions.
type SessionService struct {
	sessions repository.SessionRepository
	hobbies  repository.HobbyRepository
	logger   *slog.Logger
}

func NewSessionService(
	sessions repository.SessionRepository,
	hobbies repository.HobbyRepository,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		hobbies:  hobbies,
		logger:   logger,
	}
}

// CreateSessionInput is what the log-a-session form submits.
type CreateSessionInput struct {
	UserHobbyID     string
	UserChallengeID string
	SessionType     model.SessionType
	Duration        int
	Mood            model.Mood
	Notes           string
	ImageURL        string
}

// Create validates and logs a session.
//
// The hobby link is fetched user-scoped, so logging against another user's
// hobby fails as not-found rather than leaking that the link exists.
// Milestones are NOT awarded here — the client calls the milestone check
// after logging, which keeps this write path simple and the award path in
// one place.
func (s *SessionService) Create(ctx context.Context, userID string, in CreateSessionInput) (*model.Session, error) {
	if in.SessionType != model.SessionPractice && in.SessionType != model.SessionThought {
		return nil, apperror.ValidationFailed("sessionType", "session type must be practice or thought")
	}
	if in.Duration <= 0 {
		return nil, apperror.ValidationFailed("duration", "duration must be a positive number of minutes")
	}
	if in.Duration > MaxSessionDuration {
		return nil, apperror.ValidationFailed("duration", "duration cannot exceed 24 hours")
	}
	if !model.ValidMood(in.Mood) {
		return nil, apperror.ValidationFailed("mood", fmt.Sprintf("unknown mood %q", in.Mood))
	}
	if len(in.Notes) > MaxSessionNotesLength {
		return nil, apperror.ValidationFailed("notes",
			fmt.Sprintf("notes must be %d characters or less", MaxSessionNotesLength))
	}
	if strings.TrimSpace(in.UserHobbyID) == "" {
		return nil, apperror.ValidationFailed("userHobbyId", "a hobby is required to log a session")
	}

	uh, err := s.hobbies.GetUserHobby(ctx, userID, in.UserHobbyID)
	if err != nil {
		return nil, fmt.Errorf("service/session: checking hobby ownership: %w", err)
	}

	session := &model.Session{
		UserID:          userID,
		UserHobbyID:     uh.ID,
		UserChallengeID: in.UserChallengeID,
		SessionType:     in.SessionType,
		Duration:        in.Duration,
		Mood:            in.Mood,
		Notes:           strings.TrimSpace(in.Notes),
		ImageURL:        strings.TrimSpace(in.ImageURL),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		s.logger.Error("failed to create session",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/session: creating session: %w", err)
	}
	session.Hobby = uh.Hobby

	s.logger.Info("session logged",
		slog.String("userID", userID),
		slog.String("sessionID", session.ID),
		slog.String("type", string(session.SessionType)),
		slog.Int("duration", session.Duration),
	)

	return session, nil
}

// Get returns one session with hobby and feedback joined, user-scoped.
func (s *SessionService) Get(ctx context.Context, userID, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, apperror.ValidationFailed("sessionID", "session ID is required")
	}
	return s.sessions.GetSessionByID(ctx, userID, sessionID)
}

// List returns the user's sessions, newest first.
func (s *SessionService) List(ctx context.Context, userID string, limit, offset int) ([]model.Session, error) {
	if limit <= 0 {
		limit = DefaultSessionPageSize
	}
	return s.sessions.ListSessions(ctx, userID, repository.ListOptions{Limit: limit, Offset: offset})
}
