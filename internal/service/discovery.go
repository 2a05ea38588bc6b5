package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/anikasharma/meraki/internal/aijob"
	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

// MaxQuizQuestions bounds the discovery quiz. The quiz currently has 22
// questions; the bound just rejects junk question IDs.
const MaxQuizQuestions = 50

// DiscoveryService owns the discovery quiz answers and the AI hobby-match
// job built from them.
type DiscoveryService struct {
	quiz   repository.QuizRepository
	ai     aijob.API
	logger *slog.Logger
}

func NewDiscoveryService(quiz repository.QuizRepository, ai aijob.API, logger *slog.Logger) *DiscoveryService {
	return &DiscoveryService{quiz: quiz, ai: ai, logger: logger}
}

// SaveAnswers upserts the user's quiz answers. Retaking the quiz overwrites
// per question rather than appending.
func (s *DiscoveryService) SaveAnswers(ctx context.Context, userID string, answers map[int]string) error {
	if len(answers) == 0 {
		return apperror.ValidationFailed("answers", "at least one answer is required")
	}

	responses := make([]model.QuizResponse, 0, len(answers))
	for questionID, answer := range answers {
		if questionID <= 0 || questionID > MaxQuizQuestions {
			return apperror.ValidationFailed("answers", fmt.Sprintf("unknown question ID %d", questionID))
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return apperror.ValidationFailed("answers", fmt.Sprintf("answer for question %d is empty", questionID))
		}
		responses = append(responses, model.QuizResponse{
			UserID:     userID,
			QuestionID: questionID,
			Answer:     answer,
		})
	}

	if err := s.quiz.UpsertResponses(ctx, userID, responses); err != nil {
		return fmt.Errorf("service/discovery: saving quiz answers: %w", err)
	}

	s.logger.Info("quiz answers saved",
		slog.String("userID", userID),
		slog.Int("count", len(responses)),
	)

	return nil
}

// Start gathers whatever answers the user has saved and submits a discovery
// job. Having saved zero answers is allowed — the worker, not this side,
// decides whether the input was enough to match on.
func (s *DiscoveryService) Start(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperror.ValidationFailed("userID", "user ID is required")
	}

	responses, err := s.quiz.ListResponses(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("service/discovery: loading quiz answers: %w", err)
	}

	// Flattened "q1".."qN" keys, the shape the worker expects.
	answers := make(map[string]string, len(responses))
	for _, r := range responses {
		answers["q"+strconv.Itoa(r.QuestionID)] = r.Answer
	}

	jobID, err := s.ai.TriggerDiscovery(ctx, userID, answers)
	if err != nil {
		return "", fmt.Errorf("service/discovery: starting discovery job: %w", err)
	}

	s.logger.Info("discovery job started",
		slog.String("userID", userID),
		slog.String("jobID", jobID),
		slog.Int("answers", len(answers)),
	)

	return jobID, nil
}

// Poll reads the job's current state. Pass-through to the AI client; the
// handler serializes the JobStatus as-is, raw result included.
func (s *DiscoveryService) Poll(ctx context.Context, jobID string) (*aijob.JobStatus, error) {
	return s.ai.PollDiscovery(ctx, jobID)
}
