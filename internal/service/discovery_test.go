package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/anikasharma/meraki/internal/aijob"
	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
)

// mockQuizRepo implements repository.QuizRepository in memory.
type mockQuizRepo struct {
	responses map[string]map[int]string // userID → questionID → answer
}

func newMockQuizRepo() *mockQuizRepo {
	return &mockQuizRepo{responses: make(map[string]map[int]string)}
}

func (m *mockQuizRepo) UpsertResponses(_ context.Context, userID string, responses []model.QuizResponse) error {
	if m.responses[userID] == nil {
		m.responses[userID] = make(map[int]string)
	}
	for _, r := range responses {
		m.responses[userID][r.QuestionID] = r.Answer
	}
	return nil
}

func (m *mockQuizRepo) ListResponses(_ context.Context, userID string) ([]model.QuizResponse, error) {
	var out []model.QuizResponse
	for qid, answer := range m.responses[userID] {
		out = append(out, model.QuizResponse{UserID: userID, QuestionID: qid, Answer: answer})
	}
	return out, nil
}

// mockAI records trigger calls and returns canned responses.
type mockAI struct {
	lastAnswers        map[string]string
	lastChallengeInput *aijob.ChallengeInput
	triggerErr         error
	jobID              string
	pollStatus         *aijob.JobStatus
}

func (m *mockAI) TriggerDiscovery(_ context.Context, userID string, answers map[string]string) (string, error) {
	if userID == "" {
		return "", apperror.ValidationFailed("user_id", "user ID is required to start discovery")
	}
	if m.triggerErr != nil {
		return "", m.triggerErr
	}
	m.lastAnswers = answers
	return m.jobID, nil
}

func (m *mockAI) PollDiscovery(_ context.Context, jobID string) (*aijob.JobStatus, error) {
	return m.pollStatus, nil
}

func (m *mockAI) TriggerFeedback(_ context.Context, in aijob.FeedbackInput) (string, error) {
	return m.jobID, nil
}

func (m *mockAI) PollFeedback(_ context.Context, jobID string) (*aijob.JobStatus, error) {
	return m.pollStatus, nil
}

func (m *mockAI) TriggerChallengeGeneration(_ context.Context, in aijob.ChallengeInput) (string, error) {
	if m.triggerErr != nil {
		return "", m.triggerErr
	}
	m.lastChallengeInput = &in
	return m.jobID, nil
}

func (m *mockAI) PollChallengeGeneration(_ context.Context, jobID string) (*aijob.JobStatus, error) {
	return m.pollStatus, nil
}

func (m *mockAI) TriggerMotivationCheck(_ context.Context, in aijob.MotivationInput) (string, error) {
	return m.jobID, nil
}

func newTestDiscoveryService() (*DiscoveryService, *mockQuizRepo, *mockAI) {
	quiz := newMockQuizRepo()
	ai := &mockAI{jobID: "job-test-1"}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewDiscoveryService(quiz, ai, logger), quiz, ai
}

func TestSaveAnswers_Validation(t *testing.T) {
	svc, _, _ := newTestDiscoveryService()
	ctx := context.Background()

	cases := []struct {
		name    string
		answers map[int]string
	}{
		{"empty map", map[int]string{}},
		{"zero question ID", map[int]string{0: "yes"}},
		{"negative question ID", map[int]string{-3: "yes"}},
		{"question ID out of range", map[int]string{MaxQuizQuestions + 1: "yes"}},
		{"blank answer", map[int]string{1: "   "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.SaveAnswers(ctx, "user-1", tc.answers)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("SaveAnswers(%v) error = %v, want validation error", tc.answers, err)
			}
		})
	}
}

func TestSaveAnswers_OverwritesPerQuestion(t *testing.T) {
	svc, quiz, _ := newTestDiscoveryService()
	ctx := context.Background()

	if err := svc.SaveAnswers(ctx, "user-1", map[int]string{1: "painting", 2: "alone"}); err != nil {
		t.Fatalf("SaveAnswers() error = %v", err)
	}
	if err := svc.SaveAnswers(ctx, "user-1", map[int]string{2: "with friends"}); err != nil {
		t.Fatalf("SaveAnswers() error = %v", err)
	}

	if got := quiz.responses["user-1"][1]; got != "painting" {
		t.Errorf("q1 = %q, want untouched %q", got, "painting")
	}
	if got := quiz.responses["user-1"][2]; got != "with friends" {
		t.Errorf("q2 = %q, want overwritten %q", got, "with friends")
	}
}

func TestStart_FlattensAnswers(t *testing.T) {
	svc, _, ai := newTestDiscoveryService()
	ctx := context.Background()

	if err := svc.SaveAnswers(ctx, "user-1", map[int]string{1: "painting", 12: "mornings"}); err != nil {
		t.Fatalf("SaveAnswers() error = %v", err)
	}

	jobID, err := svc.Start(ctx, "user-1")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if jobID != "job-test-1" {
		t.Errorf("Start() jobID = %q, want %q", jobID, "job-test-1")
	}

	want := map[string]string{"q1": "painting", "q12": "mornings"}
	if len(ai.lastAnswers) != len(want) {
		t.Fatalf("submitted %d answers, want %d", len(ai.lastAnswers), len(want))
	}
	for key, answer := range want {
		if ai.lastAnswers[key] != answer {
			t.Errorf("submitted %s = %q, want %q", key, ai.lastAnswers[key], answer)
		}
	}
}

func TestStart_NoAnswersStillSubmits(t *testing.T) {
	svc, _, ai := newTestDiscoveryService()

	// Saved answers are optional at submission time — sufficiency is the
	// worker's call, and an insufficient quiz comes back as a failed job.
	jobID, err := svc.Start(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Start() with no answers error = %v", err)
	}
	if jobID == "" {
		t.Error("Start() returned empty job ID")
	}
	if len(ai.lastAnswers) != 0 {
		t.Errorf("submitted %d answers, want 0", len(ai.lastAnswers))
	}
}

func TestStart_NoUser(t *testing.T) {
	svc, _, _ := newTestDiscoveryService()

	_, err := svc.Start(context.Background(), "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Start() with no user error = %v, want validation error", err)
	}
}
