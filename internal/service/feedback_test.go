package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/anikasharma/meraki/internal/aijob"
	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/repository"
)

// mockSessionRepo scopes every lookup by user, like the real queries do.
type mockSessionRepo struct {
	sessions []model.Session
}

func (m *mockSessionRepo) CreateSession(_ context.Context, session *model.Session) error {
	m.sessions = append(m.sessions, *session)
	return nil
}

func (m *mockSessionRepo) GetSessionByID(_ context.Context, userID, id string) (*model.Session, error) {
	for _, sess := range m.sessions {
		if sess.ID == id && sess.UserID == userID {
			out := sess
			return &out, nil
		}
	}
	return nil, apperror.NotFound("session", id)
}

func (m *mockSessionRepo) ListSessions(_ context.Context, userID string, _ repository.ListOptions) ([]model.Session, error) {
	var out []model.Session
	for _, sess := range m.sessions {
		if sess.UserID == userID {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) ListRecentByHobby(_ context.Context, userID, userHobbyID string, limit int) ([]model.Session, error) {
	var out []model.Session
	for _, sess := range m.sessions {
		if sess.UserID == userID && sess.UserHobbyID == userHobbyID && len(out) < limit {
			out = append(out, sess)
		}
	}
	return out, nil
}

type mockFeedbackRepo struct {
	saved map[string]*model.Feedback // sessionID → feedback
}

func (m *mockFeedbackRepo) SaveFeedback(_ context.Context, fb *model.Feedback) error {
	if m.saved == nil {
		m.saved = make(map[string]*model.Feedback)
	}
	m.saved[fb.SessionID] = fb
	return nil
}

func (m *mockFeedbackRepo) GetFeedbackBySession(_ context.Context, sessionID string) (*model.Feedback, error) {
	if fb, ok := m.saved[sessionID]; ok {
		return fb, nil
	}
	return nil, apperror.NotFound("feedback", sessionID)
}

func newTestFeedbackService(sessions *mockSessionRepo, ai *mockAI) (*FeedbackService, *mockFeedbackRepo) {
	fbRepo := &mockFeedbackRepo{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewFeedbackService(sessions, &mockChallengeRepo{}, fbRepo, ai, logger), fbRepo
}

func completedFeedbackStatus(jobID string) *aijob.JobStatus {
	return &aijob.JobStatus{
		JobID:  jobID,
		Status: aijob.StatusCompleted,
		Result: json.RawMessage(`{"observations":["steady brushwork"],"growth":["value contrast"],"suggestions":["try wet-on-wet"],"celebration":"great session"}`),
	}
}

func TestFeedbackPoll_PersistsOwnSession(t *testing.T) {
	sessions := &mockSessionRepo{sessions: []model.Session{
		{ID: "sess-1", UserID: "user-1", UserHobbyID: "uh-1"},
	}}
	ai := &mockAI{pollStatus: completedFeedbackStatus("job-1")}
	svc, fbRepo := newTestFeedbackService(sessions, ai)

	js, err := svc.Poll(context.Background(), "user-1", "sess-1", "job-1")
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if js.Status != aijob.StatusCompleted {
		t.Errorf("Poll() status = %s, want completed", js.Status)
	}

	saved, ok := fbRepo.saved["sess-1"]
	if !ok {
		t.Fatal("completed feedback was not persisted")
	}
	if len(saved.Observations) != 1 || saved.Observations[0] != "steady brushwork" {
		t.Errorf("persisted observations = %v", saved.Observations)
	}
}

func TestFeedbackPoll_RejectsForeignSession(t *testing.T) {
	sessions := &mockSessionRepo{sessions: []model.Session{
		{ID: "sess-1", UserID: "victim", UserHobbyID: "uh-1"},
	}}
	ai := &mockAI{pollStatus: completedFeedbackStatus("job-1")}
	svc, fbRepo := newTestFeedbackService(sessions, ai)

	// A different user polling with someone else's session ID must not be
	// able to attach the result to that session.
	_, err := svc.Poll(context.Background(), "intruder", "sess-1", "job-1")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Poll() error = %v, want not found", err)
	}
	if len(fbRepo.saved) != 0 {
		t.Errorf("feedback was persisted despite foreign session: %+v", fbRepo.saved)
	}
}

func TestFeedbackPoll_NoSessionSkipsPersistence(t *testing.T) {
	sessions := &mockSessionRepo{}
	ai := &mockAI{pollStatus: completedFeedbackStatus("job-1")}
	svc, fbRepo := newTestFeedbackService(sessions, ai)

	js, err := svc.Poll(context.Background(), "user-1", "", "job-1")
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if js.Status != aijob.StatusCompleted {
		t.Errorf("Poll() status = %s, want completed", js.Status)
	}
	if len(fbRepo.saved) != 0 {
		t.Errorf("feedback persisted without a session: %+v", fbRepo.saved)
	}
}

func TestSummarizeSessions(t *testing.T) {
	sessions := []model.Session{
		{ID: "s1", SessionType: model.SessionPractice, Duration: 30, Mood: model.MoodGood, Notes: "worked on shading"},
		{ID: "s2", SessionType: model.SessionThought, Duration: 5},
		{ID: "s3", SessionType: model.SessionPractice, Duration: 45, Mood: model.MoodFrustrated},
	}

	got := summarizeSessions(sessions, "")
	want := "practice 30min, mood: good, notes: worked on shading | thought 5min | practice 45min, mood: frustrated"
	if got != want {
		t.Errorf("summarizeSessions() =\n  %q\nwant\n  %q", got, want)
	}
}

func TestSummarizeSessions_ExcludesReviewedSession(t *testing.T) {
	sessions := []model.Session{
		{ID: "s1", SessionType: model.SessionPractice, Duration: 30},
		{ID: "s2", SessionType: model.SessionPractice, Duration: 20},
	}

	got := summarizeSessions(sessions, "s1")
	if strings.Contains(got, "30min") {
		t.Errorf("summarizeSessions() included the session under review: %q", got)
	}
}

func TestSummarizeSessions_Empty(t *testing.T) {
	if got := summarizeSessions(nil, ""); got != "None" {
		t.Errorf("summarizeSessions(nil) = %q, want %q", got, "None")
	}

	// Only session is the one being reviewed → nothing left to summarize.
	only := []model.Session{{ID: "s1", SessionType: model.SessionPractice, Duration: 30}}
	if got := summarizeSessions(only, "s1"); got != "None" {
		t.Errorf("summarizeSessions() = %q, want %q", got, "None")
	}
}

func TestSummarizeSessions_TruncatesLongNotes(t *testing.T) {
	long := strings.Repeat("x", 500)
	sessions := []model.Session{
		{ID: "s1", SessionType: model.SessionPractice, Duration: 30, Notes: long},
	}

	got := summarizeSessions(sessions, "")
	if len(got) > 200 {
		t.Errorf("summarizeSessions() did not truncate notes, length = %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("summarizeSessions() truncated notes missing ellipsis: %q", got)
	}
}

func TestJoinOrNone(t *testing.T) {
	if got := joinOrNone(nil); got != "None" {
		t.Errorf("joinOrNone(nil) = %q, want %q", got, "None")
	}
	if got := joinOrNone([]string{"Paint a sunset", "Sketch daily"}); got != "Paint a sunset, Sketch daily" {
		t.Errorf("joinOrNone() = %q", got)
	}
}

func TestRecentMoods(t *testing.T) {
	sessions := []model.Session{
		{Mood: model.MoodGood},
		{Mood: ""},
		{Mood: model.MoodLoved},
	}
	if got := recentMoods(sessions); got != "good, loved" {
		t.Errorf("recentMoods() = %q, want %q", got, "good, loved")
	}

	if got := recentMoods(nil); got != "No data" {
		t.Errorf("recentMoods(nil) = %q, want %q", got, "No data")
	}
}

func TestFrequencyTrend(t *testing.T) {
	now := time.Now().UTC()
	day := func(ago int) time.Time { return now.AddDate(0, 0, -ago) }

	cases := []struct {
		name     string
		sessions []model.Session
		want     string
	}{
		{
			"more this week",
			[]model.Session{{CreatedAt: day(1)}, {CreatedAt: day(2)}, {CreatedAt: day(10)}},
			"increasing",
		},
		{
			"more last week",
			[]model.Session{{CreatedAt: day(1)}, {CreatedAt: day(9)}, {CreatedAt: day(10)}},
			"decreasing",
		},
		{
			"equal weeks",
			[]model.Session{{CreatedAt: day(2)}, {CreatedAt: day(9)}},
			"stable",
		},
		{
			"no sessions",
			nil,
			"stable",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := frequencyTrend(tc.sessions); got != tc.want {
				t.Errorf("frequencyTrend() = %q, want %q", got, tc.want)
			}
		})
	}
}
