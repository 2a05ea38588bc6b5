package aijob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anikasharma/meraki/internal/apperror"
)

// fakeWorker is an in-memory stand-in for the AI job service. Triggers create
// pending jobs; the test advances them by hand, playing the role of the
// external worker.
type fakeWorker struct {
	mu   sync.Mutex
	jobs map[string]*JobStatus
	next int
}

func newFakeWorker() *fakeWorker {
	return &fakeWorker{jobs: make(map[string]*JobStatus)}
}

func (w *fakeWorker) handler() http.Handler {
	mux := http.NewServeMux()
	for _, path := range []string{"/discovery", "/practice/feedback", "/challenges/generate", "/motivation/check"} {
		path := path
		mux.HandleFunc(path, func(rw http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			w.mu.Lock()
			defer w.mu.Unlock()
			w.next++
			id := fmt.Sprintf("job-%d", w.next)
			w.jobs[id] = &JobStatus{JobID: id, Status: StatusPending}
			json.NewEncoder(rw).Encode(map[string]string{"job_id": id})
		})
		mux.HandleFunc(path+"/", func(rw http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			w.mu.Lock()
			defer w.mu.Unlock()
			job, ok := w.jobs[strings.TrimPrefix(r.URL.Path, path+"/")]
			if !ok {
				http.Error(rw, "job not found", http.StatusNotFound)
				return
			}
			json.NewEncoder(rw).Encode(job)
		})
	}
	return mux
}

func (w *fakeWorker) complete(jobID string, result any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	raw, _ := json.Marshal(result)
	w.jobs[jobID].Status = StatusCompleted
	w.jobs[jobID].Result = raw
}

func (w *fakeWorker) fail(jobID, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.jobs[jobID].Status = StatusFailed
	w.jobs[jobID].Error = message
}

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewClient(srv.URL, logger), srv
}

func TestDiscoveryLifecycle(t *testing.T) {
	worker := newFakeWorker()
	client, _ := newTestClient(t, worker.handler())
	ctx := context.Background()

	jobID, err := client.TriggerDiscovery(ctx, "user-1", map[string]string{"q1": "painting", "q2": "alone"})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	// Before the worker finishes, polls observe a non-terminal state.
	js, err := client.PollDiscovery(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, js.Status)
	assert.False(t, js.Status.Terminal())

	// Polling is a read — repeating it changes nothing.
	js, err = client.PollDiscovery(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, js.Status)

	worker.complete(jobID, DiscoveryResult{
		Matches: []HobbyMatch{
			{HobbySlug: "watercolor-painting", MatchPercentage: 92, MatchTags: []string{"calm", "solo"}, Reasoning: "fits"},
		},
		Encouragement: "go paint",
	})

	js, err = client.PollDiscovery(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, js.Status)
	assert.True(t, js.Status.Terminal())
	assert.Empty(t, js.Error)

	result, err := DecodeResult[DiscoveryResult](js)
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "watercolor-painting", result.Matches[0].HobbySlug)
	assert.Equal(t, "go paint", result.Encouragement)

	// Terminal polls are restartable reads: same payload, unchanged.
	again, err := client.PollDiscovery(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, js.Status, again.Status)
	assert.JSONEq(t, string(js.Result), string(again.Result))
}

func TestFailedJob(t *testing.T) {
	worker := newFakeWorker()
	client, _ := newTestClient(t, worker.handler())
	ctx := context.Background()

	jobID, err := client.TriggerFeedback(ctx, FeedbackInput{
		SessionID: "sess-1", UserID: "user-1", HobbyName: "Pottery",
		SessionType: "practice", Duration: 30,
	})
	require.NoError(t, err)

	worker.fail(jobID, "insufficient context")

	// A failed job is a successfully observed terminal state, not a poll error.
	js, err := client.PollFeedback(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, js.Status)
	assert.Equal(t, "insufficient context", js.Error)
	assert.True(t, isNullJSON(js.Result))

	// Still terminal on the next poll.
	js, err = client.PollFeedback(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, js.Status)
}

func TestChallengeGenerationLifecycle(t *testing.T) {
	worker := newFakeWorker()
	client, _ := newTestClient(t, worker.handler())
	ctx := context.Background()

	jobID, err := client.TriggerChallengeGeneration(ctx, ChallengeInput{
		UserID: "user-1", HobbyName: "Pottery", HobbySlug: "pottery",
	})
	require.NoError(t, err)

	worker.complete(jobID, ChallengeResult{
		Title: "Pinch pot trio", Description: "Make three pinch pots", Difficulty: "beginner",
	})

	js, err := client.PollChallengeGeneration(ctx, jobID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, js.Status)

	result, err := DecodeResult[ChallengeResult](js)
	require.NoError(t, err)
	assert.Equal(t, "Pinch pot trio", result.Title)
	assert.Equal(t, "beginner", result.Difficulty)
}

func TestTriggerValidation(t *testing.T) {
	worker := newFakeWorker()
	client, _ := newTestClient(t, worker.handler())
	ctx := context.Background()

	// Missing user → ValidationError, nothing submitted.
	_, err := client.TriggerDiscovery(ctx, "", map[string]string{"q1": "x"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = client.TriggerFeedback(ctx, FeedbackInput{UserID: "user-1"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = client.TriggerChallengeGeneration(ctx, ChallengeInput{HobbySlug: "pottery"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = client.TriggerChallengeGeneration(ctx, ChallengeInput{UserID: "user-1"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = client.TriggerMotivationCheck(ctx, MotivationInput{})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// Zero quiz answers is NOT a validation error — submission succeeds and
	// the worker decides later whether the input was sufficient.
	jobID, err := client.TriggerDiscovery(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, jobID)
}

func TestTriggerTransportError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	// A server that was shut down: connections are refused.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(srv.URL, logger)

	_, err := client.TriggerDiscovery(context.Background(), "user-1", nil)
	assert.ErrorIs(t, err, apperror.ErrTransport)
}

func TestTriggerRemoteError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "worker overloaded", http.StatusServiceUnavailable)
	}))

	_, err := client.TriggerDiscovery(context.Background(), "user-1", nil)
	require.ErrorIs(t, err, apperror.ErrRemote)

	// Status code and body survive for the caller to surface.
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Status)
	assert.True(t, strings.Contains(appErr.Message, "worker overloaded"))
}

func TestPollErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("network failure is a poll error", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := NewClient(srv.URL, logger)

		_, err := client.PollDiscovery(ctx, "job-1")
		assert.ErrorIs(t, err, apperror.ErrPoll)
	})

	t.Run("malformed body is a poll error", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json at all"))
		}))

		_, err := client.PollDiscovery(ctx, "job-1")
		assert.ErrorIs(t, err, apperror.ErrPoll)
	})

	t.Run("unknown status is a poll error", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"job_id": "job-1", "status": "exploded"})
		}))

		_, err := client.PollDiscovery(ctx, "job-1")
		assert.ErrorIs(t, err, apperror.ErrPoll)
	})

	t.Run("completed without result is a poll error", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"job_id": "job-1", "status": "completed", "result": nil})
		}))

		_, err := client.PollDiscovery(ctx, "job-1")
		assert.ErrorIs(t, err, apperror.ErrPoll)
	})

	t.Run("unknown job is not found", func(t *testing.T) {
		worker := newFakeWorker()
		client, _ := newTestClient(t, worker.handler())

		_, err := client.PollDiscovery(ctx, "no-such-job")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestDecodeResultRejectsNonCompleted(t *testing.T) {
	js := &JobStatus{JobID: "job-1", Status: StatusRunning}
	_, err := DecodeResult[DiscoveryResult](js)
	assert.Error(t, err)
}
