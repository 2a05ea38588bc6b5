package aijob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/anikasharma/meraki/internal/apperror"
)

// API is the surface the service layer programs against; tests swap in fakes.
type API interface {
	TriggerDiscovery(ctx context.Context, userID string, answers map[string]string) (string, error)
	PollDiscovery(ctx context.Context, jobID string) (*JobStatus, error)
	TriggerFeedback(ctx context.Context, in FeedbackInput) (string, error)
	PollFeedback(ctx context.Context, jobID string) (*JobStatus, error)
	TriggerChallengeGeneration(ctx context.Context, in ChallengeInput) (string, error)
	PollChallengeGeneration(ctx context.Context, jobID string) (*JobStatus, error)
	TriggerMotivationCheck(ctx context.Context, in MotivationInput) (string, error)
}

// Client talks to the AI job service over plain HTTP+JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ API = (*Client)(nil)

// NewClient creates a Client for the AI service at baseURL
// (e.g. "http://localhost:8000", no trailing slash).
//
// The 30-second timeout bounds a single trigger or poll request — it has
// nothing to do with how long a job may run. Jobs routinely take minutes;
// that's what polling is for.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// TriggerDiscovery submits a discovery job from the user's quiz answers.
// Answers arrive pre-keyed ("q1".."qN") and are flattened into the request
// body alongside user_id, matching the worker's expected shape.
//
// An empty answer map is NOT a validation error: submission-time validation
// only guards the things the client can know (an authenticated user). Whether
// the answers are sufficient is the worker's call — it may well fail the job
// later, and that failure comes back through polling.
func (c *Client) TriggerDiscovery(ctx context.Context, userID string, answers map[string]string) (string, error) {
	if userID == "" {
		return "", apperror.ValidationFailed("user_id", "user ID is required to start discovery")
	}

	body := make(map[string]any, len(answers)+1)
	body["user_id"] = userID
	for key, answer := range answers {
		body[key] = answer
	}

	return c.trigger(ctx, "/discovery", body)
}

// PollDiscovery reads the current state of a discovery job.
func (c *Client) PollDiscovery(ctx context.Context, jobID string) (*JobStatus, error) {
	return c.poll(ctx, "/discovery", jobID)
}

// TriggerFeedback submits a practice-feedback job for one session.
func (c *Client) TriggerFeedback(ctx context.Context, in FeedbackInput) (string, error) {
	if in.UserID == "" {
		return "", apperror.ValidationFailed("user_id", "user ID is required to request feedback")
	}
	if in.SessionID == "" {
		return "", apperror.ValidationFailed("session_id", "session ID is required to request feedback")
	}

	return c.trigger(ctx, "/practice/feedback", in)
}

// PollFeedback reads the current state of a feedback job.
func (c *Client) PollFeedback(ctx context.Context, jobID string) (*JobStatus, error) {
	return c.poll(ctx, "/practice/feedback", jobID)
}

// TriggerChallengeGeneration submits a personalized-challenge job built from
// the user's practice history for one hobby.
func (c *Client) TriggerChallengeGeneration(ctx context.Context, in ChallengeInput) (string, error) {
	if in.UserID == "" {
		return "", apperror.ValidationFailed("user_id", "user ID is required to generate a challenge")
	}
	if in.HobbySlug == "" {
		return "", apperror.ValidationFailed("hobby_slug", "hobby slug is required to generate a challenge")
	}

	return c.trigger(ctx, "/challenges/generate", in)
}

// PollChallengeGeneration reads the current state of a challenge-generation job.
func (c *Client) PollChallengeGeneration(ctx context.Context, jobID string) (*JobStatus, error) {
	return c.poll(ctx, "/challenges/generate", jobID)
}

// TriggerMotivationCheck submits the user's engagement signals for a
// motivation check. There is no matching poll: when the worker decides a
// nudge is warranted it writes the nudge row itself, and the app picks it up
// from the nudges table on the next dashboard load.
func (c *Client) TriggerMotivationCheck(ctx context.Context, in MotivationInput) (string, error) {
	if in.UserID == "" {
		return "", apperror.ValidationFailed("user_id", "user ID is required for a motivation check")
	}

	return c.trigger(ctx, "/motivation/check", in)
}

// trigger POSTs the payload and returns the new job's ID.
//
// Error taxonomy (see apperror):
//   - the request never got a response      → ErrTransport (retryable)
//   - the remote answered with non-2xx      → ErrRemote, with status and body
//   - the remote answered 2xx without a job → ErrRemote (it's the worker's bug)
func (c *Client) trigger(ctx context.Context, path string, payload any) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("aijob: encoding %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("aijob: building %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperror.Transport("trigger "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperror.Remote(resp.StatusCode, readBodySnippet(resp.Body))
	}

	var triggered struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&triggered); err != nil {
		return "", apperror.Remote(resp.StatusCode, "unparseable trigger response: "+err.Error())
	}
	if triggered.JobID == "" {
		return "", apperror.Remote(resp.StatusCode, "trigger response missing job_id")
	}

	c.logger.Info("AI job triggered",
		slog.String("path", path),
		slog.String("jobID", triggered.JobID),
	)

	return triggered.JobID, nil
}

// poll GETs the job's current status. A poll is a side-effect-free read:
// nothing here can change the job, and a failed poll says nothing about the
// job's state — the caller just polls again.
//
// Error taxonomy:
//   - request failed / unparseable body / unknown status → ErrPoll (retry the poll)
//   - remote answered with non-2xx                       → ErrRemote
//
// Note that a job in the "failed" state is NOT an error from poll's point of
// view: it's a successfully observed terminal state. The caller inspects
// Status and Error on the returned JobStatus.
func (c *Client) poll(ctx context.Context, path, jobID string) (*JobStatus, error) {
	if jobID == "" {
		return nil, apperror.ValidationFailed("job_id", "job ID is required to poll")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("aijob: building poll request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Poll(jobID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.NotFound("job", jobID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.Remote(resp.StatusCode, readBodySnippet(resp.Body))
	}

	var js JobStatus
	if err := json.NewDecoder(resp.Body).Decode(&js); err != nil {
		return nil, apperror.Poll(jobID, fmt.Errorf("unparseable status response: %w", err))
	}

	// Shape validation only — no interpretation. An unknown status or a
	// terminal state missing its payload means the response can't be trusted;
	// report it as a poll failure so the caller retries rather than acting on it.
	if !js.Status.known() {
		return nil, apperror.Poll(jobID, fmt.Errorf("unknown job status %q", js.Status))
	}
	if js.Status == StatusCompleted && isNullJSON(js.Result) {
		return nil, apperror.Poll(jobID, fmt.Errorf("completed job has no result"))
	}
	if js.Status == StatusFailed && js.Error == "" {
		return nil, apperror.Poll(jobID, fmt.Errorf("failed job has no error message"))
	}

	return &js, nil
}

// isNullJSON reports whether a raw field was absent or an explicit JSON null.
func isNullJSON(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// readBodySnippet returns up to 1 KiB of the response body for error
// messages. Remote error bodies can be HTML error pages; truncating keeps
// logs and API responses sane.
func readBodySnippet(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 1024))
	if err != nil {
		return ""
	}
	return string(data)
}
