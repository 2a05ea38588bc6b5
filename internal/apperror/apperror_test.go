package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("milestone", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("duration", "duration is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("user_milestone", "abc123"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Transport wraps ErrTransport",
			err:       Transport("discovery trigger", errors.New("connection refused")),
			target:    ErrTransport,
			wantMatch: true,
		},
		{
			name:      "Remote wraps ErrRemote",
			err:       Remote(503, "service unavailable"),
			target:    ErrRemote,
			wantMatch: true,
		},
		{
			name:      "Poll wraps ErrPoll",
			err:       Poll("job-1", errors.New("unexpected EOF")),
			target:    ErrPoll,
			wantMatch: true,
		},
		{
			name:      "Transport does NOT match ErrRemote",
			err:       Transport("poll", errors.New("timeout")),
			target:    ErrRemote,
			wantMatch: false,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("session", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("milestone", "abc123"),
			wantMessage: "milestone not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("mood", "mood must be one of the known values"),
			wantMessage: "mood must be one of the known values",
		},
		{
			name:        "Remote message includes status and body",
			err:         Remote(500, "internal error"),
			wantMessage: "AI service returned status 500: internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("session", "abc123")
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestRemoteStatus(t *testing.T) {
	// The remote's status code must survive so handlers can surface it.
	err := Remote(429, "rate limited")
	if err.Status != 429 {
		t.Errorf("Status = %d, want %d", err.Status, 429)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("email", "invalid email format")
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}
