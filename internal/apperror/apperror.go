package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")

	// Errors for talking to the AI job API. They split "couldn't reach the
	// remote at all" from "the remote answered but said no":
	//
	//   ErrTransport — the trigger request never got a response (DNS failure,
	//                  refused connection, timeout). Safe to retry.
	//   ErrRemote    — the remote responded with a non-2xx status, or a job
	//                  reached the failed state. Not retried automatically.
	//   ErrPoll      — a poll request failed at the network level or returned
	//                  an unparseable body. Says nothing about the job itself;
	//                  the caller just polls again.
	ErrTransport = errors.New("transport error")
	ErrRemote    = errors.New("remote error")
	ErrPoll      = errors.New("poll error")
)

type AppError struct {
	Err     error  // sentinel category (one of the vars above)
	Message string // human-readable error message
	Field   string // optional: field causing a validation error
	Status  int    // optional: HTTP status reported by the remote
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Transport wraps a network-level failure reaching the AI job API.
func Transport(operation string, cause error) *AppError {
	return &AppError{
		Err:     ErrTransport,
		Message: fmt.Sprintf("failed to reach AI service during %s: %v", operation, cause),
	}
}

// Remote wraps a non-success response from the AI job API. The status code
// and response body are preserved so the caller can surface them.
func Remote(status int, body string) *AppError {
	return &AppError{
		Err:     ErrRemote,
		Message: fmt.Sprintf("AI service returned status %d: %s", status, body),
		Status:  status,
	}
}

// Poll wraps a failure during job status polling. Distinct from Transport so
// callers know the job's state is unchanged and the poll itself can be retried.
func Poll(jobID string, cause error) *AppError {
	return &AppError{
		Err:     ErrPoll,
		Message: fmt.Sprintf("failed to poll job %s: %v", jobID, cause),
	}
}
