// Package handler is the HTTP layer: parse the request, call a service,
// write JSON. Business rules live in the service package; these functions
// only translate between HTTP and domain types.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/anikasharma/meraki/internal/apperror"
)

// ErrorResponse is the one error shape every endpoint returns.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable type, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps domain errors to HTTP. The three AI-facing categories all
// come back as 502 — from the client's point of view the upstream AI service
// failed, whatever the flavor — but with distinct error types so the frontend
// can choose between "retry now" (poll), "retry later" (unreachable), and
// "give up" (remote rejected us).
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrTransport):
			status = http.StatusBadGateway
			errorType = "ai_unreachable"
		case errors.Is(err, apperror.ErrRemote):
			status = http.StatusBadGateway
			errorType = "ai_error"
		case errors.Is(err, apperror.ErrPoll):
			status = http.StatusBadGateway
			errorType = "ai_poll_failed"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error: generic 500. The raw message may contain SQL or paths —
	// it goes to the log, never to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeBody unmarshals a JSON request body into dst, rejecting unknown
// fields so typos in the client payload fail loudly instead of silently.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON request body")
	}
	return nil
}
