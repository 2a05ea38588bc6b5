package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anikasharma/meraki/internal/apperror"
)

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", apperror.ValidationFailed("field", "bad input"), http.StatusBadRequest, "validation_error"},
		{"not found", apperror.NotFound("session", "abc"), http.StatusNotFound, "not_found"},
		{"forbidden", apperror.Forbidden("nope"), http.StatusForbidden, "forbidden"},
		{"conflict", apperror.Conflict("milestone", "abc"), http.StatusConflict, "conflict"},
		{"transport", apperror.Transport("trigger /discovery", errors.New("refused")), http.StatusBadGateway, "ai_unreachable"},
		{"remote", apperror.Remote(500, "worker crashed"), http.StatusBadGateway, "ai_error"},
		{"poll", apperror.Poll("job-1", errors.New("garbled")), http.StatusBadGateway, "ai_poll_failed"},
		{"unknown error", errors.New("sql: something leaked"), http.StatusInternalServerError, "internal_error"},
		// Services wrap domain errors; the mapping must survive the chain.
		{"wrapped validation", fmt.Errorf("creating session: %w", apperror.ValidationFailed("duration", "bad")), http.StatusBadRequest, "validation_error"},
		{"wrapped conflict", fmt.Errorf("awarding: %w", apperror.Conflict("milestone", "x")), http.StatusConflict, "conflict"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tc.err)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tc.wantType, resp.Error)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, errors.New("sqlite: INSERT INTO users failed at /var/lib/meraki.db"))

	var resp ErrorResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.NotContains(t, resp.Message, "sqlite")
	assert.NotContains(t, resp.Message, "/var/lib")
}
