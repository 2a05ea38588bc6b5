package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anikasharma/meraki/internal/auth"
	"github.com/anikasharma/meraki/internal/service"
)

// FeedbackHandler serves the practice-feedback job endpoints.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// HandleRequest submits a feedback job for one session.
//
// HTTP: POST /api/sessions/{id}/feedback
func (h *FeedbackHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	jobID, err := h.feedback.Request(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": jobID})
}

// HandlePoll proxies one poll of a feedback job. When the client passes
// session_id and the job is complete, the result is persisted to the
// feedback table on the way through, so GET /api/sessions/{id} returns it
// inline from then on.
//
// HTTP: GET /api/feedback/{jobID}?session_id=xxx
func (h *FeedbackHandler) HandlePoll(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	sessionID := r.URL.Query().Get("session_id")

	js, err := h.feedback.Poll(r.Context(), userID, sessionID, chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, js)
}
