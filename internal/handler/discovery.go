package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/auth"
	"github.com/anikasharma/meraki/internal/service"
)

// DiscoveryHandler serves the quiz answers and the AI hobby-match job.
type DiscoveryHandler struct {
	discovery *service.DiscoveryService
}

func NewDiscoveryHandler(discovery *service.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{discovery: discovery}
}

// HandleSaveAnswers upserts quiz answers. The wire shape is flattened
// {"q1": "...", "q12": "..."} — the same keys the AI worker gets later.
//
// HTTP: PUT /api/quiz/answers
func (h *DiscoveryHandler) HandleSaveAnswers(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var raw map[string]string
	if err := decodeBody(r, &raw); err != nil {
		writeError(w, err)
		return
	}

	answers := make(map[int]string, len(raw))
	for key, answer := range raw {
		if len(key) < 2 || key[0] != 'q' {
			writeError(w, apperror.ValidationFailed("answers", "answer keys must look like q1..q"+strconv.Itoa(service.MaxQuizQuestions)))
			return
		}
		questionID, err := strconv.Atoi(key[1:])
		if err != nil {
			writeError(w, apperror.ValidationFailed("answers", "answer keys must look like q1..q"+strconv.Itoa(service.MaxQuizQuestions)))
			return
		}
		answers[questionID] = answer
	}

	if err := h.discovery.SaveAnswers(r.Context(), userID, answers); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"saved": len(answers)})
}

// HandleStart submits a discovery job from the stored answers.
//
// HTTP: POST /api/discovery
func (h *DiscoveryHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	jobID, err := h.discovery.Start(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": jobID})
}

// HandlePoll proxies one poll of a discovery job. The JobStatus goes out
// as-is, raw result included — the frontend decodes matches itself.
//
// HTTP: GET /api/discovery/{jobID}
func (h *DiscoveryHandler) HandlePoll(w http.ResponseWriter, r *http.Request) {
	js, err := h.discovery.Poll(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, js)
}
