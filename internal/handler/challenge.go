package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anikasharma/meraki/internal/auth"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/service"
)

// ChallengeHandler serves the challenge list and its two terminal actions.
type ChallengeHandler struct {
	challenges *service.ChallengeService
}

func NewChallengeHandler(challenges *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges}
}

// HandleList returns the user's challenges with catalog data joined.
//
// HTTP: GET /api/challenges
func (h *ChallengeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	challenges, err := h.challenges.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.UserChallenge{"challenges": challenges})
}

type generateChallengeRequest struct {
	HobbySlug string `json:"hobbySlug"`
}

// HandleGenerate starts a challenge-generation job for one hobby.
//
// HTTP: POST /api/challenges/generate
func (h *ChallengeHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req generateChallengeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	jobID, err := h.challenges.Generate(r.Context(), userID, req.HobbySlug)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": jobID})
}

// HandleGenerationPoll proxies one poll of a generation job. The hobby_slug
// query parameter tells the server where to file the challenge once the job
// completes; it then shows up in GET /api/challenges as active.
//
// HTTP: GET /api/challenges/generate/{jobID}?hobby_slug=pottery
func (h *ChallengeHandler) HandleGenerationPoll(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	hobbySlug := r.URL.Query().Get("hobby_slug")

	js, err := h.challenges.PollGeneration(r.Context(), userID, chi.URLParam(r, "jobID"), hobbySlug)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, js)
}

// HandleComplete marks a challenge completed. 409 if it isn't active.
//
// HTTP: POST /api/challenges/{id}/complete
func (h *ChallengeHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	uc, err := h.challenges.Complete(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uc)
}

// HandleSkip marks a challenge skipped.
//
// HTTP: POST /api/challenges/{id}/skip
func (h *ChallengeHandler) HandleSkip(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	uc, err := h.challenges.Skip(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uc)
}
