package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anikasharma/meraki/internal/auth"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/service"
)

// SessionHandler serves the practice-session endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type createSessionRequest struct {
	UserHobbyID     string `json:"userHobbyId"`
	UserChallengeID string `json:"userChallengeId"`
	SessionType     string `json:"sessionType"`
	Duration        int    `json:"duration"`
	Mood            string `json:"mood"`
	Notes           string `json:"notes"`
	ImageURL        string `json:"imageUrl"`
}

// HandleCreate logs a new session.
//
// HTTP: POST /api/sessions
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.sessions.Create(r.Context(), userID, service.CreateSessionInput{
		UserHobbyID:     req.UserHobbyID,
		UserChallengeID: req.UserChallengeID,
		SessionType:     model.SessionType(req.SessionType),
		Duration:        req.Duration,
		Mood:            model.Mood(req.Mood),
		Notes:           req.Notes,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// HandleList returns the user's sessions, newest first.
//
// HTTP: GET /api/sessions?limit=20&offset=0
func (h *SessionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	sessions, err := h.sessions.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Session{"sessions": sessions})
}

// HandleGet returns one session with hobby and stored feedback joined.
//
// HTTP: GET /api/sessions/{id}
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	session, err := h.sessions.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
