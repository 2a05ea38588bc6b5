package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anikasharma/meraki/internal/apperror"
	"github.com/anikasharma/meraki/internal/auth"
	"github.com/anikasharma/meraki/internal/service"
)

// NudgeHandler serves motivation nudges and the motivation-check trigger.
type NudgeHandler struct {
	nudges *service.NudgeService
}

func NewNudgeHandler(nudges *service.NudgeService) *NudgeHandler {
	return &NudgeHandler{nudges: nudges}
}

// HandleActive returns the newest un-dismissed nudge, or {"nudge": null}
// when there is none. No nudge is the normal case, not a 404.
//
// HTTP: GET /api/nudges/active
func (h *NudgeHandler) HandleActive(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	nudge, err := h.nudges.Active(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"nudge": nil})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"nudge": nudge})
}

// HandleDismiss marks a nudge acted-on.
//
// HTTP: POST /api/nudges/{id}/dismiss
func (h *NudgeHandler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.nudges.Dismiss(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// HandleMotivationCheck submits the user's engagement signals for
// evaluation. Fire-and-forget from the client's side: any resulting nudge
// shows up via /api/nudges/active later.
//
// HTTP: POST /api/motivation/check
func (h *NudgeHandler) HandleMotivationCheck(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	jobID, err := h.nudges.TriggerMotivationCheck(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"jobId": jobID})
}
