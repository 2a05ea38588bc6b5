package handler

import (
	"net/http"

	"github.com/anikasharma/meraki/internal/auth"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/service"
)

// MilestoneHandler serves the milestones page and the award check.
type MilestoneHandler struct {
	milestones *service.MilestoneService
}

func NewMilestoneHandler(milestones *service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{milestones: milestones}
}

// HandleList returns the full catalog with the user's earned state.
//
// HTTP: GET /api/milestones
func (h *MilestoneHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	statuses, err := h.milestones.ListWithStatus(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.MilestoneStatus{"milestones": statuses})
}

// HandleCheck recomputes stats, evaluates the rules, and awards anything
// newly satisfied. The response carries only the milestones this call
// awarded — the client shows them as "you just earned" toasts.
//
// HTTP: POST /api/milestones/check
func (h *MilestoneHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	awarded, err := h.milestones.CheckAndAward(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if awarded == nil {
		awarded = []model.Milestone{}
	}

	writeJSON(w, http.StatusOK, map[string][]model.Milestone{"newlyEarned": awarded})
}
