package handler

import (
	"net/http"

	"github.com/anikasharma/meraki/internal/auth"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/service"
)

// StatsHandler serves the dashboard aggregates.
type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleSnapshot returns the full activity aggregate (snake_case JSON, the
// same shape fed to the milestone engine and the AI jobs).
//
// HTTP: GET /api/stats
func (h *StatsHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	snap, err := h.stats.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// HandleStreak returns the last-7-days activity strip, oldest first.
//
// HTTP: GET /api/stats/streak
func (h *StatsHandler) HandleStreak(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	days, err := h.stats.StreakDays(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.DayActivity{"days": days})
}

// HandleHeatmap returns 84 days of practice intensity (0-3), oldest first.
//
// HTTP: GET /api/stats/heatmap
func (h *StatsHandler) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	heatmap, err := h.stats.Heatmap(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]int{"heatmap": heatmap})
}
