package handler

import (
	"net/http"

	"github.com/anikasharma/meraki/internal/auth"
	"github.com/anikasharma/meraki/internal/model"
	"github.com/anikasharma/meraki/internal/service"
)

// HobbyHandler serves the hobby catalog and the user's hobby links.
type HobbyHandler struct {
	hobbies *service.HobbyService
}

func NewHobbyHandler(hobbies *service.HobbyService) *HobbyHandler {
	return &HobbyHandler{hobbies: hobbies}
}

// HandleCatalog returns the seeded hobby catalog. Public.
//
// HTTP: GET /api/hobbies
func (h *HobbyHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	hobbies, err := h.hobbies.ListCatalog(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Hobby{"hobbies": hobbies})
}

// HandleListMine returns the user's hobby links.
//
// HTTP: GET /api/me/hobbies
func (h *HobbyHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	userHobbies, err := h.hobbies.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.UserHobby{"hobbies": userHobbies})
}

type addHobbyRequest struct {
	Slug string `json:"slug"`
}

// HandleAdd links the user to a catalog hobby. 409 if already linked.
//
// HTTP: POST /api/me/hobbies
func (h *HobbyHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req addHobbyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	uh, err := h.hobbies.Add(r.Context(), userID, req.Slug)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uh)
}
