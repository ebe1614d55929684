package handler

import (
	"net/http"

	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/service"
	"github.com/pricecast/backend/pkg/auth"
)

// TeamHandler serves the roster endpoints.
type TeamHandler struct {
	teamService service.TeamService
}

func NewTeamHandler(teamService service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// List handles GET /api/projects/{id}/team.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	members, err := h.teamService.List(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if members == nil {
		members = []*model.TeamMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

// Create handles POST /api/projects/{id}/team.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var m model.TeamMember
	if !decodeBody(w, r, &m) {
		return
	}
	if m.Role == "" {
		writeError(w, http.StatusBadRequest, "role required")
		return
	}
	created, err := h.teamService.Create(r.Context(), projectID, &m, userID, auth.RolesFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PATCH /api/projects/{id}/team/{mid}.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	memberID, ok := pathID(r, "mid")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}
	var patch model.TeamMemberPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	updated, err := h.teamService.Update(r.Context(), projectID, memberID, patch, userID, auth.RolesFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/projects/{id}/team/{mid}.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	memberID, ok := pathID(r, "mid")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}
	if err := h.teamService.Delete(r.Context(), projectID, memberID, userID, auth.RolesFromContext(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
