package handler

import (
	"net/http"

	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/service"
	"github.com/pricecast/backend/pkg/auth"
)

// SprintPlanHandler serves the manually edited capacity plan and the
// per-version sprint configuration.
type SprintPlanHandler struct {
	sprintPlanService service.SprintPlanService
}

func NewSprintPlanHandler(sprintPlanService service.SprintPlanService) *SprintPlanHandler {
	return &SprintPlanHandler{sprintPlanService: sprintPlanService}
}

// Get handles GET /api/projects/{id}/sprint-plan.
func (h *SprintPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	plan, err := h.sprintPlanService.Get(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if plan.Rows == nil {
		plan.Rows = []*model.SprintPlanRow{}
	}
	writeJSON(w, http.StatusOK, plan)
}

type sprintPlanUpdate struct {
	Rows []*model.SprintPlanRow `json:"rows"`
}

// Replace handles PUT /api/projects/{id}/sprint-plan.
func (h *SprintPlanHandler) Replace(w http.ResponseWriter, r *http.Request) {
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
	var req sprintPlanUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.sprintPlanService.Replace(r.Context(), projectID, req.Rows, userID, auth.RolesFromContext(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Config handles GET /api/projects/{id}/sprint-config.
func (h *SprintPlanHandler) Config(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	sc, err := h.sprintPlanService.Config(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// UpsertConfig handles PUT /api/projects/{id}/sprint-config.
func (h *SprintPlanHandler) UpsertConfig(w http.ResponseWriter, r *http.Request) {
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
	var sc model.SprintConfig
	if !decodeBody(w, r, &sc) {
		return
	}
	if err := h.sprintPlanService.UpsertConfig(r.Context(), projectID, &sc, userID, auth.RolesFromContext(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &sc)
}
