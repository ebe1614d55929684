package handler

import (
	"net/http"

	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/service"
	"github.com/pricecast/backend/pkg/auth"
)

// VersionHandler serves the version lifecycle endpoints.
type VersionHandler struct {
	versionService service.VersionService
}

func NewVersionHandler(versionService service.VersionService) *VersionHandler {
	return &VersionHandler{versionService: versionService}
}

// Current handles GET /api/projects/{id}/versions/current.
func (h *VersionHandler) Current(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	version, err := h.versionService.Current(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, version)
}

// Update handles PATCH /api/projects/{id}/versions/{vid}.
func (h *VersionHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	versionID, ok := pathID(r, "vid")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid version id")
		return
	}
	var patch model.VersionPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	err := h.versionService.UpdateFields(r.Context(), projectID, versionID, patch, userID, auth.RolesFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// TransitionStatus handles PATCH /api/projects/{id}/versions/{vid}/status.
func (h *VersionHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
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
	versionID, ok := pathID(r, "vid")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid version id")
		return
	}
	target := r.URL.Query().Get("target_status")
	if target == "" {
		writeError(w, http.StatusBadRequest, "target_status required")
		return
	}
	version, err := h.versionService.TransitionStatus(r.Context(), projectID, versionID, target, userID, auth.RolesFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": version.Status})
}

// Lock handles POST /api/projects/{id}/versions/{vid}/lock.
func (h *VersionHandler) Lock(w http.ResponseWriter, r *http.Request) {
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
	versionID, ok := pathID(r, "vid")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid version id")
		return
	}
	version, err := h.versionService.Lock(r.Context(), projectID, versionID, userID, auth.RolesFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, version)
}

// Unlock handles POST /api/projects/{id}/versions/{vid}/unlock.
func (h *VersionHandler) Unlock(w http.ResponseWriter, r *http.Request) {
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
	versionID, ok := pathID(r, "vid")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid version id")
		return
	}
	reason := r.URL.Query().Get("reason")
	version, err := h.versionService.Unlock(r.Context(), projectID, versionID, reason, userID, auth.RolesFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, version)
}
