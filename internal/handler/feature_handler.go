package handler

import (
	"net/http"

	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/service"
	"github.com/pricecast/backend/pkg/auth"
)

// FeatureHandler serves the scope endpoints. Effort changes carry their
// justification as a query parameter alongside the patch body.
type FeatureHandler struct {
	featureService service.FeatureService
}

func NewFeatureHandler(featureService service.FeatureService) *FeatureHandler {
	return &FeatureHandler{featureService: featureService}
}

// List handles GET /api/projects/{id}/features.
func (h *FeatureHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	features, err := h.featureService.List(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if features == nil {
		features = []*model.Feature{}
	}
	writeJSON(w, http.StatusOK, features)
}

// Create handles POST /api/projects/{id}/features.
func (h *FeatureHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	var f model.Feature
	if !decodeBody(w, r, &f) {
		return
	}
	if f.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	created, err := h.featureService.Create(r.Context(), projectID, &f, userID, auth.RolesFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PATCH /api/projects/{id}/features/{fid}.
func (h *FeatureHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	featureID, ok := pathID(r, "fid")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid feature id")
		return
	}
	var patch model.FeaturePatch
	if !decodeBody(w, r, &patch) {
		return
	}
	justification := r.URL.Query().Get("justification")
	updated, err := h.featureService.Update(r.Context(), projectID, featureID, patch, justification, userID, auth.RolesFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/projects/{id}/features/{fid}.
func (h *FeatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	featureID, ok := pathID(r, "fid")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid feature id")
		return
	}
	if err := h.featureService.Delete(r.Context(), projectID, featureID, userID, auth.RolesFromContext(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApproveSuggestedEffort handles POST /api/projects/{id}/features/{fid}/approve-suggested.
func (h *FeatureHandler) ApproveSuggestedEffort(w http.ResponseWriter, r *http.Request) {
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
	featureID, ok := pathID(r, "fid")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid feature id")
		return
	}
	justification := r.URL.Query().Get("justification")
	updated, err := h.featureService.ApproveSuggestedEffort(r.Context(), projectID, featureID, justification, userID, auth.RolesFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
