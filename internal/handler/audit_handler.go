package handler

import (
	"net/http"
	"strconv"

	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/service"
)

// AuditHandler serves the read-only governance trails.
type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// Logs handles GET /api/projects/{id}/audit.
func (h *AuditHandler) Logs(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	logs, err := h.auditService.Logs(r.Context(), projectID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if logs == nil {
		logs = []*model.AuditLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// History handles GET /api/projects/{id}/estimation-history.
func (h *AuditHandler) History(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	history, err := h.auditService.History(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if history == nil {
		history = []*model.EstimationHistory{}
	}
	writeJSON(w, http.StatusOK, history)
}

// Justifications handles GET /api/projects/{id}/justifications.
func (h *AuditHandler) Justifications(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	logs, err := h.auditService.Justifications(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if logs == nil {
		logs = []*model.JustificationLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}
