package handler

import (
	"net/http"

	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/service"
	"github.com/pricecast/backend/pkg/auth"
)

// RateHandler serves the org-wide role rate administration endpoints.
type RateHandler struct {
	rateService service.RateService
}

func NewRateHandler(rateService service.RateService) *RateHandler {
	return &RateHandler{rateService: rateService}
}

// List handles GET /api/rates.
func (h *RateHandler) List(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rateService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if rates == nil {
		rates = []*model.RoleRate{}
	}
	writeJSON(w, http.StatusOK, rates)
}

// Upsert handles PUT /api/rates.
func (h *RateHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var rate model.RoleRate
	if !decodeBody(w, r, &rate) {
		return
	}
	if rate.Role == "" {
		writeError(w, http.StatusBadRequest, "role required")
		return
	}
	if err := h.rateService.Upsert(r.Context(), &rate, auth.RolesFromContext(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &rate)
}

// Delete handles DELETE /api/rates/{id}.
func (h *RateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.rateService.Delete(r.Context(), id, auth.RolesFromContext(r.Context())); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
