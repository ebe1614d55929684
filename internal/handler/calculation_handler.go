package handler

import (
	"net/http"

	"github.com/pricecast/backend/internal/service"
	"github.com/shopspring/decimal"
)

// CalculationHandler serves the derived financial figures of a project's
// latest version. All endpoints are read-only.
type CalculationHandler struct {
	calcService service.CalculationService
}

func NewCalculationHandler(calcService service.CalculationService) *CalculationHandler {
	return &CalculationHandler{calcService: calcService}
}

// Cost handles GET /api/projects/{id}/calculations/cost.
func (h *CalculationHandler) Cost(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	breakdown, err := h.calcService.Cost(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// Revenue handles GET /api/projects/{id}/calculations/revenue.
func (h *CalculationHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	breakdown, err := h.calcService.Revenue(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// Profitability handles GET /api/projects/{id}/calculations/profitability.
func (h *CalculationHandler) Profitability(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	result, err := h.calcService.Profitability(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ReverseMargin handles GET /api/projects/{id}/calculations/reverse-margin.
// The target margin arrives as ?target_margin_pct= and must sit in [0, 100).
func (h *CalculationHandler) ReverseMargin(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	raw := r.URL.Query().Get("target_margin_pct")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "target_margin_pct required")
		return
	}
	target, err := decimal.NewFromString(raw)
	if err != nil || target.IsNegative() || target.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		writeError(w, http.StatusBadRequest, "target_margin_pct must be in [0, 100)")
		return
	}
	result, err := h.calcService.ReverseMargin(r.Context(), projectID, target)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SprintAllocation handles GET /api/projects/{id}/calculations/sprint.
func (h *CalculationHandler) SprintAllocation(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	result, err := h.calcService.SprintAllocation(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SprintPlanCost handles GET /api/projects/{id}/calculations/sprint-plan-cost.
func (h *CalculationHandler) SprintPlanCost(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	breakdown, err := h.calcService.SprintPlanCost(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}
