package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/repository"
	"github.com/pricecast/backend/internal/service"
)

// DB is the minimal database surface the handler layer touches.
type DB interface {
	Ping(ctx context.Context) error
}

// Handler carries the shared HTTP concerns: the health probe's database
// handle and the CORS origin.
type Handler struct {
	db          DB
	frontendURL string
}

func New(db DB, frontendURL string) *Handler {
	return &Handler{db: db, frontendURL: frontendURL}
}

func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.frontendURL)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain rejections onto HTTP statuses: locked
// versions conflict, missing authority is forbidden, rule violations are
// bad requests, everything unknown is an internal error.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, governance.ErrLocked), errors.Is(err, repository.ErrLocked):
		writeError(w, http.StatusConflict, "version_locked")
	case errors.Is(err, governance.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, governance.ErrInvalidTransition),
		errors.Is(err, governance.ErrJustificationRequired),
		errors.Is(err, governance.ErrReasonRequired),
		errors.Is(err, governance.ErrNotLocked),
		errors.Is(err, service.ErrNoSuggestedEffort):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}
