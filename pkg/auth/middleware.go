package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	nameKey   contextKey = "user_name"
	rolesKey  contextKey = "user_roles"
)

// UserIDFromContext returns the authenticated user's ID.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(userIDKey).(int64)
	return v, ok
}

// RolesFromContext returns the authenticated user's roles.
func RolesFromContext(ctx context.Context) []string {
	v, _ := ctx.Value(rolesKey).([]string)
	return v
}

// NameFromContext returns the authenticated user's display name.
func NameFromContext(ctx context.Context) string {
	v, _ := ctx.Value(nameKey).(string)
	return v
}

// WithUser sets the authenticated identity on the context.
func WithUser(ctx context.Context, userID int64, name string, roles []string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, nameKey, name)
	return context.WithValue(ctx, rolesKey, roles)
}

// RequireAuth verifies the bearer token and sets the user identity on the
// request context.
func RequireAuth(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				unauthorized(w, "unauthorized")
				return
			}
			userID, claims, err := issuer.Verify(token)
			if err != nil {
				unauthorized(w, "invalid_token")
				return
			}
			ctx := WithUser(r.Context(), userID, claims.Name, claims.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// Dev identity used when AUTH_REQUIRED=false.
const (
	DevUserID   int64 = 1
	DevUserName       = "dev"
)

// DevAuth stamps every request with an admin dev identity. Local
// development only.
func DevAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithUser(r.Context(), DevUserID, DevUserName, []string{"admin"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
