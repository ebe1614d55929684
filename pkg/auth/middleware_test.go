package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func identityEcho(t *testing.T, wantID int64, wantName string, wantRoles int) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok || id != wantID {
			t.Errorf("user id = %d (ok=%v), want %d", id, ok, wantID)
		}
		if name := NameFromContext(r.Context()); name != wantName {
			t.Errorf("name = %q, want %q", name, wantName)
		}
		if roles := RolesFromContext(r.Context()); len(roles) != wantRoles {
			t.Errorf("roles = %v, want %d entries", roles, wantRoles)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_ValidToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(42, "PM", []string{"admin"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	handler := RequireAuth(issuer)(identityEcho(t, 42, "PM", 1))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	handler := RequireAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_BadToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	handler := RequireAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestDevAuth_StampsAdminIdentity(t *testing.T) {
	handler := DevAuth(identityEcho(t, DevUserID, DevUserName, 1))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
