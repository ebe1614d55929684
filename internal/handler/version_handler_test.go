package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/pkg/auth"
)

type mockVersionService struct {
	currentFunc          func(ctx context.Context, projectID int64) (*model.ProjectVersion, error)
	getFunc              func(ctx context.Context, projectID, versionID int64) (*model.ProjectVersion, error)
	updateFieldsFunc     func(ctx context.Context, projectID, versionID int64, patch model.VersionPatch, userID int64, roles []string) error
	transitionStatusFunc func(ctx context.Context, projectID, versionID int64, target string, userID int64, roles []string) (*model.ProjectVersion, error)
	lockFunc             func(ctx context.Context, projectID, versionID int64, userID int64, roles []string) (*model.ProjectVersion, error)
	unlockFunc           func(ctx context.Context, projectID, versionID int64, reason string, userID int64, roles []string) (*model.ProjectVersion, error)
}

func (m *mockVersionService) Current(ctx context.Context, projectID int64) (*model.ProjectVersion, error) {
	if m.currentFunc != nil {
		return m.currentFunc(ctx, projectID)
	}
	return &model.ProjectVersion{ID: 10, ProjectID: projectID, VersionNumber: 1, Status: model.StatusDraft}, nil
}

func (m *mockVersionService) Get(ctx context.Context, projectID, versionID int64) (*model.ProjectVersion, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, projectID, versionID)
	}
	return &model.ProjectVersion{ID: versionID, ProjectID: projectID, VersionNumber: 1, Status: model.StatusDraft}, nil
}

func (m *mockVersionService) UpdateFields(ctx context.Context, projectID, versionID int64, patch model.VersionPatch, userID int64, roles []string) error {
	if m.updateFieldsFunc != nil {
		return m.updateFieldsFunc(ctx, projectID, versionID, patch, userID, roles)
	}
	return nil
}

func (m *mockVersionService) TransitionStatus(ctx context.Context, projectID, versionID int64, target string, userID int64, roles []string) (*model.ProjectVersion, error) {
	if m.transitionStatusFunc != nil {
		return m.transitionStatusFunc(ctx, projectID, versionID, target, userID, roles)
	}
	return &model.ProjectVersion{ID: versionID, ProjectID: projectID, Status: target}, nil
}

func (m *mockVersionService) Lock(ctx context.Context, projectID, versionID int64, userID int64, roles []string) (*model.ProjectVersion, error) {
	if m.lockFunc != nil {
		return m.lockFunc(ctx, projectID, versionID, userID, roles)
	}
	return &model.ProjectVersion{ID: versionID, ProjectID: projectID, Status: model.StatusWon, IsLocked: true}, nil
}

func (m *mockVersionService) Unlock(ctx context.Context, projectID, versionID int64, reason string, userID int64, roles []string) (*model.ProjectVersion, error) {
	if m.unlockFunc != nil {
		return m.unlockFunc(ctx, projectID, versionID, reason, userID, roles)
	}
	return &model.ProjectVersion{ID: versionID, ProjectID: projectID, Status: model.StatusSubmitted}, nil
}

func versionMux(svc *mockVersionService) *http.ServeMux {
	h := NewVersionHandler(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects/{id}/versions/current", h.Current)
	mux.HandleFunc("PATCH /api/projects/{id}/versions/{vid}", h.Update)
	mux.HandleFunc("PATCH /api/projects/{id}/versions/{vid}/status", h.TransitionStatus)
	mux.HandleFunc("POST /api/projects/{id}/versions/{vid}/lock", h.Lock)
	mux.HandleFunc("POST /api/projects/{id}/versions/{vid}/unlock", h.Unlock)
	return mux
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(auth.WithUser(req.Context(), 7, "Fin Lead", []string{"finance_reviewer"}))
}

func TestVersionHandler_Current(t *testing.T) {
	var gotProjectID int64
	mux := versionMux(&mockVersionService{
		currentFunc: func(ctx context.Context, projectID int64) (*model.ProjectVersion, error) {
			gotProjectID = projectID
			return &model.ProjectVersion{ID: 10, ProjectID: projectID, VersionNumber: 3, Status: model.StatusReview}, nil
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/projects/1/versions/current", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotProjectID != 1 {
		t.Errorf("project id = %d, want 1", gotProjectID)
	}
	var v model.ProjectVersion
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if v.VersionNumber != 3 {
		t.Errorf("version_number = %d, want 3", v.VersionNumber)
	}
}

func TestVersionHandler_Current_InvalidID(t *testing.T) {
	mux := versionMux(&mockVersionService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/projects/abc/versions/current", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestVersionHandler_Update(t *testing.T) {
	var gotPatch model.VersionPatch
	mux := versionMux(&mockVersionService{
		updateFieldsFunc: func(ctx context.Context, projectID, versionID int64, patch model.VersionPatch, userID int64, roles []string) error {
			gotPatch = patch
			if projectID != 1 || versionID != 10 || userID != 7 {
				t.Errorf("unexpected ids %d/%d/%d", projectID, versionID, userID)
			}
			return nil
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("PATCH", "/api/projects/1/versions/10", `{"contingency_pct":"12.5"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotPatch.ContingencyPct == nil || gotPatch.ContingencyPct.String() != "12.5" {
		t.Errorf("contingency patch not forwarded: %+v", gotPatch)
	}
}

func TestVersionHandler_Update_Unauthenticated(t *testing.T) {
	mux := versionMux(&mockVersionService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("PATCH", "/api/projects/1/versions/10", strings.NewReader(`{}`)))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestVersionHandler_TransitionStatus(t *testing.T) {
	var gotTarget string
	var gotRoles []string
	mux := versionMux(&mockVersionService{
		transitionStatusFunc: func(ctx context.Context, projectID, versionID int64, target string, userID int64, roles []string) (*model.ProjectVersion, error) {
			gotTarget = target
			gotRoles = roles
			return &model.ProjectVersion{ID: versionID, Status: target}, nil
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("PATCH", "/api/projects/1/versions/10/status?target_status=review", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotTarget != "review" {
		t.Errorf("target = %q, want review", gotTarget)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "finance_reviewer" {
		t.Errorf("roles = %v, want [finance_reviewer]", gotRoles)
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "review" {
		t.Errorf("status = %v, want review", resp["status"])
	}
}

func TestVersionHandler_TransitionStatus_MissingTarget(t *testing.T) {
	mux := versionMux(&mockVersionService{
		transitionStatusFunc: func(ctx context.Context, projectID, versionID int64, target string, userID int64, roles []string) (*model.ProjectVersion, error) {
			t.Error("service must not be called without target_status")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("PATCH", "/api/projects/1/versions/10/status", ""))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestVersionHandler_TransitionStatus_Forbidden(t *testing.T) {
	mux := versionMux(&mockVersionService{
		transitionStatusFunc: func(ctx context.Context, projectID, versionID int64, target string, userID int64, roles []string) (*model.ProjectVersion, error) {
			return nil, governance.ErrForbidden
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("PATCH", "/api/projects/1/versions/10/status?target_status=won", ""))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestVersionHandler_Lock(t *testing.T) {
	mux := versionMux(&mockVersionService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("POST", "/api/projects/1/versions/10/lock", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var v model.ProjectVersion
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !v.IsLocked {
		t.Error("expected locked version in response")
	}
}

func TestVersionHandler_Lock_Conflict(t *testing.T) {
	mux := versionMux(&mockVersionService{
		lockFunc: func(ctx context.Context, projectID, versionID int64, userID int64, roles []string) (*model.ProjectVersion, error) {
			return nil, governance.ErrLocked
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("POST", "/api/projects/1/versions/10/lock", ""))

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestVersionHandler_Unlock_ForwardsReason(t *testing.T) {
	var gotReason string
	mux := versionMux(&mockVersionService{
		unlockFunc: func(ctx context.Context, projectID, versionID int64, reason string, userID int64, roles []string) (*model.ProjectVersion, error) {
			gotReason = reason
			return &model.ProjectVersion{ID: versionID, Status: model.StatusSubmitted}, nil
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("POST", "/api/projects/1/versions/10/unlock?reason=client+renegotiation", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotReason != "client renegotiation" {
		t.Errorf("reason = %q", gotReason)
	}
}

func TestVersionHandler_Unlock_ReasonRequired(t *testing.T) {
	mux := versionMux(&mockVersionService{
		unlockFunc: func(ctx context.Context, projectID, versionID int64, reason string, userID int64, roles []string) (*model.ProjectVersion, error) {
			return nil, governance.ErrReasonRequired
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest("POST", "/api/projects/1/versions/10/unlock", ""))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
