package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/model"
)

func TestTeamService_Create_RequiresTeamAuthority(t *testing.T) {
	svc := NewTeamService(&mockProjectRepository{}, &mockTeamRepository{}, &mockRateRepository{}, testGuard())

	_, err := svc.Create(context.Background(), 1, &model.TeamMember{Role: "Developer"}, 7, []string{governance.RoleBusinessAnalyst})
	if !errors.Is(err, governance.ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestTeamService_Create_RejectedWhenLocked(t *testing.T) {
	projects := &mockProjectRepository{
		latestVersionFunc: func(ctx context.Context, projectID int64) (*model.ProjectVersion, error) {
			return lockedVersion(), nil
		},
	}
	svc := NewTeamService(projects, &mockTeamRepository{}, &mockRateRepository{}, testGuard())

	_, err := svc.Create(context.Background(), 1, &model.TeamMember{Role: "Developer"}, 7, []string{governance.RoleAdmin})
	if !errors.Is(err, governance.ErrLocked) {
		t.Errorf("got %v, want ErrLocked", err)
	}
}

func TestTeamService_Create_FillsDefaultRatesByExactRole(t *testing.T) {
	rates := &mockRateRepository{
		listFunc: func(ctx context.Context) ([]*model.RoleRate, error) {
			return []*model.RoleRate{
				{ID: 1, Role: "Developer", CostRatePerDay: dec("500"), BillingRatePerDay: dec("800")},
				{ID: 2, Role: "QA", CostRatePerDay: dec("400"), BillingRatePerDay: dec("600")},
			}, nil
		},
	}
	svc := NewTeamService(&mockProjectRepository{}, &mockTeamRepository{}, rates, testGuard())

	m, err := svc.Create(context.Background(), 1, &model.TeamMember{Role: "Developer"}, 7, []string{governance.RoleDeliveryManager})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if m.CostRatePerDay == nil || !m.CostRatePerDay.Equal(dec("500")) {
		t.Errorf("cost rate = %v, want 500", m.CostRatePerDay)
	}
	if m.BillingRatePerDay == nil || !m.BillingRatePerDay.Equal(dec("800")) {
		t.Errorf("billing rate = %v, want 800", m.BillingRatePerDay)
	}
	if m.VersionID != 10 {
		t.Errorf("version_id = %d, want 10", m.VersionID)
	}
}

func TestTeamService_Create_ExplicitRatesNotOverwritten(t *testing.T) {
	listCalled := false
	rates := &mockRateRepository{
		listFunc: func(ctx context.Context) ([]*model.RoleRate, error) {
			listCalled = true
			return nil, nil
		},
	}
	svc := NewTeamService(&mockProjectRepository{}, &mockTeamRepository{}, rates, testGuard())

	member := &model.TeamMember{Role: "Developer", CostRatePerDay: decPtr("550"), BillingRatePerDay: decPtr("850")}
	m, err := svc.Create(context.Background(), 1, member, 7, []string{governance.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if listCalled {
		t.Error("rate defaults must not be consulted when both rates are set")
	}
	if !m.CostRatePerDay.Equal(dec("550")) || !m.BillingRatePerDay.Equal(dec("850")) {
		t.Errorf("rates = %s/%s, want 550/850", m.CostRatePerDay, m.BillingRatePerDay)
	}
}

func TestTeamService_Create_UnknownRoleLeavesRatesNil(t *testing.T) {
	rates := &mockRateRepository{
		listFunc: func(ctx context.Context) ([]*model.RoleRate, error) {
			return []*model.RoleRate{{ID: 1, Role: "Developer", CostRatePerDay: dec("500"), BillingRatePerDay: dec("800")}}, nil
		},
	}
	svc := NewTeamService(&mockProjectRepository{}, &mockTeamRepository{}, rates, testGuard())

	// "developer" does not match "Developer": insert-time defaulting is exact.
	m, err := svc.Create(context.Background(), 1, &model.TeamMember{Role: "developer"}, 7, []string{governance.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if m.CostRatePerDay != nil || m.BillingRatePerDay != nil {
		t.Errorf("rates = %v/%v, want nil for an unmatched role", m.CostRatePerDay, m.BillingRatePerDay)
	}
}

func TestTeamService_Update_AppliesPatch(t *testing.T) {
	team := &mockTeamRepository{
		getByIDFunc: func(ctx context.Context, versionID, memberID int64) (*model.TeamMember, error) {
			return &model.TeamMember{ID: memberID, VersionID: versionID, Role: "Developer", UtilizationPct: dec("80"), HoursPerDay: 8}, nil
		},
	}
	svc := NewTeamService(&mockProjectRepository{}, team, &mockRateRepository{}, testGuard())

	patch := model.TeamMemberPatch{Role: strPtr("Senior Developer"), UtilizationPct: decPtr("90")}
	m, err := svc.Update(context.Background(), 1, 3, patch, 7, []string{governance.RoleDeliveryManager})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if m.Role != "Senior Developer" {
		t.Errorf("role = %s", m.Role)
	}
	if !m.UtilizationPct.Equal(dec("90")) {
		t.Errorf("utilization = %s, want 90", m.UtilizationPct)
	}
	if m.HoursPerDay != 8 {
		t.Errorf("hours per day = %d, want untouched 8", m.HoursPerDay)
	}
}

func TestTeamService_Delete_RejectedWhenLocked(t *testing.T) {
	projects := &mockProjectRepository{
		latestVersionFunc: func(ctx context.Context, projectID int64) (*model.ProjectVersion, error) {
			return lockedVersion(), nil
		},
	}
	svc := NewTeamService(projects, &mockTeamRepository{}, &mockRateRepository{}, testGuard())

	err := svc.Delete(context.Background(), 1, 3, 7, []string{governance.RoleAdmin})
	if !errors.Is(err, governance.ErrLocked) {
		t.Errorf("got %v, want ErrLocked", err)
	}
}
