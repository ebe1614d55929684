package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/model"
	"github.com/shopspring/decimal"
)

func TestSprintPlanService_Get_RolesFromRosterAndRows(t *testing.T) {
	team := &mockTeamRepository{
		listByVersionFunc: func(ctx context.Context, versionID int64) ([]*model.TeamMember, error) {
			return []*model.TeamMember{
				{Role: "Developer"},
				{Role: "Developer"},
				{Role: "QA"},
			}, nil
		},
	}
	sprints := &mockSprintPlanRepository{
		rowsFunc: func(ctx context.Context, versionID int64) ([]*model.SprintPlanRow, error) {
			return []*model.SprintPlanRow{{
				RowType:     model.RowSprintWeek,
				Allocations: map[string]decimal.Decimal{"Designer": dec("0.5")},
			}}, nil
		},
	}
	svc := NewSprintPlanService(&mockProjectRepository{}, team, sprints, testGuard())

	plan, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := []string{"Designer", "Developer", "QA"}
	if !reflect.DeepEqual(plan.Roles, want) {
		t.Errorf("roles = %v, want %v", plan.Roles, want)
	}
}

func TestSprintPlanService_Get_EmptyRosterUsesDefaultRoles(t *testing.T) {
	svc := NewSprintPlanService(&mockProjectRepository{}, &mockTeamRepository{}, &mockSprintPlanRepository{}, testGuard())

	plan, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := []string{"Project Manager", "QA", "Technical Architect"}
	if !reflect.DeepEqual(plan.Roles, want) {
		t.Errorf("roles = %v, want defaults %v", plan.Roles, want)
	}
}

func TestSprintPlanService_Replace_StampsVersionAndOrder(t *testing.T) {
	var captured []*model.SprintPlanRow
	sprints := &mockSprintPlanRepository{
		replaceRowsFunc: func(ctx context.Context, versionID int64, rows []*model.SprintPlanRow, audit *model.AuditLog) error {
			captured = rows
			return nil
		},
	}
	svc := NewSprintPlanService(&mockProjectRepository{}, &mockTeamRepository{}, sprints, testGuard())

	rows := []*model.SprintPlanRow{
		{RowType: model.RowPhase, Phase: "Discovery"},
		{RowType: model.RowSprintWeek},
	}
	err := svc.Replace(context.Background(), 1, rows, 7, []string{governance.RoleBusinessAnalyst})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	for i, row := range captured {
		if row.VersionID != 10 {
			t.Errorf("row %d version_id = %d, want 10", i, row.VersionID)
		}
		if row.SortOrder != i {
			t.Errorf("row %d sort_order = %d, want %d", i, row.SortOrder, i)
		}
	}
}

func TestSprintPlanService_Replace_ViewerForbidden(t *testing.T) {
	svc := NewSprintPlanService(&mockProjectRepository{}, &mockTeamRepository{}, &mockSprintPlanRepository{}, testGuard())

	err := svc.Replace(context.Background(), 1, nil, 7, []string{governance.RoleViewer})
	if !errors.Is(err, governance.ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestSprintPlanService_Replace_RejectedWhenLocked(t *testing.T) {
	projects := &mockProjectRepository{
		latestVersionFunc: func(ctx context.Context, projectID int64) (*model.ProjectVersion, error) {
			return lockedVersion(), nil
		},
	}
	svc := NewSprintPlanService(projects, &mockTeamRepository{}, &mockSprintPlanRepository{}, testGuard())

	err := svc.Replace(context.Background(), 1, nil, 7, []string{governance.RoleAdmin})
	if !errors.Is(err, governance.ErrLocked) {
		t.Errorf("got %v, want ErrLocked", err)
	}
}

func TestSprintPlanService_UpsertConfig_RequiresTeamAuthority(t *testing.T) {
	svc := NewSprintPlanService(&mockProjectRepository{}, &mockTeamRepository{}, &mockSprintPlanRepository{}, testGuard())

	err := svc.UpsertConfig(context.Background(), 1, &model.SprintConfig{DurationWeeks: 2}, 7, []string{governance.RoleBusinessAnalyst})
	if !errors.Is(err, governance.ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
}

func TestSprintPlanService_UpsertConfig_StampsVersion(t *testing.T) {
	var captured *model.SprintConfig
	sprints := &mockSprintPlanRepository{
		upsertConfigFunc: func(ctx context.Context, sc *model.SprintConfig, audit *model.AuditLog) error {
			captured = sc
			return nil
		},
	}
	svc := NewSprintPlanService(&mockProjectRepository{}, &mockTeamRepository{}, sprints, testGuard())

	err := svc.UpsertConfig(context.Background(), 1, &model.SprintConfig{DurationWeeks: 3, WorkingDaysPerMonth: 18, HoursPerDay: 7}, 7, []string{governance.RoleDeliveryManager})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if captured == nil || captured.VersionID != 10 {
		t.Errorf("config = %+v, want version_id 10", captured)
	}
}
