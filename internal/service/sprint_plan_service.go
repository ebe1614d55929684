package service

import (
	"context"
	"sort"

	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/repository"
)

// SprintPlan is the manually edited capacity plan plus the distinct roles
// appearing in roster or plan, the column set a plan editor renders.
type SprintPlan struct {
	Rows  []*model.SprintPlanRow `json:"rows"`
	Roles []string               `json:"roles"`
}

// SprintPlanService manages the capacity plan and sprint config of a
// project's latest version.
type SprintPlanService interface {
	Get(ctx context.Context, projectID int64) (*SprintPlan, error)
	Replace(ctx context.Context, projectID int64, rows []*model.SprintPlanRow, userID int64, roles []string) error
	Config(ctx context.Context, projectID int64) (*model.SprintConfig, error)
	UpsertConfig(ctx context.Context, projectID int64, sc *model.SprintConfig, userID int64, roles []string) error
}

// SprintPlanServiceImpl is the SprintPlanService implementation.
type SprintPlanServiceImpl struct {
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
	sprintRepo  repository.SprintPlanRepository
	guard       *governance.Guard
}

func NewSprintPlanService(
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamRepository,
	sprintRepo repository.SprintPlanRepository,
	guard *governance.Guard,
) SprintPlanService {
	return &SprintPlanServiceImpl{projectRepo: projectRepo, teamRepo: teamRepo, sprintRepo: sprintRepo, guard: guard}
}

// defaultPlanRoles seed the plan columns for a version with no roster yet.
var defaultPlanRoles = []string{"Technical Architect", "Project Manager", "QA"}

// Get returns the stored plan with its role columns: every roster role
// plus any role appearing only in plan rows, sorted.
func (s *SprintPlanServiceImpl) Get(ctx context.Context, projectID int64) (*SprintPlan, error) {
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	rows, err := s.sprintRepo.Rows(ctx, version.ID)
	if err != nil {
		return nil, err
	}
	team, err := s.teamRepo.ListByVersion(ctx, version.ID)
	if err != nil {
		return nil, err
	}

	roles := planRoles(team, rows)
	return &SprintPlan{Rows: rows, Roles: roles}, nil
}

// Replace swaps the whole plan behind the lock and edit gates.
func (s *SprintPlanServiceImpl) Replace(ctx context.Context, projectID int64, rows []*model.SprintPlanRow, userID int64, roles []string) error {
	if !governance.CanEditTeam(roles) && !governance.CanEditFeatures(roles) {
		return governance.ErrForbidden
	}
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.guard.CheckUnlocked(version); err != nil {
		return err
	}
	for i, row := range rows {
		row.VersionID = version.ID
		row.SortOrder = i
	}
	audit := newAudit(projectID, version.ID, userID, "update_sprint_plan", "sprint_plan")
	return s.sprintRepo.ReplaceRows(ctx, version.ID, rows, audit)
}

func (s *SprintPlanServiceImpl) Config(ctx context.Context, projectID int64) (*model.SprintConfig, error) {
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.sprintRepo.Config(ctx, version.ID)
}

func (s *SprintPlanServiceImpl) UpsertConfig(ctx context.Context, projectID int64, sc *model.SprintConfig, userID int64, roles []string) error {
	if !governance.CanEditTeam(roles) {
		return governance.ErrForbidden
	}
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.guard.CheckUnlocked(version); err != nil {
		return err
	}
	sc.VersionID = version.ID
	audit := newAudit(projectID, version.ID, userID, "update_sprint_config", "sprint_config")
	return s.sprintRepo.UpsertConfig(ctx, sc, audit)
}

func planRoles(team []*model.TeamMember, rows []*model.SprintPlanRow) []string {
	seen := make(map[string]bool)
	var roles []string
	for _, m := range team {
		if !seen[m.Role] {
			seen[m.Role] = true
			roles = append(roles, m.Role)
		}
	}
	if len(roles) == 0 {
		roles = append(roles, defaultPlanRoles...)
		for _, r := range defaultPlanRoles {
			seen[r] = true
		}
	}
	for _, row := range rows {
		for role := range row.Allocations {
			if !seen[role] {
				seen[role] = true
				roles = append(roles, role)
			}
		}
	}
	sort.Strings(roles)
	return roles
}
