package service

import (
	"context"

	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/repository"
)

// TeamService manages the roster of a project's latest version.
type TeamService interface {
	List(ctx context.Context, projectID int64) ([]*model.TeamMember, error)
	Create(ctx context.Context, projectID int64, m *model.TeamMember, userID int64, roles []string) (*model.TeamMember, error)
	Update(ctx context.Context, projectID, memberID int64, patch model.TeamMemberPatch, userID int64, roles []string) (*model.TeamMember, error)
	Delete(ctx context.Context, projectID, memberID int64, userID int64, roles []string) error
}

// TeamServiceImpl is the TeamService implementation.
type TeamServiceImpl struct {
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
	rateRepo    repository.RateRepository
	guard       *governance.Guard
}

func NewTeamService(
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamRepository,
	rateRepo repository.RateRepository,
	guard *governance.Guard,
) TeamService {
	return &TeamServiceImpl{projectRepo: projectRepo, teamRepo: teamRepo, rateRepo: rateRepo, guard: guard}
}

func (s *TeamServiceImpl) List(ctx context.Context, projectID int64) ([]*model.TeamMember, error) {
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.teamRepo.ListByVersion(ctx, version.ID)
}

// Create adds a member to an unlocked roster. Missing per-day rates are
// filled from the org default for the member's role at insert time, so the
// stored roster is self-contained.
func (s *TeamServiceImpl) Create(ctx context.Context, projectID int64, m *model.TeamMember, userID int64, roles []string) (*model.TeamMember, error) {
	if !governance.CanEditTeam(roles) {
		return nil, governance.ErrForbidden
	}
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckUnlocked(version); err != nil {
		return nil, err
	}

	if m.CostRatePerDay == nil || m.BillingRatePerDay == nil {
		if err := s.fillDefaultRates(ctx, m); err != nil {
			return nil, err
		}
	}

	m.VersionID = version.ID
	audit := newAudit(projectID, version.ID, userID, "add_team_member", "team_member")
	audit.NewValue = m.Role
	if err := s.teamRepo.Create(ctx, m, audit); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TeamServiceImpl) Update(ctx context.Context, projectID, memberID int64, patch model.TeamMemberPatch, userID int64, roles []string) (*model.TeamMember, error) {
	if !governance.CanEditTeam(roles) {
		return nil, governance.ErrForbidden
	}
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckUnlocked(version); err != nil {
		return nil, err
	}
	m, err := s.teamRepo.GetByID(ctx, version.ID, memberID)
	if err != nil {
		return nil, err
	}

	if patch.Role != nil {
		m.Role = *patch.Role
	}
	if patch.MemberName != nil {
		m.MemberName = *patch.MemberName
	}
	if patch.CostRatePerDay != nil {
		m.CostRatePerDay = patch.CostRatePerDay
	}
	if patch.BillingRatePerDay != nil {
		m.BillingRatePerDay = patch.BillingRatePerDay
	}
	if patch.MonthlyCostRate != nil {
		m.MonthlyCostRate = patch.MonthlyCostRate
	}
	if patch.HourlyBillingRate != nil {
		m.HourlyBillingRate = patch.HourlyBillingRate
	}
	if patch.UtilizationPct != nil {
		m.UtilizationPct = *patch.UtilizationPct
	}
	if patch.WorkingDaysPerMonth != nil {
		m.WorkingDaysPerMonth = *patch.WorkingDaysPerMonth
	}
	if patch.HoursPerDay != nil {
		m.HoursPerDay = *patch.HoursPerDay
	}

	audit := newAudit(projectID, version.ID, userID, "update_team_member", "team_member")
	audit.EntityID = &m.ID
	if err := s.teamRepo.Update(ctx, m, audit); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TeamServiceImpl) Delete(ctx context.Context, projectID, memberID int64, userID int64, roles []string) error {
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
	audit := newAudit(projectID, version.ID, userID, "delete_team_member", "team_member")
	audit.EntityID = &memberID
	return s.teamRepo.Delete(ctx, version.ID, memberID, audit)
}

// fillDefaultRates copies the org default rates for the member's role into
// any missing per-day override. Role match is exact here; only calculation
// time lookups fall back case-insensitively.
func (s *TeamServiceImpl) fillDefaultRates(ctx context.Context, m *model.TeamMember) error {
	defaults, err := s.rateRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, d := range defaults {
		if d.Role != m.Role {
			continue
		}
		if m.CostRatePerDay == nil {
			cost := d.CostRatePerDay
			m.CostRatePerDay = &cost
		}
		if m.BillingRatePerDay == nil {
			billing := d.BillingRatePerDay
			m.BillingRatePerDay = &billing
		}
		break
	}
	return nil
}
