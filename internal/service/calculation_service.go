package service

import (
	"context"
	"errors"

	"github.com/pricecast/backend/internal/engine"
	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// CalculationService exposes the financial figures for a project's latest
// version. All methods are read-only and work on a consistent snapshot of
// the version's team, features, sprint config and the org rate table.
type CalculationService interface {
	Cost(ctx context.Context, projectID int64) (*model.CostBreakdown, error)
	Revenue(ctx context.Context, projectID int64) (*model.RevenueBreakdown, error)
	Profitability(ctx context.Context, projectID int64) (*model.Profitability, error)
	ReverseMargin(ctx context.Context, projectID int64, targetMarginPct decimal.Decimal) (*model.ReverseMargin, error)
	SprintAllocation(ctx context.Context, projectID int64) (*model.SprintAllocation, error)
	SprintPlanCost(ctx context.Context, projectID int64) (*model.CostBreakdown, error)
}

// CalculationServiceImpl is the CalculationService implementation.
type CalculationServiceImpl struct {
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
	featureRepo repository.FeatureRepository
	sprintRepo  repository.SprintPlanRepository
	rateRepo    repository.RateRepository
	engine      *engine.Engine
}

func NewCalculationService(
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamRepository,
	featureRepo repository.FeatureRepository,
	sprintRepo repository.SprintPlanRepository,
	rateRepo repository.RateRepository,
	eng *engine.Engine,
) CalculationService {
	return &CalculationServiceImpl{
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
		featureRepo: featureRepo,
		sprintRepo:  sprintRepo,
		rateRepo:    rateRepo,
		engine:      eng,
	}
}

// versionSnapshot is everything a calculation reads, loaded once per call.
type versionSnapshot struct {
	project     *model.Project
	version     *model.ProjectVersion
	team        []*model.TeamMember
	features    []*model.Feature
	allocations map[int64][]model.EffortAllocation
	sprint      *model.SprintConfig
	rates       engine.RateTable
}

func (s *CalculationServiceImpl) snapshot(ctx context.Context, projectID int64) (*versionSnapshot, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	team, err := s.teamRepo.ListByVersion(ctx, version.ID)
	if err != nil {
		return nil, err
	}
	features, err := s.featureRepo.ListByVersion(ctx, version.ID)
	if err != nil {
		return nil, err
	}
	sprint, err := s.sprintRepo.Config(ctx, version.ID)
	if errors.Is(err, repository.ErrNotFound) {
		sprint = nil
	} else if err != nil {
		return nil, err
	}
	rates, err := s.rateRepo.Table(ctx)
	if err != nil {
		return nil, err
	}
	return &versionSnapshot{
		project:     project,
		version:     version,
		team:        team,
		features:    features,
		allocations: model.AllocationsByFeature(features),
		sprint:      sprint,
		rates:       rates,
	}, nil
}

func (s *CalculationServiceImpl) Cost(ctx context.Context, projectID int64) (*model.CostBreakdown, error) {
	snap, err := s.snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	base := s.engine.BaseCost(snap.team, snap.features, snap.allocations, snap.rates)
	base, buffer, total := s.engine.CostWithBuffers(base, snap.version.ContingencyPct, snap.version.ManagementReservePct)
	return &model.CostBreakdown{
		BaseCost:             base,
		RiskBuffer:           buffer,
		TotalCost:            total,
		ContingencyPct:       snap.version.ContingencyPct,
		ManagementReservePct: snap.version.ManagementReservePct,
	}, nil
}

func (s *CalculationServiceImpl) Revenue(ctx context.Context, projectID int64) (*model.RevenueBreakdown, error) {
	snap, err := s.snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	revenue := s.engine.Revenue(snap.project, snap.team, snap.features, snap.allocations, snap.rates, nil)
	return &model.RevenueBreakdown{
		Revenue:      revenue,
		RevenueModel: snap.project.RevenueModel,
	}, nil
}

// Profitability sets revenue against the buffered total cost. Gross and net
// read the same figure here: the base already carries fully loaded rates,
// so buffers are the only wedge between them and both land on total cost.
func (s *CalculationServiceImpl) Profitability(ctx context.Context, projectID int64) (*model.Profitability, error) {
	snap, err := s.snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	base := s.engine.BaseCost(snap.team, snap.features, snap.allocations, snap.rates)
	_, _, total := s.engine.CostWithBuffers(base, snap.version.ContingencyPct, snap.version.ManagementReservePct)
	revenue := s.engine.Revenue(snap.project, snap.team, snap.features, snap.allocations, snap.rates, nil)
	gross := s.engine.GrossMargin(revenue, total)
	return &model.Profitability{
		Revenue:              revenue,
		Cost:                 total,
		GrossMarginPct:       gross,
		NetMarginPct:         gross,
		MarginBelowThreshold: s.engine.MarginBelowThreshold(gross),
	}, nil
}

func (s *CalculationServiceImpl) ReverseMargin(ctx context.Context, projectID int64, targetMarginPct decimal.Decimal) (*model.ReverseMargin, error) {
	snap, err := s.snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	base := s.engine.BaseCost(snap.team, snap.features, snap.allocations, snap.rates)
	_, _, total := s.engine.CostWithBuffers(base, snap.version.ContingencyPct, snap.version.ManagementReservePct)
	effort := s.engine.ContingencyAdjustedEffort(snap.features, snap.allocations, snap.version.ContingencyPct)

	result := &model.ReverseMargin{
		TargetMarginPct: targetMarginPct,
		RequiredRevenue: s.engine.ReverseMarginRevenue(total, targetMarginPct),
	}
	if effort.IsPositive() {
		rate := s.engine.ReverseMarginBillingRate(total, effort, targetMarginPct)
		result.RequiredBillingRate = &rate
	}
	return result, nil
}

func (s *CalculationServiceImpl) SprintAllocation(ctx context.Context, projectID int64) (*model.SprintAllocation, error) {
	snap, err := s.snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	effort := s.engine.ContingencyAdjustedEffort(snap.features, snap.allocations, snap.version.ContingencyPct)
	capacity := s.engine.SprintCapacity(snap.team, snap.sprint)
	sprints := s.engine.SprintsRequired(effort, capacity)
	perSprint := decimal.Zero
	if sprints > 0 {
		perSprint = engine.Round(effort.Div(decimal.NewFromInt(int64(sprints))))
	}
	return &model.SprintAllocation{
		SprintCapacityHours: capacity,
		TotalEffortHours:    effort,
		SprintsRequired:     sprints,
		EffortPerSprint:     perSprint,
	}, nil
}

func (s *CalculationServiceImpl) SprintPlanCost(ctx context.Context, projectID int64) (*model.CostBreakdown, error) {
	snap, err := s.snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	rows, err := s.sprintRepo.Rows(ctx, snap.version.ID)
	if err != nil {
		return nil, err
	}
	base, buffer, total := s.engine.SprintPlanCost(
		rows, snap.team, snap.rates, snap.sprint,
		snap.version.ContingencyPct, snap.version.ManagementReservePct,
	)
	return &model.CostBreakdown{
		BaseCost:             base,
		RiskBuffer:           buffer,
		TotalCost:            total,
		ContingencyPct:       snap.version.ContingencyPct,
		ManagementReservePct: snap.version.ManagementReservePct,
	}, nil
}
