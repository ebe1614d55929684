package service

import (
	"context"

	"github.com/pricecast/backend/internal/config"
	"github.com/pricecast/backend/internal/engine"
	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// Shared test fixtures. Mocks are func-field based: unset fields fall back
// to a harmless default so each test wires only what it asserts on.

func testCalc() config.Calculation {
	return config.Calculation{
		MarginWarningThreshold:     decimal.NewFromInt(15),
		EffortOverrideThreshold:    decimal.NewFromInt(15),
		DefaultWorkingDaysPerMonth: 20,
		DefaultSprintDurationWeeks: 2,
		DefaultHoursPerDay:         8,
		DefaultUtilizationPct:      decimal.NewFromInt(80),
		ContingencyJunior:          decimal.RequireFromString("1.15"),
		ContingencySenior:          decimal.RequireFromString("1.05"),
		ContingencyDefault:         decimal.RequireFromString("1.10"),
	}
}

func testEngine() *engine.Engine { return engine.New(testCalc()) }

func testGuard() *governance.Guard { return governance.NewGuard(testEngine()) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func draftVersion() *model.ProjectVersion {
	return &model.ProjectVersion{ID: 10, ProjectID: 1, VersionNumber: 1, Status: model.StatusDraft}
}

func lockedVersion() *model.ProjectVersion {
	v := draftVersion()
	v.Status = model.StatusWon
	v.IsLocked = true
	return v
}

// ---------------------------------------------------------------------------
// mockProjectRepository
// ---------------------------------------------------------------------------

type mockProjectRepository struct {
	createFunc              func(ctx context.Context, p *model.Project) (*model.ProjectVersion, error)
	listFunc                func(ctx context.Context) ([]*model.Project, error)
	getByIDFunc             func(ctx context.Context, id int64) (*model.Project, error)
	updateFunc              func(ctx context.Context, id int64, patch model.ProjectPatch) error
	deleteFunc              func(ctx context.Context, id int64) error
	latestVersionFunc       func(ctx context.Context, projectID int64) (*model.ProjectVersion, error)
	versionByIDFunc         func(ctx context.Context, projectID, versionID int64) (*model.ProjectVersion, error)
	updateVersionFieldsFunc func(ctx context.Context, versionID int64, patch model.VersionPatch, audit *model.AuditLog) error
	saveStatusFunc          func(ctx context.Context, v *model.ProjectVersion, audit *model.AuditLog) error
	saveUnlockFunc          func(ctx context.Context, v *model.ProjectVersion, audit *model.AuditLog) error
}

func (m *mockProjectRepository) Create(ctx context.Context, p *model.Project) (*model.ProjectVersion, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return draftVersion(), nil
}

func (m *mockProjectRepository) List(ctx context.Context) ([]*model.Project, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Project{ID: id, Name: "Test", RevenueModel: model.RevenueFixed, Currency: "USD"}, nil
}

func (m *mockProjectRepository) Update(ctx context.Context, id int64, patch model.ProjectPatch) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return nil
}

func (m *mockProjectRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockProjectRepository) LatestVersion(ctx context.Context, projectID int64) (*model.ProjectVersion, error) {
	if m.latestVersionFunc != nil {
		return m.latestVersionFunc(ctx, projectID)
	}
	return draftVersion(), nil
}

func (m *mockProjectRepository) VersionByID(ctx context.Context, projectID, versionID int64) (*model.ProjectVersion, error) {
	if m.versionByIDFunc != nil {
		return m.versionByIDFunc(ctx, projectID, versionID)
	}
	return draftVersion(), nil
}

func (m *mockProjectRepository) UpdateVersionFields(ctx context.Context, versionID int64, patch model.VersionPatch, audit *model.AuditLog) error {
	if m.updateVersionFieldsFunc != nil {
		return m.updateVersionFieldsFunc(ctx, versionID, patch, audit)
	}
	return nil
}

func (m *mockProjectRepository) SaveStatus(ctx context.Context, v *model.ProjectVersion, audit *model.AuditLog) error {
	if m.saveStatusFunc != nil {
		return m.saveStatusFunc(ctx, v, audit)
	}
	return nil
}

func (m *mockProjectRepository) SaveUnlock(ctx context.Context, v *model.ProjectVersion, audit *model.AuditLog) error {
	if m.saveUnlockFunc != nil {
		return m.saveUnlockFunc(ctx, v, audit)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockFeatureRepository
// ---------------------------------------------------------------------------

type mockFeatureRepository struct {
	listByVersionFunc      func(ctx context.Context, versionID int64) ([]*model.Feature, error)
	getByIDFunc            func(ctx context.Context, versionID, featureID int64) (*model.Feature, error)
	createFunc             func(ctx context.Context, f *model.Feature, audit *model.AuditLog) error
	updateFieldsFunc       func(ctx context.Context, f *model.Feature, audit *model.AuditLog) error
	deleteFunc             func(ctx context.Context, versionID, featureID int64, audit *model.AuditLog) error
	replaceAllocationsFunc func(ctx context.Context, featureID int64, allocs []model.EffortAllocation) error
	updateEffortFunc       func(ctx context.Context, u repository.EffortUpdate) error
}

func (m *mockFeatureRepository) ListByVersion(ctx context.Context, versionID int64) ([]*model.Feature, error) {
	if m.listByVersionFunc != nil {
		return m.listByVersionFunc(ctx, versionID)
	}
	return nil, nil
}

func (m *mockFeatureRepository) GetByID(ctx context.Context, versionID, featureID int64) (*model.Feature, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, versionID, featureID)
	}
	return nil, repository.ErrNotFound
}

func (m *mockFeatureRepository) Create(ctx context.Context, f *model.Feature, audit *model.AuditLog) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, f, audit)
	}
	return nil
}

func (m *mockFeatureRepository) UpdateFields(ctx context.Context, f *model.Feature, audit *model.AuditLog) error {
	if m.updateFieldsFunc != nil {
		return m.updateFieldsFunc(ctx, f, audit)
	}
	return nil
}

func (m *mockFeatureRepository) Delete(ctx context.Context, versionID, featureID int64, audit *model.AuditLog) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, versionID, featureID, audit)
	}
	return nil
}

func (m *mockFeatureRepository) ReplaceAllocations(ctx context.Context, featureID int64, allocs []model.EffortAllocation) error {
	if m.replaceAllocationsFunc != nil {
		return m.replaceAllocationsFunc(ctx, featureID, allocs)
	}
	return nil
}

func (m *mockFeatureRepository) UpdateEffort(ctx context.Context, u repository.EffortUpdate) error {
	if m.updateEffortFunc != nil {
		return m.updateEffortFunc(ctx, u)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockTeamRepository
// ---------------------------------------------------------------------------

type mockTeamRepository struct {
	listByVersionFunc func(ctx context.Context, versionID int64) ([]*model.TeamMember, error)
	getByIDFunc       func(ctx context.Context, versionID, memberID int64) (*model.TeamMember, error)
	createFunc        func(ctx context.Context, m *model.TeamMember, audit *model.AuditLog) error
	updateFunc        func(ctx context.Context, m *model.TeamMember, audit *model.AuditLog) error
	deleteFunc        func(ctx context.Context, versionID, memberID int64, audit *model.AuditLog) error
}

func (m *mockTeamRepository) ListByVersion(ctx context.Context, versionID int64) ([]*model.TeamMember, error) {
	if m.listByVersionFunc != nil {
		return m.listByVersionFunc(ctx, versionID)
	}
	return nil, nil
}

func (m *mockTeamRepository) GetByID(ctx context.Context, versionID, memberID int64) (*model.TeamMember, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, versionID, memberID)
	}
	return nil, repository.ErrNotFound
}

func (m *mockTeamRepository) Create(ctx context.Context, member *model.TeamMember, audit *model.AuditLog) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, member, audit)
	}
	return nil
}

func (m *mockTeamRepository) Update(ctx context.Context, member *model.TeamMember, audit *model.AuditLog) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, member, audit)
	}
	return nil
}

func (m *mockTeamRepository) Delete(ctx context.Context, versionID, memberID int64, audit *model.AuditLog) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, versionID, memberID, audit)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockRateRepository
// ---------------------------------------------------------------------------

type mockRateRepository struct {
	listFunc   func(ctx context.Context) ([]*model.RoleRate, error)
	tableFunc  func(ctx context.Context) (engine.RateTable, error)
	upsertFunc func(ctx context.Context, r *model.RoleRate) error
	deleteFunc func(ctx context.Context, id int64) error
}

func (m *mockRateRepository) List(ctx context.Context) ([]*model.RoleRate, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockRateRepository) Table(ctx context.Context) (engine.RateTable, error) {
	if m.tableFunc != nil {
		return m.tableFunc(ctx)
	}
	return engine.RateTable{}, nil
}

func (m *mockRateRepository) Upsert(ctx context.Context, r *model.RoleRate) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, r)
	}
	return nil
}

func (m *mockRateRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockSprintPlanRepository
// ---------------------------------------------------------------------------

type mockSprintPlanRepository struct {
	rowsFunc         func(ctx context.Context, versionID int64) ([]*model.SprintPlanRow, error)
	replaceRowsFunc  func(ctx context.Context, versionID int64, rows []*model.SprintPlanRow, audit *model.AuditLog) error
	configFunc       func(ctx context.Context, versionID int64) (*model.SprintConfig, error)
	upsertConfigFunc func(ctx context.Context, sc *model.SprintConfig, audit *model.AuditLog) error
}

func (m *mockSprintPlanRepository) Rows(ctx context.Context, versionID int64) ([]*model.SprintPlanRow, error) {
	if m.rowsFunc != nil {
		return m.rowsFunc(ctx, versionID)
	}
	return nil, nil
}

func (m *mockSprintPlanRepository) ReplaceRows(ctx context.Context, versionID int64, rows []*model.SprintPlanRow, audit *model.AuditLog) error {
	if m.replaceRowsFunc != nil {
		return m.replaceRowsFunc(ctx, versionID, rows, audit)
	}
	return nil
}

func (m *mockSprintPlanRepository) Config(ctx context.Context, versionID int64) (*model.SprintConfig, error) {
	if m.configFunc != nil {
		return m.configFunc(ctx, versionID)
	}
	return nil, repository.ErrNotFound
}

func (m *mockSprintPlanRepository) UpsertConfig(ctx context.Context, sc *model.SprintConfig, audit *model.AuditLog) error {
	if m.upsertConfigFunc != nil {
		return m.upsertConfigFunc(ctx, sc, audit)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockAuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepository struct {
	appendFunc                  func(ctx context.Context, a *model.AuditLog) error
	listByVersionFunc           func(ctx context.Context, versionID int64, limit int) ([]*model.AuditLog, error)
	historyByVersionFunc        func(ctx context.Context, versionID int64) ([]*model.EstimationHistory, error)
	justificationsByVersionFunc func(ctx context.Context, versionID int64) ([]*model.JustificationLog, error)
}

func (m *mockAuditRepository) Append(ctx context.Context, a *model.AuditLog) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, a)
	}
	return nil
}

func (m *mockAuditRepository) ListByVersion(ctx context.Context, versionID int64, limit int) ([]*model.AuditLog, error) {
	if m.listByVersionFunc != nil {
		return m.listByVersionFunc(ctx, versionID, limit)
	}
	return nil, nil
}

func (m *mockAuditRepository) HistoryByVersion(ctx context.Context, versionID int64) ([]*model.EstimationHistory, error) {
	if m.historyByVersionFunc != nil {
		return m.historyByVersionFunc(ctx, versionID)
	}
	return nil, nil
}

func (m *mockAuditRepository) JustificationsByVersion(ctx context.Context, versionID int64) ([]*model.JustificationLog, error) {
	if m.justificationsByVersionFunc != nil {
		return m.justificationsByVersionFunc(ctx, versionID)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// mockUserRepository
// ---------------------------------------------------------------------------

type mockUserRepository struct {
	getByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	getByIDFunc    func(ctx context.Context, id int64) (*model.User, error)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
