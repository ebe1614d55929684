package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// ErrNoSuggestedEffort rejects approving a feature that carries no
// suggested estimate.
var ErrNoSuggestedEffort = errors.New("feature has no suggested effort")

// FeatureService manages the scope list of a project's latest version.
// Effort-hours changes run through the governance gate and land as a
// single transaction: history, justification when required, audit and the
// new value together.
type FeatureService interface {
	List(ctx context.Context, projectID int64) ([]*model.Feature, error)
	Create(ctx context.Context, projectID int64, f *model.Feature, userID int64, roles []string) (*model.Feature, error)
	Update(ctx context.Context, projectID, featureID int64, patch model.FeaturePatch, justification string, userID int64, roles []string) (*model.Feature, error)
	Delete(ctx context.Context, projectID, featureID int64, userID int64, roles []string) error
	ApproveSuggestedEffort(ctx context.Context, projectID, featureID int64, justification string, userID int64, roles []string) (*model.Feature, error)
}

// FeatureServiceImpl is the FeatureService implementation.
type FeatureServiceImpl struct {
	projectRepo repository.ProjectRepository
	featureRepo repository.FeatureRepository
	guard       *governance.Guard
}

func NewFeatureService(
	projectRepo repository.ProjectRepository,
	featureRepo repository.FeatureRepository,
	guard *governance.Guard,
) FeatureService {
	return &FeatureServiceImpl{projectRepo: projectRepo, featureRepo: featureRepo, guard: guard}
}

func (s *FeatureServiceImpl) List(ctx context.Context, projectID int64) ([]*model.Feature, error) {
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.featureRepo.ListByVersion(ctx, version.ID)
}

func (s *FeatureServiceImpl) Create(ctx context.Context, projectID int64, f *model.Feature, userID int64, roles []string) (*model.Feature, error) {
	if !governance.CanEditFeatures(roles) {
		return nil, governance.ErrForbidden
	}
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckUnlocked(version); err != nil {
		return nil, err
	}
	f.VersionID = version.ID
	audit := newAudit(projectID, version.ID, userID, "add_feature", "feature")
	audit.NewValue = f.Name
	if err := s.featureRepo.Create(ctx, f, audit); err != nil {
		return nil, err
	}
	return f, nil
}

// Update applies a feature patch. A changed effort-hours figure goes
// through the governance gate first and is persisted by the dedicated
// UpdateEffort transaction; the remaining fields follow as a plain field
// write. Editing the task breakdown re-derives the role allocations so
// cost calculations keep pricing the right roles.
func (s *FeatureServiceImpl) Update(ctx context.Context, projectID, featureID int64, patch model.FeaturePatch, justification string, userID int64, roles []string) (*model.Feature, error) {
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckUnlocked(version); err != nil {
		return nil, err
	}
	f, err := s.featureRepo.GetByID(ctx, version.ID, featureID)
	if err != nil {
		return nil, err
	}

	if patch.EffortHours != nil {
		if err := s.applyEffortChange(ctx, projectID, version.ID, f, *patch.EffortHours, justification, userID, roles); err != nil {
			return nil, err
		}
	} else if !governance.CanEditFeatures(roles) {
		return nil, governance.ErrForbidden
	}

	if patch.Name != nil {
		f.Name = *patch.Name
	}
	if patch.Description != nil {
		f.Description = *patch.Description
	}
	if patch.Priority != nil {
		f.Priority = *patch.Priority
	}
	if patch.EffortStoryPoints != nil {
		f.EffortStoryPoints = patch.EffortStoryPoints
	}

	allocations := patch.Allocations
	if patch.Tasks != nil {
		f.Tasks = patch.Tasks
		allocations = allocationsFromTasks(f.ID, patch.Tasks)
	}

	if fieldsChanged(patch) {
		audit := newAudit(projectID, version.ID, userID, "update_feature", "feature")
		audit.EntityID = &f.ID
		if err := s.featureRepo.UpdateFields(ctx, f, audit); err != nil {
			return nil, err
		}
	}
	if allocations != nil {
		if err := s.featureRepo.ReplaceAllocations(ctx, f.ID, allocations); err != nil {
			return nil, err
		}
		f.Allocations = allocations
	}
	return f, nil
}

func (s *FeatureServiceImpl) Delete(ctx context.Context, projectID, featureID int64, userID int64, roles []string) error {
	if !governance.CanEditFeatures(roles) {
		return governance.ErrForbidden
	}
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.guard.CheckUnlocked(version); err != nil {
		return err
	}
	audit := newAudit(projectID, version.ID, userID, "delete_feature", "feature")
	audit.EntityID = &featureID
	return s.featureRepo.Delete(ctx, version.ID, featureID, audit)
}

// ApproveSuggestedEffort adopts an externally supplied estimate as the
// feature's effort. It runs through the exact same gate as a manual effort
// edit: no suggestion bypasses the threshold or the justification rule.
func (s *FeatureServiceImpl) ApproveSuggestedEffort(ctx context.Context, projectID, featureID int64, justification string, userID int64, roles []string) (*model.Feature, error) {
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckUnlocked(version); err != nil {
		return nil, err
	}
	f, err := s.featureRepo.GetByID(ctx, version.ID, featureID)
	if err != nil {
		return nil, err
	}
	if f.SuggestedEffort == nil {
		return nil, ErrNoSuggestedEffort
	}

	if err := s.applyEffortChange(ctx, projectID, version.ID, f, *f.SuggestedEffort, justification, userID, roles); err != nil {
		return nil, err
	}

	f.SuggestedApproved = true
	audit := newAudit(projectID, version.ID, userID, "approve_suggested_effort", "feature")
	audit.EntityID = &f.ID
	if err := s.featureRepo.UpdateFields(ctx, f, audit); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FeatureServiceImpl) applyEffortChange(ctx context.Context, projectID, versionID int64, f *model.Feature, proposed decimal.Decimal, justification string, userID int64, roles []string) error {
	authority, exceeds, err := s.guard.AuthorizeEffortChange(f.EffortHours, proposed, roles, justification)
	if err != nil {
		return err
	}
	update := repository.EffortUpdate{
		ProjectID:     projectID,
		VersionID:     versionID,
		FeatureID:     f.ID,
		UserID:        userID,
		Previous:      f.EffortHours,
		Proposed:      proposed,
		Authority:     authority,
		Exceeds:       exceeds,
		Justification: strings.TrimSpace(justification),
	}
	if err := s.featureRepo.UpdateEffort(ctx, update); err != nil {
		return err
	}
	f.EffortHours = proposed
	return nil
}

func fieldsChanged(patch model.FeaturePatch) bool {
	return patch.Name != nil || patch.Description != nil || patch.Priority != nil ||
		patch.EffortStoryPoints != nil || patch.Tasks != nil
}

// allocationsFromTasks turns a task breakdown into per-role allocations:
// hours summed per role, percentages as each role's share rounded to two
// places. Roles are sorted for a stable result.
func allocationsFromTasks(featureID int64, tasks []model.FeatureTask) []model.EffortAllocation {
	roleHours := model.RoleHoursFromTasks(tasks)

	total := decimal.Zero
	for _, hrs := range roleHours {
		total = total.Add(hrs)
	}
	if total.IsZero() {
		total = decimal.NewFromInt(1)
	}

	roles := make([]string, 0, len(roleHours))
	for role := range roleHours {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	hundred := decimal.NewFromInt(100)
	out := make([]model.EffortAllocation, 0, len(roles))
	for _, role := range roles {
		hrs := roleHours[role]
		out = append(out, model.EffortAllocation{
			FeatureID:     featureID,
			Role:          role,
			AllocationPct: hrs.Div(total).Mul(hundred).Round(2),
			EffortHours:   hrs,
		})
	}
	return out
}
