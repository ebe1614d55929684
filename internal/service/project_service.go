package service

import (
	"context"
	"strings"

	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/repository"
)

// ProjectService manages projects and exposes their version snapshots.
type ProjectService interface {
	Create(ctx context.Context, p *model.Project, userID int64, roles []string) (*model.ProjectVersion, error)
	List(ctx context.Context) ([]*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	Update(ctx context.Context, id int64, patch model.ProjectPatch, userID int64, roles []string) error
	Delete(ctx context.Context, id int64, roles []string) error
}

// ProjectServiceImpl is the ProjectService implementation.
type ProjectServiceImpl struct {
	projectRepo repository.ProjectRepository
	guard       *governance.Guard
}

func NewProjectService(projectRepo repository.ProjectRepository, guard *governance.Guard) ProjectService {
	return &ProjectServiceImpl{projectRepo: projectRepo, guard: guard}
}

// Create inserts the project with its initial draft version and sprint
// config in one transaction. Currency is normalized to upper case.
func (s *ProjectServiceImpl) Create(ctx context.Context, p *model.Project, userID int64, roles []string) (*model.ProjectVersion, error) {
	if !governance.CanCreateProject(roles) {
		return nil, governance.ErrForbidden
	}
	p.Currency = strings.ToUpper(p.Currency)
	if p.RevenueModel == "" {
		p.RevenueModel = model.RevenueFixed
	}
	p.CreatedBy = userID
	return s.projectRepo.Create(ctx, p)
}

func (s *ProjectServiceImpl) List(ctx context.Context) ([]*model.Project, error) {
	return s.projectRepo.List(ctx)
}

func (s *ProjectServiceImpl) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// Update writes project fields. The latest version must be unlocked since
// project fields (revenue model, fixed revenue) feed the calculations.
func (s *ProjectServiceImpl) Update(ctx context.Context, id int64, patch model.ProjectPatch, userID int64, roles []string) error {
	if !governance.CanEditFeatures(roles) {
		return governance.ErrForbidden
	}
	version, err := s.projectRepo.LatestVersion(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.CheckUnlocked(version); err != nil {
		return err
	}
	return s.projectRepo.Update(ctx, id, patch)
}

// Delete removes a project. Only allowed while the latest version is still
// an unlocked draft; anything further along is kept for the record.
func (s *ProjectServiceImpl) Delete(ctx context.Context, id int64, roles []string) error {
	if !governance.CanDeleteProject(roles) {
		return governance.ErrForbidden
	}
	version, err := s.projectRepo.LatestVersion(ctx, id)
	if err != nil {
		return err
	}
	if version.Status != model.StatusDraft || version.IsLocked {
		return governance.ErrLocked
	}
	return s.projectRepo.Delete(ctx, id)
}
