package service

import (
	"context"
	"time"

	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/repository"
)

// VersionService drives the version lifecycle: field updates while
// unlocked, status transitions, the won lock and the admin unlock. Every
// successful mutation lands an audit record in the same transaction.
type VersionService interface {
	Current(ctx context.Context, projectID int64) (*model.ProjectVersion, error)
	Get(ctx context.Context, projectID, versionID int64) (*model.ProjectVersion, error)
	UpdateFields(ctx context.Context, projectID, versionID int64, patch model.VersionPatch, userID int64, roles []string) error
	TransitionStatus(ctx context.Context, projectID, versionID int64, target string, userID int64, roles []string) (*model.ProjectVersion, error)
	Lock(ctx context.Context, projectID, versionID int64, userID int64, roles []string) (*model.ProjectVersion, error)
	Unlock(ctx context.Context, projectID, versionID int64, reason string, userID int64, roles []string) (*model.ProjectVersion, error)
}

// VersionServiceImpl is the VersionService implementation.
type VersionServiceImpl struct {
	projectRepo repository.ProjectRepository
	guard       *governance.Guard
	now         func() time.Time
}

func NewVersionService(projectRepo repository.ProjectRepository, guard *governance.Guard) VersionService {
	return &VersionServiceImpl{projectRepo: projectRepo, guard: guard, now: time.Now}
}

func (s *VersionServiceImpl) Current(ctx context.Context, projectID int64) (*model.ProjectVersion, error) {
	return s.projectRepo.LatestVersion(ctx, projectID)
}

func (s *VersionServiceImpl) Get(ctx context.Context, projectID, versionID int64) (*model.ProjectVersion, error) {
	return s.projectRepo.VersionByID(ctx, projectID, versionID)
}

// UpdateFields writes the buffer percentages and notes of an unlocked
// version. Delivery-management authority, same as roster edits.
func (s *VersionServiceImpl) UpdateFields(ctx context.Context, projectID, versionID int64, patch model.VersionPatch, userID int64, roles []string) error {
	if !governance.CanEditTeam(roles) {
		return governance.ErrForbidden
	}
	version, err := s.projectRepo.VersionByID(ctx, projectID, versionID)
	if err != nil {
		return err
	}
	if err := s.guard.CheckUnlocked(version); err != nil {
		return err
	}
	audit := newAudit(projectID, version.ID, userID, "update_version", "project_version")
	audit.EntityID = &version.ID
	return s.projectRepo.UpdateVersionFields(ctx, version.ID, patch, audit)
}

// TransitionStatus moves a version along the lifecycle. Reaching won locks
// the version and records the locking actor and time in the same write.
func (s *VersionServiceImpl) TransitionStatus(ctx context.Context, projectID, versionID int64, target string, userID int64, roles []string) (*model.ProjectVersion, error) {
	version, err := s.projectRepo.VersionByID(ctx, projectID, versionID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeTransition(version, target, roles); err != nil {
		return nil, err
	}
	s.guard.ApplyTransition(version, target, userID, s.now())

	audit := newAudit(projectID, version.ID, userID, "status_transition", "project_version")
	audit.EntityID = &version.ID
	audit.NewValue = version.Status
	if err := s.projectRepo.SaveStatus(ctx, version, audit); err != nil {
		return nil, err
	}
	return version, nil
}

// Lock is the submitted→won shortcut.
func (s *VersionServiceImpl) Lock(ctx context.Context, projectID, versionID int64, userID int64, roles []string) (*model.ProjectVersion, error) {
	version, err := s.projectRepo.VersionByID(ctx, projectID, versionID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeLock(version, roles); err != nil {
		return nil, err
	}
	s.guard.ApplyLock(version, userID, s.now())

	audit := newAudit(projectID, version.ID, userID, "lock", "project_version")
	audit.EntityID = &version.ID
	if err := s.projectRepo.SaveStatus(ctx, version, audit); err != nil {
		return nil, err
	}
	return version, nil
}

// Unlock clears the lock of a won version and demotes it to submitted. The
// reason is mandatory and lands in the audit trail.
func (s *VersionServiceImpl) Unlock(ctx context.Context, projectID, versionID int64, reason string, userID int64, roles []string) (*model.ProjectVersion, error) {
	version, err := s.projectRepo.VersionByID(ctx, projectID, versionID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeUnlock(version, roles, reason); err != nil {
		return nil, err
	}
	s.guard.ApplyUnlock(version)

	audit := newAudit(projectID, version.ID, userID, "unlock", "project_version")
	audit.EntityID = &version.ID
	audit.Reason = reason
	if err := s.projectRepo.SaveUnlock(ctx, version, audit); err != nil {
		return nil, err
	}
	return version, nil
}
