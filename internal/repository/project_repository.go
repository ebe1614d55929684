package repository

import (
	"context"

	"github.com/pricecast/backend/internal/model"
)

// ProjectRepository persists projects and their version snapshots. Write
// methods that mutate a version take the audit record so the change and its
// trail commit in one transaction.
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) (*model.ProjectVersion, error)
	List(ctx context.Context) ([]*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	Update(ctx context.Context, id int64, patch model.ProjectPatch) error
	Delete(ctx context.Context, id int64) error

	// LatestVersion returns the highest-numbered version of a project.
	LatestVersion(ctx context.Context, projectID int64) (*model.ProjectVersion, error)
	VersionByID(ctx context.Context, projectID, versionID int64) (*model.ProjectVersion, error)
	UpdateVersionFields(ctx context.Context, versionID int64, patch model.VersionPatch, audit *model.AuditLog) error
	// SaveStatus persists status and lock fields from v under the
	// version's row lock, rejecting with ErrLocked if a concurrent
	// writer locked it first.
	SaveStatus(ctx context.Context, v *model.ProjectVersion, audit *model.AuditLog) error
	// SaveUnlock persists a cleared lock and the demoted status.
	SaveUnlock(ctx context.Context, v *model.ProjectVersion, audit *model.AuditLog) error
}
