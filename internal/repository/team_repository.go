package repository

import (
	"context"

	"github.com/pricecast/backend/internal/model"
)

// TeamRepository persists the per-version team roster.
type TeamRepository interface {
	ListByVersion(ctx context.Context, versionID int64) ([]*model.TeamMember, error)
	GetByID(ctx context.Context, versionID, memberID int64) (*model.TeamMember, error)
	Create(ctx context.Context, m *model.TeamMember, audit *model.AuditLog) error
	Update(ctx context.Context, m *model.TeamMember, audit *model.AuditLog) error
	Delete(ctx context.Context, versionID, memberID int64, audit *model.AuditLog) error
}
