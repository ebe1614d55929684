package repository

import (
	"context"

	"github.com/pricecast/backend/internal/model"
)

// AuditRepository reads the append-only trails and appends standalone audit
// records (governed writes append their own inside their transactions).
type AuditRepository interface {
	Append(ctx context.Context, a *model.AuditLog) error
	ListByVersion(ctx context.Context, versionID int64, limit int) ([]*model.AuditLog, error)
	HistoryByVersion(ctx context.Context, versionID int64) ([]*model.EstimationHistory, error)
	JustificationsByVersion(ctx context.Context, versionID int64) ([]*model.JustificationLog, error)
}
