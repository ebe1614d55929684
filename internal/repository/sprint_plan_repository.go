package repository

import (
	"context"

	"github.com/pricecast/backend/internal/model"
)

// SprintPlanRepository persists the manually edited capacity plan and the
// per-version sprint configuration.
type SprintPlanRepository interface {
	Rows(ctx context.Context, versionID int64) ([]*model.SprintPlanRow, error)
	// ReplaceRows swaps the whole plan for a version in one transaction.
	ReplaceRows(ctx context.Context, versionID int64, rows []*model.SprintPlanRow, audit *model.AuditLog) error
	// Config returns ErrNotFound when the version has no sprint config;
	// callers fall back to process defaults.
	Config(ctx context.Context, versionID int64) (*model.SprintConfig, error)
	UpsertConfig(ctx context.Context, sc *model.SprintConfig, audit *model.AuditLog) error
}
