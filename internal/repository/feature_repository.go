package repository

import (
	"context"

	"github.com/pricecast/backend/internal/model"
	"github.com/shopspring/decimal"
)

// EffortUpdate is a governed effort-hours change. The repository applies it
// transactionally: history append, justification append when flagged, audit
// append and the value update all commit together or not at all, under the
// version's row lock.
type EffortUpdate struct {
	ProjectID int64
	VersionID int64
	FeatureID int64
	UserID    int64

	Previous decimal.Decimal
	Proposed decimal.Decimal

	// Authority tag recorded in history, from the governance gate.
	Authority string
	// Exceeds marks an over-threshold change; Justification is recorded
	// only when set.
	Exceeds       bool
	Justification string
}

// FeatureRepository persists features, their allocations and the governed
// effort trail.
type FeatureRepository interface {
	ListByVersion(ctx context.Context, versionID int64) ([]*model.Feature, error)
	GetByID(ctx context.Context, versionID, featureID int64) (*model.Feature, error)
	Create(ctx context.Context, f *model.Feature, audit *model.AuditLog) error
	// UpdateFields writes every feature column except effort_hours.
	UpdateFields(ctx context.Context, f *model.Feature, audit *model.AuditLog) error
	Delete(ctx context.Context, versionID, featureID int64, audit *model.AuditLog) error
	ReplaceAllocations(ctx context.Context, featureID int64, allocs []model.EffortAllocation) error
	UpdateEffort(ctx context.Context, u EffortUpdate) error
}
