package repository

import (
	"context"

	"github.com/pricecast/backend/internal/engine"
	"github.com/pricecast/backend/internal/model"
)

// RateRepository persists the organization-wide role default rates.
type RateRepository interface {
	List(ctx context.Context) ([]*model.RoleRate, error)
	// Table returns the rates in the shape the calculation engine consumes.
	Table(ctx context.Context) (engine.RateTable, error)
	Upsert(ctx context.Context, r *model.RoleRate) error
	Delete(ctx context.Context, id int64) error
}
