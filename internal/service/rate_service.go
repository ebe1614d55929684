package service

import (
	"context"

	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/repository"
)

// RateService administers the organization-wide role default rates.
type RateService interface {
	List(ctx context.Context) ([]*model.RoleRate, error)
	Upsert(ctx context.Context, r *model.RoleRate, roles []string) error
	Delete(ctx context.Context, id int64, roles []string) error
}

// RateServiceImpl is the RateService implementation.
type RateServiceImpl struct {
	rateRepo repository.RateRepository
}

func NewRateService(rateRepo repository.RateRepository) RateService {
	return &RateServiceImpl{rateRepo: rateRepo}
}

func (s *RateServiceImpl) List(ctx context.Context) ([]*model.RoleRate, error) {
	return s.rateRepo.List(ctx)
}

func (s *RateServiceImpl) Upsert(ctx context.Context, r *model.RoleRate, roles []string) error {
	if !governance.CanManageRates(roles) {
		return governance.ErrForbidden
	}
	return s.rateRepo.Upsert(ctx, r)
}

func (s *RateServiceImpl) Delete(ctx context.Context, id int64, roles []string) error {
	if !governance.CanManageRates(roles) {
		return governance.ErrForbidden
	}
	return s.rateRepo.Delete(ctx, id)
}
