package service

import (
	"context"

	"github.com/pricecast/backend/internal/model"
	"github.com/pricecast/backend/internal/repository"
)

// AuditService reads the append-only trails of a project's latest version.
type AuditService interface {
	Logs(ctx context.Context, projectID int64, limit int) ([]*model.AuditLog, error)
	History(ctx context.Context, projectID int64) ([]*model.EstimationHistory, error)
	Justifications(ctx context.Context, projectID int64) ([]*model.JustificationLog, error)
}

// AuditServiceImpl is the AuditService implementation.
type AuditServiceImpl struct {
	projectRepo repository.ProjectRepository
	auditRepo   repository.AuditRepository
}

func NewAuditService(projectRepo repository.ProjectRepository, auditRepo repository.AuditRepository) AuditService {
	return &AuditServiceImpl{projectRepo: projectRepo, auditRepo: auditRepo}
}

func (s *AuditServiceImpl) Logs(ctx context.Context, projectID int64, limit int) ([]*model.AuditLog, error) {
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.auditRepo.ListByVersion(ctx, version.ID, limit)
}

func (s *AuditServiceImpl) History(ctx context.Context, projectID int64) ([]*model.EstimationHistory, error) {
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.auditRepo.HistoryByVersion(ctx, version.ID)
}

func (s *AuditServiceImpl) Justifications(ctx context.Context, projectID int64) ([]*model.JustificationLog, error) {
	version, err := s.projectRepo.LatestVersion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.auditRepo.JustificationsByVersion(ctx, version.ID)
}
