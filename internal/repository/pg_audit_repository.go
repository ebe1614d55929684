package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pricecast/backend/internal/model"
)

// PgAuditRepository is the PostgreSQL implementation of AuditRepository.
type PgAuditRepository struct {
	pool *pgxpool.Pool
}

func NewPgAuditRepository(pool *pgxpool.Pool) *PgAuditRepository {
	return &PgAuditRepository{pool: pool}
}

func (r *PgAuditRepository) Append(ctx context.Context, a *model.AuditLog) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO audit_logs (project_id, version_id, user_id, action, entity_type, entity_id, old_value, new_value, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		a.ProjectID, a.VersionID, a.UserID, a.Action, a.EntityType, a.EntityID, a.OldValue, a.NewValue, a.Reason,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *PgAuditRepository) ListByVersion(ctx context.Context, versionID int64, limit int) ([]*model.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, version_id, user_id, action, entity_type, entity_id, old_value, new_value, reason, created_at
		 FROM audit_logs WHERE version_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		versionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*model.AuditLog
	for rows.Next() {
		var a model.AuditLog
		if err := rows.Scan(
			&a.ID, &a.ProjectID, &a.VersionID, &a.UserID, &a.Action, &a.EntityType,
			&a.EntityID, &a.OldValue, &a.NewValue, &a.Reason, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, &a)
	}
	return logs, rows.Err()
}

func (r *PgAuditRepository) HistoryByVersion(ctx context.Context, versionID int64) ([]*model.EstimationHistory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, version_id, feature_id, previous_effort, new_effort, changed_by, changed_at, authority
		 FROM estimation_history WHERE version_id = $1 ORDER BY changed_at DESC, id DESC`,
		versionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.EstimationHistory
	for rows.Next() {
		var h model.EstimationHistory
		if err := rows.Scan(
			&h.ID, &h.VersionID, &h.FeatureID, &h.PreviousEffort, &h.NewEffort,
			&h.ChangedBy, &h.ChangedAt, &h.Authority,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &h)
	}
	return entries, rows.Err()
}

func (r *PgAuditRepository) JustificationsByVersion(ctx context.Context, versionID int64) ([]*model.JustificationLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, version_id, feature_id, previous_effort, new_effort, justification, created_by, created_at
		 FROM justification_logs WHERE version_id = $1 ORDER BY created_at DESC, id DESC`,
		versionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.JustificationLog
	for rows.Next() {
		var j model.JustificationLog
		if err := rows.Scan(
			&j.ID, &j.VersionID, &j.FeatureID, &j.PreviousEffort, &j.NewEffort,
			&j.Justification, &j.CreatedBy, &j.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &j)
	}
	return entries, rows.Err()
}
