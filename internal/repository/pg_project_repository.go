package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pricecast/backend/internal/model"
)

// PgProjectRepository is the PostgreSQL implementation of ProjectRepository.
type PgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

// Create inserts the project together with its initial draft version.
func (r *PgProjectRepository) Create(ctx context.Context, p *model.Project) (*model.ProjectVersion, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO projects (name, client_name, revenue_model, currency, sprint_duration_weeks, fixed_revenue, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		p.Name, p.ClientName, p.RevenueModel, p.Currency, p.SprintDurationWeeks, p.FixedRevenue, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	v := &model.ProjectVersion{
		ProjectID:     p.ID,
		VersionNumber: 1,
		Status:        model.StatusDraft,
		CreatedBy:     p.CreatedBy,
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO project_versions (project_id, version_number, status, created_by, contingency_pct, management_reserve_pct)
		 VALUES ($1, 1, $2, $3, 0, 0)
		 RETURNING id, created_at, contingency_pct, management_reserve_pct`,
		p.ID, model.StatusDraft, p.CreatedBy,
	).Scan(&v.ID, &v.CreatedAt, &v.ContingencyPct, &v.ManagementReservePct); err != nil {
		return nil, err
	}

	weeks := p.SprintDurationWeeks
	if weeks <= 0 {
		weeks = 2
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO sprint_configs (version_id, duration_weeks, working_days_per_month, hours_per_day)
		 VALUES ($1, $2, 20, 8)`,
		v.ID, weeks,
	); err != nil {
		return nil, err
	}

	audit := &model.AuditLog{
		ProjectID:  &p.ID,
		VersionID:  &v.ID,
		UserID:     p.CreatedBy,
		Action:     "create",
		EntityType: "project",
		EntityID:   &p.ID,
		NewValue:   p.Name,
	}
	if err := appendAudit(ctx, tx, audit); err != nil {
		return nil, err
	}

	return v, tx.Commit(ctx)
}

func (r *PgProjectRepository) List(ctx context.Context) ([]*model.Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, client_name, revenue_model, currency, sprint_duration_weeks, fixed_revenue, created_by, created_at, updated_at
		 FROM projects ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *PgProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, client_name, revenue_model, currency, sprint_duration_weeks, fixed_revenue, created_by, created_at, updated_at
		 FROM projects WHERE id = $1`,
		id,
	)
	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	if err := row.Scan(
		&p.ID, &p.Name, &p.ClientName, &p.RevenueModel, &p.Currency,
		&p.SprintDurationWeeks, &p.FixedRevenue, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgProjectRepository) Update(ctx context.Context, id int64, patch model.ProjectPatch) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE projects SET
		   name = COALESCE($2, name),
		   client_name = COALESCE($3, client_name),
		   revenue_model = COALESCE($4, revenue_model),
		   currency = COALESCE($5, currency),
		   sprint_duration_weeks = COALESCE($6, sprint_duration_weeks),
		   fixed_revenue = COALESCE($7, fixed_revenue),
		   updated_at = NOW()
		 WHERE id = $1`,
		id, patch.Name, patch.ClientName, patch.RevenueModel, patch.Currency,
		patch.SprintDurationWeeks, patch.FixedRevenue,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgProjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const versionColumns = `id, project_id, version_number, status, is_locked, locked_by, locked_at,
	created_by, created_at, estimation_authority, contingency_pct, management_reserve_pct, notes`

func (r *PgProjectRepository) LatestVersion(ctx context.Context, projectID int64) (*model.ProjectVersion, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+versionColumns+` FROM project_versions
		 WHERE project_id = $1 ORDER BY version_number DESC LIMIT 1`,
		projectID,
	)
	return scanVersion(row)
}

func (r *PgProjectRepository) VersionByID(ctx context.Context, projectID, versionID int64) (*model.ProjectVersion, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+versionColumns+` FROM project_versions
		 WHERE id = $1 AND project_id = $2`,
		versionID, projectID,
	)
	return scanVersion(row)
}

func scanVersion(row pgx.Row) (*model.ProjectVersion, error) {
	var v model.ProjectVersion
	err := row.Scan(
		&v.ID, &v.ProjectID, &v.VersionNumber, &v.Status, &v.IsLocked, &v.LockedBy, &v.LockedAt,
		&v.CreatedBy, &v.CreatedAt, &v.EstimationAuthority, &v.ContingencyPct, &v.ManagementReservePct, &v.Notes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PgProjectRepository) UpdateVersionFields(ctx context.Context, versionID int64, patch model.VersionPatch, audit *model.AuditLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var locked bool
	err = tx.QueryRow(ctx,
		`SELECT is_locked FROM project_versions WHERE id = $1 FOR UPDATE`, versionID,
	).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if locked {
		return ErrLocked
	}

	if _, err := tx.Exec(ctx,
		`UPDATE project_versions SET
		   contingency_pct = COALESCE($2, contingency_pct),
		   management_reserve_pct = COALESCE($3, management_reserve_pct),
		   notes = COALESCE($4, notes)
		 WHERE id = $1`,
		versionID, patch.ContingencyPct, patch.ManagementReservePct, patch.Notes,
	); err != nil {
		return err
	}
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SaveStatus writes status and lock metadata under the version's row lock.
// A concurrent writer that locked the version first wins: the late write
// is rejected with ErrLocked.
func (r *PgProjectRepository) SaveStatus(ctx context.Context, v *model.ProjectVersion, audit *model.AuditLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var locked bool
	err = tx.QueryRow(ctx,
		`SELECT is_locked FROM project_versions WHERE id = $1 FOR UPDATE`, v.ID,
	).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if locked {
		return ErrLocked
	}

	if _, err := tx.Exec(ctx,
		`UPDATE project_versions SET status=$2, is_locked=$3, locked_by=$4, locked_at=$5 WHERE id=$1`,
		v.ID, v.Status, v.IsLocked, v.LockedBy, v.LockedAt,
	); err != nil {
		return err
	}
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PgProjectRepository) SaveUnlock(ctx context.Context, v *model.ProjectVersion, audit *model.AuditLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var locked bool
	err = tx.QueryRow(ctx,
		`SELECT is_locked FROM project_versions WHERE id = $1 FOR UPDATE`, v.ID,
	).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE project_versions SET status=$2, is_locked=FALSE, locked_by=NULL, locked_at=NULL WHERE id=$1`,
		v.ID, v.Status,
	); err != nil {
		return err
	}
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// appendAudit inserts an audit record inside the caller's transaction.
func appendAudit(ctx context.Context, tx pgx.Tx, a *model.AuditLog) error {
	if a == nil {
		return nil
	}
	return tx.QueryRow(ctx,
		`INSERT INTO audit_logs (project_id, version_id, user_id, action, entity_type, entity_id, old_value, new_value, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		a.ProjectID, a.VersionID, a.UserID, a.Action, a.EntityType, a.EntityID, a.OldValue, a.NewValue, a.Reason,
	).Scan(&a.ID, &a.CreatedAt)
}
