package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pricecast/backend/internal/model"
)

// PgTeamRepository is the PostgreSQL implementation of TeamRepository.
type PgTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgTeamRepository(pool *pgxpool.Pool) *PgTeamRepository {
	return &PgTeamRepository{pool: pool}
}

const teamColumns = `id, version_id, role, member_name, cost_rate_per_day, billing_rate_per_day,
	monthly_cost_rate, hourly_billing_rate, utilization_pct, working_days_per_month, hours_per_day`

func (r *PgTeamRepository) ListByVersion(ctx context.Context, versionID int64) ([]*model.TeamMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+teamColumns+` FROM team_members WHERE version_id = $1 ORDER BY id`,
		versionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*model.TeamMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *PgTeamRepository) GetByID(ctx context.Context, versionID, memberID int64) (*model.TeamMember, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM team_members WHERE id = $1 AND version_id = $2`,
		memberID, versionID,
	)
	m, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func scanMember(row pgx.Row) (*model.TeamMember, error) {
	var m model.TeamMember
	if err := row.Scan(
		&m.ID, &m.VersionID, &m.Role, &m.MemberName, &m.CostRatePerDay, &m.BillingRatePerDay,
		&m.MonthlyCostRate, &m.HourlyBillingRate, &m.UtilizationPct, &m.WorkingDaysPerMonth, &m.HoursPerDay,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgTeamRepository) Create(ctx context.Context, m *model.TeamMember, audit *model.AuditLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO team_members (version_id, role, member_name, cost_rate_per_day, billing_rate_per_day,
		   monthly_cost_rate, hourly_billing_rate, utilization_pct, working_days_per_month, hours_per_day)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		m.VersionID, m.Role, m.MemberName, m.CostRatePerDay, m.BillingRatePerDay,
		m.MonthlyCostRate, m.HourlyBillingRate, m.UtilizationPct, m.WorkingDaysPerMonth, m.HoursPerDay,
	).Scan(&m.ID); err != nil {
		return err
	}
	if audit != nil {
		audit.EntityID = &m.ID
	}
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PgTeamRepository) Update(ctx context.Context, m *model.TeamMember, audit *model.AuditLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE team_members SET role=$2, member_name=$3, cost_rate_per_day=$4, billing_rate_per_day=$5,
		   monthly_cost_rate=$6, hourly_billing_rate=$7, utilization_pct=$8, working_days_per_month=$9, hours_per_day=$10
		 WHERE id=$1`,
		m.ID, m.Role, m.MemberName, m.CostRatePerDay, m.BillingRatePerDay,
		m.MonthlyCostRate, m.HourlyBillingRate, m.UtilizationPct, m.WorkingDaysPerMonth, m.HoursPerDay,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PgTeamRepository) Delete(ctx context.Context, versionID, memberID int64, audit *model.AuditLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM team_members WHERE id = $1 AND version_id = $2`, memberID, versionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
