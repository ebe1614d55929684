package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pricecast/backend/internal/model"
)

// PgSprintPlanRepository is the PostgreSQL implementation of SprintPlanRepository.
type PgSprintPlanRepository struct {
	pool *pgxpool.Pool
}

func NewPgSprintPlanRepository(pool *pgxpool.Pool) *PgSprintPlanRepository {
	return &PgSprintPlanRepository{pool: pool}
}

func (r *PgSprintPlanRepository) Rows(ctx context.Context, versionID int64) ([]*model.SprintPlanRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, version_id, row_type, sprint_num, week_num, phase, allocations, sort_order
		 FROM sprint_plan_rows WHERE version_id = $1 ORDER BY sort_order, id`,
		versionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SprintPlanRow
	for rows.Next() {
		var row model.SprintPlanRow
		var allocations []byte
		if err := rows.Scan(
			&row.ID, &row.VersionID, &row.RowType, &row.SprintNum, &row.WeekNum,
			&row.Phase, &allocations, &row.SortOrder,
		); err != nil {
			return nil, err
		}
		if len(allocations) > 0 {
			if err := json.Unmarshal(allocations, &row.Allocations); err != nil {
				return nil, err
			}
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

func (r *PgSprintPlanRepository) ReplaceRows(ctx context.Context, versionID int64, rows []*model.SprintPlanRow, audit *model.AuditLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sprint_plan_rows WHERE version_id = $1`, versionID); err != nil {
		return err
	}
	for i, row := range rows {
		row.VersionID = versionID
		row.SortOrder = i
		allocations, err := json.Marshal(row.Allocations)
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO sprint_plan_rows (version_id, row_type, sprint_num, week_num, phase, allocations, sort_order)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			versionID, row.RowType, row.SprintNum, row.WeekNum, row.Phase, allocations, i,
		).Scan(&row.ID); err != nil {
			return err
		}
	}
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PgSprintPlanRepository) Config(ctx context.Context, versionID int64) (*model.SprintConfig, error) {
	var sc model.SprintConfig
	err := r.pool.QueryRow(ctx,
		`SELECT version_id, duration_weeks, working_days_per_month, hours_per_day
		 FROM sprint_configs WHERE version_id = $1`,
		versionID,
	).Scan(&sc.VersionID, &sc.DurationWeeks, &sc.WorkingDaysPerMonth, &sc.HoursPerDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *PgSprintPlanRepository) UpsertConfig(ctx context.Context, sc *model.SprintConfig, audit *model.AuditLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO sprint_configs (version_id, duration_weeks, working_days_per_month, hours_per_day)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (version_id) DO UPDATE
		 SET duration_weeks = EXCLUDED.duration_weeks,
		     working_days_per_month = EXCLUDED.working_days_per_month,
		     hours_per_day = EXCLUDED.hours_per_day`,
		sc.VersionID, sc.DurationWeeks, sc.WorkingDaysPerMonth, sc.HoursPerDay,
	); err != nil {
		return err
	}
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
