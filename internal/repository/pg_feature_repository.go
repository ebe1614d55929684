package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pricecast/backend/internal/model"
)

// PgFeatureRepository is the PostgreSQL implementation of FeatureRepository.
type PgFeatureRepository struct {
	pool *pgxpool.Pool
}

func NewPgFeatureRepository(pool *pgxpool.Pool) *PgFeatureRepository {
	return &PgFeatureRepository{pool: pool}
}

const featureColumns = `id, version_id, name, description, priority, effort_hours,
	effort_story_points, suggested_effort, suggested_approved, tasks`

func (r *PgFeatureRepository) ListByVersion(ctx context.Context, versionID int64) ([]*model.Feature, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+featureColumns+` FROM features WHERE version_id = $1 ORDER BY priority, id`,
		versionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []*model.Feature
	byID := make(map[int64]*model.Feature)
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
		byID[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(features) == 0 {
		return features, nil
	}
	allocRows, err := r.pool.Query(ctx,
		`SELECT a.id, a.feature_id, a.role, a.allocation_pct, a.effort_hours, a.fte
		 FROM effort_allocations a
		 JOIN features f ON f.id = a.feature_id
		 WHERE f.version_id = $1 ORDER BY a.id`,
		versionID,
	)
	if err != nil {
		return nil, err
	}
	defer allocRows.Close()
	for allocRows.Next() {
		var a model.EffortAllocation
		if err := allocRows.Scan(&a.ID, &a.FeatureID, &a.Role, &a.AllocationPct, &a.EffortHours, &a.FTE); err != nil {
			return nil, err
		}
		if f, ok := byID[a.FeatureID]; ok {
			f.Allocations = append(f.Allocations, a)
		}
	}
	return features, allocRows.Err()
}

func (r *PgFeatureRepository) GetByID(ctx context.Context, versionID, featureID int64) (*model.Feature, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+featureColumns+` FROM features WHERE id = $1 AND version_id = $2`,
		featureID, versionID,
	)
	f, err := scanFeature(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	allocRows, err := r.pool.Query(ctx,
		`SELECT id, feature_id, role, allocation_pct, effort_hours, fte
		 FROM effort_allocations WHERE feature_id = $1 ORDER BY id`,
		featureID,
	)
	if err != nil {
		return nil, err
	}
	defer allocRows.Close()
	for allocRows.Next() {
		var a model.EffortAllocation
		if err := allocRows.Scan(&a.ID, &a.FeatureID, &a.Role, &a.AllocationPct, &a.EffortHours, &a.FTE); err != nil {
			return nil, err
		}
		f.Allocations = append(f.Allocations, a)
	}
	return f, allocRows.Err()
}

func scanFeature(row pgx.Row) (*model.Feature, error) {
	var f model.Feature
	var tasks []byte
	if err := row.Scan(
		&f.ID, &f.VersionID, &f.Name, &f.Description, &f.Priority, &f.EffortHours,
		&f.EffortStoryPoints, &f.SuggestedEffort, &f.SuggestedApproved, &tasks,
	); err != nil {
		return nil, err
	}
	if len(tasks) > 0 {
		if err := json.Unmarshal(tasks, &f.Tasks); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func marshalTasks(tasks []model.FeatureTask) ([]byte, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	return json.Marshal(tasks)
}

func (r *PgFeatureRepository) Create(ctx context.Context, f *model.Feature, audit *model.AuditLog) error {
	tasks, err := marshalTasks(f.Tasks)
	if err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO features (version_id, name, description, priority, effort_hours, effort_story_points,
		   suggested_effort, suggested_approved, tasks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		f.VersionID, f.Name, f.Description, f.Priority, f.EffortHours, f.EffortStoryPoints,
		f.SuggestedEffort, f.SuggestedApproved, tasks,
	).Scan(&f.ID); err != nil {
		return err
	}
	for i := range f.Allocations {
		a := &f.Allocations[i]
		a.FeatureID = f.ID
		if err := tx.QueryRow(ctx,
			`INSERT INTO effort_allocations (feature_id, role, allocation_pct, effort_hours, fte)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			f.ID, a.Role, a.AllocationPct, a.EffortHours, a.FTE,
		).Scan(&a.ID); err != nil {
			return err
		}
	}
	if audit != nil {
		audit.EntityID = &f.ID
	}
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PgFeatureRepository) UpdateFields(ctx context.Context, f *model.Feature, audit *model.AuditLog) error {
	tasks, err := marshalTasks(f.Tasks)
	if err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE features SET name=$2, description=$3, priority=$4, effort_story_points=$5,
		   suggested_effort=$6, suggested_approved=$7, tasks=$8
		 WHERE id=$1`,
		f.ID, f.Name, f.Description, f.Priority, f.EffortStoryPoints,
		f.SuggestedEffort, f.SuggestedApproved, tasks,
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

func (r *PgFeatureRepository) Delete(ctx context.Context, versionID, featureID int64, audit *model.AuditLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM features WHERE id = $1 AND version_id = $2`, featureID, versionID,
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

func (r *PgFeatureRepository) ReplaceAllocations(ctx context.Context, featureID int64, allocs []model.EffortAllocation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM effort_allocations WHERE feature_id = $1`, featureID); err != nil {
		return err
	}
	for i := range allocs {
		a := &allocs[i]
		if err := tx.QueryRow(ctx,
			`INSERT INTO effort_allocations (feature_id, role, allocation_pct, effort_hours, fte)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			featureID, a.Role, a.AllocationPct, a.EffortHours, a.FTE,
		).Scan(&a.ID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UpdateEffort applies a governed effort change. The version row lock
// linearizes competing edits; the lock flag is re-checked under it so a
// concurrent lock wins. History, justification (when flagged), audit and
// the new value commit atomically.
func (r *PgFeatureRepository) UpdateEffort(ctx context.Context, u EffortUpdate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var locked bool
	err = tx.QueryRow(ctx,
		`SELECT is_locked FROM project_versions WHERE id = $1 FOR UPDATE`, u.VersionID,
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
		`INSERT INTO estimation_history (version_id, feature_id, previous_effort, new_effort, changed_by, authority)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.VersionID, u.FeatureID, u.Previous, u.Proposed, u.UserID, u.Authority,
	); err != nil {
		return err
	}
	if u.Exceeds {
		if _, err := tx.Exec(ctx,
			`INSERT INTO justification_logs (version_id, feature_id, previous_effort, new_effort, justification, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			u.VersionID, u.FeatureID, u.Previous, u.Proposed, u.Justification, u.UserID,
		); err != nil {
			return err
		}
	}
	if err := appendAudit(ctx, tx, &model.AuditLog{
		ProjectID:  &u.ProjectID,
		VersionID:  &u.VersionID,
		UserID:     u.UserID,
		Action:     "update_effort",
		EntityType: "feature",
		EntityID:   &u.FeatureID,
		OldValue:   u.Previous.String(),
		NewValue:   u.Proposed.String(),
	}); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE features SET effort_hours = $2 WHERE id = $1 AND version_id = $3`,
		u.FeatureID, u.Proposed, u.VersionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
