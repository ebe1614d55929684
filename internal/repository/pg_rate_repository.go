package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pricecast/backend/internal/engine"
	"github.com/pricecast/backend/internal/model"
)

// PgRateRepository is the PostgreSQL implementation of RateRepository.
type PgRateRepository struct {
	pool *pgxpool.Pool
}

func NewPgRateRepository(pool *pgxpool.Pool) *PgRateRepository {
	return &PgRateRepository{pool: pool}
}

func (r *PgRateRepository) List(ctx context.Context) ([]*model.RoleRate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, role, cost_rate_per_day, billing_rate_per_day
		 FROM role_rates ORDER BY role`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []*model.RoleRate
	for rows.Next() {
		var rate model.RoleRate
		if err := rows.Scan(&rate.ID, &rate.Role, &rate.CostRatePerDay, &rate.BillingRatePerDay); err != nil {
			return nil, err
		}
		rates = append(rates, &rate)
	}
	return rates, rows.Err()
}

func (r *PgRateRepository) Table(ctx context.Context) (engine.RateTable, error) {
	rates, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	table := make(engine.RateTable, len(rates))
	for _, rate := range rates {
		table[strings.TrimSpace(rate.Role)] = engine.RatePair{
			Cost:    rate.CostRatePerDay,
			Billing: rate.BillingRatePerDay,
		}
	}
	return table, nil
}

func (r *PgRateRepository) Upsert(ctx context.Context, rate *model.RoleRate) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO role_rates (role, cost_rate_per_day, billing_rate_per_day)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (role) DO UPDATE
		 SET cost_rate_per_day = EXCLUDED.cost_rate_per_day,
		     billing_rate_per_day = EXCLUDED.billing_rate_per_day
		 RETURNING id`,
		rate.Role, rate.CostRatePerDay, rate.BillingRatePerDay,
	).Scan(&rate.ID)
}

func (r *PgRateRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM role_rates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
