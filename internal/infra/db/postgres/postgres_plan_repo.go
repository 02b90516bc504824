package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ecoponto-backend/internal/domain"
	"ecoponto-backend/internal/domain/model"
	"ecoponto-backend/internal/domain/ports/repository"
)

var _ repository.PlanRepository = (*planRepo)(nil)

type planRepo struct{ pool *pgxpool.Pool }

func NewPlanRepo(pool *pgxpool.Pool) *planRepo {
	return &planRepo{pool: pool}
}

const planColumns = `plan_id, plan_type, period, is_active, created_at`

// FindActiveByType prefers the newest row; duplicate plan rows exist in the
// wild and must not fail resolution.
func (r *planRepo) FindActiveByType(ctx context.Context, tx repository.Tx, planType string) (*model.PlanDescriptor, error) {
	const q = `
SELECT ` + planColumns + `
  FROM plan_descriptors
 WHERE plan_type=$1 AND is_active
 ORDER BY created_at DESC
 LIMIT 1;`
	return r.queryOne(ctx, tx, q, planType)
}

func (r *planRepo) FindByID(ctx context.Context, tx repository.Tx, planID string) (*model.PlanDescriptor, error) {
	const q = `
SELECT ` + planColumns + `
  FROM plan_descriptors
 WHERE plan_id=$1
 ORDER BY created_at DESC
 LIMIT 1;`
	return r.queryOne(ctx, tx, q, planID)
}

func (r *planRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.PlanDescriptor, error) {
	const q = `SELECT ` + planColumns + ` FROM plan_descriptors WHERE is_active ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.PlanDescriptor
	for rows.Next() {
		p := &model.PlanDescriptor{}
		if err := rows.Scan(&p.PlanID, &p.PlanType, &p.Period, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *planRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.PlanDescriptor, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	p := &model.PlanDescriptor{}
	if err := row.Scan(&p.PlanID, &p.PlanType, &p.Period, &p.IsActive, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}
