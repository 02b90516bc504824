package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ecoponto-backend/internal/domain"
	"ecoponto-backend/internal/domain/model"
	"ecoponto-backend/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

// Constraint names from schema.sql; insert failures are disambiguated by
// which one fired.
const (
	constraintPaymentRef = "uq_subscription_periods_payment_ref"
	constraintActiveUser = "uq_subscription_periods_active_user"
)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, user_id, plan_type, is_active, activated_at, expires_at, payment_reference`

// Insert creates a new period row. A payment_reference collision means a
// concurrent activation for the same payment already won
// (domain.ErrAlreadyActivated); an active-user collision means a different
// payment raced this one and the caller should retry
// (domain.ErrActiveRowConflict).
func (r *subscriptionRepo) Insert(ctx context.Context, tx repository.Tx, s *model.SubscriptionPeriod) error {
	const q = `
INSERT INTO subscription_periods (id, user_id, plan_type, is_active, activated_at, expires_at, payment_reference)
VALUES ($1,$2,$3,$4,$5,$6,$7);`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.UserID, s.PlanType, s.IsActive, s.ActivatedAt, s.ExpiresAt, s.PaymentReference)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case constraintPaymentRef:
				return domain.ErrAlreadyActivated
			case constraintActiveUser:
				return domain.ErrActiveRowConflict
			}
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindByPaymentReference(ctx context.Context, tx repository.Tx, paymentID string) (*model.SubscriptionPeriod, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscription_periods
 WHERE payment_reference=$1
 LIMIT 1;`
	return r.queryOne(ctx, tx, q, paymentID)
}

func (r *subscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.SubscriptionPeriod, error) {
	q := `
SELECT ` + subscriptionColumns + `
  FROM subscription_periods
 WHERE user_id=$1 AND is_active
 ORDER BY activated_at DESC
 LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	return r.queryOne(ctx, tx, q, userID)
}

func (r *subscriptionRepo) Deactivate(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE subscription_periods SET is_active=false WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subscriptionRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.SubscriptionPeriod, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscription_periods
 WHERE user_id=$1
 ORDER BY activated_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.SubscriptionPeriod
	for rows.Next() {
		s, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *subscriptionRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.SubscriptionPeriod, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	s := &model.SubscriptionPeriod{}
	if err := row.Scan(&s.ID, &s.UserID, &s.PlanType, &s.IsActive, &s.ActivatedAt, &s.ExpiresAt, &s.PaymentReference); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func scanPeriod(rows pgx.Rows) (*model.SubscriptionPeriod, error) {
	s := &model.SubscriptionPeriod{}
	if err := rows.Scan(&s.ID, &s.UserID, &s.PlanType, &s.IsActive, &s.ActivatedAt, &s.ExpiresAt, &s.PaymentReference); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}
