package repository

import (
	"context"

	"ecoponto-backend/internal/domain/model"
)

// SubscriptionRepository stores coverage periods. Implementations must carry
// a unique constraint on payment_reference (idempotency) and a partial unique
// constraint on (user_id) WHERE is_active (single-active invariant) and map
// violations to domain.ErrAlreadyActivated / domain.ErrActiveRowConflict.
type SubscriptionRepository interface {
	Insert(ctx context.Context, tx Tx, s *model.SubscriptionPeriod) error
	// FindByPaymentReference is the idempotency probe; (nil, ErrNotFound)
	// means the payment has not produced a period yet.
	FindByPaymentReference(ctx context.Context, tx Tx, paymentID string) (*model.SubscriptionPeriod, error)
	// FindActiveByUser locks the row when called inside a transaction.
	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.SubscriptionPeriod, error)
	Deactivate(ctx context.Context, tx Tx, id string) error
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.SubscriptionPeriod, error)
}
