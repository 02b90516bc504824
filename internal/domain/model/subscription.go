package model

import (
	"time"

	"ecoponto-backend/internal/domain"
)

// SubscriptionPeriod is one coverage window for a depot user. Extension never
// mutates a row in place: the old row is deactivated and a new row inserted,
// so PaymentReference stays a one-to-one idempotency key.
//
// Storage enforces two constraints this model relies on:
//   - unique (payment_reference)
//   - unique (user_id) WHERE is_active
type SubscriptionPeriod struct {
	ID               string // ULID
	UserID           string
	PlanType         string // resolved plan category
	IsActive         bool
	ActivatedAt      time.Time
	ExpiresAt        time.Time // always > ActivatedAt
	PaymentReference string    // payment id that caused this activation/extension
}

// NewSubscriptionPeriod validates and constructs an active period row.
func NewSubscriptionPeriod(id, userID, planType, paymentRef string, activatedAt, expiresAt time.Time) (*SubscriptionPeriod, error) {
	if id == "" || userID == "" || paymentRef == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !expiresAt.After(activatedAt) {
		return nil, domain.ErrInvalidArgument
	}
	return &SubscriptionPeriod{
		ID:               id,
		UserID:           userID,
		PlanType:         planType,
		IsActive:         true,
		ActivatedAt:      activatedAt,
		ExpiresAt:        expiresAt,
		PaymentReference: paymentRef,
	}, nil
}

// Lapsed reports whether the period's coverage has ended at the given instant.
func (s *SubscriptionPeriod) Lapsed(at time.Time) bool {
	return !s.ExpiresAt.After(at)
}
