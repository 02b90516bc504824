// File: internal/usecase/activation_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"ecoponto-backend/internal/domain"
	"ecoponto-backend/internal/domain/model"
	"ecoponto-backend/internal/domain/ports/adapter"
	"ecoponto-backend/internal/domain/ports/repository"
	"ecoponto-backend/internal/infra/metrics"
)

type ActivationOutcome string

const (
	OutcomeActivated ActivationOutcome = "activated"
	OutcomeSkipped   ActivationOutcome = "skipped"
)

// ActivationResult reports what the engine did for one approved payment.
type ActivationResult struct {
	Outcome ActivationOutcome
	Reason  string                    // set when skipped
	Period  *model.SubscriptionPeriod // set when activated
}

// ActivationUseCase is the single mutation path for subscription periods.
// Both trigger paths (webhook push, status poll) converge here, so it must
// be idempotent and safe under concurrent invocation for the same payment.
type ActivationUseCase interface {
	Activate(ctx context.Context, paymentID, correlationToken, payerContact string) (*ActivationResult, error)
}

// Compile-time check
var _ ActivationUseCase = (*activationUC)(nil)

type activationUC struct {
	subs     repository.SubscriptionRepository
	users    repository.UserRepository
	resolver PlanPeriodResolver
	tm       repository.TransactionManager
	notifier adapter.OperatorNotifier
	log      *zerolog.Logger
}

func NewActivationUseCase(
	subs repository.SubscriptionRepository,
	users repository.UserRepository,
	resolver PlanPeriodResolver,
	tm repository.TransactionManager,
	notifier adapter.OperatorNotifier,
	logger *zerolog.Logger,
) *activationUC {
	return &activationUC{subs: subs, users: users, resolver: resolver, tm: tm, notifier: notifier, log: logger}
}

// Activate idempotently creates or extends the user's subscription period
// for an approved payment.
//
// Order matters: the idempotency probe on payment_reference runs before any
// mutation, and the deactivate+insert pair is one transaction, so a failure
// anywhere leaves no partial writes and a redelivery can safely re-drive the
// whole path. A unique-constraint loss on insert means a concurrent delivery
// won the race and is a skip, not a failure.
func (u *activationUC) Activate(ctx context.Context, paymentID, correlationToken, payerContact string) (*ActivationResult, error) {
	var res *ActivationResult

	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		existing, err := u.subs.FindByPaymentReference(ctx, tx, paymentID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if existing != nil {
			res = &ActivationResult{Outcome: OutcomeSkipped, Reason: "already_activated"}
			return nil
		}

		userID, planToken, err := u.resolveIdentity(ctx, tx, correlationToken, payerContact)
		if err != nil {
			return err
		}

		resolution := u.resolver.ResolvePeriod(ctx, tx, planToken)
		periodLen := time.Duration(resolution.Days) * 24 * time.Hour

		active, err := u.subs.FindActiveByUser(ctx, tx, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		now := time.Now()
		expiresAt := now.Add(periodLen)
		if active != nil {
			if !active.Lapsed(now) {
				// Extension: new expiry accrues on the old one.
				expiresAt = active.ExpiresAt.Add(periodLen)
			}
			// The old row is superseded either way; storage allows only one
			// active row per user.
			if err := u.subs.Deactivate(ctx, tx, active.ID); err != nil {
				return err
			}
		}

		period, err := model.NewSubscriptionPeriod(
			ulid.Make().String(), userID, resolution.PlanType, paymentID, now, expiresAt,
		)
		if err != nil {
			return err
		}
		if err := u.subs.Insert(ctx, tx, period); err != nil {
			if errors.Is(err, domain.ErrAlreadyActivated) {
				res = &ActivationResult{Outcome: OutcomeSkipped, Reason: "concurrent_delivery"}
				return nil
			}
			return err
		}

		res = &ActivationResult{Outcome: OutcomeActivated, Period: period}
		return nil
	})

	if err != nil {
		metrics.IncActivation("failed")
		if errors.Is(err, domain.ErrUserUnresolvable) || errors.Is(err, domain.ErrMalformedCorrelationToken) {
			u.alertUnresolved(ctx, paymentID, correlationToken, payerContact, err)
		}
		return nil, err
	}

	metrics.IncActivation(string(res.Outcome))
	return res, nil
}

// resolveIdentity recovers {user, plan} from the correlation token, falling
// back to a payer-contact lookup when the token cannot be decoded. The
// fallback loses the plan token, which the period resolver tolerates.
func (u *activationUC) resolveIdentity(ctx context.Context, tx repository.Tx, correlationToken, payerContact string) (userID, planToken string, err error) {
	corr, decErr := model.DecodeCorrelationToken(correlationToken)
	if decErr == nil {
		return corr.UserID, corr.PlanToken, nil
	}

	u.log.Warn().
		Str("correlation_token", correlationToken).
		Msg("correlation token undecodable, trying payer contact")

	if payerContact != "" {
		user, lookErr := u.users.FindByContact(ctx, tx, payerContact)
		if lookErr == nil && user != nil {
			return user.ID, "", nil
		}
		if lookErr != nil && !errors.Is(lookErr, domain.ErrNotFound) {
			return "", "", lookErr
		}
	}
	return "", "", domain.ErrUserUnresolvable
}

// alertUnresolved surfaces a captured-but-uncredited payment for manual
// follow-up. Best effort: a delivery failure is logged, never propagated.
func (u *activationUC) alertUnresolved(ctx context.Context, paymentID, correlationToken, payerContact string, cause error) {
	u.log.Error().
		Err(cause).
		Str("payment_id", paymentID).
		Str("correlation_token", correlationToken).
		Str("payer_contact", payerContact).
		Msg("captured payment could not be credited to any user")

	if u.notifier == nil {
		return
	}
	if err := u.notifier.NotifyUnresolvedPayment(ctx, paymentID, correlationToken, payerContact, cause.Error()); err != nil {
		u.log.Warn().Err(err).Str("payment_id", paymentID).Msg("operator alert delivery failed")
	}
}
