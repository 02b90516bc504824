// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ecoponto-backend/internal/domain"
	"ecoponto-backend/internal/domain/model"
	"ecoponto-backend/internal/domain/ports/adapter"
	"ecoponto-backend/internal/domain/ports/repository"
	"ecoponto-backend/internal/infra/metrics"
)

// CreatePaymentInput is the payment-creation boundary. UserID is whom the
// subscription will credit; it must equal the authenticated principal.
type CreatePaymentInput struct {
	PrincipalUserID string
	UserID          string
	PlanToken       string
	Amount          string
	Description     string
	PayerContact    string
}

type PaymentUseCase interface {
	// CreatePayment opens a payment with the provider and records it locally.
	CreatePayment(ctx context.Context, in CreatePaymentInput) (*model.PaymentRecord, error)
	// ProcessNotification handles one verified webhook delivery for a payment.
	ProcessNotification(ctx context.Context, paymentID string) error
	// Reconcile is the pull-based fallback for delayed or lost webhooks.
	Reconcile(ctx context.Context, paymentID string) (*model.PaymentRecord, error)
}

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type paymentUC struct {
	payments   repository.PaymentRepository
	gateway    adapter.PaymentGateway
	activation ActivationUseCase
	maxAmount  float64
	log        *zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	gateway adapter.PaymentGateway,
	activation ActivationUseCase,
	maxAmount float64,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{payments: payments, gateway: gateway, activation: activation, maxAmount: maxAmount, log: logger}
}

func (u *paymentUC) CreatePayment(ctx context.Context, in CreatePaymentInput) (*model.PaymentRecord, error) {
	if in.UserID == "" {
		in.UserID = in.PrincipalUserID
	}
	if in.UserID != in.PrincipalUserID {
		return nil, domain.ErrPrincipalMismatch
	}

	amount, err := strconv.ParseFloat(in.Amount, 64)
	if err != nil || amount <= 0 || amount > u.maxAmount {
		return nil, domain.ErrAmountOutOfRange
	}

	token, err := model.EncodeCorrelationToken(in.UserID, in.PlanToken)
	if err != nil {
		return nil, err
	}

	// Fresh key per attempt: retries of this call collapse provider-side,
	// while a second deliberate attempt gets its own payment.
	created, err := u.gateway.CreatePayment(ctx, adapter.CreatePaymentRequest{
		Amount:           in.Amount,
		Description:      in.Description,
		CorrelationToken: token,
		PayerContact:     in.PayerContact,
		IdempotencyKey:   uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	rec, err := model.NewPaymentRecord(created.ID, token, created.Amount, in.PayerContact)
	if err != nil {
		return nil, err
	}
	rec.Status = model.ParsePaymentStatus(created.Status)
	rec.StatusDetail = created.StatusDetail

	if err := u.payments.Insert(ctx, repository.NoTX, rec); err != nil {
		// The provider payment exists either way; the reconciler will find it.
		u.log.Error().Err(err).Str("payment_id", rec.ID).Msg("payment record insert failed after provider creation")
		return nil, err
	}
	metrics.IncPayment(string(rec.Status))
	return rec, nil
}

// ProcessNotification queries the provider for the authoritative payment
// state, reconciles the local ledger row and, on approval, drives the
// activation engine.
//
// Unresolvable-identity failures are terminal for the event: they are
// alerted inside the engine and acknowledged here so the provider does not
// redeliver forever. Everything else propagates as retryable.
func (u *paymentUC) ProcessNotification(ctx context.Context, paymentID string) error {
	provider, err := u.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}

	rec, err := u.upsertFromProvider(ctx, provider)
	if err != nil {
		return err
	}

	if rec.Status != model.PaymentStatusApproved {
		return nil
	}
	_, err = u.activation.Activate(ctx, rec.ID, rec.CorrelationToken, rec.PayerContact)
	if errors.Is(err, domain.ErrUserUnresolvable) || errors.Is(err, domain.ErrMalformedCorrelationToken) {
		return nil
	}
	return err
}

// Reconcile answers the client poller with the authoritative status.
//
// An already-approved local record short-circuits: activation is re-driven
// (covering a prior failed activation) without a provider round-trip. A
// pending record triggers a direct provider query; if the provider is
// unreachable the last locally known status is returned rather than failing
// the call, since a timeout must never read as "not approved".
func (u *paymentUC) Reconcile(ctx context.Context, paymentID string) (*model.PaymentRecord, error) {
	rec, err := u.payments.FindByID(ctx, repository.NoTX, paymentID)
	if err != nil {
		return nil, err
	}

	if rec.Status == model.PaymentStatusApproved {
		if _, actErr := u.activation.Activate(ctx, rec.ID, rec.CorrelationToken, rec.PayerContact); actErr != nil {
			u.log.Warn().Err(actErr).Str("payment_id", rec.ID).Msg("re-driven activation failed")
		}
		metrics.IncReconciliation("short_circuit")
		return rec, nil
	}

	if rec.Status != model.PaymentStatusPending && rec.Status != model.PaymentStatusInProcess {
		metrics.IncReconciliation("terminal")
		return rec, nil
	}

	provider, err := u.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		u.log.Warn().Err(err).Str("payment_id", paymentID).Msg("provider status query failed, returning last known status")
		metrics.IncReconciliation("provider_unreachable")
		return rec, nil
	}

	status := model.ParsePaymentStatus(provider.Status)
	if status != rec.Status || provider.StatusDetail != rec.StatusDetail {
		if err := u.payments.UpdateStatus(ctx, repository.NoTX, rec.ID, status, provider.StatusDetail); err != nil {
			return nil, err
		}
		metrics.IncPayment(string(status))
	}
	rec.Status = status
	rec.StatusDetail = provider.StatusDetail

	if status == model.PaymentStatusApproved {
		if _, err := u.activation.Activate(ctx, rec.ID, rec.CorrelationToken, rec.PayerContact); err != nil &&
			!errors.Is(err, domain.ErrUserUnresolvable) && !errors.Is(err, domain.ErrMalformedCorrelationToken) {
			return rec, err
		}
	}
	metrics.IncReconciliation("refreshed")
	return rec, nil
}

// upsertFromProvider creates the ledger row on first sight of a payment and
// updates status on redeliveries; payment ids are never inserted twice.
func (u *paymentUC) upsertFromProvider(ctx context.Context, provider *adapter.ProviderPayment) (*model.PaymentRecord, error) {
	status := model.ParsePaymentStatus(provider.Status)

	rec, err := u.payments.FindByID(ctx, repository.NoTX, provider.ID)
	if errors.Is(err, domain.ErrNotFound) {
		rec, err = model.NewPaymentRecord(provider.ID, provider.CorrelationToken, provider.Amount, provider.PayerContact)
		if err != nil {
			return nil, err
		}
		rec.Status = status
		rec.StatusDetail = provider.StatusDetail
		insErr := u.payments.Insert(ctx, repository.NoTX, rec)
		if insErr == nil {
			metrics.IncPayment(string(status))
			return rec, nil
		}
		if !errors.Is(insErr, domain.ErrAlreadyExists) {
			return nil, insErr
		}
		// Concurrent delivery inserted first; fall through to the update path.
		rec, err = u.payments.FindByID(ctx, repository.NoTX, provider.ID)
	}
	if err != nil {
		return nil, err
	}

	if rec.Status != status || rec.StatusDetail != provider.StatusDetail {
		if err := u.payments.UpdateStatus(ctx, repository.NoTX, rec.ID, status, provider.StatusDetail); err != nil {
			return nil, err
		}
		metrics.IncPayment(string(status))
		rec.Status = status
		rec.StatusDetail = provider.StatusDetail
	}
	return rec, nil
}
