package adapter

import "context"

// ProviderPayment is the authoritative provider-side view of a payment.
type ProviderPayment struct {
	ID               string
	Status           string // raw provider status, normalized by the caller
	StatusDetail     string
	Amount           string
	CorrelationToken string // external reference we supplied at creation
	PayerContact     string
}

// CreatePaymentRequest is what the payment-creation boundary sends out.
// IdempotencyKey must be fresh per attempt so that two deliberate attempts
// never collapse into one provider payment.
type CreatePaymentRequest struct {
	Amount           string
	Description      string
	CorrelationToken string
	PayerContact     string
	IdempotencyKey   string
}

// PaymentGateway is the provider boundary. Both calls must honor ctx
// deadlines; a timeout is a transient failure, never a negative payment
// determination.
type PaymentGateway interface {
	Name() string
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*ProviderPayment, error)
	GetPayment(ctx context.Context, paymentID string) (*ProviderPayment, error)
}
