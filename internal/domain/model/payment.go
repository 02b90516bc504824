package model

import (
	"time"

	"ecoponto-backend/internal/domain"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"    // created on provider side; awaiting outcome
	PaymentStatusApproved  PaymentStatus = "approved"   // provider captured the money
	PaymentStatusRejected  PaymentStatus = "rejected"   // provider declined
	PaymentStatusInProcess PaymentStatus = "in_process" // under provider review
	PaymentStatusCancelled PaymentStatus = "cancelled"  // expired or cancelled before capture
	PaymentStatusRefunded  PaymentStatus = "refunded"   // money returned after capture
	PaymentStatusOther     PaymentStatus = "other"      // any provider status we do not model
)

// ParsePaymentStatus normalizes a raw provider status string into our enum.
// Unknown values collapse to PaymentStatusOther instead of failing: the raw
// value is still kept in StatusDetail for operators.
func ParsePaymentStatus(raw string) PaymentStatus {
	switch PaymentStatus(raw) {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusRejected,
		PaymentStatusInProcess, PaymentStatusCancelled, PaymentStatusRefunded:
		return PaymentStatus(raw)
	default:
		return PaymentStatusOther
	}
}

// Terminal reports whether no further provider-side transition is expected.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusApproved, PaymentStatusRejected, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// PaymentRecord is the durable ledger row for one payment attempt. The
// provider-assigned ID is the primary key; a given ID is inserted at most
// once and later deliveries only update status fields.
type PaymentRecord struct {
	ID               string // provider-assigned opaque payment id
	CorrelationToken string // user_{uid}_plan_{ptok}; immutable once set
	Status           PaymentStatus
	StatusDetail     string // free-form provider reason code, advisory only
	Amount           string // positive decimal, currency-agnostic (BRL in practice)
	PayerContact     string // fallback identity when the token cannot be decoded
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewPaymentRecord validates and constructs a pending payment record.
func NewPaymentRecord(id, correlationToken, amount, payerContact string) (*PaymentRecord, error) {
	if id == "" || correlationToken == "" || amount == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &PaymentRecord{
		ID:               id,
		CorrelationToken: correlationToken,
		Status:           PaymentStatusPending,
		Amount:           amount,
		PayerContact:     payerContact,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}
