package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid database execution context")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Activation taxonomy
	ErrMalformedCorrelationToken = errors.New("malformed correlation token")
	ErrUserUnresolvable          = errors.New("payment cannot be mapped to a user")
	ErrAlreadyActivated          = errors.New("payment already activated a subscription")
	ErrActiveRowConflict         = errors.New("concurrent active subscription for user")

	// Webhook authenticity
	ErrSignatureInvalid      = errors.New("webhook signature mismatch")
	ErrSignatureStale        = errors.New("webhook signature timestamp outside freshness window")
	ErrSignatureMissing      = errors.New("webhook signature headers missing")
	ErrSignatureUnconfigured = errors.New("webhook secret not configured")

	// Payment creation boundary
	ErrPrincipalMismatch = errors.New("correlation token user does not match caller")
	ErrAmountOutOfRange  = errors.New("payment amount out of range")
)
