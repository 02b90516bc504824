package adapter

import "context"

// OperatorNotifier delivers alerts that need a human: money was captured but
// the event could not be credited to any user. Delivery failures are logged
// by callers, never propagated into the activation path.
type OperatorNotifier interface {
	NotifyUnresolvedPayment(ctx context.Context, paymentID, correlationToken, payerContact, reason string) error
}
