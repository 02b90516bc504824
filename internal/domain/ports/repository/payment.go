package repository

import (
	"context"
	"time"

	"ecoponto-backend/internal/domain/model"
)

// PaymentRepository is the durable ledger of payment attempts. Insert happens
// once per provider payment id; later webhook or poll deliveries only update.
type PaymentRepository interface {
	// Insert fails with domain.ErrAlreadyExists when the payment id is known.
	Insert(ctx context.Context, tx Tx, p *model.PaymentRecord) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PaymentRecord, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.PaymentStatus, statusDetail string) error
	// ListPendingOlderThan feeds the background reconciler.
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.PaymentRecord, error)
}
