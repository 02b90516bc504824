package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ecoponto-backend/internal/domain/ports/repository"
	"ecoponto-backend/internal/usecase"
)

// PaymentReconciler periodically scans for stale pending payments and drives
// them through the same reconciliation path the client poller uses. This
// covers webhooks that were lost entirely and clients that stopped polling.
type PaymentReconciler struct {
	uc         usecase.PaymentUseCase
	payments   repository.PaymentRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to retry
	log        *zerolog.Logger
}

func NewPaymentReconciler(uc usecase.PaymentUseCase, payments repository.PaymentRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &PaymentReconciler{uc: uc, payments: payments, interval: interval, staleAfter: staleAfter, log: logger}
}

func (w *PaymentReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.payments.ListPendingOlderThan(ctx, repository.NoTX, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("reconciler: list pending failed")
		return
	}
	for _, p := range pending {
		rec, err := w.uc.Reconcile(ctx, p.ID)
		if err != nil {
			w.log.Warn().Err(err).Str("payment_id", p.ID).Msg("reconciler: reconcile failed")
			continue
		}
		if rec.Status != p.Status {
			w.log.Info().
				Str("payment_id", p.ID).
				Str("from", string(p.Status)).
				Str("to", string(rec.Status)).
				Msg("reconciler: payment status refreshed")
		}
	}
}
