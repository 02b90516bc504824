//go:build !integration

package sched

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ecoponto-backend/internal/domain/model"
	"ecoponto-backend/internal/domain/ports/repository"
	"ecoponto-backend/internal/usecase"
)

type stubPaymentRepo struct {
	pending []*model.PaymentRecord
	listErr error
}

func (s *stubPaymentRepo) Insert(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error {
	return nil
}

func (s *stubPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentRecord, error) {
	return nil, errors.New("not used")
}

func (s *stubPaymentRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, statusDetail string) error {
	return nil
}

func (s *stubPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.PaymentRecord, error) {
	return s.pending, s.listErr
}

type stubReconcileUC struct {
	reconciled []string
	fail       map[string]error
}

func (s *stubReconcileUC) CreatePayment(ctx context.Context, in usecase.CreatePaymentInput) (*model.PaymentRecord, error) {
	return nil, errors.New("not used")
}

func (s *stubReconcileUC) ProcessNotification(ctx context.Context, paymentID string) error {
	return errors.New("not used")
}

func (s *stubReconcileUC) Reconcile(ctx context.Context, paymentID string) (*model.PaymentRecord, error) {
	s.reconciled = append(s.reconciled, paymentID)
	if err := s.fail[paymentID]; err != nil {
		return nil, err
	}
	return &model.PaymentRecord{ID: paymentID, Status: model.PaymentStatusApproved}, nil
}

func TestReconcilerTick(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("drives every stale payment", func(t *testing.T) {
		repo := &stubPaymentRepo{pending: []*model.PaymentRecord{
			{ID: "pay-1", Status: model.PaymentStatusPending},
			{ID: "pay-2", Status: model.PaymentStatusInProcess},
		}}
		uc := &stubReconcileUC{}
		w := NewPaymentReconciler(uc, repo, time.Minute, 10*time.Minute, &logger)

		w.tick(context.Background())

		if len(uc.reconciled) != 2 {
			t.Fatalf("reconciled %v, want both payments", uc.reconciled)
		}
	})

	t.Run("one failure does not stop the batch", func(t *testing.T) {
		repo := &stubPaymentRepo{pending: []*model.PaymentRecord{
			{ID: "pay-1", Status: model.PaymentStatusPending},
			{ID: "pay-2", Status: model.PaymentStatusPending},
		}}
		uc := &stubReconcileUC{fail: map[string]error{"pay-1": errors.New("boom")}}
		w := NewPaymentReconciler(uc, repo, time.Minute, 10*time.Minute, &logger)

		w.tick(context.Background())

		if len(uc.reconciled) != 2 {
			t.Fatalf("reconciled %v, want both attempted", uc.reconciled)
		}
	})

	t.Run("list failure is tolerated", func(t *testing.T) {
		repo := &stubPaymentRepo{listErr: errors.New("db down")}
		uc := &stubReconcileUC{}
		w := NewPaymentReconciler(uc, repo, time.Minute, 10*time.Minute, &logger)

		w.tick(context.Background())

		if len(uc.reconciled) != 0 {
			t.Fatalf("reconciled %v, want none", uc.reconciled)
		}
	})

	t.Run("defaults applied for non-positive durations", func(t *testing.T) {
		w := NewPaymentReconciler(&stubReconcileUC{}, &stubPaymentRepo{}, 0, 0, &logger)
		if w.interval != time.Minute || w.staleAfter != 10*time.Minute {
			t.Fatalf("interval=%v staleAfter=%v", w.interval, w.staleAfter)
		}
	})
}
