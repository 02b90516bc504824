//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"ecoponto-backend/internal/domain"
	"ecoponto-backend/internal/domain/model"
	"ecoponto-backend/internal/domain/ports/adapter"
	"ecoponto-backend/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Mock TransactionManager ----

// MockTxManager runs the callback without a real transaction; the in-memory
// repos below enforce the same constraints the schema does.
type MockTxManager struct{}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// ---- Mock SubscriptionRepository ----

type MockSubscriptionRepo struct {
	mu   sync.Mutex
	byID map[string]*model.SubscriptionPeriod

	InsertFunc                 func(ctx context.Context, tx repository.Tx, s *model.SubscriptionPeriod) error
	FindByPaymentReferenceFunc func(ctx context.Context, tx repository.Tx, paymentID string) (*model.SubscriptionPeriod, error)
	FindActiveByUserFunc       func(ctx context.Context, tx repository.Tx, userID string) (*model.SubscriptionPeriod, error)
	DeactivateFunc             func(ctx context.Context, tx repository.Tx, id string) error
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{byID: map[string]*model.SubscriptionPeriod{}}
}

func (m *MockSubscriptionRepo) Insert(ctx context.Context, tx repository.Tx, s *model.SubscriptionPeriod) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.byID {
		if row.PaymentReference == s.PaymentReference {
			return domain.ErrAlreadyActivated
		}
		if s.IsActive && row.IsActive && row.UserID == s.UserID {
			return domain.ErrActiveRowConflict
		}
	}
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) FindByPaymentReference(ctx context.Context, tx repository.Tx, paymentID string) (*model.SubscriptionPeriod, error) {
	if m.FindByPaymentReferenceFunc != nil {
		return m.FindByPaymentReferenceFunc(ctx, tx, paymentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.byID {
		if row.PaymentReference == paymentID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.SubscriptionPeriod, error) {
	if m.FindActiveByUserFunc != nil {
		return m.FindActiveByUserFunc(ctx, tx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.byID {
		if row.UserID == userID && row.IsActive {
			cp := *row
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) Deactivate(ctx context.Context, tx repository.Tx, id string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.IsActive = false
	return nil
}

func (m *MockSubscriptionRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.SubscriptionPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.SubscriptionPeriod
	for _, row := range m.byID {
		if row.UserID == userID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

// All returns a snapshot of every stored row, for assertions.
func (m *MockSubscriptionRepo) All() []*model.SubscriptionPeriod {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.SubscriptionPeriod
	for _, row := range m.byID {
		cp := *row
		out = append(out, &cp)
	}
	return out
}

// ---- Mock PlanRepository ----

type MockPlanRepo struct {
	mu    sync.Mutex
	plans []*model.PlanDescriptor
}

func NewMockPlanRepo() *MockPlanRepo { return &MockPlanRepo{} }

func (m *MockPlanRepo) Add(p *model.PlanDescriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = append(m.plans, p)
}

func (m *MockPlanRepo) FindActiveByType(ctx context.Context, tx repository.Tx, planType string) (*model.PlanDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plans {
		if p.PlanType == planType && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, planID string) (*model.PlanDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plans {
		if p.PlanID == planID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPlanRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.PlanDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PlanDescriptor
	for _, p := range m.plans {
		if p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu    sync.Mutex
	users []*model.User
}

func NewMockUserRepo() *MockUserRepo { return &MockUserRepo{} }

func (m *MockUserRepo) Add(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, u)
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) FindByContact(ctx context.Context, tx repository.Tx, contact string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Contact == contact {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ---- Mock PaymentRepository ----

type MockPaymentRepo struct {
	mu   sync.Mutex
	byID map[string]*model.PaymentRecord

	InsertFunc       func(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error
	FindByIDFunc     func(ctx context.Context, tx repository.Tx, id string) (*model.PaymentRecord, error)
	UpdateStatusFunc func(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, statusDetail string) error
}

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{byID: map[string]*model.PaymentRecord{}}
}

func (m *MockPaymentRepo) Insert(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[p.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PaymentRecord, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, statusDetail string) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, statusDetail)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.StatusDetail = statusDetail
	p.UpdatedAt = time.Now()
	return nil
}

func (m *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PaymentRecord
	for _, p := range m.byID {
		if (p.Status == model.PaymentStatusPending || p.Status == model.PaymentStatusInProcess) && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- Mock PaymentGateway ----

type MockGateway struct {
	mu          sync.Mutex
	CreateCalls []adapter.CreatePaymentRequest

	CreatePaymentFunc func(ctx context.Context, req adapter.CreatePaymentRequest) (*adapter.ProviderPayment, error)
	GetPaymentFunc    func(ctx context.Context, paymentID string) (*adapter.ProviderPayment, error)
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) CreatePayment(ctx context.Context, req adapter.CreatePaymentRequest) (*adapter.ProviderPayment, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, req)
	m.mu.Unlock()
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, req)
	}
	return &adapter.ProviderPayment{
		ID:               "pay_mock",
		Status:           "pending",
		Amount:           req.Amount,
		CorrelationToken: req.CorrelationToken,
		PayerContact:     req.PayerContact,
	}, nil
}

func (m *MockGateway) GetPayment(ctx context.Context, paymentID string) (*adapter.ProviderPayment, error) {
	if m.GetPaymentFunc != nil {
		return m.GetPaymentFunc(ctx, paymentID)
	}
	return nil, domain.ErrNotFound
}

// ---- Mock OperatorNotifier ----

type notifierCall struct {
	PaymentID, Token, Contact, Reason string
}

type MockNotifier struct {
	mu    sync.Mutex
	Calls []notifierCall
}

func (m *MockNotifier) NotifyUnresolvedPayment(ctx context.Context, paymentID, correlationToken, payerContact, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, notifierCall{paymentID, correlationToken, payerContact, reason})
	return nil
}

func (m *MockNotifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
