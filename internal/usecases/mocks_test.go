package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"openpayflow/internal/domain/entities"
	domainrepos "openpayflow/internal/domain/repositories"
	"openpayflow/internal/infrastructure/gateway"
)

type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx, fn)
	return fn(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	m.Called(ctx)
	return ctx
}

type MockMerchantRepository struct{ mock.Mock }

func (m *MockMerchantRepository) Create(ctx context.Context, mm *entities.Merchant) error {
	return m.Called(ctx, mm).Error(0)
}
func (m *MockMerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Merchant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Merchant), args.Error(1)
}
func (m *MockMerchantRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*entities.Merchant, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Merchant), args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Create(ctx context.Context, p *entities.Payment) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}
func (m *MockPaymentRepository) GetByMerchantAndIdempotencyKey(ctx context.Context, merchantID uuid.UUID, key string) (*entities.Payment, error) {
	args := m.Called(ctx, merchantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}
func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockPaymentRepository) SetProviderPaymentID(ctx context.Context, id uuid.UUID, providerPaymentID string) error {
	return m.Called(ctx, id, providerPaymentID).Error(0)
}
func (m *MockPaymentRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID, filter domainrepos.PaymentFilter) ([]*entities.Payment, int, error) {
	args := m.Called(ctx, merchantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Payment), args.Int(1), args.Error(2)
}
func (m *MockPaymentRepository) CreateAttempt(ctx context.Context, a *entities.PaymentAttempt) error {
	return m.Called(ctx, a).Error(0)
}
func (m *MockPaymentRepository) UpdateAttempt(ctx context.Context, a *entities.PaymentAttempt) error {
	return m.Called(ctx, a).Error(0)
}
func (m *MockPaymentRepository) ListAttempts(ctx context.Context, paymentID uuid.UUID, limit int) ([]*entities.PaymentAttempt, error) {
	args := m.Called(ctx, paymentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PaymentAttempt), args.Error(1)
}

type MockRefundRepository struct{ mock.Mock }

func (m *MockRefundRepository) Create(ctx context.Context, r *entities.Refund) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockRefundRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Refund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Refund), args.Error(1)
}
func (m *MockRefundRepository) Update(ctx context.Context, r *entities.Refund) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockRefundRepository) SumSucceededByPayment(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRefundRepository) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]*entities.Refund, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Refund), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Create(ctx context.Context, o *entities.Outbox) error {
	return m.Called(ctx, o).Error(0)
}
func (m *MockOutboxRepository) ClaimUnprocessed(ctx context.Context, limit int) ([]*entities.Outbox, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Outbox), args.Error(1)
}
func (m *MockOutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockOutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time, batch int) (int, error) {
	args := m.Called(ctx, before, batch)
	return args.Int(0), args.Error(1)
}

type MockWebhookEndpointRepository struct{ mock.Mock }

func (m *MockWebhookEndpointRepository) Create(ctx context.Context, e *entities.WebhookEndpoint) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockWebhookEndpointRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WebhookEndpoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WebhookEndpoint), args.Error(1)
}
func (m *MockWebhookEndpointRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entities.WebhookEndpoint, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WebhookEndpoint), args.Error(1)
}
func (m *MockWebhookEndpointRepository) ListActiveSubscribedTo(ctx context.Context, eventType entities.EventType) ([]*entities.WebhookEndpoint, error) {
	args := m.Called(ctx, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WebhookEndpoint), args.Error(1)
}
func (m *MockWebhookEndpointRepository) Update(ctx context.Context, e *entities.WebhookEndpoint) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockWebhookEndpointRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// stubGateway is a minimal gateway.Gateway used to drive usecase tests
// without depending on the mock/stripe/razorpay adapters.
type stubGateway struct {
	name          string
	createResult  *gateway.CreatePaymentResult
	createErr     error
	refundResult  *gateway.RefundPaymentResult
	refundErr     error
}

func (g *stubGateway) Name() string { return g.name }
func (g *stubGateway) CreatePayment(ctx context.Context, in gateway.CreatePaymentInput) (*gateway.CreatePaymentResult, error) {
	return g.createResult, g.createErr
}
func (g *stubGateway) RefundPayment(ctx context.Context, in gateway.RefundPaymentInput) (*gateway.RefundPaymentResult, error) {
	return g.refundResult, g.refundErr
}
func (g *stubGateway) GetPaymentStatus(ctx context.Context, providerPaymentID string) (*gateway.PaymentStatusResult, error) {
	return nil, nil
}
func (g *stubGateway) VerifyWebhook(ctx context.Context, payload []byte, signature, secret string) (*gateway.WebhookEvent, error) {
	return nil, nil
}
func (g *stubGateway) HealthCheck(ctx context.Context) bool { return true }
