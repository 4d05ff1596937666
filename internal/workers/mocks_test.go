package workers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"openpayflow/internal/domain/entities"
)

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx, fn)
	return fn(ctx)
}

func (m *mockUnitOfWork) WithLock(ctx context.Context) context.Context {
	m.Called(ctx)
	return ctx
}

type mockOutboxRepository struct{ mock.Mock }

func (m *mockOutboxRepository) Create(ctx context.Context, o *entities.Outbox) error {
	return m.Called(ctx, o).Error(0)
}
func (m *mockOutboxRepository) ClaimUnprocessed(ctx context.Context, limit int) ([]*entities.Outbox, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Outbox), args.Error(1)
}
func (m *mockOutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockOutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time, batch int) (int, error) {
	args := m.Called(ctx, before, batch)
	return args.Int(0), args.Error(1)
}

type mockEventRepository struct{ mock.Mock }

func (m *mockEventRepository) Create(ctx context.Context, e *entities.Event) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Event), args.Error(1)
}
func (m *mockEventRepository) DeleteOrphansBefore(ctx context.Context, before time.Time, batch int) (int, error) {
	args := m.Called(ctx, before, batch)
	return args.Int(0), args.Error(1)
}

type mockWebhookEndpointRepository struct{ mock.Mock }

func (m *mockWebhookEndpointRepository) Create(ctx context.Context, e *entities.WebhookEndpoint) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockWebhookEndpointRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WebhookEndpoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WebhookEndpoint), args.Error(1)
}
func (m *mockWebhookEndpointRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entities.WebhookEndpoint, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WebhookEndpoint), args.Error(1)
}
func (m *mockWebhookEndpointRepository) ListActiveSubscribedTo(ctx context.Context, eventType entities.EventType) ([]*entities.WebhookEndpoint, error) {
	args := m.Called(ctx, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WebhookEndpoint), args.Error(1)
}
func (m *mockWebhookEndpointRepository) Update(ctx context.Context, e *entities.WebhookEndpoint) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockWebhookEndpointRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockWebhookDeliveryRepository struct{ mock.Mock }

func (m *mockWebhookDeliveryRepository) Create(ctx context.Context, d *entities.WebhookDelivery) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockWebhookDeliveryRepository) GetWithRefs(ctx context.Context, id uuid.UUID) (*entities.WebhookDelivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WebhookDelivery), args.Error(1)
}
func (m *mockWebhookDeliveryRepository) Update(ctx context.Context, d *entities.WebhookDelivery) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockWebhookDeliveryRepository) ClaimDueRetries(ctx context.Context, now time.Time, limit int) ([]*entities.WebhookDelivery, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WebhookDelivery), args.Error(1)
}
func (m *mockWebhookDeliveryRepository) DeleteDeliveredBefore(ctx context.Context, before time.Time, batch int) (int, error) {
	args := m.Called(ctx, before, batch)
	return args.Int(0), args.Error(1)
}
func (m *mockWebhookDeliveryRepository) HasNonTerminalForEvent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}
