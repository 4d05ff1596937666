package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"openpayflow/internal/domain/entities"
)

// PaymentFilter narrows ListByMerchant.
type PaymentFilter struct {
	Status    entities.PaymentStatus
	Gateway   entities.Gateway
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// PaymentRepository persists Payment rows and their Attempts.
type PaymentRepository interface {
	Create(ctx context.Context, p *entities.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error)
	GetByMerchantAndIdempotencyKey(ctx context.Context, merchantID uuid.UUID, key string) (*entities.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus) error
	SetProviderPaymentID(ctx context.Context, id uuid.UUID, providerPaymentID string) error
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, filter PaymentFilter) ([]*entities.Payment, int, error)

	CreateAttempt(ctx context.Context, a *entities.PaymentAttempt) error
	UpdateAttempt(ctx context.Context, a *entities.PaymentAttempt) error
	ListAttempts(ctx context.Context, paymentID uuid.UUID, limit int) ([]*entities.PaymentAttempt, error)
}

// RefundRepository persists Refund rows.
type RefundRepository interface {
	Create(ctx context.Context, r *entities.Refund) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Refund, error)
	Update(ctx context.Context, r *entities.Refund) error
	SumSucceededByPayment(ctx context.Context, paymentID uuid.UUID) (int64, error)
	ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]*entities.Refund, error)
}
