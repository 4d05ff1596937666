package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"openpayflow/internal/domain/entities"
)

// WebhookEndpointRepository persists merchant-configured WebhookEndpoint rows.
type WebhookEndpointRepository interface {
	Create(ctx context.Context, e *entities.WebhookEndpoint) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.WebhookEndpoint, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entities.WebhookEndpoint, error)
	ListActiveSubscribedTo(ctx context.Context, eventType entities.EventType) ([]*entities.WebhookEndpoint, error)
	Update(ctx context.Context, e *entities.WebhookEndpoint) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// WebhookDeliveryRepository persists WebhookDelivery rows and the work they generate.
type WebhookDeliveryRepository interface {
	Create(ctx context.Context, d *entities.WebhookDelivery) error
	GetWithRefs(ctx context.Context, id uuid.UUID) (*entities.WebhookDelivery, error)
	Update(ctx context.Context, d *entities.WebhookDelivery) error
	// ClaimDueRetries returns up to limit FAILED deliveries whose nextRetryAt
	// has elapsed and attemptCount < MaxDeliveryAttempts, locked via ctx.
	ClaimDueRetries(ctx context.Context, now time.Time, limit int) ([]*entities.WebhookDelivery, error)
	DeleteDeliveredBefore(ctx context.Context, before time.Time, batch int) (int, error)
	HasNonTerminalForEvent(ctx context.Context, eventID uuid.UUID) (bool, error)
}
