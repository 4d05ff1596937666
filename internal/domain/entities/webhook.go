package entities

import (
	"time"

	"github.com/google/uuid"
)

// MaxDeliveryAttempts is MAX_ATTEMPTS from the delivery state machine.
const MaxDeliveryAttempts = 10

// WebhookEndpoint is a merchant-configured receiver of Event notifications.
type WebhookEndpoint struct {
	ID         uuid.UUID   `json:"id"`
	MerchantID uuid.UUID   `json:"merchantId"`
	URL        string      `json:"url"`
	Secret     string      `json:"-"`
	Events     []EventType `json:"events"`
	IsActive   bool        `json:"isActive"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Subscribes reports whether the endpoint is active and subscribed to t.
func (e *WebhookEndpoint) Subscribes(t EventType) bool {
	if !e.IsActive {
		return false
	}
	for _, ev := range e.Events {
		if ev == t {
			return true
		}
	}
	return false
}

// DeliveryStatus is the lifecycle state of a WebhookDelivery.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "PENDING"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
	DeliveryStatusFailed    DeliveryStatus = "FAILED"
	DeliveryStatusAbandoned DeliveryStatus = "ABANDONED"
)

// IsTerminal reports whether status can never change again.
func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusDelivered || s == DeliveryStatusAbandoned
}

// WebhookDelivery is one logical attempt series pushing one Event to one
// WebhookEndpoint.
type WebhookDelivery struct {
	ID            uuid.UUID      `json:"id"`
	EndpointID    uuid.UUID      `json:"endpointId"`
	EventID       uuid.UUID      `json:"eventId"`
	Status        DeliveryStatus `json:"status"`
	AttemptCount  int            `json:"attemptCount"`
	LastError     *string        `json:"lastError,omitempty"`
	NextRetryAt   *time.Time     `json:"nextRetryAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	Endpoint *WebhookEndpoint `json:"-"`
	Event    *Event           `json:"-"`
}

// DeadLetter is appended when a WebhookDelivery is abandoned.
type DeadLetter struct {
	Type       string    `json:"type"`
	DeliveryID uuid.UUID `json:"deliveryId"`
	EndpointID uuid.UUID `json:"endpointId"`
	EventID    uuid.UUID `json:"eventId"`
	Attempts   int       `json:"attempts"`
	LastError  string    `json:"lastError"`
	Timestamp  time.Time `json:"timestamp"`
}

// CreateWebhookEndpointRequest is the intake payload for POST /v1/webhook-endpoints.
type CreateWebhookEndpointRequest struct {
	URL    string      `json:"url" binding:"required,url"`
	Secret string      `json:"secret" binding:"required,min=8"`
	Events []EventType `json:"events" binding:"required,min=1"`
}
