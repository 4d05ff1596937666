package entities

import (
	"time"

	"github.com/google/uuid"
)

// Known event types emitted onto the Outbox.
const (
	EventTypePaymentCreated EventType = "payment.created"
	EventTypeRefundCreated  EventType = "refund.created"
)

// EventType names the kind of domain event carried by an Event/Outbox row.
type EventType string

// Event is an immutable fact materialized from an Outbox row by the
// Outbox Drainer. It is shared by every WebhookDelivery that references it.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      EventType       `json:"type"`
	Payload   map[string]any  `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Outbox is a row written in the same transaction as the state change it
// describes. The Drainer promotes it into an Event exactly once.
type Outbox struct {
	ID            uuid.UUID      `json:"id"`
	AggregateType string         `json:"aggregateType"`
	AggregateID   uuid.UUID      `json:"aggregateId"`
	EventType     EventType      `json:"eventType"`
	Payload       map[string]any `json:"payload"`
	Processed     bool           `json:"processed"`
	CreatedAt     time.Time      `json:"createdAt"`
}
