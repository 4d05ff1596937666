package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebhookEndpoint is the gorm row model for entities.WebhookEndpoint.
type WebhookEndpoint struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	MerchantID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL        string    `gorm:"type:text;not null"`
	Secret     string    `gorm:"type:varchar(255);not null"`
	Events     string    `gorm:"type:text;not null"` // comma-separated EventType list
	IsActive   bool      `gorm:"not null;default:true;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (WebhookEndpoint) TableName() string { return "webhook_endpoints" }

// WebhookDelivery is the gorm row model for entities.WebhookDelivery.
type WebhookDelivery struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EndpointID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	EventID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status       string     `gorm:"type:varchar(20);not null;index"`
	AttemptCount int        `gorm:"not null;default:0"`
	LastError    *string    `gorm:"type:text"`
	NextRetryAt  *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"index"`
	UpdatedAt    time.Time
}

func (WebhookDelivery) TableName() string { return "webhook_deliveries" }
