package models

import (
	"time"

	"github.com/google/uuid"
)

// Outbox is the gorm row model for entities.Outbox.
type Outbox struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	AggregateType string    `gorm:"type:varchar(32);not null"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null"`
	EventType     string    `gorm:"type:varchar(64);not null"`
	Payload       string    `gorm:"type:text;not null"`
	Processed     bool      `gorm:"not null;default:false;index"`
	CreatedAt     time.Time `gorm:"index"`
}

func (Outbox) TableName() string { return "outbox" }

// Event is the gorm row model for entities.Event.
type Event struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Type      string    `gorm:"type:varchar(64);not null"`
	Payload   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (Event) TableName() string { return "events" }
