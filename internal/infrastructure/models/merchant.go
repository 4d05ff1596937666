package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Merchant is the gorm row model for entities.Merchant.
type Merchant struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name       string    `gorm:"type:varchar(255);not null"`
	APIKeyHash string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Merchant) TableName() string { return "merchants" }
