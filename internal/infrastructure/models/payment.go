package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// Payment is the gorm row model for entities.Payment.
type Payment struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	MerchantID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_merchant_idempotency"`
	Amount            int64     `gorm:"not null"`
	Currency          string    `gorm:"type:varchar(3);not null"`
	Status            string    `gorm:"type:varchar(20);not null;index"`
	Gateway           string    `gorm:"type:varchar(20);not null"`
	ProviderPaymentID null.String `gorm:"type:varchar(255)"`
	IdempotencyKey    string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_merchant_idempotency"`
	Metadata          string    `gorm:"type:text"`
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (Payment) TableName() string { return "payments" }

// PaymentAttempt is the gorm row model for entities.PaymentAttempt.
type PaymentAttempt struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PaymentID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payment_attempt_no"`
	AttemptNo        int       `gorm:"not null;uniqueIndex:idx_payment_attempt_no"`
	Status           string    `gorm:"type:varchar(20);not null"`
	ErrorCode        null.String `gorm:"type:varchar(64)"`
	ErrorMessage     null.String `gorm:"type:text"`
	ProviderResponse null.String `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PaymentAttempt) TableName() string { return "payment_attempts" }

// Refund is the gorm row model for entities.Refund.
type Refund struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PaymentID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount           int64     `gorm:"not null"`
	Reason           string    `gorm:"type:text"`
	Status           string    `gorm:"type:varchar(20);not null;index"`
	ProviderRefundID null.String `gorm:"type:varchar(255)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Refund) TableName() string { return "refunds" }
