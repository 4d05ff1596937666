package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// RefundStatus mirrors PaymentStatus's terminal shape but for refunds.
type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "PENDING"
	RefundStatusProcessing RefundStatus = "PROCESSING"
	RefundStatusSucceeded  RefundStatus = "SUCCEEDED"
	RefundStatusFailed     RefundStatus = "FAILED"
)

// IsTerminal reports whether status can never change again.
func (s RefundStatus) IsTerminal() bool {
	switch s {
	case RefundStatusSucceeded, RefundStatusFailed:
		return true
	default:
		return false
	}
}

// Refund is a partial or full reversal of a SUCCEEDED Payment.
type Refund struct {
	ID               uuid.UUID    `json:"id"`
	PaymentID        uuid.UUID    `json:"paymentId"`
	Amount           int64        `json:"amount"`
	Reason           string       `json:"reason,omitempty"`
	Status           RefundStatus `json:"status"`
	ProviderRefundID null.String  `json:"providerRefundId,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// CreateRefundRequest is the intake payload for POST /v1/refunds.
type CreateRefundRequest struct {
	PaymentID uuid.UUID `json:"paymentId" binding:"required"`
	Amount    int64     `json:"amount,omitempty" binding:"omitempty,gt=0"`
	Reason    string    `json:"reason,omitempty"`
}
