package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PaymentStatus is the lifecycle state of a Payment.
//
// Monotone except PROCESSING -> REQUIRES_ACTION -> {SUCCEEDED, FAILED, CANCELLED}.
type PaymentStatus string

const (
	PaymentStatusPending         PaymentStatus = "PENDING"
	PaymentStatusProcessing      PaymentStatus = "PROCESSING"
	PaymentStatusRequiresAction  PaymentStatus = "REQUIRES_ACTION"
	PaymentStatusSucceeded       PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed          PaymentStatus = "FAILED"
	PaymentStatusCancelled       PaymentStatus = "CANCELLED"
)

// IsTerminal reports whether status can never change again.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	default:
		return false
	}
}

// Gateway identifies which Gateway Port variant services a payment.
type Gateway string

const (
	GatewayStripe   Gateway = "stripe"
	GatewayRazorpay Gateway = "razorpay"
	GatewayMock     Gateway = "mock"
)

// Payment is the aggregate root for a merchant's payment intent.
type Payment struct {
	ID                uuid.UUID     `json:"id"`
	MerchantID        uuid.UUID     `json:"merchantId"`
	Amount            int64         `json:"amount"`
	Currency          string        `json:"currency"`
	Status            PaymentStatus `json:"status"`
	Gateway           Gateway       `json:"gateway"`
	ProviderPaymentID null.String   `json:"providerPaymentId,omitempty"`
	IdempotencyKey    string        `json:"idempotencyKey"`
	Metadata          Metadata      `json:"metadata,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`

	Attempts []*PaymentAttempt `json:"attempts,omitempty"`
	Refunds  []*Refund         `json:"refunds,omitempty"`
}

// AttemptStatus mirrors the gateway-facing subset of PaymentStatus values
// that a single gateway call can settle into.
type AttemptStatus string

const (
	AttemptStatusPending    AttemptStatus = "PENDING"
	AttemptStatusProcessing AttemptStatus = "PROCESSING"
	AttemptStatusSucceeded  AttemptStatus = "SUCCEEDED"
	AttemptStatusFailed     AttemptStatus = "FAILED"
)

// PaymentAttempt records one gateway invocation for a Payment.
type PaymentAttempt struct {
	ID               uuid.UUID     `json:"id"`
	PaymentID        uuid.UUID     `json:"paymentId"`
	AttemptNo        int           `json:"attemptNo"`
	Status           AttemptStatus `json:"status"`
	ErrorCode        null.String   `json:"errorCode,omitempty"`
	ErrorMessage     null.String   `json:"errorMessage,omitempty"`
	ProviderResponse null.String   `json:"providerResponse,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// Metadata is a sanitized key-value bag attached to a Payment: primitives
// plus one level of nested object; arrays and functions are dropped by
// SanitizeMetadata before a Metadata value is ever constructed.
type Metadata map[string]interface{}

// SanitizeMetadata keeps primitive values and one level of nested objects,
// dropping arrays and anything that isn't JSON-plain data.
func SanitizeMetadata(in map[string]interface{}) Metadata {
	if in == nil {
		return nil
	}
	out := make(Metadata, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string, float64, int, int64, bool, nil:
			out[k] = val
		case map[string]interface{}:
			nested := make(map[string]interface{}, len(val))
			for nk, nv := range val {
				switch nv.(type) {
				case string, float64, int, int64, bool, nil:
					nested[nk] = nv
				}
			}
			out[k] = nested
		default:
			// arrays, functions, and anything else are dropped.
		}
	}
	return out
}

// CreatePaymentRequest is the intake payload for POST /v1/payments.
type CreatePaymentRequest struct {
	Amount   int64                  `json:"amount" binding:"required,gt=0"`
	Currency string                 `json:"currency" binding:"required,len=3,alpha"`
	Gateway  Gateway                `json:"gateway" binding:"required,oneof=stripe razorpay mock"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
