// Package gateway defines the capability abstraction every payment
// provider adapter implements, generalized from the teacher's factory
// pattern in internal/infrastructure/blockchain/client_factory.go.
package gateway

import "context"

// PaymentOutcome is the uniform status a CreatePayment/GetPaymentStatus call
// settles into, independent of the underlying provider's own vocabulary.
type PaymentOutcome string

const (
	OutcomeSucceeded      PaymentOutcome = "succeeded"
	OutcomeProcessing     PaymentOutcome = "processing"
	OutcomeRequiresAction PaymentOutcome = "requires_action"
	OutcomeFailed         PaymentOutcome = "failed"
)

// RefundOutcome is the uniform status a RefundPayment call settles into.
type RefundOutcome string

const (
	RefundOutcomeSucceeded RefundOutcome = "succeeded"
	RefundOutcomePending   RefundOutcome = "pending"
	RefundOutcomeFailed    RefundOutcome = "failed"
)

// CreatePaymentInput is the request shape passed to every adapter.
type CreatePaymentInput struct {
	Amount     int64
	Currency   string
	Metadata   map[string]interface{}
	CustomerID string
	MethodID   string
}

// CreatePaymentResult is what every adapter returns from CreatePayment.
type CreatePaymentResult struct {
	ProviderPaymentID string
	Status            PaymentOutcome
	ClientSecret      string
	NextAction        string
	Raw               map[string]interface{}
}

// RefundPaymentInput is the request shape passed to RefundPayment.
type RefundPaymentInput struct {
	ProviderPaymentID string
	Amount            int64 // 0 means full refund
	Reason            string
	Metadata          map[string]interface{}
}

// RefundPaymentResult is what every adapter returns from RefundPayment.
type RefundPaymentResult struct {
	ProviderRefundID string
	Status           RefundOutcome
	Raw              map[string]interface{}
}

// PaymentStatusResult is what every adapter returns from GetPaymentStatus.
type PaymentStatusResult struct {
	Status   PaymentOutcome
	Amount   int64
	Currency string
	Metadata map[string]interface{}
	Raw      map[string]interface{}
}

// WebhookEvent is the result of successfully verifying an inbound provider
// webhook; nil (with no error) means the signature did not verify.
type WebhookEvent struct {
	Type    string
	Payload map[string]interface{}
}

// Gateway is the capability set every provider adapter must implement.
// Adapters are stateless across calls and safe to construct once per process.
type Gateway interface {
	Name() string
	CreatePayment(ctx context.Context, in CreatePaymentInput) (*CreatePaymentResult, error)
	RefundPayment(ctx context.Context, in RefundPaymentInput) (*RefundPaymentResult, error)
	GetPaymentStatus(ctx context.Context, providerPaymentID string) (*PaymentStatusResult, error)
	VerifyWebhook(ctx context.Context, payload []byte, signature, secret string) (*WebhookEvent, error)
	HealthCheck(ctx context.Context) bool
}
