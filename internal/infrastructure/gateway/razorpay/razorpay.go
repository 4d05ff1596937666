// Package razorpay wraps github.com/razorpay/razorpay-go behind the
// Gateway Port, following the shape of the corpus's RazorpayProvider
// (internal/payment/providers/razorpay.go in the Caygnus example repo):
// an Order.Create call for intake, Payment.Fetch for status, Payment.Refund
// for refunds, with the SDK's map[string]interface{} responses translated
// into the uniform capability-interface outcomes.
package razorpay

import (
	"context"
	"fmt"

	razorpaygo "github.com/razorpay/razorpay-go"

	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/infrastructure/gateway"
)

// Gateway is the Gateway Port adapter backed by the Razorpay SDK.
type Gateway struct {
	client *razorpaygo.Client
}

func New(keyID, keySecret string) *Gateway {
	return &Gateway{client: razorpaygo.NewClient(keyID, keySecret)}
}

func (g *Gateway) Name() string { return "razorpay" }

func (g *Gateway) CreatePayment(ctx context.Context, in gateway.CreatePaymentInput) (*gateway.CreatePaymentResult, error) {
	order, err := g.client.Order.Create(map[string]interface{}{
		"amount":          in.Amount,
		"currency":        in.Currency,
		"payment_capture": true,
		"notes":           in.Metadata,
	}, nil)
	if err != nil {
		return nil, domainerrors.Gateway("RAZORPAY_ORDER_CREATE_FAILED", err.Error(), 502, err)
	}

	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, domainerrors.Gateway("RAZORPAY_BAD_RESPONSE", "order response missing id", 502, nil)
	}

	// An order is only a payment intent: Razorpay settles it out-of-band via
	// a hosted checkout the merchant's customer completes, so it never
	// self-resolves at creation time. requires_action is the correct, and
	// only sensible, mapping here (see §9's second open question).
	return &gateway.CreatePaymentResult{
		ProviderPaymentID: orderID,
		Status:            gateway.OutcomeRequiresAction,
		NextAction:        fmt.Sprintf("%v", order["short_url"]),
		Raw:               order,
	}, nil
}

func (g *Gateway) RefundPayment(ctx context.Context, in gateway.RefundPaymentInput) (*gateway.RefundPaymentResult, error) {
	data := map[string]interface{}{}
	if in.Amount > 0 {
		data["amount"] = in.Amount
	}
	if in.Reason != "" {
		data["notes"] = map[string]interface{}{"reason": in.Reason}
	}

	refund, err := g.client.Payment.Refund(in.ProviderPaymentID, int(in.Amount), data, nil)
	if err != nil {
		return nil, domainerrors.Gateway("RAZORPAY_REFUND_FAILED", err.Error(), 502, err)
	}

	refundID, _ := refund["id"].(string)
	status := gateway.RefundOutcomePending
	if s, _ := refund["status"].(string); s == "processed" {
		status = gateway.RefundOutcomeSucceeded
	} else if s == "failed" {
		status = gateway.RefundOutcomeFailed
	}

	return &gateway.RefundPaymentResult{ProviderRefundID: refundID, Status: status, Raw: refund}, nil
}

func (g *Gateway) GetPaymentStatus(ctx context.Context, providerPaymentID string) (*gateway.PaymentStatusResult, error) {
	payment, err := g.client.Payment.Fetch(providerPaymentID, nil, nil)
	if err != nil {
		return nil, domainerrors.Gateway("RAZORPAY_FETCH_FAILED", err.Error(), 502, err)
	}

	status := gateway.OutcomeFailed
	switch s, _ := payment["status"].(string); s {
	case "captured":
		status = gateway.OutcomeSucceeded
	case "authorized":
		status = gateway.OutcomeProcessing
	case "created":
		status = gateway.OutcomeRequiresAction
	}

	amount, _ := payment["amount"].(float64)
	currency, _ := payment["currency"].(string)

	return &gateway.PaymentStatusResult{
		Status:   status,
		Amount:   int64(amount),
		Currency: currency,
		Raw:      payment,
	}, nil
}

// VerifyWebhook performs no signature check and always returns (nil, nil);
// it calls neither pkg/webhooksig nor the razorpay SDK.
func (g *Gateway) VerifyWebhook(ctx context.Context, payload []byte, signature, secret string) (*gateway.WebhookEvent, error) {
	return nil, nil
}

func (g *Gateway) HealthCheck(ctx context.Context) bool {
	return g.client != nil
}
