// Package stripe implements the Gateway Port against the Stripe REST API
// directly over net/http. No Stripe SDK is present anywhere in the example
// corpus this module was built from, so this adapter is a deliberate
// standard-library exception (see DESIGN.md) — its shape otherwise mirrors
// the razorpay adapter's translation of a provider's own vocabulary into
// the uniform capability-interface outcomes.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/infrastructure/gateway"
)

const baseURL = "https://api.stripe.com/v1"

// Gateway is the Gateway Port adapter backed by the Stripe REST API.
type Gateway struct {
	apiKey string
	client *http.Client
}

func New(apiKey string) *Gateway {
	return &Gateway{apiKey: apiKey, client: &http.Client{Timeout: 30 * time.Second}}
}

func (g *Gateway) Name() string { return "stripe" }

func (g *Gateway) do(ctx context.Context, method, path string, form url.Values) (map[string]interface{}, error) {
	var body strings.Reader
	if form != nil {
		body = *strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, &body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(g.apiKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, domainerrors.Gateway("STRIPE_TRANSPORT_ERROR", err.Error(), 0, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, domainerrors.Gateway("STRIPE_BAD_RESPONSE", "could not decode stripe response", 502, err)
	}
	if resp.StatusCode >= 400 {
		msg := "stripe request failed"
		if e, ok := out["error"].(map[string]interface{}); ok {
			if m, ok := e["message"].(string); ok {
				msg = m
			}
		}
		return out, domainerrors.Gateway("STRIPE_API_ERROR", msg, resp.StatusCode, nil)
	}
	return out, nil
}

func (g *Gateway) CreatePayment(ctx context.Context, in gateway.CreatePaymentInput) (*gateway.CreatePaymentResult, error) {
	form := url.Values{
		"amount":              {strconv.FormatInt(in.Amount, 10)},
		"currency":            {strings.ToLower(in.Currency)},
		"confirm":             {"true"},
		"payment_method_types[]": {"card"},
	}
	if in.CustomerID != "" {
		form.Set("customer", in.CustomerID)
	}
	if in.MethodID != "" {
		form.Set("payment_method", in.MethodID)
	}

	intent, err := g.do(ctx, http.MethodPost, "/payment_intents", form)
	if err != nil {
		return nil, err
	}

	id, _ := intent["id"].(string)
	status := mapIntentStatus(fmt.Sprintf("%v", intent["status"]))
	secret, _ := intent["client_secret"].(string)

	return &gateway.CreatePaymentResult{
		ProviderPaymentID: id,
		Status:            status,
		ClientSecret:      secret,
		Raw:               intent,
	}, nil
}

func mapIntentStatus(s string) gateway.PaymentOutcome {
	switch s {
	case "succeeded":
		return gateway.OutcomeSucceeded
	case "processing":
		return gateway.OutcomeProcessing
	case "requires_action", "requires_confirmation", "requires_payment_method":
		return gateway.OutcomeRequiresAction
	default:
		return gateway.OutcomeFailed
	}
}

func (g *Gateway) RefundPayment(ctx context.Context, in gateway.RefundPaymentInput) (*gateway.RefundPaymentResult, error) {
	form := url.Values{"payment_intent": {in.ProviderPaymentID}}
	if in.Amount > 0 {
		form.Set("amount", strconv.FormatInt(in.Amount, 10))
	}
	if in.Reason != "" {
		form.Set("metadata[reason]", in.Reason)
	}

	refund, err := g.do(ctx, http.MethodPost, "/refunds", form)
	if err != nil {
		return nil, err
	}

	id, _ := refund["id"].(string)
	status := gateway.RefundOutcomePending
	switch fmt.Sprintf("%v", refund["status"]) {
	case "succeeded":
		status = gateway.RefundOutcomeSucceeded
	case "failed":
		status = gateway.RefundOutcomeFailed
	}

	return &gateway.RefundPaymentResult{ProviderRefundID: id, Status: status, Raw: refund}, nil
}

func (g *Gateway) GetPaymentStatus(ctx context.Context, providerPaymentID string) (*gateway.PaymentStatusResult, error) {
	intent, err := g.do(ctx, http.MethodGet, "/payment_intents/"+providerPaymentID, nil)
	if err != nil {
		return nil, err
	}

	amount, _ := intent["amount"].(float64)
	currency, _ := intent["currency"].(string)

	return &gateway.PaymentStatusResult{
		Status:   mapIntentStatus(fmt.Sprintf("%v", intent["status"])),
		Amount:   int64(amount),
		Currency: currency,
		Raw:      intent,
	}, nil
}

// VerifyWebhook is not wired to Stripe's own signature scheme: nothing in
// this orchestrator receives inbound provider webhooks, only outbound
// deliveries signed by pkg/webhooksig, so there is no caller for it yet.
func (g *Gateway) VerifyWebhook(ctx context.Context, payload []byte, signature, secret string) (*gateway.WebhookEvent, error) {
	return nil, nil
}

func (g *Gateway) HealthCheck(ctx context.Context) bool {
	_, err := g.do(ctx, http.MethodGet, "/balance", nil)
	return err == nil
}
