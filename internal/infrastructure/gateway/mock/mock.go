// Package mock implements a Gateway Port variant with no external network
// calls: tunable success rate and latency, optional chaos-mode faults, and
// in-memory stores for its own payments and refunds — the only adapter
// variant with observable state, as required for deterministic test fixtures.
package mock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"
	"time"

	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/infrastructure/gateway"
)

// Config tunes the mock's behavior, sourced from MOCK_GATEWAY_* env vars.
type Config struct {
	SuccessRate      float64
	AverageLatencyMs int
	EnableChaos      bool
	ChaosRate        float64
}

type paymentRecord struct {
	amount   int64
	currency string
	status   gateway.PaymentOutcome
}

// Gateway is the mock Gateway Port adapter.
type Gateway struct {
	cfg Config

	mu       sync.Mutex
	payments map[string]*paymentRecord
	refunds  map[string]*RefundRecord
}

// RefundRecord is exported so tests can assert on the mock's own bookkeeping.
type RefundRecord struct {
	ProviderPaymentID string
	Amount            int64
	Status            gateway.RefundOutcome
}

func New(cfg Config) *Gateway {
	return &Gateway{
		cfg:      cfg,
		payments: make(map[string]*paymentRecord),
		refunds:  make(map[string]*RefundRecord),
	}
}

func (g *Gateway) Name() string { return "mock" }

func (g *Gateway) simulateLatency(ctx context.Context) error {
	if g.cfg.AverageLatencyMs <= 0 {
		return nil
	}
	select {
	case <-time.After(time.Duration(g.cfg.AverageLatencyMs) * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gateway) roll() (float64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return 0, err
	}
	return float64(n.Int64()) / 1_000_000, nil
}

func (g *Gateway) newID(prefix string) (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + "_" + hex.EncodeToString(b), nil
}

func (g *Gateway) CreatePayment(ctx context.Context, in gateway.CreatePaymentInput) (*gateway.CreatePaymentResult, error) {
	if err := g.simulateLatency(ctx); err != nil {
		return nil, domainerrors.Gateway("MOCK_TIMEOUT", "mock gateway call cancelled", 0, err)
	}

	if g.cfg.EnableChaos {
		chaos, err := g.roll()
		if err != nil {
			return nil, domainerrors.Gateway("MOCK_RNG_ERROR", "mock gateway entropy failure", 500, err)
		}
		if chaos < g.cfg.ChaosRate {
			return nil, domainerrors.Gateway("MOCK_CHAOS_FAULT", "simulated chaos failure", 502, nil)
		}
	}

	success, err := g.roll()
	if err != nil {
		return nil, domainerrors.Gateway("MOCK_RNG_ERROR", "mock gateway entropy failure", 500, err)
	}

	id, err := g.newID("mock_pay")
	if err != nil {
		return nil, domainerrors.Gateway("MOCK_RNG_ERROR", "mock gateway entropy failure", 500, err)
	}

	if success >= g.cfg.SuccessRate {
		g.mu.Lock()
		g.payments[id] = &paymentRecord{amount: in.Amount, currency: in.Currency, status: gateway.OutcomeFailed}
		g.mu.Unlock()
		return nil, domainerrors.Gateway("MOCK_PAYMENT_DECLINED", "mock gateway declined the payment", 502, nil)
	}

	g.mu.Lock()
	g.payments[id] = &paymentRecord{amount: in.Amount, currency: in.Currency, status: gateway.OutcomeSucceeded}
	g.mu.Unlock()

	return &gateway.CreatePaymentResult{
		ProviderPaymentID: id,
		Status:            gateway.OutcomeSucceeded,
		Raw:               map[string]interface{}{"mock_payment_id": id, "amount": in.Amount, "currency": in.Currency},
	}, nil
}

func (g *Gateway) RefundPayment(ctx context.Context, in gateway.RefundPaymentInput) (*gateway.RefundPaymentResult, error) {
	if err := g.simulateLatency(ctx); err != nil {
		return nil, domainerrors.Gateway("MOCK_TIMEOUT", "mock gateway call cancelled", 0, err)
	}

	g.mu.Lock()
	pr, ok := g.payments[in.ProviderPaymentID]
	g.mu.Unlock()
	if !ok {
		return nil, domainerrors.Gateway("MOCK_PAYMENT_NOT_FOUND", fmt.Sprintf("no mock payment %s", in.ProviderPaymentID), 404, nil)
	}
	if pr.status != gateway.OutcomeSucceeded {
		return nil, domainerrors.Gateway("MOCK_PAYMENT_NOT_REFUNDABLE", "mock payment was never succeeded", 400, nil)
	}

	success, err := g.roll()
	if err != nil {
		return nil, domainerrors.Gateway("MOCK_RNG_ERROR", "mock gateway entropy failure", 500, err)
	}
	id, err := g.newID("mock_refund")
	if err != nil {
		return nil, domainerrors.Gateway("MOCK_RNG_ERROR", "mock gateway entropy failure", 500, err)
	}

	if success >= g.cfg.SuccessRate {
		g.mu.Lock()
		g.refunds[id] = &RefundRecord{ProviderPaymentID: in.ProviderPaymentID, Amount: in.Amount, Status: gateway.RefundOutcomeFailed}
		g.mu.Unlock()
		return nil, domainerrors.Gateway("MOCK_REFUND_DECLINED", "mock gateway declined the refund", 502, nil)
	}

	g.mu.Lock()
	g.refunds[id] = &RefundRecord{ProviderPaymentID: in.ProviderPaymentID, Amount: in.Amount, Status: gateway.RefundOutcomeSucceeded}
	g.mu.Unlock()

	return &gateway.RefundPaymentResult{
		ProviderRefundID: id,
		Status:           gateway.RefundOutcomeSucceeded,
		Raw:              map[string]interface{}{"mock_refund_id": id, "amount": in.Amount},
	}, nil
}

func (g *Gateway) GetPaymentStatus(ctx context.Context, providerPaymentID string) (*gateway.PaymentStatusResult, error) {
	g.mu.Lock()
	pr, ok := g.payments[providerPaymentID]
	g.mu.Unlock()
	if !ok {
		return nil, domainerrors.Gateway("MOCK_PAYMENT_NOT_FOUND", fmt.Sprintf("no mock payment %s", providerPaymentID), 404, nil)
	}
	return &gateway.PaymentStatusResult{
		Status:   pr.status,
		Amount:   pr.amount,
		Currency: pr.currency,
		Raw:      map[string]interface{}{"mock_payment_id": providerPaymentID},
	}, nil
}

// VerifyWebhook is unused by the mock in practice (nothing posts inbound
// webhooks to it) but implemented for interface conformance; it performs no
// signature check and always returns (nil, nil).
func (g *Gateway) VerifyWebhook(ctx context.Context, payload []byte, signature, secret string) (*gateway.WebhookEvent, error) {
	return nil, nil
}

func (g *Gateway) HealthCheck(ctx context.Context) bool { return true }
