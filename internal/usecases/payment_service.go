package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/bojanz/currency"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	domainrepos "openpayflow/internal/domain/repositories"
	"openpayflow/internal/infrastructure/cache"
	"openpayflow/internal/infrastructure/gateway"
	"openpayflow/pkg/logger"
)

// PaymentService implements the payment intake contract of the orchestrator:
// authenticate, idempotency-check, create, dispatch to a Gateway Port
// adapter, map the outcome, and append the payment.created outbox row, all
// inside one transaction per step as spec'd.
type PaymentService struct {
	uow        domainrepos.UnitOfWork
	merchants  domainrepos.MerchantRepository
	payments   domainrepos.PaymentRepository
	outbox     domainrepos.OutboxRepository
	gateways   *gateway.Registry
	merchantCh *cache.MerchantCache
	idemCache  *cache.IdempotencyCache
}

func NewPaymentService(
	uow domainrepos.UnitOfWork,
	merchants domainrepos.MerchantRepository,
	payments domainrepos.PaymentRepository,
	outbox domainrepos.OutboxRepository,
	gateways *gateway.Registry,
	merchantCh *cache.MerchantCache,
	idemCache *cache.IdempotencyCache,
) *PaymentService {
	return &PaymentService{
		uow:        uow,
		merchants:  merchants,
		payments:   payments,
		outbox:     outbox,
		gateways:   gateways,
		merchantCh: merchantCh,
		idemCache:  idemCache,
	}
}

// HashAPIKey is the one true place raw API keys are hashed before lookup or storage.
func HashAPIKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

// AuthenticateMerchant resolves apiKey to an active Merchant via the
// read-through cache, falling back to the store on a miss.
func (s *PaymentService) AuthenticateMerchant(ctx context.Context, apiKey string) (*entities.Merchant, error) {
	hash := HashAPIKey(apiKey)

	if m, err := s.merchantCh.Get(ctx, hash); err == nil && m != nil {
		return m, nil
	}

	m, err := s.merchants.GetByAPIKeyHash(ctx, hash)
	if err != nil {
		return nil, domainerrors.Auth("INVALID_API_KEY", "merchant api key not recognized")
	}
	_ = s.merchantCh.Set(ctx, m)
	return m, nil
}

// CreatePayment implements spec's createPayment(request, idempotencyKey) contract.
func (s *PaymentService) CreatePayment(ctx context.Context, merchant *entities.Merchant, req *entities.CreatePaymentRequest, idempotencyKey string) (*entities.Payment, error) {
	if idempotencyKey == "" {
		return nil, domainerrors.Validation("MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required")
	}
	if req.Amount <= 0 {
		return nil, domainerrors.Validation("INVALID_AMOUNT", "amount must be greater than zero")
	}
	if _, err := currency.NewAmount("0", req.Currency); err != nil {
		return nil, domainerrors.Validation("INVALID_CURRENCY", "currency must be a valid ISO-4217 alphabetic code")
	}

	// Step 2: idempotency check. A prior payment is returned unchanged
	// regardless of whether this request's body matches (see DESIGN.md's
	// resolution of the idempotency-conflict open question).
	if existing, err := s.lookupIdempotent(ctx, merchant.ID, idempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	gw, err := s.gateways.Get(string(req.Gateway))
	if err != nil {
		return nil, domainerrors.Validation("GATEWAY_NOT_ENABLED", err.Error())
	}

	payment := &entities.Payment{
		ID:             uuid.New(),
		MerchantID:     merchant.ID,
		Amount:         req.Amount,
		Currency:       upperCurrency(req.Currency),
		Status:         entities.PaymentStatusPending,
		Gateway:        req.Gateway,
		IdempotencyKey: idempotencyKey,
		Metadata:       entities.SanitizeMetadata(req.Metadata),
	}
	attempt := &entities.PaymentAttempt{
		ID:        uuid.New(),
		AttemptNo: 1,
		Status:    entities.AttemptStatusPending,
	}

	// Step 3: create Payment + Attempt#1 + back-populate idempotency cache,
	// one transaction. A unique-constraint violation here means a
	// concurrent request won the race; we read its row back instead.
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.payments.Create(ctx, payment); err != nil {
			return err
		}
		attempt.PaymentID = payment.ID
		return s.payments.CreateAttempt(ctx, attempt)
	})
	if err != nil {
		if existing, lookupErr := s.payments.GetByMerchantAndIdempotencyKey(ctx, merchant.ID, idempotencyKey); lookupErr == nil {
			_ = s.idemCache.Set(ctx, merchant.ID, idempotencyKey, existing.ID)
			return existing, nil
		}
		return nil, domainerrors.Internal(err)
	}
	_ = s.idemCache.Set(ctx, merchant.ID, idempotencyKey, payment.ID)

	// Step 4: transition to PROCESSING before the gateway call.
	if err := s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.payments.UpdateStatus(ctx, payment.ID, entities.PaymentStatusProcessing); err != nil {
			return err
		}
		attempt.Status = entities.AttemptStatusProcessing
		return s.payments.UpdateAttempt(ctx, attempt)
	}); err != nil {
		return nil, domainerrors.Internal(err)
	}
	payment.Status = entities.PaymentStatusProcessing

	// Step 5: invoke the gateway.
	result, gwErr := gw.CreatePayment(ctx, gateway.CreatePaymentInput{
		Amount:   payment.Amount,
		Currency: lowerCurrency(payment.Currency),
		Metadata: payment.Metadata,
	})

	if gwErr != nil {
		// Step 7: gateway failure settles Payment and Attempt to FAILED but
		// still appends the payment.created outbox event.
		logger.Error(ctx, "gateway create payment failed", zapErrField(gwErr))
		return s.settleGatewayFailure(ctx, payment, attempt, gwErr)
	}

	return s.settleGatewaySuccess(ctx, payment, attempt, result)
}

func (s *PaymentService) lookupIdempotent(ctx context.Context, merchantID uuid.UUID, key string) (*entities.Payment, error) {
	if id, err := s.idemCache.Get(ctx, merchantID, key); err == nil && id != uuid.Nil {
		if p, err := s.payments.GetByID(ctx, id); err == nil {
			return p, nil
		}
	}

	existing, err := s.payments.GetByMerchantAndIdempotencyKey(ctx, merchantID, key)
	if err == nil {
		_ = s.idemCache.Set(ctx, merchantID, key, existing.ID)
		return existing, nil
	}
	return nil, nil
}

func (s *PaymentService) settleGatewaySuccess(ctx context.Context, payment *entities.Payment, attempt *entities.PaymentAttempt, result *gateway.CreatePaymentResult) (*entities.Payment, error) {
	payment.Status = mapPaymentStatus(result.Status)
	payment.ProviderPaymentID = null.StringFrom(result.ProviderPaymentID)
	attempt.Status = mapAttemptStatus(result.Status)

	if result.Status == gateway.OutcomeFailed {
		attempt.ErrorCode = null.StringFrom("GATEWAY_PAYMENT_DECLINED")
		attempt.ErrorMessage = null.StringFrom("payment gateway declined the payment")
	}

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.payments.UpdateStatus(ctx, payment.ID, payment.Status); err != nil {
			return err
		}
		if err := s.payments.SetProviderPaymentID(ctx, payment.ID, result.ProviderPaymentID); err != nil {
			return err
		}
		if err := s.payments.UpdateAttempt(ctx, attempt); err != nil {
			return err
		}
		return s.outbox.Create(ctx, &entities.Outbox{
			ID:            uuid.New(),
			AggregateType: "payment",
			AggregateID:   payment.ID,
			EventType:     entities.EventTypePaymentCreated,
			Payload:       map[string]any{"paymentSnapshot": payment, "correlationId": correlationIDFrom(ctx)},
		})
	})
	if err != nil {
		return nil, domainerrors.Internal(err)
	}
	return payment, nil
}

func (s *PaymentService) settleGatewayFailure(ctx context.Context, payment *entities.Payment, attempt *entities.PaymentAttempt, gwErr error) (*entities.Payment, error) {
	payment.Status = entities.PaymentStatusFailed
	attempt.Status = entities.AttemptStatusFailed

	fault, _ := domainerrors.AsFault(gwErr)
	code := "GATEWAY_ERROR"
	msg := gwErr.Error()
	if fault != nil {
		code, msg = fault.Code, fault.Message
	}
	attempt.ErrorCode = null.StringFrom(code)
	attempt.ErrorMessage = null.StringFrom(msg)

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.payments.UpdateStatus(ctx, payment.ID, payment.Status); err != nil {
			return err
		}
		if err := s.payments.UpdateAttempt(ctx, attempt); err != nil {
			return err
		}
		return s.outbox.Create(ctx, &entities.Outbox{
			ID:            uuid.New(),
			AggregateType: "payment",
			AggregateID:   payment.ID,
			EventType:     entities.EventTypePaymentCreated,
			Payload:       map[string]any{"paymentSnapshot": payment, "correlationId": correlationIDFrom(ctx)},
		})
	})
	if err != nil {
		return nil, domainerrors.Internal(err)
	}
	return nil, gwErr
}

// GetPayment returns a payment with its recent attempts and refunds
// populated, scoped to the authenticated merchant.
func (s *PaymentService) GetPayment(ctx context.Context, merchantID, paymentID uuid.UUID, refunds domainrepos.RefundRepository) (*entities.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, domainerrors.DomainNotFound("PAYMENT_NOT_FOUND", "payment not found")
	}
	if p.MerchantID != merchantID {
		return nil, domainerrors.DomainNotFound("PAYMENT_NOT_FOUND", "payment not found")
	}

	attempts, err := s.payments.ListAttempts(ctx, paymentID, 5)
	if err != nil {
		return nil, domainerrors.Internal(err)
	}
	p.Attempts = attempts

	if refunds != nil {
		rs, err := refunds.ListByPayment(ctx, paymentID)
		if err != nil {
			return nil, domainerrors.Internal(err)
		}
		p.Refunds = rs
	}
	return p, nil
}

// ListPayments scopes PaymentRepository.ListByMerchant to the authenticated merchant.
func (s *PaymentService) ListPayments(ctx context.Context, merchantID uuid.UUID, filter domainrepos.PaymentFilter) ([]*entities.Payment, int, error) {
	payments, total, err := s.payments.ListByMerchant(ctx, merchantID, filter)
	if err != nil {
		return nil, 0, domainerrors.Internal(err)
	}
	return payments, total, nil
}

func mapPaymentStatus(o gateway.PaymentOutcome) entities.PaymentStatus {
	switch o {
	case gateway.OutcomeSucceeded:
		return entities.PaymentStatusSucceeded
	case gateway.OutcomeProcessing:
		return entities.PaymentStatusProcessing
	case gateway.OutcomeRequiresAction:
		return entities.PaymentStatusRequiresAction
	default:
		return entities.PaymentStatusFailed
	}
}

func mapAttemptStatus(o gateway.PaymentOutcome) entities.AttemptStatus {
	switch o {
	case gateway.OutcomeSucceeded:
		return entities.AttemptStatusSucceeded
	case gateway.OutcomeProcessing, gateway.OutcomeRequiresAction:
		return entities.AttemptStatusProcessing
	default:
		return entities.AttemptStatusFailed
	}
}

func upperCurrency(c string) string {
	out := []byte(c)
	for i, b := range out {
		if b >= 'a' && b <= 'z' {
			out[i] = b - ('a' - 'A')
		}
	}
	return string(out)
}

func lowerCurrency(c string) string {
	out := []byte(c)
	for i, b := range out {
		if b >= 'A' && b <= 'Z' {
			out[i] = b + ('a' - 'A')
		}
	}
	return string(out)
}
