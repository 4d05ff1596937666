package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	domainrepos "openpayflow/internal/domain/repositories"
	"openpayflow/internal/infrastructure/gateway"
)

// RefundService mirrors PaymentService for the refund lifecycle: require a
// SUCCEEDED parent, enforce the sum-of-refunds bound, dispatch to the same
// Gateway Port the parent payment used, and append refund.created.
type RefundService struct {
	uow      domainrepos.UnitOfWork
	payments domainrepos.PaymentRepository
	refunds  domainrepos.RefundRepository
	outbox   domainrepos.OutboxRepository
	gateways *gateway.Registry
}

func NewRefundService(
	uow domainrepos.UnitOfWork,
	payments domainrepos.PaymentRepository,
	refunds domainrepos.RefundRepository,
	outbox domainrepos.OutboxRepository,
	gateways *gateway.Registry,
) *RefundService {
	return &RefundService{uow: uow, payments: payments, refunds: refunds, outbox: outbox, gateways: gateways}
}

func (s *RefundService) CreateRefund(ctx context.Context, merchantID uuid.UUID, req *entities.CreateRefundRequest) (*entities.Refund, error) {
	payment, err := s.payments.GetByID(ctx, req.PaymentID)
	if err != nil || payment.MerchantID != merchantID {
		return nil, domainerrors.DomainNotFound("PAYMENT_NOT_FOUND", "payment not found")
	}
	if payment.Status != entities.PaymentStatusSucceeded {
		return nil, domainerrors.Domain("PAYMENT_NOT_REFUNDABLE", "payment must be in SUCCEEDED status to be refunded")
	}

	amount := req.Amount
	if amount <= 0 {
		amount = payment.Amount
	}

	alreadyRefunded, err := s.refunds.SumSucceededByPayment(ctx, payment.ID)
	if err != nil {
		return nil, domainerrors.Internal(err)
	}
	if alreadyRefunded+amount > payment.Amount {
		return nil, domainerrors.Domain("REFUND_AMOUNT_EXCEEDS_PAYMENT", "refund amount exceeds the remaining refundable balance")
	}

	refund := &entities.Refund{
		ID:        uuid.New(),
		PaymentID: payment.ID,
		Amount:    amount,
		Reason:    req.Reason,
		Status:    entities.RefundStatusPending,
	}
	if err := s.uow.Do(ctx, func(ctx context.Context) error {
		return s.refunds.Create(ctx, refund)
	}); err != nil {
		return nil, domainerrors.Internal(err)
	}

	if err := s.uow.Do(ctx, func(ctx context.Context) error {
		refund.Status = entities.RefundStatusProcessing
		return s.refunds.Update(ctx, refund)
	}); err != nil {
		return nil, domainerrors.Internal(err)
	}

	gw, err := s.gateways.Get(string(payment.Gateway))
	if err != nil {
		return nil, domainerrors.Validation("GATEWAY_NOT_ENABLED", err.Error())
	}

	result, gwErr := gw.RefundPayment(ctx, gateway.RefundPaymentInput{
		ProviderPaymentID: payment.ProviderPaymentID.String,
		Amount:            amount,
		Reason:            req.Reason,
	})

	if gwErr != nil {
		refund.Status = entities.RefundStatusFailed
		if err := s.persistRefundOutcome(ctx, refund); err != nil {
			return nil, err
		}
		return nil, gwErr
	}

	refund.Status = mapRefundStatus(result.Status)
	refund.ProviderRefundID = null.StringFrom(result.ProviderRefundID)
	if err := s.persistRefundOutcome(ctx, refund); err != nil {
		return nil, err
	}
	return refund, nil
}

func (s *RefundService) persistRefundOutcome(ctx context.Context, refund *entities.Refund) error {
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.refunds.Update(ctx, refund); err != nil {
			return err
		}
		return s.outbox.Create(ctx, &entities.Outbox{
			ID:            uuid.New(),
			AggregateType: "refund",
			AggregateID:   refund.ID,
			EventType:     entities.EventTypeRefundCreated,
			Payload:       map[string]any{"refundSnapshot": refund, "correlationId": correlationIDFrom(ctx)},
		})
	})
	if err != nil {
		return domainerrors.Internal(err)
	}
	return nil
}

func mapRefundStatus(o gateway.RefundOutcome) entities.RefundStatus {
	switch o {
	case gateway.RefundOutcomeSucceeded:
		return entities.RefundStatusSucceeded
	case gateway.RefundOutcomePending:
		return entities.RefundStatusProcessing
	default:
		return entities.RefundStatusFailed
	}
}
