package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/infrastructure/gateway"
	"openpayflow/internal/usecases"
)

func newRefundServiceForTest(gw gateway.Gateway) (*usecases.RefundService, *MockPaymentRepository, *MockRefundRepository, *MockOutboxRepository) {
	uow := new(MockUnitOfWork)
	uow.On("Do", mock.Anything, mock.AnythingOfType("func(context.Context) error")).Return(nil)

	payments := new(MockPaymentRepository)
	refunds := new(MockRefundRepository)
	outbox := new(MockOutboxRepository)

	registry := gateway.NewRegistry()
	registry.Register(gw)

	svc := usecases.NewRefundService(uow, payments, refunds, outbox, registry)
	return svc, payments, refunds, outbox
}

func TestRefundService_CreateRefund_RejectsNonSucceededParent(t *testing.T) {
	svc, payments, _, _ := newRefundServiceForTest(&stubGateway{name: "mock"})
	merchantID := uuid.New()
	paymentID := uuid.New()
	payments.On("GetByID", mock.Anything, paymentID).Return(&entities.Payment{ID: paymentID, MerchantID: merchantID, Status: entities.PaymentStatusProcessing, Amount: 1000}, nil)

	_, err := svc.CreateRefund(context.Background(), merchantID, &entities.CreateRefundRequest{PaymentID: paymentID})
	fault, ok := domainerrors.AsFault(err)
	require.True(t, ok)
	require.Equal(t, "DomainFault", fault.Kind)
	require.Equal(t, "PAYMENT_NOT_REFUNDABLE", fault.Code)
}

func TestRefundService_CreateRefund_RejectsAmountExceedingBalance(t *testing.T) {
	svc, payments, refunds, _ := newRefundServiceForTest(&stubGateway{name: "mock"})
	merchantID := uuid.New()
	paymentID := uuid.New()
	payments.On("GetByID", mock.Anything, paymentID).Return(&entities.Payment{ID: paymentID, MerchantID: merchantID, Status: entities.PaymentStatusSucceeded, Amount: 1000}, nil)
	refunds.On("SumSucceededByPayment", mock.Anything, paymentID).Return(int64(700), nil)

	_, err := svc.CreateRefund(context.Background(), merchantID, &entities.CreateRefundRequest{PaymentID: paymentID, Amount: 500})
	fault, ok := domainerrors.AsFault(err)
	require.True(t, ok)
	require.Equal(t, "REFUND_AMOUNT_EXCEEDS_PAYMENT", fault.Code)
}

func TestRefundService_CreateRefund_SucceedsAndAppendsOutbox(t *testing.T) {
	gw := &stubGateway{name: "mock", refundResult: &gateway.RefundPaymentResult{ProviderRefundID: "re_99", Status: gateway.RefundOutcomeSucceeded}}
	svc, payments, refunds, outbox := newRefundServiceForTest(gw)

	merchantID := uuid.New()
	paymentID := uuid.New()
	payments.On("GetByID", mock.Anything, paymentID).Return(&entities.Payment{ID: paymentID, MerchantID: merchantID, Status: entities.PaymentStatusSucceeded, Amount: 1000}, nil)
	refunds.On("SumSucceededByPayment", mock.Anything, paymentID).Return(int64(0), nil)
	refunds.On("Create", mock.Anything, mock.AnythingOfType("*entities.Refund")).Return(nil)
	refunds.On("Update", mock.Anything, mock.AnythingOfType("*entities.Refund")).Return(nil)
	outbox.On("Create", mock.Anything, mock.AnythingOfType("*entities.Outbox")).Return(nil)

	got, err := svc.CreateRefund(context.Background(), merchantID, &entities.CreateRefundRequest{PaymentID: paymentID, Amount: 400})
	require.NoError(t, err)
	require.Equal(t, entities.RefundStatusSucceeded, got.Status)
	require.Equal(t, "re_99", got.ProviderRefundID.String)
	outbox.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*entities.Outbox"))
}

func TestRefundService_CreateRefund_GatewayFailureStillRecordsOutcome(t *testing.T) {
	gw := &stubGateway{name: "mock", refundErr: domainerrors.Gateway("GATEWAY_REFUND_FAILED", "provider rejected refund", 502, nil)}
	svc, payments, refunds, outbox := newRefundServiceForTest(gw)

	merchantID := uuid.New()
	paymentID := uuid.New()
	payments.On("GetByID", mock.Anything, paymentID).Return(&entities.Payment{ID: paymentID, MerchantID: merchantID, Status: entities.PaymentStatusSucceeded, Amount: 1000}, nil)
	refunds.On("SumSucceededByPayment", mock.Anything, paymentID).Return(int64(0), nil)
	refunds.On("Create", mock.Anything, mock.AnythingOfType("*entities.Refund")).Return(nil)
	refunds.On("Update", mock.Anything, mock.AnythingOfType("*entities.Refund")).Return(nil)
	outbox.On("Create", mock.Anything, mock.AnythingOfType("*entities.Outbox")).Return(nil)

	_, err := svc.CreateRefund(context.Background(), merchantID, &entities.CreateRefundRequest{PaymentID: paymentID})
	require.Error(t, err)
	fault, ok := domainerrors.AsFault(err)
	require.True(t, ok)
	require.Equal(t, "GatewayFault", fault.Kind)
	refunds.AssertCalled(t, "Update", mock.Anything, mock.AnythingOfType("*entities.Refund"))
}
