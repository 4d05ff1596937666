package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	domainrepos "openpayflow/internal/domain/repositories"
	"openpayflow/internal/interfaces/http/middleware"
	"openpayflow/internal/interfaces/http/response"
	"openpayflow/internal/usecases"
	"openpayflow/pkg/pagination"
)

// PaymentHandler implements POST/GET /v1/payments.
type PaymentHandler struct {
	payments *usecases.PaymentService
	refunds  domainrepos.RefundRepository
}

func NewPaymentHandler(payments *usecases.PaymentService, refunds domainrepos.RefundRepository) *PaymentHandler {
	return &PaymentHandler{payments: payments, refunds: refunds}
}

func (h *PaymentHandler) Create(c *gin.Context) {
	merchant := middleware.MerchantFrom(c)

	var req entities.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.Validation("INVALID_REQUEST", err.Error()))
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")
	payment, err := h.payments.CreatePayment(c.Request.Context(), merchant, &req, idempotencyKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, payment)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	merchant := middleware.MerchantFrom(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("INVALID_PAYMENT_ID", "payment id must be a uuid"))
		return
	}

	payment, err := h.payments.GetPayment(c.Request.Context(), merchant.ID, id, h.refunds)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, payment)
}

func (h *PaymentHandler) List(c *gin.Context) {
	merchant := middleware.MerchantFrom(c)

	limit, offset := pagination.Parse(c.Query("limit"), c.Query("offset"))
	filter := domainrepos.PaymentFilter{
		Status:  entities.PaymentStatus(c.Query("status")),
		Gateway: entities.Gateway(c.Query("gateway")),
		Limit:   limit,
		Offset:  offset,
	}
	if t, err := time.Parse(time.RFC3339, c.Query("startDate")); err == nil {
		filter.StartDate = &t
	}
	if t, err := time.Parse(time.RFC3339, c.Query("endDate")); err == nil {
		filter.EndDate = &t
	}

	payments, total, err := h.payments.ListPayments(c.Request.Context(), merchant.ID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, http.StatusOK, payments, total, limit, offset)
}
