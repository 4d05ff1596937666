package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/interfaces/http/middleware"
	"openpayflow/internal/interfaces/http/response"
	"openpayflow/internal/usecases"
)

// RefundHandler implements POST /v1/refunds.
type RefundHandler struct {
	refunds *usecases.RefundService
}

func NewRefundHandler(refunds *usecases.RefundService) *RefundHandler {
	return &RefundHandler{refunds: refunds}
}

func (h *RefundHandler) Create(c *gin.Context) {
	merchant := middleware.MerchantFrom(c)

	var req entities.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.Validation("INVALID_REQUEST", err.Error()))
		return
	}

	refund, err := h.refunds.CreateRefund(c.Request.Context(), merchant.ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, refund)
}
