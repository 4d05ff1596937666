package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/interfaces/http/middleware"
	"openpayflow/internal/interfaces/http/response"
	"openpayflow/internal/usecases"
)

// WebhookEndpointHandler implements /v1/webhook-endpoints*.
type WebhookEndpointHandler struct {
	endpoints *usecases.WebhookEndpointService
}

func NewWebhookEndpointHandler(endpoints *usecases.WebhookEndpointService) *WebhookEndpointHandler {
	return &WebhookEndpointHandler{endpoints: endpoints}
}

func (h *WebhookEndpointHandler) Create(c *gin.Context) {
	merchant := middleware.MerchantFrom(c)

	var req entities.CreateWebhookEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.Validation("INVALID_REQUEST", err.Error()))
		return
	}

	ep, err := h.endpoints.Create(c.Request.Context(), merchant.ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ep)
}

func (h *WebhookEndpointHandler) List(c *gin.Context) {
	merchant := middleware.MerchantFrom(c)

	eps, err := h.endpoints.List(c.Request.Context(), merchant.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, eps)
}

func (h *WebhookEndpointHandler) Get(c *gin.Context) {
	merchant := middleware.MerchantFrom(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("INVALID_ENDPOINT_ID", "endpoint id must be a uuid"))
		return
	}

	ep, err := h.endpoints.Get(c.Request.Context(), merchant.ID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, ep)
}

func (h *WebhookEndpointHandler) Update(c *gin.Context) {
	merchant := middleware.MerchantFrom(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("INVALID_ENDPOINT_ID", "endpoint id must be a uuid"))
		return
	}

	var body struct {
		URL      *string              `json:"url"`
		Secret   *string              `json:"secret"`
		Events   []entities.EventType `json:"events"`
		IsActive *bool                `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, domainerrors.Validation("INVALID_REQUEST", err.Error()))
		return
	}

	ep, err := h.endpoints.Update(c.Request.Context(), merchant.ID, id, usecases.UpdateFields{
		URL:      body.URL,
		Secret:   body.Secret,
		Events:   body.Events,
		IsActive: body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, ep)
}

func (h *WebhookEndpointHandler) Delete(c *gin.Context) {
	merchant := middleware.MerchantFrom(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("INVALID_ENDPOINT_ID", "endpoint id must be a uuid"))
		return
	}

	if err := h.endpoints.Delete(c.Request.Context(), merchant.ID, id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
