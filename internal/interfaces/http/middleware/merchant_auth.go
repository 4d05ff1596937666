package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/interfaces/http/response"
	"openpayflow/internal/usecases"
)

// MerchantContextKey is the gin context key the authenticated entities.Merchant is stored under.
const MerchantContextKey = "merchant"

// MerchantAuth resolves merchantApiKey (query param or JSON body field, per
// spec.md §6's per-route table) into an entities.Merchant and stores it in
// the gin context for handlers to read back. ShouldBindBodyWith caches the
// body so handlers can still bind their own request DTO afterward.
func MerchantAuth(payments *usecases.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.Query("merchantApiKey")
		if apiKey == "" {
			var body struct {
				MerchantAPIKey string `json:"merchantApiKey"`
			}
			if err := c.ShouldBindBodyWith(&body, binding.JSON); err == nil {
				apiKey = body.MerchantAPIKey
			}
		}
		if apiKey == "" {
			response.Error(c, domainerrors.Auth("INVALID_API_KEY", "merchantApiKey is required"))
			c.Abort()
			return
		}

		merchant, err := payments.AuthenticateMerchant(c.Request.Context(), apiKey)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(MerchantContextKey, merchant)
		c.Next()
	}
}

// MerchantFrom reads back the merchant MerchantAuth attached to the context.
func MerchantFrom(c *gin.Context) *entities.Merchant {
	v, ok := c.Get(MerchantContextKey)
	if !ok {
		return nil
	}
	m, _ := v.(*entities.Merchant)
	return m
}
