package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"openpayflow/internal/config"
	domainrepos "openpayflow/internal/domain/repositories"
	"openpayflow/internal/interfaces/http/handlers"
	"openpayflow/internal/interfaces/http/middleware"
	"openpayflow/internal/usecases"
)

// Dependencies bundles everything the router needs to wire handlers,
// mirroring the teacher's router construction that takes already-built
// services rather than building them itself.
type Dependencies struct {
	DB        *gorm.DB
	Redis     *redis.Client
	StartedAt time.Time

	RateLimit config.RateLimitConfig

	Payments  *usecases.PaymentService
	Refunds   *usecases.RefundService
	Endpoints *usecases.WebhookEndpointService

	RefundRepo domainrepos.RefundRepository
}

// NewRouter builds the gin engine and mounts every /v1 route from spec.md §6.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())

	health := handlers.NewHealthHandler(deps.DB, deps.Redis, deps.StartedAt)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	limiter := middleware.NewRateLimiter(deps.RateLimit.Max, deps.RateLimit.WindowMS)
	auth := middleware.MerchantAuth(deps.Payments)

	paymentHandler := handlers.NewPaymentHandler(deps.Payments, deps.RefundRepo)
	refundHandler := handlers.NewRefundHandler(deps.Refunds)
	endpointHandler := handlers.NewWebhookEndpointHandler(deps.Endpoints)

	v1 := r.Group("/v1")
	v1.Use(limiter.Middleware())
	v1.Use(auth)
	{
		v1.POST("/payments", paymentHandler.Create)
		v1.GET("/payments/:id", paymentHandler.Get)
		v1.GET("/payments", paymentHandler.List)

		v1.POST("/refunds", refundHandler.Create)

		v1.POST("/webhook-endpoints", endpointHandler.Create)
		v1.GET("/webhook-endpoints", endpointHandler.List)
		v1.GET("/webhook-endpoints/:id", endpointHandler.Get)
		v1.PATCH("/webhook-endpoints/:id", endpointHandler.Update)
		v1.DELETE("/webhook-endpoints/:id", endpointHandler.Delete)
	}

	return r
}
