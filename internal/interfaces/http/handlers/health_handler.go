package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler implements GET /healthz and GET /readyz.
type HealthHandler struct {
	db        *gorm.DB
	redis     *redis.Client
	startedAt time.Time
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, startedAt time.Time) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb, startedAt: startedAt}
}

// Healthz reports liveness only: the process is up and serving.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startedAt).String(),
	})
}

// Readyz reports readiness: every dependency this process needs must answer.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := gin.H{}
	ready := true

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		deps["database"] = false
		ready = false
	} else {
		deps["database"] = true
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		deps["redis"] = false
		ready = false
	} else {
		deps["redis"] = true
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":       map[bool]string{true: "ready", false: "not_ready"}[ready],
		"dependencies": deps,
	})
}
