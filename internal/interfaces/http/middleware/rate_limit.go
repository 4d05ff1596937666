package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/interfaces/http/response"
)

// RateLimiter keys a token-bucket limiter per merchant API key (falling
// back to client IP before authentication runs).
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	max      int
	window   time.Duration
}

func NewRateLimiter(max int, windowMS int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		max:      max,
		window:   time.Duration(windowMS) * time.Millisecond,
	}
}

func (r *RateLimiter) limiterFor(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters[key]
	if !ok {
		ratePerSec := rate.Limit(float64(r.max) / r.window.Seconds())
		l = rate.NewLimiter(ratePerSec, r.max)
		r.limiters[key] = l
	}
	return l
}

// Middleware keys by merchantApiKey query param when present, else client IP.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("merchantApiKey")
		if key == "" {
			key = c.ClientIP()
		}

		if !r.limiterFor(key).Allow() {
			response.Error(c, domainerrors.ValidationStatus("RATE_LIMIT_EXCEEDED", "too many requests", http.StatusTooManyRequests))
			c.Abort()
			return
		}
		c.Next()
	}
}
