package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"openpayflow/pkg/logger"
)

// Logger logs each request's method, path, status, and latency via the
// structured zap logger, matching the teacher's middleware/logger.go.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
