package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"openpayflow/internal/interfaces/http/response"
	pkglogger "openpayflow/pkg/logger"
)

// RequestID echoes X-Request-Id if present, otherwise generates one, and
// attaches it to both the gin context (for response.Error) and the request's
// Go context (for pkg/logger.WithContext), mirroring the teacher's
// middleware/request_id.go.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(response.CorrelationIDContextKey, id)

		ctx := context.WithValue(c.Request.Context(), pkglogger.CorrelationIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}
