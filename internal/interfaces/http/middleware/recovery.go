package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/interfaces/http/response"
	"openpayflow/pkg/logger"
)

// Recovery turns a panic in any handler into a sanitized InternalFault
// response instead of crashing the process, the gin-idiomatic replacement
// for an unrecovered goroutine panic.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request.Context(), "panic recovered in http handler", zap.Any("panic", r))
				response.Error(c, domainerrors.Internal(fmt.Errorf("%v", r)))
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
