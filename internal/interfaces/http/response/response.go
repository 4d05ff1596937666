// Package response renders the {success, data|error} envelope every /v1
// handler returns, generalizing the teacher's response.Success/Error helpers
// onto the Fault taxonomy in internal/domain/errors.
package response

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/pkg/logger"
)

// CorrelationIDContextKey is the gin context key middleware.RequestID stores
// the per-request correlation id under.
const CorrelationIDContextKey = "correlation_id"

func errField(err error) zap.Field { return zap.Error(err) }

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func List(c *gin.Context, status int, data interface{}, total, limit, offset int) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
		"pagination": gin.H{
			"total":   total,
			"limit":   limit,
			"offset":  offset,
			"hasMore": offset+limit < total,
		},
	})
}

// Error translates err into the error envelope. Anything that is not a
// *errors.Fault is wrapped as InternalFault and logged with its correlation
// id, never leaking the underlying message to the caller.
func Error(c *gin.Context, err error) {
	fault, ok := domainerrors.AsFault(err)
	if !ok {
		fault = domainerrors.Internal(err)
		logger.Error(c.Request.Context(), "unhandled error reached http boundary", errField(err))
	}

	correlationID, _ := c.Get(CorrelationIDContextKey)
	c.JSON(fault.HTTPStatus, gin.H{
		"success": false,
		"error": gin.H{
			"code":          fault.Code,
			"message":       fault.Message,
			"correlationId": correlationID,
		},
	})
}
