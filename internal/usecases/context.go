package usecases

import (
	"context"

	"go.uber.org/zap"

	"openpayflow/pkg/logger"
)

// correlationIDFrom reads the request correlation id the middleware attaches
// to ctx, for inclusion in outbox payloads so downstream consumers can
// stitch a delivery back to the request that produced it.
func correlationIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(logger.CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

func zapErrField(err error) zap.Field {
	return zap.Error(err)
}
