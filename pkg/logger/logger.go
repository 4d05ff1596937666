package logger

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger
	once sync.Once
)

type ContextKey string

const CorrelationIDKey ContextKey = "correlation_id"

// Init builds the process-wide zap logger. env == "development" switches to
// a human-readable console encoder; anything else gets the JSON production
// encoder used in deployed environments.
func Init(env string) {
	once.Do(func() {
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		if env == "development" {
			config = zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		built, err := config.Build(zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
		log = built
	})
}

// GetLogger returns the underlying zap logger, mainly for wiring into gin.
func GetLogger() *zap.Logger {
	return log
}

// WithContext attaches the request's correlation id, if any, to every field
// logged from this call site.
func WithContext(ctx context.Context) *zap.Logger {
	if ctx == nil || log == nil {
		return log
	}
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok && id != "" {
		return log.With(zap.String("correlation_id", id))
	}
	return log
}

func Info(ctx context.Context, msg string, fields ...zap.Field)  { WithContext(ctx).Info(msg, fields...) }
func Error(ctx context.Context, msg string, fields ...zap.Field) { WithContext(ctx).Error(msg, fields...) }
func Debug(ctx context.Context, msg string, fields ...zap.Field) { WithContext(ctx).Debug(msg, fields...) }
func Warn(ctx context.Context, msg string, fields ...zap.Field)  { WithContext(ctx).Warn(msg, fields...) }

// LogRequest logs one completed HTTP request, matching the teacher's
// pkg/logger.LogRequest shape.
func LogRequest(ctx context.Context, method, path string, status int, latency time.Duration, clientIP string) {
	WithContext(ctx).Info("http request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("client_ip", clientIP),
	)
}
