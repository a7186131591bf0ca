package logging

import (
	"context"

	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/core"
)

// AttemptLogger records remote inference attempts as structured log entries
type AttemptLogger struct {
	logger *zap.Logger
}

// NewAttemptLogger creates an AttemptLogger
func NewAttemptLogger(logger *zap.Logger) *AttemptLogger {
	return &AttemptLogger{logger: logger.Named("inference")}
}

// Record implements core.AttemptRecorder
func (l *AttemptLogger) Record(_ context.Context, a core.Attempt) {
	fields := []zap.Field{
		zap.String("company", a.Company),
		zap.String("endpoint", a.Endpoint),
		zap.Int("status", a.StatusCode),
		zap.Duration("duration", a.Duration),
	}
	if a.Succeeded() {
		l.logger.Info("Endpoint answered", fields...)
		return
	}
	l.logger.Warn("Endpoint failed", append(fields, zap.Error(a.Err))...)
}
