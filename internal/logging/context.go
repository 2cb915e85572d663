package logging

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger carried by ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}

// WithRun tags logger with runID, stores it in ctx and returns both.
func WithRun(ctx context.Context, logger *zap.Logger, runID string) (context.Context, *zap.Logger) {
	logger = logger.With(zap.String(FieldRunID, runID))
	return WithLogger(ctx, logger), logger
}

// WithTarget adds the tenant and, when set, the application profile to the
// context logger.
func WithTarget(ctx context.Context, tenant, app string) context.Context {
	fields := []zap.Field{zap.String(FieldTenant, tenant)}
	if app != "" {
		fields = append(fields, zap.String(FieldAppProfile, app))
	}
	return WithLogger(ctx, FromContext(ctx).With(fields...))
}
