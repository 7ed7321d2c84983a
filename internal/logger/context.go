package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// Into returns a copy of ctx carrying l.
func Into(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// From returns the logger carried by ctx. Outside a request it is a no-op logger.
func From(ctx context.Context) *zap.Logger {
	l, _ := ctx.Value(loggerKey{}).(*zap.Logger)
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// With derives a child of the carried logger and returns it with the context holding it.
func With(ctx context.Context, fields ...zap.Field) (context.Context, *zap.Logger) {
	l := From(ctx).With(fields...)
	return Into(ctx, l), l
}
