package logger

import (
	"context"

	"go.uber.org/zap"
)

// S returns the global sugared logger for printf-style call sites.
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// SFrom returns the request-scoped sugared logger.
func SFrom(ctx context.Context) *zap.SugaredLogger {
	return From(ctx).Sugar()
}
