package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu       sync.RWMutex
	instance *zap.Logger
)

// Init builds the global logger from cfg. It is safe to call more than once;
// later calls replace the instance (useful in tests). Init never panics on a
// bad level: it falls back to a production logger at info.
func Init(cfg Config) {
	log, err := build(cfg)
	if err != nil {
		log, _ = zap.NewProduction()
		log.Warn("logger: falling back to production defaults", zap.Error(err))
	}

	mu.Lock()
	instance = log
	mu.Unlock()
}

// L returns the global logger. If Init was never called it lazily installs a
// production logger so early code paths never receive nil.
func L() *zap.Logger {
	mu.RLock()
	log := instance
	mu.RUnlock()
	if log != nil {
		return log
	}

	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance, _ = zap.NewProduction()
	}
	return instance
}

// Named returns the global logger with a dot-separated name segment appended.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With returns the global logger with extra fields attached.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushes buffered entries. Call it on shutdown; the error is commonly
// ignorable (stderr sync is not supported on every platform).
func Sync() error {
	return L().Sync()
}
