package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls how the singleton logger is built.
type Config struct {
	// Env selects the encoder: "dev" for colored console, "prod" for JSON.
	// Unknown values behave like "prod".
	Env string

	// Level is the minimum level to emit: debug, info, warn, error.
	// Empty defaults to info.
	Level string

	// ServiceName is attached to every entry as "service".
	ServiceName string

	// Version is attached to every entry as "version" when non-empty.
	Version string
}

func (c Config) withDefaults() Config {
	if c.Env == "" {
		c.Env = "prod"
	}
	if c.Level == "" {
		c.Level = "info"
	}
	if c.ServiceName == "" {
		c.ServiceName = "socialgate"
	}
	return c
}

func build(cfg Config) (*zap.Logger, error) {
	cfg = cfg.withDefaults()

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if cfg.Env == "dev" {
		zcfg = buildDev(level)
	} else {
		zcfg = buildProd(level)
	}

	log, err := zcfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}

	fields := []zap.Field{zap.String("service", cfg.ServiceName)}
	if cfg.Version != "" {
		fields = append(fields, zap.String("version", cfg.Version))
	}
	return log.With(fields...), nil
}

func buildDev(level zapcore.Level) zap.Config {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg
}

func buildProd(level zapcore.Level) zap.Config {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg
}

func parseLevel(s string) (zapcore.Level, error) {
	switch s {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logger: unknown level %q", s)
	}
}
