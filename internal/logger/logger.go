// Package logger builds the service's zap logger and carries request-scoped
// loggers through contexts.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// presets maps each environment to its base configuration. prod logs JSON
// at info; the rest log colored console output at debug.
var presets = map[string]func() zap.Config{
	"prod":   zap.NewProductionConfig,
	"local":  console,
	"dev":    console,
	"docker": console,
}

func console() zap.Config {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// NewLogger builds the logger for env ("test" discards everything). A
// non-empty level overrides the preset's.
func NewLogger(env, level string) (*zap.Logger, error) {
	if env == "test" {
		return zap.NewNop(), nil
	}
	preset, ok := presets[env]
	if !ok {
		return nil, fmt.Errorf("logger: unknown environment %q", env)
	}
	cfg := preset()

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("logger: level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}
	return l.Named("bioquery"), nil
}
