// shared/pkg/logger/logger.go
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New picks the console logger for APP_ENV=development and the JSON logger otherwise.
func New(serviceName, env, level string) (*zap.Logger, error) {
	if strings.EqualFold(env, "development") {
		return NewDevelopmentLogger(serviceName, level)
	}
	return NewLogger(serviceName, level)
}

// NewLogger creates a new structured logger at the given level ("debug", "info", ...).
// An empty level means info.
func NewLogger(serviceName, level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.InitialFields = map[string]interface{}{
		"service": serviceName,
	}

	lvl, err := parseLevel(level, zapcore.InfoLevel)
	if err != nil {
		return nil, err
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	return config.Build()
}

// NewDevelopmentLogger writes colored console lines. An empty level means debug.
func NewDevelopmentLogger(serviceName, level string) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.InitialFields = map[string]interface{}{
		"service": serviceName,
	}

	lvl, err := parseLevel(level, zapcore.DebugLevel)
	if err != nil {
		return nil, err
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	return config.Build()
}

func parseLevel(level string, fallback zapcore.Level) (zapcore.Level, error) {
	if level == "" {
		return fallback, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fallback, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
