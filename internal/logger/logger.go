// Package logger builds the service's zap logger from LOG_LEVEL and LOG_FORMAT.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger at level writing in format. "console" (or "text")
// selects the human-readable encoder; any other format, including an unknown
// one, gets JSON so deployed logs stay machine-readable. An unparseable level
// means info.
func New(level, format string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console", "text":
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
