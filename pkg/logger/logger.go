// Package logger builds the zap loggers handed to gridbox packages.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New returns a logger for mode: "dev" / "development" (the default),
// "prod" / "production" for JSON output, or "nop" / "off" to discard
// everything. An empty level keeps the mode's default (debug for
// development, info for production).
func New(mode, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "nop", "off", "none":
		return zap.NewNop(), nil
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	case "", "dev", "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("logger: unknown mode %q", mode)
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		cfg.Level = lvl
	}

	// CLI output goes to stdout; logs stay on stderr.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}
	return l, nil
}

// Sync flushes l, ignoring the error zap reports for unsyncable stderr.
func Sync(l *zap.Logger) {
	if l != nil {
		_ = l.Sync()
	}
}
