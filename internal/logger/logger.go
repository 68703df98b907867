// Package logger provides logging utilities built on the bullets library.
//
// It wraps [bullets.Logger] with convenience constructors for creating
// loggers at various levels and a silent logger for tests.
//
// Usage:
//
//	log := logger.NewLogger("debug")
//	log.Debug("Starting operation")
//
//	silentLog := logger.NoLogger() // Suppresses all output
package logger

import (
	"os"

	"github.com/sgaunet/bullets"
)

// ParseLevel maps a configuration string onto a bullets level. Unknown
// values default to info.
func ParseLevel(logLevel string) bullets.Level {
	switch logLevel {
	case "debug":
		return bullets.DebugLevel
	case "info":
		return bullets.InfoLevel
	case "warn":
		return bullets.WarnLevel
	case "error":
		return bullets.ErrorLevel
	default:
		return bullets.InfoLevel
	}
}

// NewLogger creates a new logger that writes to stdout at the specified
// level ("debug", "info", "warn" or "error").
func NewLogger(logLevel string) *bullets.Logger {
	logger := bullets.New(os.Stdout)
	logger.SetLevel(ParseLevel(logLevel))
	return logger
}

// NoLogger creates a logger that suppresses all output by setting the level
// to Fatal. Useful for tests and silent operation.
func NoLogger() *bullets.Logger {
	logger := bullets.New(os.Stdout)
	logger.SetLevel(bullets.FatalLevel)
	return logger
}
