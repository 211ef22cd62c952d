// Package logger wraps zap construction so the rest of the application
// receives a configured *zap.Logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger holds the application logger instance.
type Logger struct {
	// Log is the underlying zap logger.
	Log *zap.Logger
}

// New returns a Logger with a no-op zap instance; call Init to configure it.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init configures the logger at the given level ("Debug", "Info", "Warn",
// "Error"). It replaces the underlying zap instance.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = logger
	return nil
}
