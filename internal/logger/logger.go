package logger

import (
	"fmt"
)

// Logging levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Environments the service may run in
// Production logs JSON, development logs human readable text
const (
	EnvProduction  = "prod"
	EnvDevelopment = "dev"
)

// Logger is the logging contract used across the service
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) Logger
}

// New creates a logger for the given environment and level
func New(environment string, level string) (Logger, error) {
	switch environment {
	case EnvProduction:
		return newSlogLogger(jsonHandler(level)), nil
	case EnvDevelopment:
		return newSlogLogger(textHandler(level)), nil
	default:
		return nil, fmt.Errorf("unknown environment: %q", environment)
	}
}

// NewNoOpLogger creates a logger that discards everything
// Useful in tests
func NewNoOpLogger() Logger {
	return newSlogLogger(discardHandler())
}
