package logger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides structured logging tagged with the emitting component
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
	// With returns a logger that adds fields to every entry.
	With(fields map[string]interface{}) Logger
}

// ParseLevel maps a config level name onto a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// NoOpLogger discards everything
type NoOpLogger struct{}

func (NoOpLogger) Debug(component, message string, fields map[string]interface{})   {}
func (NoOpLogger) Info(component, message string, fields map[string]interface{})    {}
func (NoOpLogger) Warning(component, message string, fields map[string]interface{}) {}
func (NoOpLogger) Error(component string, err error, fields map[string]interface{}) {}
func (n NoOpLogger) With(fields map[string]interface{}) Logger                      { return n }
