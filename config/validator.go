package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the key of the invalid field
	Path string

	// Message describes the validation error
	Message string
}

// Error returns the error message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects every problem found in a Config.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// ValidateConfig validates the configuration and returns the problems found.
// An empty result indicates the configuration is valid.
func ValidateConfig(config *Config) ValidationErrors {
	var errors ValidationErrors

	switch config.Transport {
	case TransportNet, TransportResty:
	default:
		errors = append(errors, ValidationError{
			Path:    "transport",
			Message: fmt.Sprintf("unknown transport %q, must be one of: %s, %s", config.Transport, TransportNet, TransportResty),
		})
	}

	if config.Timeout <= 0 {
		errors = append(errors, ValidationError{
			Path:    "timeout",
			Message: "timeout must be positive",
		})
	}

	if _, err := zapcore.ParseLevel(config.LogLevel); err != nil {
		errors = append(errors, ValidationError{
			Path:    "log_level",
			Message: fmt.Sprintf("unknown level %q", config.LogLevel),
		})
	}

	for name := range config.Headers {
		if strings.TrimSpace(name) == "" {
			errors = append(errors, ValidationError{
				Path:    "headers",
				Message: "header name cannot be empty",
			})
		}
	}

	return errors
}
