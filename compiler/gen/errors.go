package gen

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConfig matches every ConfigError.
	ErrMissingConfig = errors.New("bridge: missing configuration")
	// ErrGenerationFailed matches every GenerationError.
	ErrGenerationFailed = errors.New("bridge: code generation failed")
)

// ConfigError reports an invalid generator option.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// NewConfigError returns a ConfigError for the option.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("bridge: config error for %q: %s", e.Option, e.Message)
	}
	return fmt.Sprintf("bridge: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
}

func (e *ConfigError) Is(target error) bool { return target == ErrMissingConfig }

// GenerationError reports a failure to generate or write the file of
// an entity.
type GenerationError struct {
	Entity  string
	File    string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	msg := "bridge: generation error"
	if e.Entity != "" {
		msg += " on entity " + e.Entity
	}
	if e.File != "" {
		msg += " (file: " + e.File + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Cause }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }
