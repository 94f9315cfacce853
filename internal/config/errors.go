package config

import (
	"errors"
	"fmt"
)

var (
	ErrExportPair      = errors.New("--export-file and --frames-per-second must be given together")
	ErrNonPositiveFPS  = errors.New("frames per second must be a positive finite number")
	ErrAnimationFormat = errors.New("animations are written as .gif")
	ErrEmptyValue      = errors.New("value must not be empty")
	ErrNegative        = errors.New("value must not be negative")
)

// ConfigurationError rejects a setting before any session state is built.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
