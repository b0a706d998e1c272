// internal/cli/errors.go
package cli

import (
	"errors"
	"fmt"
)

// ConfigError is a missing or invalid command-line input. Apps print it
// together with the usage text and exit 1 before doing any work.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// Configf builds a ConfigError.
func Configf(format string, a ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, a...)}
}

// IsConfig reports whether err is (or wraps) a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
