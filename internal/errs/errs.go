// Package errs defines the sentinel error markers the engine classifies
// failures with, and a helper for wrapping component context around a
// cause while preserving the marker for errors.Is checks.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInput       = errors.New("input error")
	ErrConsistency = errors.New("consistency error")
	ErrIO          = errors.New("io error")
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
)

// Wrap builds an error message that includes component context while
// tagging it with the provided marker for later classification. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps an error to the process exit status: input and
// validation problems are the caller's to fix (2), everything else is an
// engine failure (1).
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInput), errors.Is(err, ErrValidation):
		return 2
	default:
		return 1
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "engine failure"
	}
	return strings.Join(parts, ": ")
}
