package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is a generic sentinel for invalid input. Rejected
	// before any query is issued.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamUnavailable marks failures of external collaborators
	// (embedding provider, cache).
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Invalidf wraps ErrInvalidArgument with a descriptive message that includes
// the offending value and the configured bound.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a descriptive message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
