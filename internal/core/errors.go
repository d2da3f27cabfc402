package core

import (
	"errors"
	"fmt"
	"strings"
)

// NotSupportedError indicates a translation pair absent from the pair
// mapping. Surfaced to clients as an unprocessable-entity error.
type NotSupportedError struct {
	Pair      string
	Supported []string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf(
		"translation pair '%s' is not supported, available pairs: %s",
		e.Pair, strings.Join(e.Supported, ", "),
	)
}

// FetchError indicates that retrieving model artifacts from the remote
// store failed. Surfaced as a server error, never retried.
type FetchError struct {
	Pair  string
	Cause error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetching artifacts for '%s' failed: %v", e.Pair, e.Cause)
	}
	return fmt.Sprintf("fetching artifacts for '%s' failed", e.Pair)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// LoadError indicates that local artifacts are missing or corrupt, or
// that the runtime refused to load them. Surfaced as a server error.
type LoadError struct {
	Pair  string
	Cause error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("loading model for '%s' failed: %v", e.Pair, e.Cause)
	}
	return fmt.Sprintf("loading model for '%s' failed", e.Pair)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// IsNotSupported reports whether err is a NotSupportedError.
func IsNotSupported(err error) bool {
	var nse *NotSupportedError
	return errors.As(err, &nse)
}
