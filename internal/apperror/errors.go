// Package apperror defines the error taxonomy shared by the ingestion,
// storage and reporting layers.
package apperror

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable is the sentinel wrapped by StoreUnavailableError.
var ErrStoreUnavailable = errors.New("store unavailable")

// SourceNotFoundError is returned when an import source file does not exist.
type SourceNotFoundError struct {
	Path string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source file '%s' not found", e.Path)
}

func (e *SourceNotFoundError) Unwrap() error {
	return e.Err
}

// SourceMalformedError reports a row or layout that could not be parsed.
// RawContent holds the offending content as read from the file.
type SourceMalformedError struct {
	Path       string
	Line       int
	RawContent string
	Reason     string
}

func (e *SourceMalformedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed source '%s' at line %d: %s. Content: '%s'",
			e.Path, e.Line, e.Reason, e.RawContent)
	}
	if e.RawContent != "" {
		return fmt.Sprintf("malformed source '%s': %s. Content: '%s'", e.Path, e.Reason, e.RawContent)
	}
	return fmt.Sprintf("malformed source '%s': %s", e.Path, e.Reason)
}

// StoreUnavailableError is returned when the persistent store cannot answer
// a lookup, typically because it has not been initialized yet.
type StoreUnavailableError struct {
	Operation string
	Err       error
}

func (e *StoreUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store unavailable during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("store unavailable during %s", e.Operation)
}

// Is makes errors.Is(err, ErrStoreUnavailable) hold for every StoreUnavailableError.
func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// ValidationError represents input rejected at an interface boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParseError represents a single field that failed to parse.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsExpected reports whether err belongs to the conditions the ingestion
// boundary turns into a status message instead of a failure.
func IsExpected(err error) bool {
	var notFound *SourceNotFoundError
	var malformed *SourceMalformedError
	var validation *ValidationError
	return errors.As(err, &notFound) || errors.As(err, &malformed) || errors.As(err, &validation)
}
