// Package errors provides centralized error definitions and error handling
// utilities for the scopedump codebase. It defines domain-specific errors,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - ProtocolError: a register protocol operation returned a failure status
//   - ManifestError: the tap manifest could not be read or parsed
//   - ValidationError: manifest contents or device state failed validation
//
// Sentinel errors represent common error conditions:
//   - ErrNilTransport: no register transport was supplied
//   - ErrManifestNotFound: the manifest file does not exist
//   - ErrWidthMismatch: device-reported tap width disagrees with the manifest
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewProtocolError("read register", baseErr).WithTap(3)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrWidthMismatch) { ... }
//
//	var protoErr *errors.ProtocolError
//	if errors.As(err, &protoErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Transport and session sentinel errors
var (
	// ErrNilTransport indicates that no register transport was supplied.
	ErrNilTransport = New("register transport is nil")
	// ErrSessionStopped indicates that an operation requires a running session.
	ErrSessionStopped = New("session is not running")
	// ErrSessionRunning indicates that a capture session is already running.
	ErrSessionRunning = New("session already running")
)

// Manifest sentinel errors
var (
	// ErrManifestNotFound indicates that the manifest file could not be opened.
	ErrManifestNotFound = New("manifest file not found")
	// ErrManifestInvalid indicates that the manifest file could not be parsed.
	ErrManifestInvalid = New("manifest file is invalid")
)

// Validation sentinel errors
var (
	// ErrWidthMismatch indicates that a device-reported tap width disagrees
	// with the width declared in the manifest.
	ErrWidthMismatch = New("tap width mismatch")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message string
	cause   error
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// ProtocolError represents a register protocol operation that returned a
// failure status from the transport. Protocol errors are never retried; the
// surrounding capture or dump operation aborts on the first one.
//
// Example:
//
//	err := errors.NewProtocolError("get count", baseErr).WithTap(3)
//	fmt.Println(err) // "protocol error [tap=3]: get count: ..."
type ProtocolError struct {
	baseError
	Op    string
	TapID uint32
	hasID bool
}

// NewProtocolError creates a new ProtocolError for the named operation.
func NewProtocolError(op string, cause error) *ProtocolError {
	return &ProtocolError{
		baseError: baseError{
			message: op,
			cause:   cause,
		},
		Op: op,
	}
}

// WithTap adds the tap id the operation was addressed to.
func (e *ProtocolError) WithTap(id uint32) *ProtocolError {
	e.TapID = id
	e.hasID = true
	return e
}

// Error returns the formatted error message.
func (e *ProtocolError) Error() string {
	prefix := "protocol error"
	if e.hasID {
		prefix = fmt.Sprintf("protocol error [tap=%d]", e.TapID)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Op, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Op)
}

// Is checks if this error matches the target.
func (e *ProtocolError) Is(target error) bool {
	if _, ok := target.(*ProtocolError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ManifestError represents a failure to read or parse the tap manifest.
//
// Example:
//
//	err := errors.NewManifestError("cannot open manifest", cause).WithPath(path)
type ManifestError struct {
	baseError
	Path string
}

// NewManifestError creates a new ManifestError.
func NewManifestError(message string, cause error) *ManifestError {
	return &ManifestError{
		baseError: baseError{
			message: message,
			cause:   cause,
		},
	}
}

// WithPath adds the manifest file path to the error context.
func (e *ManifestError) WithPath(path string) *ManifestError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *ManifestError) Error() string {
	prefix := "manifest error"
	if e.Path != "" {
		prefix = fmt.Sprintf("manifest error [path=%s]", e.Path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ManifestError) Is(target error) bool {
	if _, ok := target.(*ManifestError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid manifest contents or configuration
// drift between the manifest and the device.
//
// Example:
//
//	err := errors.NewValidationError("signal widths do not sum to tap width")
//	err = err.WithField("width").WithValue(12)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message: message,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsProtocol returns true if the error originated from a register protocol
// operation. Callers use this to distinguish device failures from bad input.
func IsProtocol(err error) bool {
	if err == nil {
		return false
	}
	var protoErr *ProtocolError
	return As(err, &protoErr)
}

// IsValidation returns true if the error represents invalid input or
// configuration drift rather than a device failure.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}
	var validationErr *ValidationError
	var manifestErr *ManifestError
	return As(err, &validationErr) || As(err, &manifestErr)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with an additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to drain tap")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to drain tap %d", tapID)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
