// internal/utils/errors.go

// Package utils provides structured error handling and logging
// shared by the driver and extraction layers.
package utils

import (
	"errors"
	"fmt"
	"time"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorCode represents predefined error codes for categorization
type ErrorCode string

const (
	// Configuration related errors
	ErrCodeEmptyQuery            ErrorCode = "CONFIG_EMPTY_QUERY"
	ErrCodeUnsupportedDriver     ErrorCode = "UNSUPPORTED_DRIVER"
	ErrCodeUnsupportedCapability ErrorCode = "UNSUPPORTED_CAPABILITY"
	ErrCodeInvalidConfig         ErrorCode = "INVALID_CONFIG"

	// Network related errors
	ErrCodeNetworkTimeout ErrorCode = "NETWORK_TIMEOUT"
	ErrCodeNetworkStatus  ErrorCode = "NETWORK_STATUS"
	ErrCodeNetworkFailure ErrorCode = "NETWORK_FAILURE"

	// Extraction related conditions
	ErrCodeExtractionMiss   ErrorCode = "EXTRACTION_MISS"
	ErrCodeStructureChanged ErrorCode = "UPSTREAM_STRUCTURE_CHANGED"

	// Assistant related errors
	ErrCodeAssistFailed ErrorCode = "ASSIST_FAILED"

	// Generic errors
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StructuredError carries an error code, severity and context so callers
// can map failures onto the configuration/network/extraction taxonomy
// without string matching.
type StructuredError struct {
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	Severity    ErrorSeverity          `json:"severity"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Cause       error                  `json:"-"`
	Timestamp   time.Time              `json:"timestamp"`
	Retryable   bool                   `json:"retryable"`
	UserMessage string                 `json:"user_message,omitempty"`
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error unwrapping
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is matches structured errors by code
func (e *StructuredError) Is(target error) bool {
	if se, ok := target.(*StructuredError); ok {
		return e.Code == se.Code
	}
	return false
}

// WithContext adds contextual information to the error
func (e *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// WithSeverity sets the error severity
func (e *StructuredError) WithSeverity(severity ErrorSeverity) *StructuredError {
	e.Severity = severity
	return e
}

// WithUserMessage sets a user-friendly error message
func (e *StructuredError) WithUserMessage(message string) *StructuredError {
	e.UserMessage = message
	return e
}

// NewError creates a new structured error with the given code and message
func NewError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Timestamp: time.Now(),
	}
}

// NewErrorf creates a new structured error with a formatted message
func NewErrorf(code ErrorCode, format string, args ...interface{}) *StructuredError {
	return NewError(code, fmt.Sprintf(format, args...))
}

// CodeOf extracts the error code from an error chain, or ErrCodeInternal
// when the chain carries no structured error
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsConfigurationError reports whether the error belongs to the
// configuration branch of the taxonomy (rejected call, never retried)
func IsConfigurationError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeEmptyQuery, ErrCodeUnsupportedDriver, ErrCodeUnsupportedCapability, ErrCodeInvalidConfig:
		return true
	}
	return false
}

// IsNetworkError reports whether the error belongs to the network branch
// of the taxonomy
func IsNetworkError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeNetworkTimeout, ErrCodeNetworkStatus, ErrCodeNetworkFailure:
		return true
	}
	return false
}
