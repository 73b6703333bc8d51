// Package errors defines the structured error type shared by discovery,
// configuration and output writing.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

// Error categories.
const (
	ErrorTypeResolution  ErrorType = "resolution"
	ErrorTypeTraversal   ErrorType = "traversal"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeIO          ErrorType = "io"
	ErrorTypeUnsupported ErrorType = "unsupported"
)

// Error codes used across the module.
const (
	CodeResolve  = "ERR_RESOLVE"
	CodeWalk     = "ERR_WALK"
	CodeMount    = "ERR_MOUNT"
	CodeConfig   = "ERR_CONFIG"
	CodeWrite    = "ERR_WRITE"
	CodeProtocol = "WARN_PROTOCOL"
)

// FtlError is a structured error type with context.
type FtlError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
	// Path is the file, archive or resource the error refers to.
	Path string
}

// Error implements the error interface.
func (e *FtlError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *FtlError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *FtlError) Is(target error) bool {
	var t *FtlError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *FtlError) WithContext(key string, value interface{}) *FtlError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath records the path the error refers to.
func (e *FtlError) WithPath(path string) *FtlError {
	e.Path = path

	return e
}

// NewResolutionError creates an error for a location or resource that could
// not be turned into a traversable path.
func NewResolutionError(message string, cause error) *FtlError {
	return &FtlError{
		Type:    ErrorTypeResolution,
		Code:    CodeResolve,
		Message: message,
		Cause:   cause,
	}
}

// NewTraversalError creates an error for a failed directory or archive walk.
func NewTraversalError(code, message string, cause error) *FtlError {
	return &FtlError{
		Type:    ErrorTypeTraversal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *FtlError {
	return &FtlError{
		Type:    ErrorTypeConfig,
		Code:    CodeConfig,
		Message: message,
		Cause:   cause,
	}
}

// NewIOError creates an I/O error for output artifacts.
func NewIOError(message string, cause error) *FtlError {
	return &FtlError{
		Type:    ErrorTypeIO,
		Code:    CodeWrite,
		Message: message,
		Cause:   cause,
	}
}

// NewUnsupportedProtocolError describes a resource that discovery skips.
// It is only ever logged.
func NewUnsupportedProtocolError(protocol, path string) *FtlError {
	return &FtlError{
		Type:    ErrorTypeUnsupported,
		Code:    CodeProtocol,
		Message: fmt.Sprintf("unsupported URL protocol %q, templates will not be discovered", protocol),
		Path:    path,
		Context: map[string]interface{}{"protocol": protocol},
	}
}

// IsFatal reports whether err must abort a build. Unsupported protocol
// warnings are the only non-fatal FtlError; any other non-nil error is fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var fe *FtlError
	if errors.As(err, &fe) {
		return fe.Type != ErrorTypeUnsupported
	}

	return true
}

// IsType checks whether err carries the given error type.
func IsType(err error, typ ErrorType) bool {
	var fe *FtlError
	if errors.As(err, &fe) {
		return fe.Type == typ
	}

	return false
}
