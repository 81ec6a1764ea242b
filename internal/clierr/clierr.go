// Package clierr defines structured CLI errors with stable codes and exit
// code mapping.
package clierr

import "fmt"

// Error codes. These are part of the CLI contract: scripts and CI gates match
// on them, so they must stay stable.
const (
	ComponentNotFound = "COMPONENT_NOT_FOUND"
	NoComponents      = "NO_COMPONENTS"
	SourceNotFound    = "SOURCE_NOT_FOUND"
	SpecMalformed     = "SPEC_MALFORMED"
	InvalidTier       = "INVALID_TIER"
	InvalidSeverity   = "INVALID_SEVERITY"
	InvalidInput      = "INVALID_INPUT"
	ConfigInvalid     = "CONFIG_INVALID"
	ConfigNotFound    = "CONFIG_NOT_FOUND"
	InternalError     = "INTERNAL_ERROR"
)

// exitCodes maps error codes to process exit codes. Codes not listed exit
// with 1. Fatal-global conditions (nothing to analyze, unusable input) exit
// with 2 before any analysis runs.
var exitCodes = map[string]int{
	NoComponents:    2,
	InvalidTier:     2,
	InvalidSeverity: 2,
	InvalidInput:    2,
	ConfigInvalid:   2,
	ConfigNotFound:  2,
	InternalError:   2,
}

// Error is a CLI error with a stable code and optional structured details.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails attaches structured details and returns the error.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// ExitCode returns the process exit code for this error.
func (e *Error) ExitCode() int {
	if code, ok := exitCodes[e.Code]; ok {
		return code
	}
	return 1
}

// SilentError signals an exit code without printing anything further; the
// command has already written its output (e.g. a violation report).
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}
