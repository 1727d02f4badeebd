package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a domain error so it can be reported to the user and
// folded into telemetry without parsing messages.
type ErrorCode string

const (
	// ErrCodeConfigurationNotFound indicates no composition document exists in the working directory.
	ErrCodeConfigurationNotFound ErrorCode = "CONFIGURATION_FILE_NOT_FOUND"
	// ErrCodeInvalidConfigurationFormat indicates the composition document could not be parsed.
	ErrCodeInvalidConfigurationFormat ErrorCode = "INVALID_CONFIGURATION_FORMAT"
	// ErrCodeInvalidConfigurationShape indicates a document that is not a composition document.
	ErrCodeInvalidConfigurationShape ErrorCode = "INVALID_NON_COMPOSE_CONFIGURATION"
	// ErrCodeInvalidComponentPath indicates a component path that is missing or not a directory.
	ErrCodeInvalidComponentPath ErrorCode = "INVALID_COMPONENT_PATH"
	// ErrCodeMissingEnvVariable indicates a placeholder referencing an undefined environment variable.
	ErrCodeMissingEnvVariable ErrorCode = "MISSING_ENV_VARIABLE"
	// ErrCodeUnrecognizedVariableSources indicates placeholders with unknown sources.
	ErrCodeUnrecognizedVariableSources ErrorCode = "UNRECOGNIZED_VARIABLE_SOURCES"
	// ErrCodeResolutionLimit indicates variable resolution did not reach a fixpoint.
	ErrCodeResolutionLimit ErrorCode = "VARIABLE_RESOLUTION_LIMIT"
	// ErrCodeUnsupportedOptions indicates reserved CLI options were used.
	ErrCodeUnsupportedOptions ErrorCode = "UNSUPPORTED_CLI_OPTIONS"
	// ErrCodeComponentNotFound indicates the targeted component is not declared.
	ErrCodeComponentNotFound ErrorCode = "COMPONENT_NOT_FOUND"
	// ErrCodeCommandNotFound indicates a global command that is not supported.
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	// ErrCodeDependencyCycle indicates component dependencies that cannot be ordered.
	ErrCodeDependencyCycle ErrorCode = "COMPONENT_DEPENDENCY_CYCLE"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError carries a code for programmatic handling, a human-readable
// message, the underlying cause and optional context for reporting.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new StructuredError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *StructuredError {
	return New(code, fmt.Sprintf(format, args...))
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first StructuredError in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err's chain contains a StructuredError with code.
func HasCode(err error, code ErrorCode) bool {
	var se *StructuredError
	return stderrors.As(err, &se) && se.Code == code
}
