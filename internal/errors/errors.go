package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeResolution ErrorType = "resolution"
	ErrorTypeJSONPath   ErrorType = "jsonpath"
	ErrorTypeOutput     ErrorType = "output"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInput, Message: message, Err: err}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeParsing, Message: message, Err: err}
}

// NewConfigError creates a new error related to mapping configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message, Err: err}
}

// NewResolutionError creates a new error raised while resolving a replacement value
func NewResolutionError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeResolution, Message: message, Err: err}
}

// NewJSONPathError creates a new error related to JSONPath compilation
func NewJSONPathError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeJSONPath, Message: message, Err: err}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeOutput, Message: message, Err: err}
}

// MalformedJSONError reports input text that is not a single valid JSON value.
// Position is the byte offset at which parsing failed.
type MalformedJSONError struct {
	Position int64
	Reason   string
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed JSON at offset %d: %s", e.Position, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidJSON.
func (e *MalformedJSONError) Unwrap() error {
	return ErrInvalidJSON
}

// UnresolvedVariableError reports a ${name} placeholder with no binding.
type UnresolvedVariableError struct {
	Name string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// TypeCoercionError reports a replacement that cannot be converted to its target type.
type TypeCoercionError struct {
	Raw    string
	Target string
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s", e.Raw, e.Target)
}

// InvalidJSONPathError reports a JSONPath expression that cannot be compiled.
type InvalidJSONPathError struct {
	Expression string
	Pos        int
	Message    string
}

func (e *InvalidJSONPathError) Error() string {
	return fmt.Sprintf("invalid JSONPath %q at position %d: %s", e.Expression, e.Pos, e.Message)
}

// InvalidMappingError reports a mapping entry rejected while loading configuration.
type InvalidMappingError struct {
	Selector string
	Reason   string
}

func (e *InvalidMappingError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("invalid mapping: %s", e.Reason)
	}
	return fmt.Sprintf("invalid mapping for %q: %s", e.Selector, e.Reason)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", detail(appErr))
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", detail(appErr))
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", detail(appErr))
		case ErrorTypeResolution:
			return fmt.Sprintf("Replacement error: %s", detail(appErr))
		case ErrorTypeJSONPath:
			return fmt.Sprintf("JSONPath error: %s", detail(appErr))
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", detail(appErr))
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	var unresolved *UnresolvedVariableError
	if errors.As(err, &unresolved) {
		return fmt.Sprintf("Error: Variable '%s' is not defined. Pass it with --var %s=<value>.", unresolved.Name, unresolved.Name)
	}
	var coercion *TypeCoercionError
	if errors.As(err, &coercion) {
		return fmt.Sprintf("Error: Value '%s' is not a valid %s.", coercion.Raw, coercion.Target)
	}
	var malformed *MalformedJSONError
	if errors.As(err, &malformed) {
		return fmt.Sprintf("Error: The input contains invalid JSON at offset %d. Please check your JSON syntax.", malformed.Position)
	}
	var badPath *InvalidJSONPathError
	if errors.As(err, &badPath) {
		return fmt.Sprintf("Error: The JSONPath expression '%s' is invalid: %s.", badPath.Expression, badPath.Message)
	}

	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON object or array."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

// detail appends the wrapped cause when it adds information.
func detail(e *AppError) string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s (%v)", e.Message, e.Err)
}
