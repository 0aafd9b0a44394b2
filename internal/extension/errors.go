package extension

import (
	"errors"
	"fmt"
)

// ConfigurationErrorCode categorizes compile-time failures.
type ConfigurationErrorCode string

const (
	// ErrCodeInvalidArgumentCount indicates the wrong number of arguments.
	ErrCodeInvalidArgumentCount ConfigurationErrorCode = "INVALID_ARGUMENT_COUNT"

	// ErrCodeInvalidArgumentType indicates a positional argument of an unsupported kind.
	ErrCodeInvalidArgumentType ConfigurationErrorCode = "INVALID_ARGUMENT_TYPE"

	// ErrCodeUnknownFunction indicates no function is registered under the reference.
	ErrCodeUnknownFunction ConfigurationErrorCode = "UNKNOWN_FUNCTION"
)

// ConfigurationError is raised once, at query-compile time, when a function
// rejects the argument list it was bound with. The host must reject the
// query definition.
type ConfigurationError struct {
	// Function is the namespace:name of the rejecting function.
	Function string

	// Code identifies the error category.
	Code ConfigurationErrorCode

	// Position is the 1-based argument position, or 0 for arity errors.
	Position int

	// Expected describes what was required ("2", "INT or LONG or FLOAT or DOUBLE").
	Expected string

	// Actual describes what was found ("3", "STRING").
	Actual string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// RuntimeErrorCode categorizes evaluation failures.
type RuntimeErrorCode string

const (
	// ErrCodeNullInput indicates an absent argument value.
	ErrCodeNullInput RuntimeErrorCode = "NULL_INPUT"

	// ErrCodeArityMismatch indicates the host passed a different number of
	// values than were validated.
	ErrCodeArityMismatch RuntimeErrorCode = "ARITY_MISMATCH"

	// ErrCodeTypeMismatch indicates a value whose kind differs from the
	// kind the function was bound with.
	ErrCodeTypeMismatch RuntimeErrorCode = "TYPE_MISMATCH"
)

// RuntimeError is raised per evaluation. It is never retried by the function.
type RuntimeError struct {
	// Function is the namespace:name of the failing function.
	Function string

	// Code identifies the error category.
	Code RuntimeErrorCode

	// Argument names the offending parameter, if any.
	Argument string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Argument != "" {
		return fmt.Sprintf("%s: %s (argument=%s)", e.Code, e.Message, e.Argument)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigurationError returns true if err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsRuntimeError returns true if err is or wraps a *RuntimeError.
func IsRuntimeError(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re)
}

// ErrorCode returns the code carried by a ConfigurationError or RuntimeError,
// or "" for any other error.
func ErrorCode(err error) string {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return string(ce.Code)
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return ""
}

// PositionName returns the ordinal used in diagnostics for a 1-based position.
func PositionName(pos int) string {
	switch pos {
	case 1:
		return "first"
	case 2:
		return "second"
	case 3:
		return "third"
	}
	suffix := "th"
	if pos%100 < 11 || pos%100 > 13 {
		switch pos % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", pos, suffix)
}
