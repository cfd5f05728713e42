package errors

import (
	stderrors "errors"
	"fmt"

	"aryastastic/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Field   string // offending input field, if any
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Field:   appErr.Field,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// GetField returns the offending field of an AppError, or "".
func GetField(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeUnsupported      = "UNSUPPORTED"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// InvalidParameter reports a caller-supplied value outside its domain.
func InvalidParameter(field, message string) *AppError {
	return &AppError{
		Code:    CodeInvalidParameter,
		Field:   field,
		Message: fmt.Sprintf("%s: %s", field, message),
		Cause:   core.ErrInvalidParameter,
	}
}

// InvalidParameterf is InvalidParameter with a formatted message.
func InvalidParameterf(field, format string, args ...interface{}) *AppError {
	return InvalidParameter(field, fmt.Sprintf(format, args...))
}

// Unsupported reports a parameter combination outside a calculator's design space.
func Unsupported(message string) *AppError {
	return &AppError{
		Code:    CodeUnsupported,
		Message: message,
		Cause:   core.ErrUnsupported,
	}
}

// Unsupportedf is Unsupported with a formatted message.
func Unsupportedf(format string, args ...interface{}) *AppError {
	return Unsupported(fmt.Sprintf(format, args...))
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Cause:   core.ErrNotFound,
	}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// IsInvalidParameter reports whether err is an InvalidParameter failure.
func IsInvalidParameter(err error) bool {
	return stderrors.Is(err, core.ErrInvalidParameter)
}

// IsUnsupported reports whether err is an Unsupported failure.
func IsUnsupported(err error) bool {
	return stderrors.Is(err, core.ErrUnsupported)
}
