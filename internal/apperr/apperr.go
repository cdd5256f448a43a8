package apperr

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// InvalidFormat indicates a date/time field failed strict format validation
	InvalidFormat ErrorCode = "INVALID_FORMAT"
	// InvalidValue indicates an enumerated field carries an unknown variant
	InvalidValue ErrorCode = "INVALID_VALUE"
	// NotFound indicates the target record id does not exist
	NotFound ErrorCode = "NOT_FOUND"
	// StorageBusy indicates the database lock could not be acquired within the busy timeout
	StorageBusy ErrorCode = "STORAGE_BUSY"
	// StorageError indicates an engine-level failure (disk error, corruption, failed statement)
	StorageError ErrorCode = "STORAGE_ERROR"
	// ValidationRejected indicates uploaded content failed the PDF screening
	ValidationRejected ErrorCode = "VALIDATION_REJECTED"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Error is a classified error carrying a stable code and the underlying cause
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

// New creates a classified error without an underlying cause
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a classified error preserving the underlying cause
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf returns the stable code of err, or InternalError for unclassified errors
func CodeOf(err error) ErrorCode {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}

// Is reports whether err carries the given code
func Is(err error, code ErrorCode) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}

// IsInvalidFormat reports whether err is a format validation failure
func IsInvalidFormat(err error) bool { return Is(err, InvalidFormat) }

// IsNotFound reports whether err is a missing-record failure
func IsNotFound(err error) bool { return Is(err, NotFound) }

// IsBusy reports whether err is a lock-contention timeout
func IsBusy(err error) bool { return Is(err, StorageBusy) }

// IsRejected reports whether err is an upload screening rejection
func IsRejected(err error) bool { return Is(err, ValidationRejected) }
