package snowgrid

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be generic and portable across the module: EINVALID
// covers both bad arguments and unparseable input, ENOTFOUND is the soft
// "nothing there" outcome, EINTERNAL is reserved for failures the caller
// cannot act on.
const (
	ECONFLICT     = "conflict"
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	EUNAUTHORIZED = "unauthorized"
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code is one of the constants above.
	Code string

	// Message is safe to show to an end user.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("snowgrid error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps err and returns its code, if it carries one.
// Returns an empty string for nil and EINTERNAL for non-application errors.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps err and returns its message, if it carries one.
// Non-application errors return their Error() text so callers always have
// something printable.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Errorf constructs an *Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
