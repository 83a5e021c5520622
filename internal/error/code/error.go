package code

import (
	"errors"
	"fmt"
)

// Error is a domain error carrying one of the codes above. Services return
// it; the response package turns it into an HTTP status and body.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status mapped to the error code
func (e *Error) Status() int {
	return GetStatus(e.Code)
}

// New creates an error; an empty message falls back to the code's default.
func New(code int, message string) *Error {
	if message == "" {
		message = GetMessage(code)
	}
	return &Error{Code: code, Message: message}
}

// Wrap attaches an underlying cause.
func Wrap(code int, message string, err error) *Error {
	e := New(code, message)
	e.Err = err
	return e
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code int) bool {
	e, ok := As(err)
	return ok && e.Code == code
}
