// Package apperror defines the error kinds shared by the domain packages.
// Workflows return these kinds; only the HTTP layer maps them to status codes.
package apperror

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidState  = errors.New("invalid state")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
)

// Error pairs a caller-facing message with one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func AlreadyExists(msg string) error { return &Error{Kind: ErrAlreadyExists, Message: msg} }

func InvalidState(msg string) error { return &Error{Kind: ErrInvalidState, Message: msg} }

func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

func InvalidInput(msg string) error { return &Error{Kind: ErrInvalidInput, Message: msg} }

// Message returns the caller-facing message carried by err, if any.
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, true
	}
	return "", false
}
