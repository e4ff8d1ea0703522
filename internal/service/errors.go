package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrConflict              = errors.New("conflict")
	ErrNotFound              = errors.New("not found")
	ErrAuth                  = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrEmailDelivery         = errors.New("email delivery failed")
)

// Error carries a message that is safe to show to clients. Kind is one of
// the sentinels above and Err, when set, is the internal cause that should
// only ever be logged.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}

	return []error{e.Kind}
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind error, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// NewError builds an Error for handlers that report failures of their own
func NewError(kind error, msg string) *Error {
	return newError(kind, msg)
}
