// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("please enter a valid email")
)

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	addr, err := mail.ParseAddress(e)
	if err != nil {
		return ErrEmailInvalid
	}

	// Reject "Name <addr>" forms, only a bare address is accepted
	if addr.Address != e || !strings.Contains(e[strings.LastIndex(e, "@"):], ".") {
		return ErrEmailInvalid
	}

	return nil
}

// NormalizeEmail trims and lowercases e so lookups are case insensitive
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
