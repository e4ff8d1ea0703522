package validators

import (
	"errors"
	"unicode/utf8"
)

const (
	MinPasswordLength = 6
	// Upper bound in bytes, it is what the hasher gets fed
	maxPasswordBytes = 255
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordEmpty    = errors.New("no password provided")
)

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if utf8.RuneCountInString(p) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	if len(p) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	return nil
}
