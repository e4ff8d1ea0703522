package validators

import (
	"errors"
	"net/url"
	"unicode/utf8"
)

const MaxBioLength = 250

var (
	ErrBioTooLong   = errors.New("bio must be less than 250 characters")
	ErrPhotoInvalid = errors.New("photo must be a valid URL")
	ErrNameTooLong  = errors.New("name is too long")
)

// ProfileValidator checks the editable profile fields. Empty values are
// allowed since they mean "keep the current value".
func ProfileValidator(name, bio, photo string) error {
	if utf8.RuneCountInString(name) > 100 {
		return ErrNameTooLong
	}

	if utf8.RuneCountInString(bio) > MaxBioLength {
		return ErrBioTooLong
	}

	if photo != "" {
		u, err := url.Parse(photo)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrPhotoInvalid
		}
	}

	return nil
}
