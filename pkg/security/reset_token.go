package security

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"elivtory/inventory-api/pkg/util"
)

const (
	tokenSize = 32
)

// NewResetToken returns a raw password reset token for userID and its hash.
// Only the hash may be persisted, the raw token is mailed to the user.
func NewResetToken(userID string) (raw, hash string, err error) {
	if userID == "" {
		return "", "", errors.New("no user ID provided")
	}

	token, err := util.GenerateToken(tokenSize)
	if err != nil {
		return "", "", err
	}

	raw = token + userID
	return raw, HashResetToken(raw), nil
}

// HashResetToken returns the hex encoded SHA-256 digest of raw
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
