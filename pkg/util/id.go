// Package util contains any functions used across the application that don't match
// any other package
package util

import (
	"crypto/rand"
	"encoding/hex"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewID returns a random alphanumeric ID used as a primary key
func NewID() (string, error) {
	return gonanoid.Generate(charset, 16)
}

// RandStr returns a random alphanumeric string of length n. Only meant for
// values like request IDs where a failure to read randomness can panic.
func RandStr(n int) string {
	return gonanoid.MustGenerate(charset, n)
}

// GenerateToken returns n cryptographically random bytes, hex encoded
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)

	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
