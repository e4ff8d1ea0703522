package security

import (
	"strings"
	"testing"

	"elivtory/inventory-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArgon() *ArgonHash {
	return NewArgon(config.Argon{Memory: 1024, Iterations: 1, Parallelism: 1})
}

func TestArgon_RoundTrip(t *testing.T) {
	t.Parallel()

	a := testArgon()

	hash, err := a.GenerateFromPassword("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.NotContains(t, hash, "secret1")

	ok, err := a.VerifyPasswd("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon_SaltPerCall(t *testing.T) {
	t.Parallel()

	a := testArgon()

	h1, err := a.GenerateFromPassword("same-password")
	require.NoError(t, err)
	h2, err := a.GenerateFromPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestArgon_VerifyUsesEncodedParams(t *testing.T) {
	t.Parallel()

	hash, err := testArgon().GenerateFromPassword("secret1")
	require.NoError(t, err)

	// A hasher with different work factors must still verify old hashes
	ok, err := NewArgon(config.Argon{Memory: 2048, Iterations: 2, Parallelism: 1}).VerifyPasswd("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon_Defaults(t *testing.T) {
	t.Parallel()

	a := NewArgon(config.Argon{})
	assert.Equal(t, uint32(64*1024), a.Memory)
	assert.Equal(t, uint32(3), a.Iterations)
	assert.Equal(t, uint8(2), a.Parallelism)
}

func TestArgon_MalformedHash(t *testing.T) {
	t.Parallel()

	a := testArgon()

	for _, h := range []string{
		"",
		"plaintext",
		"$2a$10$abcdefghijklmnopqrstuv",
		"$argon2id$v=19$m=1024,t=0,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
	} {
		ok, err := a.VerifyPasswd("secret1", h)
		assert.Error(t, err, h)
		assert.False(t, ok, h)
	}
}
