package s2k

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSalt = []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

// TestDeriveKeyDeterministic covers spec.md §8 property 8: identical
// inputs produce identical outputs.
func TestDeriveKeyDeterministic(t *testing.T) {
	k1, err := DeriveKey("abc", testSalt, 65536, 16)
	require.NoError(t, err)
	k2, err := DeriveKey("abc", testSalt, 65536, 16)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 16)
}

func TestDeriveKeyVariesWithPassphrase(t *testing.T) {
	k1, err := DeriveKey("abc", testSalt, 65536, 16)
	require.NoError(t, err)
	k2, err := DeriveKey("abd", testSalt, 65536, 16)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestDeriveKeyVariesWithSalt(t *testing.T) {
	salt2 := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	k1, err := DeriveKey("abc", testSalt, 65536, 16)
	require.NoError(t, err)
	k2, err := DeriveKey("abc", salt2, 65536, 16)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestDeriveKeyMultiplePasses(t *testing.T) {
	// keylen > one SHA-1 digest forces a second hashing pass (pass=1, with
	// a leading zero byte prefixed to the context per spec.md §4.3 step 3).
	k, err := DeriveKey("abc", testSalt, 65536, 32)
	require.NoError(t, err)
	assert.Len(t, k, 32)
}

func TestDeriveKeyRejectsInvalidArgs(t *testing.T) {
	_, err := DeriveKey("abc", testSalt, 65536, 0)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = DeriveKey("abc", nil, 65536, 16)
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = DeriveKey("abc", []byte{1, 2, 3}, 65536, 16)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestDeriveKeyFloorsCountAtMinimum(t *testing.T) {
	// count smaller than len(passphrase)+8 is floored, per spec.md §4.3
	// step 2 ("with a floor of len2"); this must not panic or underflow.
	k, err := DeriveKey("abc", testSalt, 1, 16)
	require.NoError(t, err)
	assert.Len(t, k, 16)
}
