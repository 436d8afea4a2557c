package cryptosuite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftwareAESRoundTrip(t *testing.T) {
	p := NewSoftware()
	key := make([]byte, KeyLen)
	iv := make([]byte, BlockSize)
	for i := range key {
		key[i] = byte(i)
	}
	for i := range iv {
		iv[i] = byte(i + 1)
	}
	plaintext := make([]byte, BlockSize*3)
	for i := range plaintext {
		plaintext[i] = byte(i * 7)
	}

	ct, err := p.AES128CBCEncrypt(key, iv, plaintext)
	require.NoError(t, err)
	assert.Len(t, ct, len(plaintext))
	assert.NotEqual(t, plaintext, ct)

	pt, err := p.AES128CBCDecrypt(key, iv, ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)
}

func TestSoftwareAESRejectsUnalignedInput(t *testing.T) {
	p := NewSoftware()
	key := make([]byte, KeyLen)
	iv := make([]byte, BlockSize)
	_, err := p.AES128CBCEncrypt(key, iv, make([]byte, 5))
	assert.ErrorIs(t, err, ErrCryptoFailure)
}

func TestSoftwareAESRejectsBadKeyLen(t *testing.T) {
	p := NewSoftware()
	_, err := p.AES128CBCEncrypt(make([]byte, 10), make([]byte, BlockSize), make([]byte, BlockSize))
	assert.ErrorIs(t, err, ErrCryptoFailure)
}

func TestSoftwareRandomBytesLength(t *testing.T) {
	p := NewSoftware()
	b, err := p.RandomBytes(40)
	require.NoError(t, err)
	assert.Len(t, b, 40)
}

func TestSoftwareSHA1KnownVector(t *testing.T) {
	// SHA-1("") per RFC 3174 test vectors.
	p := NewSoftware()
	sum := p.SHA1(nil)
	want := [20]byte{
		0xda, 0x39, 0xa3, 0xee, 0x5e, 0x6b, 0x4b, 0x0d, 0x32, 0x55,
		0xbf, 0xef, 0x95, 0x60, 0x18, 0x90, 0xaf, 0xd8, 0x07, 0x09,
	}
	assert.Equal(t, want, sum)
}

func TestHardwareReturnsUnavailable(t *testing.T) {
	h := NewHardware()
	_, err := h.RandomBytes(10)
	assert.ErrorIs(t, err, ErrHardwareUnavailable)
	_, err = h.AES128CBCEncrypt(nil, nil, nil)
	assert.ErrorIs(t, err, ErrHardwareUnavailable)
	_, err = h.AES128CBCDecrypt(nil, nil, nil)
	assert.ErrorIs(t, err, ErrHardwareUnavailable)
}
