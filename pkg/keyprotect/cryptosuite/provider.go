// Package cryptosuite provides CryptoProvider implementations for the
// keyprotect core (spec.md §6). The core never calls AES, SHA-1, or an RNG
// directly; every operation goes through the interface defined here, the
// way pkg/cbmpc/kem.KEM lets the PVE protocol swap encapsulation mechanisms
// without depending on a concrete implementation.
package cryptosuite

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // normatively required by spec.md §3/§6
	"errors"
	"io"
)

// ErrCryptoFailure wraps any underlying primitive error (spec.md §7, kind
// CryptoFailure).
var ErrCryptoFailure = errors.New("cryptosuite: primitive failure")

// Provider is the CryptoProvider interface spec.md §6 requires: a
// cryptographically strong RNG, SHA-1, and AES-128-CBC encrypt/decrypt.
// Secure-memory allocation is handled by package secmem, which every
// Provider implementation's caller is expected to use around the byte
// slices passed through this interface.
type Provider interface {
	// RandomBytes returns n cryptographically strong random bytes.
	RandomBytes(n int) ([]byte, error)

	// SHA1 returns the 20-byte SHA-1 digest of data.
	SHA1(data []byte) [20]byte

	// AES128CBCEncrypt encrypts plaintext (whose length must be a multiple
	// of the AES block size) under key (16 bytes) and iv (16 bytes).
	AES128CBCEncrypt(key, iv, plaintext []byte) ([]byte, error)

	// AES128CBCDecrypt is the inverse of AES128CBCEncrypt.
	AES128CBCDecrypt(key, iv, ciphertext []byte) ([]byte, error)
}

// BlockSize is the AES block size in bytes, fixed by spec.md §3/§6.
const BlockSize = aes.BlockSize

// KeyLen is the AES-128 key length in bytes.
const KeyLen = 16

// Software is a Provider backed entirely by the standard library. It is the
// default, always-available implementation; pkg/keyprotect/cryptosuite's
// hardware variant (see hardware.go) is the documented extension point for
// an HSM/smartcard-backed provider, mirroring the teacher's cgo/stub split
// for its native bindings — this core's own split just has nothing to bind
// to, since every primitive it needs is already in the standard library.
type Software struct{}

// NewSoftware returns the default CryptoProvider.
func NewSoftware() *Software {
	return &Software{}
}

func (Software) RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, errors.Join(ErrCryptoFailure, err)
	}
	return buf, nil
}

func (Software) SHA1(data []byte) [20]byte {
	return sha1.Sum(data)
}

func (Software) AES128CBCEncrypt(key, iv, plaintext []byte) ([]byte, error) {
	if len(key) != KeyLen || len(iv) != BlockSize {
		return nil, errors.Join(ErrCryptoFailure, errors.New("bad key or iv length"))
	}
	if len(plaintext)%BlockSize != 0 {
		return nil, errors.Join(ErrCryptoFailure, errors.New("plaintext not block aligned"))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrCryptoFailure, err)
	}
	out := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plaintext)
	return out, nil
}

func (Software) AES128CBCDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(key) != KeyLen || len(iv) != BlockSize {
		return nil, errors.Join(ErrCryptoFailure, errors.New("bad key or iv length"))
	}
	if len(ciphertext)%BlockSize != 0 {
		return nil, errors.Join(ErrCryptoFailure, errors.New("ciphertext not block aligned"))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrCryptoFailure, err)
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}
