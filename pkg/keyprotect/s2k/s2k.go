// Package s2k implements the iterated-and-salted string-to-key passphrase
// derivation (spec.md §4.3), mode 3 of the OpenPGP S2K family, fixed to
// SHA-1 as required by the "openpgp-s2k3-sha1-aes-cbc" protection mode this
// core exclusively speaks.
package s2k

import (
	"crypto/sha1" //nolint:gosec // normatively required by spec.md §3/§6
	"errors"
)

// ErrInvalidValue is returned when DeriveKey is called with an argument
// outside its domain (spec.md §7, kind InvalidValue).
var ErrInvalidValue = errors.New("s2k: invalid argument")

// SaltLen is the required salt length for mode 3.
const SaltLen = 8

const digestLen = sha1.Size

// DeriveKey derives a keylen-byte key from passphrase using mode 3
// (iterated + salted SHA-1) with the given salt and iteration count. count
// is the *decoded* iteration count (already an integer, not the OpenPGP
// single-byte encoded form); spec.md §4.3/§9 is explicit that this core
// stores and consumes the decoded integer directly.
//
// count is floored at len(passphrase)+8 the way the reference
// implementation does: fewer than one full (salt||passphrase) block would
// make the derivation weaker than an unsalted, non-iterated hash.
func DeriveKey(passphrase string, salt []byte, count int, keylen int) ([]byte, error) {
	if keylen <= 0 || salt == nil {
		return nil, ErrInvalidValue
	}
	if len(salt) != SaltLen {
		return nil, ErrInvalidValue
	}

	pwlen := len(passphrase)
	len2 := pwlen + SaltLen
	if count < len2 {
		count = len2
	}

	out := make([]byte, keylen)
	used := 0
	for pass := 0; used < keylen; pass++ {
		h := sha1.New()
		for i := 0; i < pass; i++ {
			h.Write([]byte{0})
		}

		remaining := count
		for remaining > len2 {
			h.Write(salt)
			h.Write([]byte(passphrase))
			remaining -= len2
		}
		if remaining < SaltLen {
			h.Write(salt[:remaining])
		} else {
			h.Write(salt)
			remaining -= SaltLen
			h.Write([]byte(passphrase)[:remaining])
		}

		sum := h.Sum(nil)
		n := digestLen
		if n > keylen-used {
			n = keylen - used
		}
		copy(out[used:used+n], sum[:n])
		used += n
	}
	return out, nil
}
