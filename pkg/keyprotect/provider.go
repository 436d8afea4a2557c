package keyprotect

import "github.com/cryptagent/keyprotect-go/pkg/keyprotect/cryptosuite"

// CryptoProvider is the injected interface spec.md §6 defines: a strong
// RNG, SHA-1, and AES-128-CBC encrypt/decrypt. It is a type alias for
// cryptosuite.Provider so callers can depend on this package alone without
// needing to also import cryptosuite for the interface type.
type CryptoProvider = cryptosuite.Provider

// Provider returns the CryptoProvider this Config selects: the hardware
// stub if EnableHardwareProvider is set (see cryptosuite.Hardware's
// doc comment — its RandomBytes and AES methods return
// cryptosuite.ErrHardwareUnavailable and its SHA1 returns an all-zero
// digest), otherwise the default all-software implementation.
func (c Config) Provider() CryptoProvider {
	if c.EnableHardwareProvider {
		return cryptosuite.NewHardware()
	}
	return cryptosuite.NewSoftware()
}
