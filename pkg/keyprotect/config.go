package keyprotect

// Config carries the small set of knobs the core itself needs. It follows
// pkg/cbmpc/config.go's shape: a handful of fields with sensible zero-value
// defaults and no loading logic; this module contains no config loader
// (loading is out of the core per spec.md §1).
type Config struct {
	// HomeDir is informational only here — the core performs no file I/O —
	// but is threaded through so callers building a config loader on top
	// (out of scope per spec.md §1) have somewhere to put it.
	HomeDir string

	// DefaultS2KCount is the iteration count Protect uses when protecting a
	// key, expressed as the already-decoded integer spec.md §9 specifies
	// (the original hardcodes 96 via the OpenPGP encoded-count formula).
	// Zero means "use s2kEncryptCount".
	DefaultS2KCount int

	// EnableHardwareProvider selects cryptosuite.Hardware instead of
	// cryptosuite.Software when constructing a default Provider via
	// Config.Provider. See pkg/keyprotect/cryptosuite's Hardware stub.
	EnableHardwareProvider bool
}

// s2kCount returns the configured iteration count, or the spec default.
func (c Config) s2kCount() int {
	if c.DefaultS2KCount > 0 {
		return c.DefaultS2KCount
	}
	return s2kEncryptCount
}

// Protect is a convenience wrapper equivalent to calling the package-level
// Protect with c.Provider() and c.s2kCount() rather than the hardcoded
// default iteration count.
func (c Config) Protect(plainkey []byte, passphrase string) ([]byte, error) {
	return protectWithCount(c.Provider(), plainkey, passphrase, c.s2kCount())
}

// Unprotect is a convenience wrapper equivalent to calling the package-level
// Unprotect with c.Provider(). The stored S2K count inside protectedkey is
// always used for decryption regardless of c.DefaultS2KCount, per spec.md
// §9: the count is read from the expression, never assumed.
func (c Config) Unprotect(protectedkey []byte, passphrase string) ([]byte, error) {
	return Unprotect(c.Provider(), protectedkey, passphrase)
}
