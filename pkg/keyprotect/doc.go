// Package keyprotect implements passphrase-based protection of RSA private
// keys expressed as canonical structured expressions: Protect/Unprotect
// wrap and unwrap a key's private parameters under AES-128-CBC with an
// S2K-derived key and an embedded SHA-1 integrity code, Classify inspects
// an expression's outer shape without attempting to parse it fully, and
// BuildShadow/ReadShadowInfo record that a key's private parameters live on
// external hardware instead of in the expression itself.
//
// Every operation that allocates a transient secret (a derived key, the
// decrypted wrapped block) releases it through pkg/keyprotect/secmem
// before returning. Cryptographic primitives are supplied through the
// CryptoProvider interface so callers can substitute a hardware-backed
// implementation without this package depending on any specific hardware
// API.
package keyprotect
