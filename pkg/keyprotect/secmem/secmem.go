// Package secmem provides the secure-memory discipline spec.md §3 and §5
// require: every transient buffer that ever holds key bytes, a
// passphrase-derived key, MIC input/output, or the plaintext wrapped block
// must be allocated here, used, and zeroed before release.
//
// This is not a real mlock()-backed secure heap — the core has no platform
// allocator to call into — but it does give every such buffer a single,
// auditable release path, the same role
// pkg/cbmpc/kem/rsa.go's privateKeyHandle plays for that package's DER-
// encoded private key material.
package secmem

import (
	"runtime"
	"sync"
)

// Buffer is a mutex-guarded byte buffer intended for secret material. The
// zero value is not usable; construct with Alloc or Wrap.
type Buffer struct {
	mu   sync.Mutex
	data []byte
	done bool
}

// Alloc returns a new Buffer of n zeroed bytes.
func Alloc(n int) *Buffer {
	return &Buffer{data: make([]byte, n)}
}

// Wrap takes ownership of an existing slice. The caller must not retain or
// mutate buf after calling Wrap; all further access must go through the
// returned Buffer.
func Wrap(buf []byte) *Buffer {
	return &Buffer{data: buf}
}

// Bytes returns the live, mutable contents. Calling it after Free panics:
// a use of a buffer after its secret material was zeroized is a bug in the
// caller, not a recoverable condition.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		panic("secmem: use of buffer after Free")
	}
	return b.data
}

// Len returns the buffer's length without requiring the caller to go
// through Bytes (and therefore without panicking once freed).
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Free overwrites the buffer with zeros and marks it unusable. It is safe
// to call Free more than once. Free is idempotent and must be invoked
// (typically via defer) by whichever operation allocated the buffer, unless
// ownership of the bytes is being handed back to the caller — in which case
// zeroing the returned buffer becomes the caller's responsibility, per
// spec.md §3's lifecycle rule.
func (b *Buffer) Free() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return
	}
	zero(b.data)
	b.data = nil
	b.done = true
}

// zero overwrites buf with zeros and prevents the compiler from eliding the
// store as dead code (golang/go#33325), the same guard
// pkg/cbmpc/kem/rsa.go's zeroizeBytes uses.
func zero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// Zero overwrites an arbitrary slice in place. Used for buffers that are
// handed back to the caller and therefore can't be wrapped in a Buffer
// (whose Free would zero them before the caller ever saw them).
func Zero(buf []byte) {
	zero(buf)
}
