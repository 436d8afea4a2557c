package cryptosuite

import "errors"

// ErrHardwareUnavailable is returned by Hardware's methods: this build
// carries no native smartcard/HSM backend. spec.md §1 places the
// smartcard command handler out of this core's scope, but the shadowed
// private key form (spec.md §4.6) exists precisely because some private
// keys live behind a Provider like this one instead of in a protected
// expression, so the extension point is worth keeping even unimplemented.
var ErrHardwareUnavailable = errors.New("cryptosuite: hardware provider not available in this build")

// Hardware is a placeholder Provider for a smartcard- or HSM-backed
// implementation: a real one would perform AES and RNG operations inside
// the device rather than in process memory, reducing how much key
// material ever touches a Buffer (package secmem). None of spec.md's
// operations require it — Protect/Unprotect only ever need the software
// path — but a conforming agent deployment may want to swap it in for
// environments where cryptosuite.Software's in-process key handling is
// unacceptable.
type Hardware struct{}

// NewHardware returns a Hardware provider stub. RandomBytes,
// AES128CBCEncrypt and AES128CBCDecrypt return ErrHardwareUnavailable;
// SHA1, which has no error return, returns an all-zero digest.
func NewHardware() *Hardware {
	return &Hardware{}
}

func (Hardware) RandomBytes(int) ([]byte, error) {
	return nil, ErrHardwareUnavailable
}

func (Hardware) SHA1([]byte) [20]byte {
	return [20]byte{}
}

func (Hardware) AES128CBCEncrypt(_, _, _ []byte) ([]byte, error) {
	return nil, ErrHardwareUnavailable
}

func (Hardware) AES128CBCDecrypt(_, _, _ []byte) ([]byte, error) {
	return nil, ErrHardwareUnavailable
}
