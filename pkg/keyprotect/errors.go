package keyprotect

import "fmt"

// Kind is one of the error kinds spec.md §7 enumerates. It is exhaustive:
// every error this core returns carries exactly one Kind.
type Kind int

const (
	// KindInvalidSexp: malformed canonical expression (bad length,
	// unbalanced parens, unexpected byte).
	KindInvalidSexp Kind = iota
	// KindUnknownSexp: well-formed but the outer tag is not one this
	// operation accepts.
	KindUnknownSexp
	// KindUnsupportedAlgorithm: algorithm token is not "rsa".
	KindUnsupportedAlgorithm
	// KindUnsupportedProtection: mode string or inner hash name not
	// recognized.
	KindUnsupportedProtection
	// KindUnsupportedProtocol: shadow protocol tag not "t1-v1".
	KindUnsupportedProtocol
	// KindCorruptedProtection: a structural field of the protected form
	// violates a length invariant, or the MIC mismatches.
	KindCorruptedProtection
	// KindBadPassphrase: the post-decrypt plausibility gate failed.
	KindBadPassphrase
	// KindOutOfCore: allocation failure.
	KindOutOfCore
	// KindInvalidValue: an S2K (or other) argument was out of domain.
	KindInvalidValue
	// KindCryptoFailure: a primitive reported failure.
	KindCryptoFailure
	// KindBug: an internal invariant was violated; should be unreachable.
	KindBug
)

func (k Kind) String() string {
	switch k {
	case KindInvalidSexp:
		return "InvalidSexp"
	case KindUnknownSexp:
		return "UnknownSexp"
	case KindUnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case KindUnsupportedProtection:
		return "UnsupportedProtection"
	case KindUnsupportedProtocol:
		return "UnsupportedProtocol"
	case KindCorruptedProtection:
		return "CorruptedProtection"
	case KindBadPassphrase:
		return "BadPassphrase"
	case KindOutOfCore:
		return "OutOfCore"
	case KindInvalidValue:
		return "InvalidValue"
	case KindCryptoFailure:
		return "CryptoFailure"
	case KindBug:
		return "Bug"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind with the operation that produced it and, where
// available, the underlying error. It follows pkg/mpc/errors.go's
// Op+Err wrapping shape, extended with the closed Kind enum spec.md §7
// requires.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("keyprotect.%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("keyprotect.%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from err, unwrapping through any chain of
// wrapped errors. The second return is false if no *Error is found.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if err == nil {
		return 0, false
	}
	if as, ok := err.(*Error); ok {
		e = as
	} else if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
		return KindOf(unwrapper.Unwrap())
	} else {
		return 0, false
	}
	return e.Kind, true
}

func newErr(op string, kind Kind) error {
	return &Error{Op: op, Kind: kind}
}

func wrapErr(op string, kind Kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}
