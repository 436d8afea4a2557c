package keyprotect

import "github.com/cryptagent/keyprotect-go/pkg/keyprotect/sexp"

// Classify inspects expr's outermost "(<len>:<token>..." header and reports
// which of the three key-expression shapes it is, or Unknown for anything
// else — including any parse failure. Classify never fails: spec.md §4.7
// and §8 property 5 require it to be total.
func Classify(expr []byte) Classification {
	if len(expr) == 0 || expr[0] != '(' {
		return Unknown
	}
	n, dataPos, err := sexp.NextLen(expr, 1)
	if err != nil {
		return Unknown
	}
	if _, ok := sexp.MatchToken(expr, dataPos, n, "private-key"); ok {
		return Clear
	}
	if _, ok := sexp.MatchToken(expr, dataPos, n, "protected-private-key"); ok {
		return Protected
	}
	if _, ok := sexp.MatchToken(expr, dataPos, n, "shadowed-private-key"); ok {
		return Shadowed
	}
	return Unknown
}
