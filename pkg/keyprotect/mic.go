package keyprotect

import (
	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/cryptosuite"
	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/sexp"
)

// computeMIC implements spec.md §4.2: given a clear private-key expression,
// it locates the "(rsa ...)" algorithm sub-list and hashes the byte range
// from its opening '(' to its closing ')' inclusive. Any caller that
// re-serializes instead of hashing this exact byte range will produce a
// MIC that fails to interoperate (spec.md §9's byte-range-semantics note).
func computeMIC(provider cryptosuite.Provider, plainkey []byte) ([20]byte, error) {
	algoStart, algoEnd, _, _, _, err := locateClearKey(plainkey)
	if err != nil {
		return [20]byte{}, err
	}
	return provider.SHA1(plainkey[algoStart:algoEnd]), nil
}

// locateClearKey parses a clear "(private-key (rsa ...))" expression and
// returns:
//
//	algoStart  offset of the '(' opening the algorithm sub-list
//	algoEnd    offset just past the matching ')' (i.e. inclusive end + 1)
//	protBegin  offset of the '(' opening the "d" parameter list
//	protEnd    offset just past the ')' closing the "u" parameter list
//	realEnd    offset just past the outermost closing ')'
func locateClearKey(plainkey []byte) (algoStart, algoEnd, protBegin, protEnd, realEnd int, err error) {
	if len(plainkey) == 0 || plainkey[0] != '(' {
		return 0, 0, 0, 0, 0, newErr("locateClearKey", KindInvalidSexp)
	}
	pos := 1
	n, dataPos, perr := sexp.NextLen(plainkey, pos)
	if perr != nil {
		return 0, 0, 0, 0, 0, wrapErr("locateClearKey", KindInvalidSexp, perr)
	}
	pos = dataPos
	newPos, ok := sexp.MatchToken(plainkey, pos, n, "private-key")
	if !ok {
		return 0, 0, 0, 0, 0, newErr("locateClearKey", KindUnknownSexp)
	}
	pos = newPos

	if pos >= len(plainkey) || plainkey[pos] != '(' {
		return 0, 0, 0, 0, 0, newErr("locateClearKey", KindUnknownSexp)
	}
	algoStart = pos
	pos++
	n, dataPos, perr = sexp.NextLen(plainkey, pos)
	if perr != nil {
		return 0, 0, 0, 0, 0, wrapErr("locateClearKey", KindInvalidSexp, perr)
	}
	pos = dataPos

	info, ok := lookupAlgorithm(string(plainkey[pos : pos+minInt(n, len(plainkey)-pos)]))
	if !ok || n != len(info.name) {
		return 0, 0, 0, 0, 0, newErr("locateClearKey", KindUnsupportedAlgorithm)
	}
	pos += n

	for i := 0; i < len(info.params); i++ {
		if i == info.protFrom {
			protBegin = pos
		}
		if pos >= len(plainkey) || plainkey[pos] != '(' {
			return 0, 0, 0, 0, 0, newErr("locateClearKey", KindInvalidSexp)
		}
		pos++
		n, dataPos, perr = sexp.NextLen(plainkey, pos)
		if perr != nil {
			return 0, 0, 0, 0, 0, wrapErr("locateClearKey", KindInvalidSexp, perr)
		}
		if n != 1 || plainkey[dataPos] != info.params[i] {
			return 0, 0, 0, 0, 0, newErr("locateClearKey", KindInvalidSexp)
		}
		pos = dataPos + n
		n, dataPos, perr = sexp.NextLen(plainkey, pos)
		if perr != nil {
			return 0, 0, 0, 0, 0, wrapErr("locateClearKey", KindInvalidSexp, perr)
		}
		pos = dataPos + n
		if pos >= len(plainkey) || plainkey[pos] != ')' {
			return 0, 0, 0, 0, 0, newErr("locateClearKey", KindInvalidSexp)
		}
		if i == info.protTo {
			protEnd = pos + 1
		}
		pos++
	}
	if pos >= len(plainkey) || plainkey[pos] != ')' {
		return 0, 0, 0, 0, 0, newErr("locateClearKey", KindInvalidSexp)
	}
	pos++
	algoEnd = pos

	skipPos, serr := sexp.Skip(plainkey, pos, 1)
	if serr != nil {
		return 0, 0, 0, 0, 0, wrapErr("locateClearKey", KindInvalidSexp, serr)
	}
	realEnd = skipPos

	return algoStart, algoEnd, protBegin, protEnd, realEnd, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
