// Package sexp reads canonical structured expressions (CSE): the
// length-prefixed, parenthesized byte format described by spec.md §3.
//
//	sexp    := '(' element+ ')'
//	element := sexp | length ':' bytes
//	length  := ascii digits, no leading zero, non-zero
//
// Every operation here returns byte offsets into the caller's buffer rather
// than allocating or building a tree: callers that need to splice ranges
// verbatim (as the protector and unprotector do) depend on working with the
// exact input bytes, not a re-serialized form.
package sexp

import "errors"

// ErrInvalidSexp is returned for any malformed canonical expression: bad
// length encoding, unbalanced parentheses, or an unexpected byte where a
// list or length prefix was expected.
var ErrInvalidSexp = errors.New("sexp: invalid canonical expression")

// maxDepth bounds nested-list recursion so a crafted input cannot overflow
// the depth counter or exhaust the call stack.
const maxDepth = 1 << 16

// NextLen consumes an ASCII decimal length prefix followed by ':' starting
// at offset pos in buf, and returns the length and the offset of the first
// payload byte (i.e. just past the ':').
//
// A zero length is forbidden: "0:" fails just like a bare ":" with no
// digits at all, matching the original snext's `if (!n || *s != ':')
// return 0` — an empty length is never valid in a canonical expression.
func NextLen(buf []byte, pos int) (length int, dataPos int, err error) {
	start := pos
	n := 0
	for pos < len(buf) && buf[pos] >= '0' && buf[pos] <= '9' {
		d := int(buf[pos] - '0')
		if n > (1<<62)/10 {
			return 0, 0, ErrInvalidSexp
		}
		n = n*10 + d
		pos++
	}
	if pos == start {
		// no digits at all: empty length, forbidden
		return 0, 0, ErrInvalidSexp
	}
	if buf[start] == '0' && pos-start > 1 {
		// leading zero, e.g. "01:", forbidden except the literal "0"
		return 0, 0, ErrInvalidSexp
	}
	if n == 0 {
		// "0:" is forbidden: empty length is never valid
		return 0, 0, ErrInvalidSexp
	}
	if pos >= len(buf) || buf[pos] != ':' {
		return 0, 0, ErrInvalidSexp
	}
	return n, pos + 1, nil
}

// Skip advances pos over a (possibly partial) sub-expression, maintaining a
// '(' / ')' nesting depth. depth is the number of currently-open lists the
// cursor is inside of; Skip runs until depth returns to 0. Passing depth=1
// with pos at the first byte after an opening '(' skips to just past the
// matching ')'.
func Skip(buf []byte, pos int, depth int) (newPos int, err error) {
	if depth < 0 || depth > maxDepth {
		return 0, ErrInvalidSexp
	}
	for depth > 0 {
		if pos >= len(buf) {
			return 0, ErrInvalidSexp
		}
		switch buf[pos] {
		case '(':
			depth++
			if depth > maxDepth {
				return 0, ErrInvalidSexp
			}
			pos++
		case ')':
			depth--
			pos++
		default:
			n, dataPos, err := NextLen(buf, pos)
			if err != nil {
				return 0, err
			}
			pos = dataPos + n
		}
	}
	return pos, nil
}

// MatchToken reports whether the length-byte token at buf[pos:pos+length]
// equals token. On a match it returns the offset just past the token; on a
// mismatch it returns pos unchanged and ok is false.
func MatchToken(buf []byte, pos int, length int, token string) (newPos int, ok bool) {
	if length != len(token) || pos+length > len(buf) {
		return pos, false
	}
	if string(buf[pos:pos+length]) != token {
		return pos, false
	}
	return pos + length, true
}

// CanonLen returns the total byte length of the outermost sexp stored at
// the start of buf, i.e. the offset of the byte just past its matching
// closing ')'. It returns 0 if buf does not begin with a well-formed
// canonical expression, or if the expression does not entirely fit within
// buf's declared bound (it may, however, be shorter than len(buf); trailing
// bytes are not an error — callers that require an exact match check that
// themselves).
func CanonLen(buf []byte) int {
	if len(buf) == 0 || buf[0] != '(' {
		return 0
	}
	pos, err := Skip(buf, 1, 1)
	if err != nil {
		return 0
	}
	return pos
}
