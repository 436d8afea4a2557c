package keyprotect

import "github.com/cryptagent/keyprotect-go/pkg/keyprotect/sexp"

// BuildShadow implements spec.md §4.6: given a clear public-key expression
// and an opaque shadow-info blob, it produces a "(20:shadowed-private-key
// ...)" expression recording where the real private key lives. The
// "shadowed" list is spliced just before the final ')' of the algorithm
// sub-list — a parameter of that sub-list, not a sibling of it — matching
// protect.c's agent_shadow_key (it inserts at "point", the position right
// before the algo list's own closing paren).
//
//	(20:shadowed-private-key
//	  (<algo-name> <public-params...> (8:shadowed5:t1-v1<shadow-info>)))
func BuildShadow(pubkey, shadowInfo []byte) ([]byte, error) {
	const op = "BuildShadow"

	algoStart, algoBodyEnd, err := locatePublicKeyAlgo(pubkey)
	if err != nil {
		return nil, err
	}
	// algoBodyEnd is one past the last public parameter's closing ')', i.e.
	// the position just before the algo sub-list's own closing ')' — where
	// the shadowed list gets spliced in.
	algoBody := pubkey[algoStart:algoBodyEnd]

	shadowList := buildShadowList(shadowInfo)

	const outerHeader = "(20:shadowed-private-key"
	resultLen := len(outerHeader) + len(algoBody) + len(shadowList) + 2 /* ')' closing algo sub-list, ')' closing outer */
	result := make([]byte, resultLen)
	p := 0
	p += copy(result[p:], outerHeader)
	p += copy(result[p:], algoBody)
	p += copy(result[p:], shadowList)
	result[p] = ')'
	p++
	result[p] = ')'
	p++
	if p != resultLen {
		return nil, newErr(op, KindBug)
	}
	return result, nil
}

// buildShadowList renders "(8:shadowed5:t1-v1<info>)": "shadowed", "t1-v1"
// and the shadow-info blob are flat siblings of one list, matching
// protect.c:963's stpcpy(p, "(8:shadowed5:t1-v1") verbatim rather than
// nesting the tag and info in a sub-list of their own.
func buildShadowList(shadowInfo []byte) []byte {
	tag := itoaLen(len(shadowProtocolTag)) + ":" + shadowProtocolTag
	body := "8:shadowed" + tag + string(shadowInfo)
	return []byte("(" + body + ")")
}

func itoaLen(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// locatePublicKeyAlgo parses a clear public-key or private-key expression's
// outer tag plus its algorithm sub-list's public parameters (n, e for rsa),
// stopping before any protected or private parameter. It returns algoStart
// (the algo sub-list's opening '(') and algoBodyEnd (one past the last
// public parameter consumed).
func locatePublicKeyAlgo(key []byte) (algoStart, algoBodyEnd int, err error) {
	const op = "locatePublicKeyAlgo"

	if len(key) == 0 || key[0] != '(' {
		return 0, 0, newErr(op, KindInvalidSexp)
	}
	pos := 1
	n, dataPos, perr := sexp.NextLen(key, pos)
	if perr != nil {
		return 0, 0, wrapErr(op, KindInvalidSexp, perr)
	}
	pos = dataPos
	newPos, ok := sexp.MatchToken(key, pos, n, "public-key")
	if !ok {
		newPos, ok = sexp.MatchToken(key, pos, n, "private-key")
	}
	if !ok {
		return 0, 0, newErr(op, KindUnknownSexp)
	}
	pos = newPos

	if pos >= len(key) || key[pos] != '(' {
		return 0, 0, newErr(op, KindUnknownSexp)
	}
	algoStart = pos
	pos++
	n, dataPos, perr = sexp.NextLen(key, pos)
	if perr != nil {
		return 0, 0, wrapErr(op, KindInvalidSexp, perr)
	}
	pos = dataPos

	info, ok := lookupAlgorithm(string(key[pos:minInt(pos+n, len(key))]))
	if !ok || n != len(info.name) {
		return 0, 0, newErr(op, KindUnsupportedAlgorithm)
	}
	pos += n

	// Only the public parameters (indices before protFrom) are copied.
	for i := 0; i < info.protFrom; i++ {
		if pos >= len(key) || key[pos] != '(' {
			return 0, 0, newErr(op, KindInvalidSexp)
		}
		pos++
		n, dataPos, perr = sexp.NextLen(key, pos)
		if perr != nil {
			return 0, 0, wrapErr(op, KindInvalidSexp, perr)
		}
		if n != 1 || key[dataPos] != info.params[i] {
			return 0, 0, newErr(op, KindInvalidSexp)
		}
		pos = dataPos + n
		n, dataPos, perr = sexp.NextLen(key, pos)
		if perr != nil {
			return 0, 0, wrapErr(op, KindInvalidSexp, perr)
		}
		pos = dataPos + n
		if pos >= len(key) || key[pos] != ')' {
			return 0, 0, newErr(op, KindInvalidSexp)
		}
		pos++
	}
	algoBodyEnd = pos
	return algoStart, algoBodyEnd, nil
}

// ReadShadowInfo implements spec.md §4.6: given a shadowed-private-key
// expression, it returns the non-owning byte span of the shadow-info blob
// recorded inside the algo sub-list's "(shadowed t1-v1 ...)" parameter,
// without copying.
func ReadShadowInfo(shadowkey []byte) ([]byte, error) {
	const op = "ReadShadowInfo"

	if len(shadowkey) == 0 || shadowkey[0] != '(' {
		return nil, newErr(op, KindInvalidSexp)
	}
	pos := 1
	n, dataPos, err := sexp.NextLen(shadowkey, pos)
	if err != nil {
		return nil, wrapErr(op, KindInvalidSexp, err)
	}
	pos = dataPos
	newPos, ok := sexp.MatchToken(shadowkey, pos, n, "shadowed-private-key")
	if !ok {
		return nil, newErr(op, KindUnknownSexp)
	}
	pos = newPos

	if pos >= len(shadowkey) || shadowkey[pos] != '(' {
		return nil, newErr(op, KindUnknownSexp)
	}
	pos++
	n, dataPos, err = sexp.NextLen(shadowkey, pos)
	if err != nil {
		return nil, wrapErr(op, KindInvalidSexp, err)
	}
	pos = dataPos + n // skip the algorithm name, whatever it is

	// The "shadowed" list is a parameter of the algo sub-list, spliced in
	// just before its closing ')' — walk the parameter lists looking for
	// it, skipping over any other (name value) parameter along the way.
	for {
		if pos >= len(shadowkey) {
			return nil, newErr(op, KindInvalidSexp)
		}
		if shadowkey[pos] == ')' {
			// ran out of parameters without finding a "shadowed" list
			return nil, newErr(op, KindUnknownSexp)
		}
		if shadowkey[pos] != '(' {
			return nil, newErr(op, KindInvalidSexp)
		}
		pos++
		n, dataPos, err = sexp.NextLen(shadowkey, pos)
		if err != nil {
			return nil, wrapErr(op, KindInvalidSexp, err)
		}
		if tagPos, ok := sexp.MatchToken(shadowkey, dataPos, n, "shadowed"); ok {
			pos = tagPos
			break
		}
		// not the shadowed list: skip its value and closing ')'
		pos = dataPos + n
		n, dataPos, err = sexp.NextLen(shadowkey, pos)
		if err != nil {
			return nil, wrapErr(op, KindInvalidSexp, err)
		}
		pos = dataPos + n
		if pos >= len(shadowkey) || shadowkey[pos] != ')' {
			return nil, newErr(op, KindInvalidSexp)
		}
		pos++
	}

	// pos sits just past "shadowed"; "t1-v1" and the info blob are flat
	// siblings of the same list, not wrapped in a sub-list of their own.
	n, dataPos, err = sexp.NextLen(shadowkey, pos)
	if err != nil {
		return nil, wrapErr(op, KindInvalidSexp, err)
	}
	newPos, ok = sexp.MatchToken(shadowkey, dataPos, n, shadowProtocolTag)
	if !ok {
		return nil, newErr(op, KindUnsupportedProtocol)
	}
	pos = newPos

	if pos >= len(shadowkey) || shadowkey[pos] != '(' {
		return nil, newErr(op, KindInvalidSexp)
	}
	infoStart := pos
	infoEnd, err := sexp.Skip(shadowkey, pos+1, 1)
	if err != nil {
		return nil, wrapErr(op, KindInvalidSexp, err)
	}
	return shadowkey[infoStart:infoEnd], nil
}
