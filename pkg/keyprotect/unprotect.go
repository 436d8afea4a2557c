package keyprotect

import (
	"crypto/subtle"
	"strconv"

	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/cryptosuite"
	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/s2k"
	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/secmem"
	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/sexp"
)

// protectedFields holds everything Unprotect extracts by parsing a
// protected-private-key expression before it can decrypt anything.
type protectedFields struct {
	protListStart int
	protListEnd   int
	salt          []byte
	count         int
	iv            []byte
	ciphertext    []byte
}

// locateProtectedKey parses "(21:protected-private-key (rsa (n..)(e..)
// (protected ...) [ext]))" and returns the parsed protected-list fields.
func locateProtectedKey(protectedkey []byte) (protectedFields, error) {
	const op = "locateProtectedKey"

	if len(protectedkey) == 0 || protectedkey[0] != '(' {
		return protectedFields{}, newErr(op, KindInvalidSexp)
	}
	pos := 1
	n, dataPos, err := sexp.NextLen(protectedkey, pos)
	if err != nil {
		return protectedFields{}, wrapErr(op, KindInvalidSexp, err)
	}
	pos = dataPos
	newPos, ok := sexp.MatchToken(protectedkey, pos, n, "protected-private-key")
	if !ok {
		return protectedFields{}, newErr(op, KindUnknownSexp)
	}
	pos = newPos

	if pos >= len(protectedkey) || protectedkey[pos] != '(' {
		return protectedFields{}, newErr(op, KindUnknownSexp)
	}
	pos++
	n, dataPos, err = sexp.NextLen(protectedkey, pos)
	if err != nil {
		return protectedFields{}, wrapErr(op, KindInvalidSexp, err)
	}
	pos = dataPos
	algoName := string(protectedkey[pos:minInt(pos+n, len(protectedkey))])
	if _, ok := lookupAlgorithm(algoName); !ok {
		return protectedFields{}, newErr(op, KindUnsupportedAlgorithm)
	}
	pos += n

	// Scan parameter lists looking for the one tagged "protected".
	var protListStart int
	for {
		if pos >= len(protectedkey) || protectedkey[pos] != '(' {
			return protectedFields{}, newErr(op, KindInvalidSexp)
		}
		protListStart = pos
		pos++
		n, dataPos, err = sexp.NextLen(protectedkey, pos)
		if err != nil {
			return protectedFields{}, wrapErr(op, KindInvalidSexp, err)
		}
		pos = dataPos
		if _, ok := sexp.MatchToken(protectedkey, pos, n, "protected"); ok {
			pos += n
			break
		}
		pos += n
		skipPos, err := sexp.Skip(protectedkey, pos, 1)
		if err != nil {
			return protectedFields{}, wrapErr(op, KindInvalidSexp, err)
		}
		pos = skipPos
	}

	fields, err := parseProtectedListBody(protectedkey, pos)
	if err != nil {
		return protectedFields{}, err
	}
	fields.protListStart = protListStart

	protListEnd, err := sexp.Skip(protectedkey, protListStart+1, 1)
	if err != nil {
		return protectedFields{}, wrapErr(op, KindInvalidSexp, err)
	}
	fields.protListEnd = protListEnd

	return fields, nil
}

// parseProtectedListBody parses the content of a "protected" sub-list
// starting right after its "protected" token:
//
//	<modestr> ((4:sha1 <salt> <count>) <iv>) <ciphertext>
func parseProtectedListBody(buf []byte, pos int) (protectedFields, error) {
	const op = "parseProtectedListBody"

	n, dataPos, err := sexp.NextLen(buf, pos)
	if err != nil {
		return protectedFields{}, wrapErr(op, KindInvalidSexp, err)
	}
	pos = dataPos
	newPos, ok := sexp.MatchToken(buf, pos, n, protectionModeString)
	if !ok {
		return protectedFields{}, newErr(op, KindUnsupportedProtection)
	}
	pos = newPos

	if pos+1 >= len(buf) || buf[pos] != '(' || buf[pos+1] != '(' {
		return protectedFields{}, newErr(op, KindInvalidSexp)
	}
	pos += 2

	n, dataPos, err = sexp.NextLen(buf, pos)
	if err != nil {
		return protectedFields{}, wrapErr(op, KindInvalidSexp, err)
	}
	pos = dataPos
	newPos, ok = sexp.MatchToken(buf, pos, n, "sha1")
	if !ok {
		return protectedFields{}, newErr(op, KindUnsupportedProtection)
	}
	pos = newPos

	n, dataPos, err = sexp.NextLen(buf, pos)
	if err != nil {
		return protectedFields{}, wrapErr(op, KindInvalidSexp, err)
	}
	if n != saltLen {
		return protectedFields{}, newErr(op, KindCorruptedProtection)
	}
	salt := buf[dataPos : dataPos+n]
	pos = dataPos + n

	n, dataPos, err = sexp.NextLen(buf, pos)
	if err != nil {
		return protectedFields{}, wrapErr(op, KindCorruptedProtection, err)
	}
	if dataPos+n >= len(buf) || buf[dataPos+n] != ')' {
		return protectedFields{}, newErr(op, KindInvalidSexp)
	}
	count, err := strconv.Atoi(string(buf[dataPos : dataPos+n]))
	if err != nil || count <= 0 {
		return protectedFields{}, newErr(op, KindCorruptedProtection)
	}
	pos = dataPos + n
	pos++ // skip the ')' closing "(sha1 salt count)"

	n, dataPos, err = sexp.NextLen(buf, pos)
	if err != nil {
		return protectedFields{}, wrapErr(op, KindCorruptedProtection, err)
	}
	if n != ivLen {
		return protectedFields{}, newErr(op, KindCorruptedProtection)
	}
	iv := buf[dataPos : dataPos+n]
	pos = dataPos + n

	if pos >= len(buf) || buf[pos] != ')' {
		return protectedFields{}, newErr(op, KindInvalidSexp)
	}
	pos++ // skip the ')' closing "((sha1 salt count) iv)"

	n, dataPos, err = sexp.NextLen(buf, pos)
	if err != nil {
		return protectedFields{}, wrapErr(op, KindInvalidSexp, err)
	}
	ciphertext := buf[dataPos : dataPos+n]

	return protectedFields{salt: salt, count: count, iv: iv, ciphertext: ciphertext}, nil
}

// Unprotect implements spec.md §4.5: verify and decrypt a protected
// private-key expression back into its clear form.
func Unprotect(provider cryptosuite.Provider, protectedkey []byte, passphrase string) ([]byte, error) {
	const op = "Unprotect"

	fields, err := locateProtectedKey(protectedkey)
	if err != nil {
		return nil, err
	}

	if len(fields.ciphertext) == 0 || len(fields.ciphertext)%cryptosuite.BlockSize != 0 {
		return nil, newErr(op, KindCorruptedProtection)
	}

	key, err := s2k.DeriveKey(passphrase, fields.salt, fields.count, cryptosuite.KeyLen)
	if err != nil {
		return nil, wrapErr(op, KindInvalidValue, err)
	}
	keyBuf := secmem.Wrap(key)
	defer keyBuf.Free()

	plain, err := provider.AES128CBCDecrypt(key, fields.iv, fields.ciphertext)
	if err != nil {
		return nil, wrapErr(op, KindCryptoFailure, err)
	}
	plainBuf := secmem.Wrap(plain)
	defer plainBuf.Free()

	// Fast plausibility gate (spec.md §4.5 step 5, §9's corrected reading:
	// logical OR, not the original's buggy logical AND).
	if len(plain) < 2 || plain[0] != '(' || plain[1] != '(' {
		return nil, newErr(op, KindBadPassphrase)
	}

	reallen := sexp.CanonLen(plain)
	if reallen == 0 || reallen+cryptosuite.BlockSize < len(fields.ciphertext) {
		return nil, newErr(op, KindBadPassphrase)
	}

	final, storedMIC, err := spliceClearKey(protectedkey, fields, plain)
	if err != nil {
		return nil, err
	}

	algoStart, algoEnd, _, _, _, err := locateClearKey(final)
	if err != nil {
		return nil, err
	}
	computedMIC := provider.SHA1(final[algoStart:algoEnd])
	if subtle.ConstantTimeCompare(computedMIC[:], storedMIC[:]) != 1 {
		return nil, newErr(op, KindCorruptedProtection)
	}

	return final, nil
}

// spliceClearKey implements spec.md §4.5 step 7 and §9's reassembly
// invariant: the new "(rsa ...)" sub-list must be byte-for-byte the
// prefix taken from the protected input, the parameter list taken from
// the decrypted plaintext, and the suffix taken from the protected input
// after the protected list — so that hashing it reproduces the exact MIC
// Protect computed.
func spliceClearKey(protectedkey []byte, fields protectedFields, plain []byte) ([]byte, [20]byte, error) {
	const op = "spliceClearKey"

	// Plaintext shape: "((<params>)(4:hash4:sha120:<mic>))". Walk past the
	// first "((" to the start of the parameter list content, then scan
	// parameter lists until the matching close.
	if len(plain) < 2 || plain[0] != '(' || plain[1] != '(' {
		return nil, [20]byte{}, newErr(op, KindBug)
	}
	pos := 2
	paramsStart := pos
	for pos < len(plain) && plain[pos] == '(' {
		skipPos, err := sexp.Skip(plain, pos+1, 1)
		if err != nil {
			return nil, [20]byte{}, wrapErr(op, KindInvalidSexp, err)
		}
		pos = skipPos
	}
	if pos >= len(plain) || plain[pos] != ')' {
		return nil, [20]byte{}, newErr(op, KindInvalidSexp)
	}
	paramsEnd := pos
	pos++

	// "(hash sha1 20:<mic>)"
	if pos >= len(plain) || plain[pos] != '(' {
		return nil, [20]byte{}, newErr(op, KindInvalidSexp)
	}
	pos++
	n, dataPos, err := sexp.NextLen(plain, pos)
	if err != nil {
		return nil, [20]byte{}, wrapErr(op, KindInvalidSexp, err)
	}
	pos = dataPos
	newPos, ok := sexp.MatchToken(plain, pos, n, "hash")
	if !ok {
		return nil, [20]byte{}, newErr(op, KindInvalidSexp)
	}
	pos = newPos
	n, dataPos, err = sexp.NextLen(plain, pos)
	if err != nil {
		return nil, [20]byte{}, wrapErr(op, KindInvalidSexp, err)
	}
	pos = dataPos
	newPos, ok = sexp.MatchToken(plain, pos, n, "sha1")
	if !ok {
		return nil, [20]byte{}, newErr(op, KindInvalidSexp)
	}
	pos = newPos
	n, dataPos, err = sexp.NextLen(plain, pos)
	if err != nil {
		return nil, [20]byte{}, wrapErr(op, KindInvalidSexp, err)
	}
	if n != micLen {
		return nil, [20]byte{}, newErr(op, KindInvalidSexp)
	}
	var storedMIC [20]byte
	copy(storedMIC[:], plain[dataPos:dataPos+n])
	pos = dataPos + n
	if pos >= len(plain) || plain[pos] != ')' {
		return nil, [20]byte{}, newErr(op, KindInvalidSexp)
	}

	prefix := protectedkey[protHeaderSkipProtected():fields.protListStart]
	params := plain[paramsStart:paramsEnd]
	suffix := protectedkey[fields.protListEnd:]

	const newHeader = "(11:private-key"
	resultLen := len(newHeader) + len(prefix) + len(params) + len(suffix)
	result := make([]byte, resultLen)
	p := 0
	p += copy(result[p:], newHeader)
	p += copy(result[p:], prefix)
	p += copy(result[p:], params)
	p += copy(result[p:], suffix)
	if p != resultLen {
		return nil, [20]byte{}, newErr(op, KindBug)
	}
	return result, storedMIC, nil
}

// protHeaderSkipProtected returns the offset just past "(21:protected-
// private-key" — the point from which the unprotected algo-sublist prefix
// (n, e) is copied verbatim.
func protHeaderSkipProtected() int {
	return 1 + len("21:protected-private-key")
}
