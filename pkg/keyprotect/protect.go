package keyprotect

import (
	"strconv"

	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/cryptosuite"
	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/s2k"
	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/secmem"
)

// Protect implements spec.md §4.4: given a clear private-key expression and
// a UTF-8 passphrase, it produces a protected-private-key expression whose
// d/p/q/u parameters are AES-128-CBC encrypted under a key derived from the
// passphrase, with a SHA-1 integrity code over the clear algorithm sub-list
// embedded in the encrypted block.
func Protect(provider cryptosuite.Provider, plainkey []byte, passphrase string) ([]byte, error) {
	return protectWithCount(provider, plainkey, passphrase, s2kEncryptCount)
}

func protectWithCount(provider cryptosuite.Provider, plainkey []byte, passphrase string, count int) ([]byte, error) {
	const op = "Protect"

	algoStart, algoEnd, protBegin, protEnd, realEnd, err := locateClearKey(plainkey)
	if err != nil {
		return nil, err
	}

	mic := provider.SHA1(plainkey[algoStart:algoEnd])

	random, err := provider.RandomBytes(2*cryptosuite.BlockSize + saltLen)
	if err != nil {
		return nil, wrapErr(op, KindCryptoFailure, err)
	}
	randBuf := secmem.Wrap(random)
	defer randBuf.Free()
	iv := random[:cryptosuite.BlockSize]
	pad := random[cryptosuite.BlockSize : 2*cryptosuite.BlockSize]
	salt := random[2*cryptosuite.BlockSize:]

	key, err := s2k.DeriveKey(passphrase, salt, count, cryptosuite.KeyLen)
	if err != nil {
		return nil, wrapErr(op, KindInvalidValue, err)
	}
	keyBuf := secmem.Wrap(key)
	defer keyBuf.Free()

	plainWrapped, encLen, err := buildPlaintextWrappedBlock(plainkey, protBegin, protEnd, mic, pad)
	if err != nil {
		return nil, err
	}
	wrappedBuf := secmem.Wrap(plainWrapped)
	defer wrappedBuf.Free()

	ciphertext, err := provider.AES128CBCEncrypt(key, iv, plainWrapped[:encLen])
	if err != nil {
		return nil, wrapErr(op, KindCryptoFailure, err)
	}

	return assembleProtected(plainkey, protBegin, protEnd, realEnd, salt, iv, count, ciphertext)
}

// buildPlaintextWrappedBlock builds the plaintext fed to the cipher
// (spec.md §3):
//
//	((<d><p><q><u>)(4:hash4:sha120:<mic>)) || pad
//
// It returns the full buffer (including the trailing, never-encrypted
// remainder of pad) and encLen, the largest multiple of the block size not
// exceeding the buffer's length — the range that actually gets encrypted,
// per spec.md §4.4 step 5.
func buildPlaintextWrappedBlock(plainkey []byte, protBegin, protEnd int, mic [20]byte, pad []byte) ([]byte, int, error) {
	const header = "(4:hash4:sha120:"
	protLen := protEnd - protBegin
	unpaddedLen := 2 + protLen + 1 + len(header) + micLen + 2
	outLen := unpaddedLen + len(pad)
	encLen := (outLen / cryptosuite.BlockSize) * cryptosuite.BlockSize

	out := make([]byte, outLen)
	p := 0
	out[p] = '('
	p++
	out[p] = '('
	p++
	p += copy(out[p:], plainkey[protBegin:protEnd])
	out[p] = ')'
	p++
	p += copy(out[p:], header)
	p += copy(out[p:], mic[:])
	out[p] = ')'
	p++
	out[p] = ')'
	p++
	p += copy(out[p:], pad)
	if p != outLen {
		return nil, 0, newErr("buildPlaintextWrappedBlock", KindBug)
	}
	return out, encLen, nil
}

// assembleProtected builds the final protected expression by canonical
// concatenation (spec.md §4.4 step 7):
//
//	(21:protected-private-key
//	  <verbatim prefix up to protBegin, preserving n/e>
//	  (9:protected<L>:<modestr>((4:sha18:<salt><C>:<count>)16:<iv>)<E>:<ciphertext>)
//	  <verbatim tail from protEnd to realEnd>
func assembleProtected(plainkey []byte, protBegin, protEnd, realEnd int, salt, iv []byte, count int, ciphertext []byte) ([]byte, error) {
	prefix := plainkey[protHeaderSkip():protBegin]
	suffix := plainkey[protEnd:realEnd]
	protectedList := buildProtectedList(protectionModeString, salt, count, iv, ciphertext)

	const outerHeader = "(21:protected-private-key"
	resultLen := len(outerHeader) + len(prefix) + len(protectedList) + len(suffix)
	result := make([]byte, resultLen)
	p := 0
	p += copy(result[p:], outerHeader)
	p += copy(result[p:], prefix)
	p += copy(result[p:], protectedList)
	p += copy(result[p:], suffix)
	if p != resultLen {
		return nil, newErr("assembleProtected", KindBug)
	}
	return result, nil
}

// protHeaderSkip returns the offset just past "(11:private-key" — the
// point from which the unprotected parameter prefix (n, e) is copied
// verbatim. protect.c's comment calls out the same 15-byte skip: "the
// beginning of the plaintext reads: '((11:private-key(' ".
func protHeaderSkip() int {
	return 1 + len("11:private-key")
}

// buildProtectedList renders the "(9:protected ...)" sub-list that carries
// the S2K parameters, IV, and ciphertext (spec.md §3).
func buildProtectedList(modestr string, salt []byte, count int, iv, ciphertext []byte) []byte {
	countStr := strconv.Itoa(count)
	saltSexp := "(4:sha1" + strconv.Itoa(len(salt)) + ":" + string(salt) + strconv.Itoa(len(countStr)) + ":" + countStr + ")"
	ivSexp := strconv.Itoa(len(iv)) + ":" + string(iv)
	paramsSexp := "(" + saltSexp + ivSexp + ")"
	ctSexp := strconv.Itoa(len(ciphertext)) + ":" + string(ciphertext)
	body := strconv.Itoa(len(modestr)) + ":" + modestr + paramsSexp + ctSexp
	return []byte("(9:protected" + body + ")")
}
