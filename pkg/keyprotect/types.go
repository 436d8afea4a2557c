package keyprotect

// Classification is the result of inspecting a structured expression's
// outer tag (spec.md §4.7).
type Classification int

const (
	// Unknown covers any unrecognized shape or parse failure at the header.
	Unknown Classification = iota
	// Clear is a plaintext private-key expression.
	Clear
	// Protected is a passphrase-encrypted private-key expression.
	Protected
	// Shadowed is a reference to a private key held on external hardware.
	Shadowed
)

func (c Classification) String() string {
	switch c {
	case Clear:
		return "clear"
	case Protected:
		return "protected"
	case Shadowed:
		return "shadowed"
	default:
		return "unknown"
	}
}

// algorithmInfo describes how to locate an algorithm's protected parameter
// span within its sub-list. It is kept as a table — protect.c's
// protect_info — even though RSA is the only populated row, because a
// second key algorithm (were one ever added) would be a second row here,
// not a rewrite of the code that walks it.
type algorithmInfo struct {
	name string
	// params is the fixed, ordered sequence of single-letter parameter
	// keys that follow the algorithm name.
	params string
	// protFrom/protTo are indices into params marking the inclusive span
	// that gets encrypted (protected) and hashed into the MIC.
	protFrom, protTo int
}

var algorithmTable = []algorithmInfo{
	{name: "rsa", params: "nedpqu", protFrom: 2, protTo: 5},
}

func lookupAlgorithm(name string) (algorithmInfo, bool) {
	for _, a := range algorithmTable {
		if a.name == name {
			return a, true
		}
	}
	return algorithmInfo{}, false
}

// protectionModeString is the literal mode token spec.md §3/§6 requires
// inside a protected expression's "protected" sub-list.
const protectionModeString = "openpgp-s2k3-sha1-aes-cbc"

// s2kEncryptCount is the literal s2kcount argument do_encryption passes to
// the KDF when protecting a key (protect.c's hardcoded 96). spec.md §9
// clarifies this value is stored verbatim as the decimal ASCII count in the
// protected expression and is never re-decoded through the OpenPGP
// encoded-count formula on the unprotect side.
const s2kEncryptCount = 96

// ivLen is the AES block size / IV length used throughout (spec.md §3).
const ivLen = 16

// saltLen is the S2K salt length (spec.md §3).
const saltLen = 8

// micLen is the SHA-1 digest length used for the MIC (spec.md §4.2).
const micLen = 20

// shadowProtocolTag is the only defined shadow protocol tag (spec.md §4.6).
const shadowProtocolTag = "t1-v1"
