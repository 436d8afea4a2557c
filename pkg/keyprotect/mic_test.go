package keyprotect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/cryptosuite"
)

const testClearKey = "(11:private-key(3:rsa" +
	"(1:n3:abc)(1:e1:b)(1:d3:xyz)(1:p1:p)(1:q1:q)(1:u1:u)))"

func TestLocateClearKeySpans(t *testing.T) {
	buf := []byte(testClearKey)
	algoStart, algoEnd, protBegin, protEnd, realEnd, err := locateClearKey(buf)
	require.NoError(t, err)

	require.Equal(t, "(3:rsa(1:n3:abc)(1:e1:b)(1:d3:xyz)(1:p1:p)(1:q1:q)(1:u1:u))", string(buf[algoStart:algoEnd]))
	require.Equal(t, "(1:d3:xyz)(1:p1:p)(1:q1:q)(1:u1:u)", string(buf[protBegin:protEnd]))
	require.Equal(t, len(buf), realEnd)
}

func TestLocateClearKeyRejectsUnknownAlgorithm(t *testing.T) {
	_, _, _, _, _, err := locateClearKey([]byte("(11:private-key(3:dsa(1:n1:a)))"))
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindUnsupportedAlgorithm, kind)
}

func TestLocateClearKeyRejectsTruncatedParams(t *testing.T) {
	_, _, _, _, _, err := locateClearKey([]byte("(11:private-key(3:rsa(1:n1:a)(1:e1:b)))"))
	require.Error(t, err)
}

func TestComputeMICDeterministic(t *testing.T) {
	provider := cryptosuite.NewSoftware()
	buf := []byte(testClearKey)

	mic1, err := computeMIC(provider, buf)
	require.NoError(t, err)
	mic2, err := computeMIC(provider, buf)
	require.NoError(t, err)
	require.Equal(t, mic1, mic2)
}

func TestComputeMICChangesWithAlgoSpan(t *testing.T) {
	provider := cryptosuite.NewSoftware()
	buf1 := []byte(testClearKey)
	buf2 := []byte("(11:private-key(3:rsa" +
		"(1:n3:ABC)(1:e1:b)(1:d3:xyz)(1:p1:p)(1:q1:q)(1:u1:u)))")

	mic1, err := computeMIC(provider, buf1)
	require.NoError(t, err)
	mic2, err := computeMIC(provider, buf2)
	require.NoError(t, err)
	require.NotEqual(t, mic1, mic2)
}
