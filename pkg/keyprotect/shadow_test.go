package keyprotect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildShadowRoundTrip(t *testing.T) {
	pubkey := []byte("(10:public-key(3:rsa(1:n3:abc)(1:e1:b)))")
	shadowInfo := []byte("(7:card-sn6:123456)")

	shadowed, err := BuildShadow(pubkey, shadowInfo)
	require.NoError(t, err)
	require.Equal(t, Shadowed, Classify(shadowed))

	got, err := ReadShadowInfo(shadowed)
	require.NoError(t, err)
	require.Equal(t, string(shadowInfo), string(got))
}

func TestBuildShadowFromPrivateKeyPublicParams(t *testing.T) {
	// BuildShadow also accepts a private-key expression, copying only the
	// public (pre-protFrom) parameters into the shadow's algo sub-list.
	privkey := []byte(testClearKey)
	shadowInfo := []byte("(7:card-sn6:654321)")

	shadowed, err := BuildShadow(privkey, shadowInfo)
	require.NoError(t, err)

	got, err := ReadShadowInfo(shadowed)
	require.NoError(t, err)
	require.Equal(t, string(shadowInfo), string(got))
}

func TestReadShadowInfoRejectsUnsupportedProtocol(t *testing.T) {
	bad := []byte("(20:shadowed-private-key(3:rsa(1:n1:a)(1:e1:b)(8:shadowed5:t2-v19:whatever!)))")
	_, err := ReadShadowInfo(bad)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindUnsupportedProtocol, kind)
}

func TestReadShadowInfoRejectsWrongOuterTag(t *testing.T) {
	_, err := ReadShadowInfo([]byte(testClearKey))
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindUnknownSexp, kind)
}
