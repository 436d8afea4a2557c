package keyprotect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/cryptosuite"
)

func TestProtectAllUnprotectAllRoundTrip(t *testing.T) {
	provider := cryptosuite.NewSoftware()
	plainkeys := [][]byte{
		[]byte(testClearKey),
		[]byte(testClearKey),
		[]byte(testClearKey),
	}

	protectResult, err := ProtectAll(context.Background(), &ProtectAllParams{
		Provider:    provider,
		Plainkeys:   plainkeys,
		Passphrase:  "batch passphrase",
		Concurrency: 2,
	})
	require.NoError(t, err)
	require.Len(t, protectResult.Protected, len(plainkeys))

	unprotectResult, err := UnprotectAll(context.Background(), &UnprotectAllParams{
		Provider:      provider,
		Protectedkeys: protectResult.Protected,
		Passphrase:    "batch passphrase",
	})
	require.NoError(t, err)
	require.Len(t, unprotectResult.Cleartexts, len(plainkeys))
	for _, cleartext := range unprotectResult.Cleartexts {
		require.Equal(t, testClearKey, string(cleartext))
	}
}

func TestProtectAllFailsFastOnBadInput(t *testing.T) {
	provider := cryptosuite.NewSoftware()
	plainkeys := [][]byte{
		[]byte(testClearKey),
		[]byte("not a valid expression"),
	}

	_, err := ProtectAll(context.Background(), &ProtectAllParams{
		Provider:   provider,
		Plainkeys:  plainkeys,
		Passphrase: "passphrase",
	})
	require.Error(t, err)
}

func TestProtectAllRejectsNilProvider(t *testing.T) {
	_, err := ProtectAll(context.Background(), &ProtectAllParams{
		Plainkeys:  [][]byte{[]byte(testClearKey)},
		Passphrase: "passphrase",
	})
	require.Error(t, err)
}
