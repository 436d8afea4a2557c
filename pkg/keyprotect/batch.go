package keyprotect

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cryptagent/keyprotect-go/pkg/keyprotect/cryptosuite"
)

// ProtectAllParams contains parameters for protecting multiple clear
// private-key expressions concurrently (spec.md §5's concurrency grant:
// independent keys may be processed in parallel, each using its own
// randomness and S2K derivation).
type ProtectAllParams struct {
	// Provider supplies randomness, SHA-1, and AES-CBC for every item.
	Provider cryptosuite.Provider

	// Plainkeys is the list of clear private-key expressions to protect.
	Plainkeys [][]byte

	// Passphrase protects every key in the batch under the same secret.
	Passphrase string

	// Concurrency bounds how many items run at once. Zero or negative
	// means unbounded (one goroutine per item).
	Concurrency int
}

// ProtectAllResult contains the result of a batch Protect call.
type ProtectAllResult struct {
	// Protected holds one protected expression per input, in input order.
	Protected [][]byte
}

// ProtectAll protects every entry in params.Plainkeys under the same
// passphrase, running the per-key work concurrently. If any single key
// fails to protect, ProtectAll cancels the remaining work and returns the
// first error encountered.
func ProtectAll(ctx context.Context, params *ProtectAllParams) (*ProtectAllResult, error) {
	const op = "ProtectAll"
	if params == nil {
		return nil, newErr(op, KindInvalidValue)
	}
	if params.Provider == nil {
		return nil, newErr(op, KindInvalidValue)
	}

	results := make([][]byte, len(params.Plainkeys))
	g, gctx := errgroup.WithContext(ctx)
	if params.Concurrency > 0 {
		g.SetLimit(params.Concurrency)
	}

	for i, plainkey := range params.Plainkeys {
		i, plainkey := i, plainkey
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out, err := Protect(params.Provider, plainkey, params.Passphrase)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ProtectAllResult{Protected: results}, nil
}

// UnprotectAllParams contains parameters for unprotecting multiple
// protected private-key expressions concurrently.
type UnprotectAllParams struct {
	// Provider supplies SHA-1 and AES-CBC for every item.
	Provider cryptosuite.Provider

	// Protectedkeys is the list of protected-private-key expressions.
	Protectedkeys [][]byte

	// Passphrase unlocks every key in the batch.
	Passphrase string

	// Concurrency bounds how many items run at once. Zero or negative
	// means unbounded (one goroutine per item).
	Concurrency int
}

// UnprotectAllResult contains the result of a batch Unprotect call.
type UnprotectAllResult struct {
	// Cleartexts holds one clear expression per input, in input order.
	Cleartexts [][]byte
}

// UnprotectAll unprotects every entry in params.Protectedkeys under the
// same passphrase, running the per-key work concurrently. A bad
// passphrase or corrupted entry anywhere in the batch cancels the
// remaining work; the caller does not learn which specific entries had
// already succeeded.
func UnprotectAll(ctx context.Context, params *UnprotectAllParams) (*UnprotectAllResult, error) {
	const op = "UnprotectAll"
	if params == nil {
		return nil, newErr(op, KindInvalidValue)
	}
	if params.Provider == nil {
		return nil, newErr(op, KindInvalidValue)
	}

	results := make([][]byte, len(params.Protectedkeys))
	g, gctx := errgroup.WithContext(ctx)
	if params.Concurrency > 0 {
		g.SetLimit(params.Concurrency)
	}

	for i, protectedkey := range params.Protectedkeys {
		i, protectedkey := i, protectedkey
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out, err := Unprotect(params.Provider, protectedkey, params.Passphrase)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &UnprotectAllResult{Cleartexts: results}, nil
}
