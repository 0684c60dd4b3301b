package tx

import (
	"errors"
	"fmt"
	"math"

	"github.com/orchardnet/orchard-wallet/pkg/crypto"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// MaxBundleSpends caps the spends in one bundle so a bundle cannot outgrow
// a block.
const MaxBundleSpends = 1024

// Validation errors.
var (
	ErrNoSpends       = errors.New("bundle has no spends")
	ErrTooManySpends  = errors.New("too many spends")
	ErrDuplicateSpend = errors.New("duplicate coin spend")
	ErrEmptyReveal    = errors.New("spend missing puzzle reveal")
	ErrEmptySolution  = errors.New("spend missing solution")
	ErrAmountOverflow = errors.New("spend amounts overflow")
)

// Validate checks bundle structure. It does NOT check that the spent coins
// exist or that solutions satisfy their puzzles; the network does that.
func (b *SpendBundle) Validate() error {
	if len(b.Spends) == 0 {
		return ErrNoSpends
	}
	if len(b.Spends) > MaxBundleSpends {
		return fmt.Errorf("%w: %d spends, max %d", ErrTooManySpends, len(b.Spends), MaxBundleSpends)
	}

	seen := make(map[types.Hash]bool, len(b.Spends))
	var total uint64
	for i, sp := range b.Spends {
		id := crypto.CoinID(sp.Coin)
		if seen[id] {
			return fmt.Errorf("spend %d: %w", i, ErrDuplicateSpend)
		}
		seen[id] = true

		if len(sp.PuzzleReveal) == 0 {
			return fmt.Errorf("spend %d: %w", i, ErrEmptyReveal)
		}
		if len(sp.Solution) == 0 {
			return fmt.Errorf("spend %d: %w", i, ErrEmptySolution)
		}

		if sp.Coin.Amount > math.MaxUint64-total {
			return ErrAmountOverflow
		}
		total += sp.Coin.Amount
	}
	return nil
}
