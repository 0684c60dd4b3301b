package wallet

import (
	"errors"
	"fmt"
	"sort"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// Coin selection errors.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoCoins           = errors.New("no spendable coins available")
)

// Selection holds the result of coin selection.
type Selection struct {
	Coins  []types.Coin // Selected coins to spend.
	Total  uint64       // Sum of selected coin amounts.
	Change uint64       // Change = Total - target.
}

// SelectCoins chooses coins to fund a spend of the given target amount,
// typically the singleton amount plus fee when originating a launcher.
// It tries two strategies:
//  1. Single coin: the smallest single coin that covers the target
//     (minimizes inputs).
//  2. Largest-first accumulation: greedily adds the largest coins until
//     the target is met.
//
// Returns the strategy that produces the least change (waste).
func SelectCoins(coins []types.Coin, target uint64) (*Selection, error) {
	if len(coins) == 0 {
		return nil, ErrNoCoins
	}
	if target == 0 {
		return nil, fmt.Errorf("target must be positive")
	}

	// Filter out zero-value coins and sort by amount ascending.
	candidates := make([]types.Coin, 0, len(coins))
	for _, c := range coins {
		if c.Amount > 0 {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoCoins
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Amount < candidates[j].Amount
	})

	// Strategy 1: smallest single coin that covers the target.
	var single *Selection
	for _, c := range candidates {
		if c.Amount >= target {
			single = &Selection{
				Coins:  []types.Coin{c},
				Total:  c.Amount,
				Change: c.Amount - target,
			}
			break // Already sorted ascending, first match is smallest.
		}
	}

	// Strategy 2: largest-first accumulation.
	var accum *Selection
	var selected []types.Coin
	var total uint64
	for i := len(candidates) - 1; i >= 0; i-- {
		selected = append(selected, candidates[i])
		total += candidates[i].Amount
		if total >= target {
			accum = &Selection{
				Coins:  selected,
				Total:  total,
				Change: total - target,
			}
			break
		}
	}

	switch {
	case single != nil && accum != nil:
		// Prefer whichever produces less change (less waste).
		if single.Change <= accum.Change {
			return single, nil
		}
		return accum, nil
	case single != nil:
		return single, nil
	case accum != nil:
		return accum, nil
	default:
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, totalAmount(candidates), target)
	}
}

func totalAmount(coins []types.Coin) uint64 {
	var total uint64
	for _, c := range coins {
		total += c.Amount
	}
	return total
}
