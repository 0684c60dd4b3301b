package wallet

import (
	"errors"
	"testing"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

func makeCoins(amounts ...uint64) []types.Coin {
	coins := make([]types.Coin, len(amounts))
	for i, v := range amounts {
		coins[i] = types.Coin{
			ParentCoinInfo: types.Hash{byte(i + 1)},
			PuzzleHash:     types.Hash{0xaa},
			Amount:         v,
		}
	}
	return coins
}

func TestSelectCoins_ExactMatch(t *testing.T) {
	coins := makeCoins(1000, 2000, 3000)
	sel, err := SelectCoins(coins, 2000)
	if err != nil {
		t.Fatalf("SelectCoins: %v", err)
	}
	if sel.Total != 2000 {
		t.Errorf("total = %d, want 2000", sel.Total)
	}
	if sel.Change != 0 {
		t.Errorf("change = %d, want 0", sel.Change)
	}
	if len(sel.Coins) != 1 {
		t.Errorf("coins = %d, want 1 (exact single match)", len(sel.Coins))
	}
}

func TestSelectCoins_SingleCoin(t *testing.T) {
	coins := makeCoins(5000)
	sel, err := SelectCoins(coins, 3000)
	if err != nil {
		t.Fatalf("SelectCoins: %v", err)
	}
	if sel.Total != 5000 {
		t.Errorf("total = %d, want 5000", sel.Total)
	}
	if sel.Change != 2000 {
		t.Errorf("change = %d, want 2000", sel.Change)
	}
}

func TestSelectCoins_MultipleCoins(t *testing.T) {
	// No single coin covers 4000, must combine.
	coins := makeCoins(1000, 2000, 1500)
	sel, err := SelectCoins(coins, 4000)
	if err != nil {
		t.Fatalf("SelectCoins: %v", err)
	}
	if sel.Total < 4000 {
		t.Errorf("total = %d, should be >= 4000", sel.Total)
	}
	if len(sel.Coins) > 1 {
		// largest-first: 2000 + 1500 + 1000 = 4500
		if sel.Total != 4500 {
			t.Errorf("total = %d, want 4500", sel.Total)
		}
		if sel.Change != 500 {
			t.Errorf("change = %d, want 500", sel.Change)
		}
	}
}

func TestSelectCoins_PrefersLessChange(t *testing.T) {
	coins := makeCoins(1000, 2000, 3000, 5000)
	sel, err := SelectCoins(coins, 3000)
	if err != nil {
		t.Fatalf("SelectCoins: %v", err)
	}
	// Should pick the single coin of 3000 (exact match, 0 change).
	if sel.Change != 0 {
		t.Errorf("change = %d, want 0 (exact 3000 match)", sel.Change)
	}
	if len(sel.Coins) != 1 {
		t.Errorf("coins = %d, want 1", len(sel.Coins))
	}
}

func TestSelectCoins_InsufficientFunds(t *testing.T) {
	coins := makeCoins(1000, 2000)
	_, err := SelectCoins(coins, 5000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got: %v", err)
	}
}

func TestSelectCoins_NoCoins(t *testing.T) {
	_, err := SelectCoins(nil, 1000)
	if !errors.Is(err, ErrNoCoins) {
		t.Errorf("expected ErrNoCoins, got: %v", err)
	}
}

func TestSelectCoins_ZeroTarget(t *testing.T) {
	coins := makeCoins(1000)
	_, err := SelectCoins(coins, 0)
	if err == nil {
		t.Error("zero target should fail")
	}
}

func TestSelectCoins_AllZeroValue(t *testing.T) {
	coins := makeCoins(0, 0, 0)
	_, err := SelectCoins(coins, 1000)
	if !errors.Is(err, ErrNoCoins) {
		t.Errorf("expected ErrNoCoins for all-zero coins, got: %v", err)
	}
}

func TestSelectCoins_LargestFirst(t *testing.T) {
	// Target = 7000. No single coin covers it.
	// Largest-first: 5000 + 3000 = 8000 (change=1000).
	coins := makeCoins(1000, 3000, 5000, 2000)
	sel, err := SelectCoins(coins, 7000)
	if err != nil {
		t.Fatalf("SelectCoins: %v", err)
	}
	if sel.Total != 8000 {
		t.Errorf("total = %d, want 8000", sel.Total)
	}
	if sel.Change != 1000 {
		t.Errorf("change = %d, want 1000", sel.Change)
	}
	if len(sel.Coins) != 2 {
		t.Errorf("coins = %d, want 2", len(sel.Coins))
	}
}

func TestSelectCoins_AllCoins(t *testing.T) {
	// Need every coin to cover the target.
	coins := makeCoins(1000, 2000, 3000)
	sel, err := SelectCoins(coins, 6000)
	if err != nil {
		t.Fatalf("SelectCoins: %v", err)
	}
	if sel.Total != 6000 {
		t.Errorf("total = %d, want 6000", sel.Total)
	}
	if sel.Change != 0 {
		t.Errorf("change = %d, want 0", sel.Change)
	}
	if len(sel.Coins) != 3 {
		t.Errorf("coins = %d, want 3", len(sel.Coins))
	}
}

func TestSelection_Fields(t *testing.T) {
	coins := makeCoins(5000)
	sel, _ := SelectCoins(coins, 3000)
	if sel.Total != sel.Change+3000 {
		t.Error("Total should equal Change + target")
	}
}
