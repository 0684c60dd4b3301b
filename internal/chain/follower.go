// Package chain follows the blockchain from the wallet's side: it applies
// confirmed blocks to the ledger, fans chain events out to registered
// wallets, and rolls everything back through reorgs.
package chain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/orchardnet/orchard-wallet/internal/ledger"
	"github.com/orchardnet/orchard-wallet/internal/log"
	"github.com/orchardnet/orchard-wallet/internal/poolwallet"
	"github.com/orchardnet/orchard-wallet/internal/wallet"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// Block processing errors.
var (
	ErrBadHeight   = errors.New("block height does not follow tip")
	ErrBadPrevHash = errors.New("prev_hash does not match current tip")
)

// Block is the wallet's view of one confirmed block: only the coin events
// the wallet subscribed to, not full block contents.
type Block struct {
	Height     uint32     `json:"height"`
	HeaderHash types.Hash `json:"header_hash"`
	PrevHash   types.Hash `json:"prev_hash"`

	// IsTransactionBlock marks blocks that can carry transactions.
	IsTransactionBlock bool `json:"is_transaction_block"`

	// Spends are the confirmed coin spends relevant to the wallet.
	Spends []types.CoinSpend `json:"spends,omitempty"`

	// Additions are new coins paid to watched puzzle hashes.
	Additions []types.Coin `json:"additions,omitempty"`

	// RewardAdditions are farming reward coins paid to watched
	// pay-to-singleton puzzle hashes.
	RewardAdditions []types.Coin `json:"reward_additions,omitempty"`
}

// Follower applies confirmed blocks in order. One coarse lock serializes
// block processing against reorgs; wallet-facing calls go through each
// wallet's own lock.
type Follower struct {
	mu      sync.Mutex
	store   *ledger.Store
	wallets *wallet.Collection

	// tipHash is zero after restart; the first block then re-anchors
	// linkage at peak+1.
	tipHash   types.Hash
	tipHeight uint32
	anchored  bool
}

// NewFollower creates a follower over the ledger store, recovering the tip
// height from a previous run.
func NewFollower(store *ledger.Store, wallets *wallet.Collection) (*Follower, error) {
	if store == nil {
		return nil, fmt.Errorf("ledger store is nil")
	}
	if wallets == nil {
		return nil, fmt.Errorf("wallet collection is nil")
	}
	peak, err := store.PeakHeight()
	if err != nil {
		return nil, fmt.Errorf("recover peak: %w", err)
	}
	return &Follower{store: store, wallets: wallets, tipHeight: peak}, nil
}

// PeakHeight returns the height of the last processed block.
func (f *Follower) PeakHeight() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tipHeight
}

// ProcessBlock applies one confirmed block. Blocks must arrive in order;
// a gap or a mismatched parent means the caller must resync or reorg.
func (f *Follower) ProcessBlock(blk *Block) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if blk == nil {
		return fmt.Errorf("nil block")
	}
	if f.anchored {
		if blk.PrevHash != f.tipHash {
			return fmt.Errorf("%w: height %d", ErrBadPrevHash, blk.Height)
		}
		if blk.Height != f.tipHeight+1 {
			return fmt.Errorf("%w: got %d, tip %d", ErrBadHeight, blk.Height, f.tipHeight)
		}
	} else if f.tipHeight != 0 && blk.Height != f.tipHeight+1 {
		return fmt.Errorf("%w: got %d, recovered tip %d", ErrBadHeight, blk.Height, f.tipHeight)
	}

	for _, sp := range blk.Spends {
		if err := f.store.MarkCoinSpent(sp.Coin); err != nil {
			return fmt.Errorf("mark coin spent: %w", err)
		}
	}
	for _, c := range blk.Additions {
		if err := f.store.AddUnspentCoin(c, blk.Height); err != nil {
			return fmt.Errorf("add coin: %w", err)
		}
	}
	for _, c := range blk.RewardAdditions {
		if err := f.store.AddUnspentCoin(c, blk.Height); err != nil {
			return fmt.Errorf("add reward coin: %w", err)
		}
		if err := f.store.AddFarmingReward(c, blk.Height); err != nil {
			return fmt.Errorf("add reward record: %w", err)
		}
	}
	if blk.IsTransactionBlock {
		if err := f.store.MarkTransactionBlock(blk.Height); err != nil {
			return fmt.Errorf("mark tx block: %w", err)
		}
	}
	if err := f.store.SetPeakHeight(blk.Height); err != nil {
		return fmt.Errorf("set peak: %w", err)
	}

	f.tipHash = blk.HeaderHash
	f.tipHeight = blk.Height
	f.anchored = true

	// Singleton lineage advances before peak fan-out, so second-phase
	// travels see the freshly confirmed state.
	if len(blk.Spends) > 0 {
		f.applyPoolTransitions(blk)
	}
	f.wallets.OnNewPeak(blk.Height)

	log.Chain.Debug().
		Uint32("height", blk.Height).
		Int("spends", len(blk.Spends)).
		Bool("tx_block", blk.IsTransactionBlock).
		Msg("block processed")
	return nil
}

func (f *Follower) applyPoolTransitions(blk *Block) {
	for _, id := range f.wallets.OfKind(wallet.KindPool) {
		pw, ok := f.wallets.Get(id).(*poolwallet.PoolWallet)
		if !ok {
			continue
		}
		if _, err := pw.ApplyStateTransitions(blk.Spends, blk.Height); err != nil {
			log.Chain.Error().
				Str("launcher_id", id.String()).
				Uint32("height", blk.Height).
				Err(err).
				Msg("pool transition processing failed")
		}
	}
}

// ProcessReorg rolls the wallet state back to forkHeight. Blocks above the
// fork are forgotten; the caller then replays the new branch through
// ProcessBlock. Returns the ids of wallets destroyed by the rollback; each
// destroyed pool wallet has its config entry and ledger records revoked.
func (f *Follower) ProcessReorg(forkHeight uint32) ([]types.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Capture pool wallets up front: Rewind drops destroyed ids from the
	// collection before cleanup can reach them.
	pools := make(map[types.Hash]*poolwallet.PoolWallet)
	for _, id := range f.wallets.OfKind(wallet.KindPool) {
		if pw, ok := f.wallets.Get(id).(*poolwallet.PoolWallet); ok {
			pools[id] = pw
		}
	}

	destroyed := f.wallets.Rewind(forkHeight)

	for _, id := range destroyed {
		pw, ok := pools[id]
		if !ok {
			continue
		}
		if err := pw.Destroy(); err != nil {
			log.Chain.Error().
				Str("launcher_id", id.String()).
				Err(err).
				Msg("destroyed wallet cleanup failed")
		}
	}

	if err := f.store.SetPeakHeight(forkHeight); err != nil {
		return destroyed, fmt.Errorf("reset peak: %w", err)
	}
	f.tipHeight = forkHeight
	f.tipHash = types.Hash{}
	f.anchored = false

	log.Chain.Warn().
		Uint32("fork_height", forkHeight).
		Int("destroyed", len(destroyed)).
		Msg("reorg processed")
	return destroyed, nil
}
