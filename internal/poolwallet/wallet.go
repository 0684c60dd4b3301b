// Package poolwallet implements the pool-membership state machine: it
// reconstructs a singleton's declared state from confirmed spend history,
// builds travel and absorb spends, follows confirmed blocks, and survives
// chain reorganizations.
package poolwallet

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/orchardnet/orchard-wallet/internal/ledger"
	"github.com/orchardnet/orchard-wallet/internal/log"
	"github.com/orchardnet/orchard-wallet/internal/pool"
	"github.com/orchardnet/orchard-wallet/internal/puzzle"
	"github.com/orchardnet/orchard-wallet/internal/wallet"
	"github.com/orchardnet/orchard-wallet/pkg/crypto"
	"github.com/orchardnet/orchard-wallet/pkg/tx"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// MaxAbsorbBatch caps how many absorb pairs one claim builds, so a single
// claim cannot outgrow a block.
const MaxAbsorbBatch = 100

// reorgBuffer is how many blocks past the leave height the second-phase
// travel waits, so a shallow reorg cannot orphan it.
const reorgBuffer = 2

// PayoutProvider supplies payout material from the owning standard wallet.
type PayoutProvider interface {
	// NextPayoutPuzzleHash derives a fresh payout puzzle hash.
	NextPayoutPuzzleHash() (types.Hash, error)
	// AuthenticationPublicKey returns the hex-encoded key the farmer uses
	// to authenticate with pools, or "" if none is configured.
	AuthenticationPublicKey() string
}

// Info is a snapshot of a pool wallet's reconstructed state.
type Info struct {
	Current            pool.State              `json:"current"`
	Target             *pool.State             `json:"target,omitempty"`
	LauncherCoin       types.Coin              `json:"launcher_coin"`
	LauncherID         types.Hash              `json:"launcher_id"`
	PayToSingletonHash types.Hash              `json:"p2_singleton_puzzle_hash"`
	CurrentInner       types.SerializedProgram `json:"current_inner"`
	TipCoinID          types.Hash              `json:"tip_coin_id"`
	TipHeight          uint32                  `json:"tip_height"`
}

// stateCache avoids re-scanning the whole history on repeated reads.
// Valid only while the history tail is unchanged; dropped on every
// append and rewind.
type stateCache struct {
	historyLen int
	lastCoinID types.Hash
	info       Info
}

// Options configure a pool wallet instance.
type Options struct {
	Ledger           ledger.Ledger
	Configs          *ConfigStore
	Payout           PayoutProvider
	LauncherCoin     types.Coin
	GenesisChallenge types.Hash
	DelaySeconds     uint64
	DelayPuzzleHash  types.Hash

	// MinFeeRate is the network's minimum relay fee in base units per
	// byte of canonical bundle serialization. Zero disables the check.
	MinFeeRate uint64
}

// PoolWallet is the state machine for one singleton. Exactly one instance
// exists per launcher id; all public operations serialize on its lock, and
// the surrounding wallet collection additionally serializes block
// processing against user calls.
type PoolWallet struct {
	mu           sync.Mutex
	launcherCoin types.Coin
	launcherID   types.Hash
	ctx          puzzle.DeriveContext
	ledger       ledger.Ledger
	configs      *ConfigStore
	payout       PayoutProvider
	minFeeRate   uint64

	// In-flight transition goal plus the fee for its remaining phase.
	// Always mutated together; a dangling target with no pending
	// transaction is an inconsistency DeletePending prevents.
	target  *pool.State
	nextFee uint64

	cache *stateCache
	log   zerolog.Logger
}

// New creates a pool wallet for an existing launcher coin, reconstructing
// state lazily from the ledger's spend history.
func New(opts Options) (*PoolWallet, error) {
	if opts.Ledger == nil {
		return nil, fmt.Errorf("pool wallet: ledger is nil")
	}
	if opts.Configs == nil {
		return nil, fmt.Errorf("pool wallet: config store is nil")
	}
	launcherID := crypto.CoinID(opts.LauncherCoin)
	return &PoolWallet{
		launcherCoin: opts.LauncherCoin,
		launcherID:   launcherID,
		ctx: puzzle.DeriveContext{
			LauncherID:       launcherID,
			GenesisChallenge: opts.GenesisChallenge,
			DelaySeconds:     opts.DelaySeconds,
			DelayPuzzleHash:  opts.DelayPuzzleHash,
		},
		ledger:     opts.Ledger,
		configs:    opts.Configs,
		payout:     opts.Payout,
		minFeeRate: opts.MinFeeRate,
		log:        log.PoolWallet.With().Str("launcher_id", launcherID.String()).Logger(),
	}, nil
}

// CreateResult is what originating a new pool singleton produces.
type CreateResult struct {
	Wallet             *PoolWallet
	Transaction        *ledger.PendingTransaction
	LauncherID         types.Hash
	PayToSingletonHash types.Hash
}

// Create originates a new singleton: it derives the launcher coin from the
// funding coin, builds the launcher spend committing the initial state, and
// registers the pending transaction. The funding-coin spend that actually
// creates the launcher coin is assembled and signed by the standard wallet.
func Create(opts Options, initial pool.State, fundingCoin types.Coin, fee uint64) (*CreateResult, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	opts.LauncherCoin = types.Coin{
		ParentCoinInfo: crypto.CoinID(fundingCoin),
		PuzzleHash:     puzzle.LauncherPuzzleHash(),
		Amount:         puzzle.SingletonAmount,
	}
	w, err := New(opts)
	if err != nil {
		return nil, err
	}

	eveFullHash := puzzle.FullPuzzleHash(initial, w.ctx)
	solution := puzzle.NewLauncherSolution(eveFullHash, w.launcherCoin.Amount, initial.Bytes())
	spend := types.CoinSpend{
		Coin:         w.launcherCoin,
		PuzzleReveal: puzzle.NewLauncherPuzzle().Serialize(),
		Solution:     solution.Serialize(),
	}

	peak, err := w.ledger.PeakHeight()
	if err != nil {
		return nil, fmt.Errorf("create pool wallet: %w", err)
	}
	tx, err := w.newPendingTransaction([]types.CoinSpend{spend}, fee, peak)
	if err != nil {
		return nil, fmt.Errorf("create pool wallet: %w", err)
	}
	if err := w.ledger.SubmitPendingTransaction(tx); err != nil {
		return nil, fmt.Errorf("create pool wallet: %w", err)
	}
	if err := w.writeConfig(initial); err != nil {
		return nil, fmt.Errorf("create pool wallet: %w", err)
	}

	w.log.Info().
		Str("state", initial.State.String()).
		Str("pool_url", initial.PoolURL).
		Msg("pool singleton originated")
	return &CreateResult{
		Wallet:             w,
		Transaction:        tx,
		LauncherID:         w.launcherID,
		PayToSingletonHash: w.ctx.PayToSingletonHash(),
	}, nil
}

// LauncherID returns the singleton's permanent identifier.
func (w *PoolWallet) LauncherID() types.Hash {
	return w.launcherID
}

// Kind identifies the wallet variant in the wallet collection.
func (w *PoolWallet) Kind() wallet.Kind {
	return wallet.KindPool
}

// Status reconstructs and returns the current wallet snapshot.
func (w *PoolWallet) Status() (*Info, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.currentStateLocked()
}

// currentStateLocked walks the spend history from the tail backward until a
// spend declares an explicit state. The launcher spend always does, so the
// scan terminates. Undecodable non-launcher spends are treated like absorbs
// (no explicit state) so one bad spend cannot wedge reconstruction.
func (w *PoolWallet) currentStateLocked() (*Info, error) {
	history, err := w.ledger.SpendHistory(w.launcherID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrNoHistory
	}
	last := history[len(history)-1]
	lastCoinID := crypto.CoinID(last.Spend.Coin)

	if c := w.cache; c != nil && c.historyLen == len(history) && c.lastCoinID == lastCoinID {
		info := c.info
		info.Target = w.targetCopy()
		return &info, nil
	}

	var current *pool.State
	for i := len(history) - 1; i >= 0; i-- {
		st, err := StateFromSpend(history[i].Spend)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("launcher spend undecodable: %w", err)
			}
			w.log.Warn().Uint32("height", history[i].Height).Err(err).
				Msg("undecodable spend treated as absorb")
			continue
		}
		if st != nil {
			current = st
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("spend history declares no state")
	}
	if err := current.Validate(); err != nil {
		return nil, err
	}

	inner := puzzle.InnerPuzzle(*current, w.ctx)
	tip := types.Coin{
		ParentCoinInfo: lastCoinID,
		PuzzleHash:     puzzle.NewSingletonPuzzle(w.ctx.LauncherID, inner).TreeHash(),
		Amount:         puzzle.SingletonAmount,
	}
	info := Info{
		Current:            *current,
		LauncherCoin:       w.launcherCoin,
		LauncherID:         w.launcherID,
		PayToSingletonHash: w.ctx.PayToSingletonHash(),
		CurrentInner:       inner.Serialize(),
		TipCoinID:          crypto.CoinID(tip),
		TipHeight:          last.Height,
	}
	w.cache = &stateCache{historyLen: len(history), lastCoinID: lastCoinID, info: info}

	out := info
	out.Target = w.targetCopy()
	return &out, nil
}

func (w *PoolWallet) targetCopy() *pool.State {
	if w.target == nil {
		return nil
	}
	t := *w.target
	return &t
}

// lastSpendLocked returns the most recent confirmed spend.
func (w *PoolWallet) lastSpendLocked() (ledger.HistoryEntry, error) {
	history, err := w.ledger.SpendHistory(w.launcherID)
	if err != nil {
		return ledger.HistoryEntry{}, err
	}
	if len(history) == 0 {
		return ledger.HistoryEntry{}, ErrNoHistory
	}
	return history[len(history)-1], nil
}

// JoinPool starts a transition to farming for a pool. Departing an active
// pool membership routes through LeavingPool first, so the fee covers both
// hops.
func (w *PoolWallet) JoinPool(target pool.State, fee uint64) (*ledger.PendingTransaction, error) {
	if target.State != pool.FarmingToPool {
		return nil, fmt.Errorf("%w: join target must declare FarmingToPool, got %s", ErrInvalidTarget, target.State)
	}
	return w.beginTransition(target, fee)
}

// SelfPool starts a transition back to self-farming, paying rewards to a
// freshly derived puzzle hash of the owning wallet.
func (w *PoolWallet) SelfPool(fee uint64) (*ledger.PendingTransaction, error) {
	if w.payout == nil {
		return nil, fmt.Errorf("self pool: no payout provider configured")
	}
	payoutHash, err := w.payout.NextPayoutPuzzleHash()
	if err != nil {
		return nil, fmt.Errorf("self pool: derive payout: %w", err)
	}
	info, err := w.Status()
	if err != nil {
		return nil, err
	}
	target := pool.State{
		Version:          pool.ProtocolVersion,
		State:            pool.SelfPooling,
		TargetPuzzleHash: payoutHash,
		OwnerPublicKey:   info.Current.OwnerPublicKey,
	}
	return w.beginTransition(target, fee)
}

// beginTransition validates and submits the first travel spend toward
// target, recording it as the pending transition goal.
func (w *PoolWallet) beginTransition(target pool.State, fee uint64) (*ledger.PendingTransaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := target.Validate(); err != nil {
		return nil, err
	}
	if w.target != nil {
		return nil, ErrPendingTransition
	}
	unconfirmed, err := w.ledger.HasUnconfirmedTransaction(w.launcherID)
	if err != nil {
		return nil, err
	}
	if unconfirmed {
		return nil, ErrUnconfirmedTransaction
	}

	info, err := w.currentStateLocked()
	if err != nil {
		return nil, err
	}
	if target.Equal(info.Current) {
		return nil, ErrSameState
	}

	peak, err := w.ledger.PeakHeight()
	if err != nil {
		return nil, err
	}
	if info.Current.State == pool.LeavingPool {
		legal := info.TipHeight + info.Current.RelativeLockHeight
		if peak <= legal {
			return nil, &TimingLockError{PeakHeight: peak, LegalHeight: legal + 1}
		}
	}

	totalFee := fee
	if info.Current.State == pool.FarmingToPool {
		// Two hops: member -> waiting room now, waiting room -> target
		// once the lock elapses.
		totalFee = 2 * fee
	}

	last, err := w.lastSpendLocked()
	if err != nil {
		return nil, err
	}
	spend, err := BuildTravelSpend(last.Spend, w.launcherCoin, info.Current, target, w.ctx)
	if err != nil {
		return nil, err
	}
	tx, err := w.newPendingTransaction([]types.CoinSpend{spend}, totalFee, peak)
	if err != nil {
		return nil, err
	}
	if err := w.ledger.SubmitPendingTransaction(tx); err != nil {
		return nil, err
	}

	// The shared config is only rewritten once the transition confirms
	// (ApplyStateTransitions); a cancelled travel must leave the farmer
	// pointed at the settled state.
	w.target = &target
	w.nextFee = fee

	w.log.Info().
		Str("from", info.Current.State.String()).
		Str("to", target.State.String()).
		Str("pool_url", target.PoolURL).
		Uint64("fee", totalFee).
		Msg("travel spend submitted")
	return tx, nil
}

// ClaimRewards sweeps unclaimed farming rewards paid to the pay-to-singleton
// address, batching at most MaxAbsorbBatch absorb pairs and chaining each
// pair's lineage proof off the previous one.
func (w *PoolWallet) ClaimRewards(fee uint64) (*ledger.PendingTransaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	unconfirmed, err := w.ledger.HasUnconfirmedTransaction(w.launcherID)
	if err != nil {
		return nil, err
	}
	if unconfirmed {
		return nil, ErrUnconfirmedTransaction
	}

	info, err := w.currentStateLocked()
	if err != nil {
		return nil, err
	}

	unspent, err := w.ledger.UnspentCoinsByPuzzleHash(info.PayToSingletonHash)
	if err != nil {
		return nil, err
	}
	unspentIDs := make(map[types.Hash]struct{}, len(unspent))
	for _, rec := range unspent {
		unspentIDs[crypto.CoinID(rec.Coin)] = struct{}{}
	}

	rewards, err := w.ledger.FarmingRewardRecords()
	if err != nil {
		return nil, err
	}
	var unclaimed []ledger.RewardRecord
	for _, r := range rewards {
		if r.Coin.PuzzleHash != info.PayToSingletonHash {
			continue
		}
		if _, ok := unspentIDs[crypto.CoinID(r.Coin)]; !ok {
			continue
		}
		if r.Coin.ParentCoinInfo != puzzle.PoolRewardParentID(w.ctx.GenesisChallenge, r.Height) ||
			r.Coin.Amount != PoolRewardAmount {
			w.log.Warn().Uint32("height", r.Height).
				Str("coin", r.Coin.String()).
				Msg("skipping coin that is not a canonical farming reward")
			continue
		}
		unclaimed = append(unclaimed, r)
	}
	if len(unclaimed) == 0 {
		return nil, ErrNothingToClaim
	}
	sort.Slice(unclaimed, func(i, j int) bool { return unclaimed[i].Height < unclaimed[j].Height })
	if len(unclaimed) > MaxAbsorbBatch {
		unclaimed = unclaimed[:MaxAbsorbBatch]
	}

	last, err := w.lastSpendLocked()
	if err != nil {
		return nil, err
	}
	lastSpend := last.Spend
	spends := make([]types.CoinSpend, 0, 2*len(unclaimed))
	for _, r := range unclaimed {
		pair, err := BuildAbsorbSpend(lastSpend, info.Current, w.launcherCoin, r.Height, w.ctx)
		if err != nil {
			return nil, err
		}
		spends = append(spends, pair.Singleton, pair.Reward)
		lastSpend = pair.Singleton
	}

	peak, err := w.ledger.PeakHeight()
	if err != nil {
		return nil, err
	}
	tx, err := w.newPendingTransaction(spends, fee, peak)
	if err != nil {
		return nil, err
	}
	if err := w.ledger.SubmitPendingTransaction(tx); err != nil {
		return nil, err
	}
	w.log.Info().Int("rewards", len(unclaimed)).Msg("absorb batch submitted")
	return tx, nil
}

// ApplyStateTransitions processes all spends confirmed in one block,
// appending every spend of the lineage tip to history. Irrelevant spends
// are ignored, and a block may advance the lineage more than once.
func (w *PoolWallet) ApplyStateTransitions(blockSpends []types.CoinSpend, height uint32) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var before *pool.State
	if info, err := w.currentStateLocked(); err == nil {
		s := info.Current
		before = &s
	}

	applied := false
	for {
		tipID, err := w.tipCoinIDLocked()
		if err != nil {
			return applied, err
		}
		var next *types.CoinSpend
		for i := range blockSpends {
			if crypto.CoinID(blockSpends[i].Coin) == tipID {
				next = &blockSpends[i]
				break
			}
		}
		if next == nil {
			break
		}

		if err := w.ledger.AppendSpend(w.launcherID, *next, height); err != nil {
			return applied, fmt.Errorf("apply transitions: %w", err)
		}
		w.cache = nil
		applied = true

		st, err := StateFromSpend(*next)
		if err != nil {
			w.log.Warn().Uint32("height", height).Err(err).
				Msg("confirmed spend undecodable, treated as absorb")
		}
		if st != nil && w.target != nil && st.Equal(*w.target) {
			w.log.Info().Str("state", st.State.String()).Msg("pending transition confirmed")
			w.target = nil
			w.nextFee = 0
		}
		w.clearConfirmedPendingLocked(tipID)
	}

	if applied {
		if info, err := w.currentStateLocked(); err == nil {
			if before == nil || !info.Current.Equal(*before) {
				if err := w.writeConfig(info.Current); err != nil {
					w.log.Error().Err(err).Msg("pool config update failed")
				}
			}
		}
	}
	return applied, nil
}

// tipCoinIDLocked returns the id of the live singleton coin. Before the
// launcher spend confirms, the tip is the launcher coin itself.
func (w *PoolWallet) tipCoinIDLocked() (types.Hash, error) {
	info, err := w.currentStateLocked()
	if err == nil {
		return info.TipCoinID, nil
	}
	if errors.Is(err, ErrNoHistory) {
		return w.launcherID, nil
	}
	return types.Hash{}, err
}

// clearConfirmedPendingLocked drops pending transactions whose singleton
// spend just confirmed.
func (w *PoolWallet) clearConfirmedPendingLocked(spentCoinID types.Hash) {
	pending, err := w.ledger.PendingTransactions(w.launcherID)
	if err != nil {
		w.log.Error().Err(err).Msg("pending transaction lookup failed")
		return
	}
	for _, tx := range pending {
		for _, sp := range tx.Spends {
			if crypto.CoinID(sp.Coin) == spentCoinID {
				if err := w.ledger.DeletePendingTransactions(w.launcherID); err != nil {
					w.log.Error().Err(err).Msg("pending transaction cleanup failed")
				}
				return
			}
		}
	}
}

// Rewind truncates history to entries at or before height during a chain
// reorganization. It returns true when the launcher spend itself rolled
// back, telling the caller to destroy the wallet and revoke its
// pay-to-singleton interest. It never propagates internal errors: reorg
// processing for other wallets must continue, so failures log and report
// "nothing removed".
func (w *PoolWallet) Rewind(height uint32) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	var before *pool.State
	if info, err := w.currentStateLocked(); err == nil {
		s := info.Current
		before = &s
	}

	remaining, err := w.ledger.Rollback(w.launcherID, height)
	if err != nil {
		w.log.Error().Uint32("height", height).Err(err).
			Msg("rewind failed, treating as nothing to roll back")
		return false
	}
	w.cache = nil

	if remaining == 0 {
		w.log.Warn().Uint32("height", height).
			Msg("launcher spend rolled back, wallet must be destroyed")
		return true
	}

	info, err := w.currentStateLocked()
	if err != nil {
		w.log.Error().Err(err).Msg("state reconstruction after rewind failed")
		return false
	}
	if before == nil || !info.Current.Equal(*before) {
		if err := w.writeConfig(info.Current); err != nil {
			w.log.Error().Err(err).Msg("pool config update after rewind failed")
		}
	}
	return false
}

// OnNewPeak auto-advances a pending two-phase transition: once the wallet
// sits in LeavingPool, the relative lock has elapsed and a reorg buffer has
// passed, it submits the second-phase travel toward the pending target.
func (w *PoolWallet) OnNewPeak(peak uint32) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.target == nil {
		return nil
	}
	if w.target.State != pool.FarmingToPool && w.target.State != pool.SelfPooling {
		return nil
	}

	info, err := w.currentStateLocked()
	if errors.Is(err, ErrNoHistory) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Current.State != pool.LeavingPool {
		return nil
	}

	leaveHeight := info.TipHeight + info.Current.RelativeLockHeight
	lastTxBlock, ok, err := w.ledger.LastTransactionBlock(peak)
	if err != nil {
		return err
	}
	if !ok || lastTxBlock <= leaveHeight+reorgBuffer {
		return nil
	}

	pending, err := w.ledger.PendingTransactions(w.launcherID)
	if err != nil {
		return err
	}
	for _, tx := range pending {
		for _, sp := range tx.Spends {
			if crypto.CoinID(sp.Coin) == info.TipCoinID {
				return nil // second phase already in flight
			}
		}
	}

	last, err := w.lastSpendLocked()
	if err != nil {
		return err
	}
	spend, err := BuildTravelSpend(last.Spend, w.launcherCoin, info.Current, *w.target, w.ctx)
	if err != nil {
		return err
	}
	tx, err := w.newPendingTransaction([]types.CoinSpend{spend}, w.nextFee, peak)
	if err != nil {
		return err
	}
	if err := w.ledger.SubmitPendingTransaction(tx); err != nil {
		return err
	}
	w.log.Info().
		Uint32("peak", peak).
		Str("target", w.target.State.String()).
		Msg("second-phase travel submitted")
	return nil
}

// Destroy revokes the wallet's external interest after its launcher spend
// rolled back in a reorg: the config entry the farmer reads is removed and
// the launcher's ledger records are erased.
func (w *PoolWallet) Destroy() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.configs.Remove(w.launcherID); err != nil {
		return fmt.Errorf("destroy wallet: %w", err)
	}
	if err := w.ledger.ForgetLauncher(w.launcherID); err != nil {
		return fmt.Errorf("destroy wallet: %w", err)
	}
	w.cache = nil
	w.target = nil
	w.nextFee = 0
	return nil
}

// DeletePending drops the wallet's unconfirmed transactions and clears the
// in-memory transition goal with them.
func (w *PoolWallet) DeletePending() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ledger.DeletePendingTransactions(w.launcherID); err != nil {
		return err
	}
	w.target = nil
	w.nextFee = 0
	return nil
}

// writeConfig mirrors the declared state into the shared pool config file.
func (w *PoolWallet) writeConfig(s pool.State) error {
	authKey := ""
	if w.payout != nil {
		authKey = w.payout.AuthenticationPublicKey()
	}
	return w.configs.Update(Config{
		LauncherID:               w.launcherID,
		PoolURL:                  s.PoolURL,
		PayoutInstructions:       s.TargetPuzzleHash.AddressString(),
		TargetPuzzleHash:         s.TargetPuzzleHash,
		PayToSingletonPuzzleHash: w.ctx.PayToSingletonHash(),
		OwnerPublicKey:           s.OwnerPublicKey,
		AuthenticationPublicKey:  authKey,
	})
}

// newPendingTransaction validates a spend bundle and wraps it as a pending
// transaction named by the bundle hash.
func (w *PoolWallet) newPendingTransaction(spends []types.CoinSpend, fee uint64, height uint32) (*ledger.PendingTransaction, error) {
	bundle := &tx.SpendBundle{Spends: spends, Fee: fee}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spend bundle: %w", err)
	}
	if min := tx.RequiredFee(bundle, w.minFeeRate); fee < min {
		return nil, fmt.Errorf("%w: fee %d, network minimum %d", ErrFeeTooLow, fee, min)
	}
	return &ledger.PendingTransaction{
		Name:       bundle.Name(),
		LauncherID: w.launcherID,
		Spends:     spends,
		Fee:        fee,
		Height:     height,
	}, nil
}
