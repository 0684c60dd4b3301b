// Package ledger provides the wallet-ledger collaborator: spend history,
// coin and reward indexes, pending transactions and chain peak tracking.
//
// The pool wallet core only consumes the Ledger interface; mutation of
// history happens exclusively through Append/Rollback so the strict-lineage
// invariant holds.
package ledger

import (
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// HistoryEntry is one confirmed spend of a singleton lineage at a height.
type HistoryEntry struct {
	Height uint32          `json:"height"`
	Spend  types.CoinSpend `json:"spend"`
}

// CoinRecord is an unspent coin with its confirmation height.
type CoinRecord struct {
	Coin   types.Coin `json:"coin"`
	Height uint32     `json:"height"`
}

// RewardRecord marks a coin as a farming reward minted at a height.
type RewardRecord struct {
	Coin   types.Coin `json:"coin"`
	Height uint32     `json:"height"`
}

// PendingTransaction is a constructed spend bundle awaiting confirmation.
type PendingTransaction struct {
	Name       types.Hash        `json:"name"`
	LauncherID types.Hash        `json:"launcher_id"`
	Spends     []types.CoinSpend `json:"spends"`
	Fee        uint64            `json:"fee"`
	Height     uint32            `json:"height"` // peak height at submission
}

// Ledger is the collaborator interface the pool wallet core consumes.
type Ledger interface {
	// SpendHistory returns the launcher's confirmed spend sequence in
	// height order, starting with the launcher spend.
	SpendHistory(launcherID types.Hash) ([]HistoryEntry, error)

	// AppendSpend records a confirmed spend at the given height.
	AppendSpend(launcherID types.Hash, spend types.CoinSpend, height uint32) error

	// Rollback removes history entries above the given height and returns
	// how many entries remain.
	Rollback(launcherID types.Hash, height uint32) (remaining int, err error)

	// PeakHeight returns the current chain peak.
	PeakHeight() (uint32, error)

	// LastTransactionBlock returns the highest transaction-bearing block
	// at or below the given height, or ok=false if none is known.
	LastTransactionBlock(atOrBelow uint32) (height uint32, ok bool, err error)

	// UnspentCoinsByPuzzleHash lists unspent coins locked by a puzzle hash.
	UnspentCoinsByPuzzleHash(puzzleHash types.Hash) ([]CoinRecord, error)

	// FarmingRewardRecords lists known farming-reward coins.
	FarmingRewardRecords() ([]RewardRecord, error)

	// SubmitPendingTransaction registers a constructed transaction for
	// signing and broadcast.
	SubmitPendingTransaction(tx *PendingTransaction) error

	// PendingTransactions lists unconfirmed transactions for a launcher.
	PendingTransactions(launcherID types.Hash) ([]PendingTransaction, error)

	// HasUnconfirmedTransaction reports whether any transaction for the
	// launcher is still unconfirmed.
	HasUnconfirmedTransaction(launcherID types.Hash) (bool, error)

	// DeletePendingTransactions drops all unconfirmed transactions for a
	// launcher.
	DeletePendingTransactions(launcherID types.Hash) error

	// ForgetLauncher erases the launcher's history and pending records
	// after its wallet is destroyed by a reorg.
	ForgetLauncher(launcherID types.Hash) error
}
