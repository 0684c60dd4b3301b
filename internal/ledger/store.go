package ledger

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/orchardnet/orchard-wallet/internal/storage"
	"github.com/orchardnet/orchard-wallet/pkg/crypto"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// Key prefixes for the ledger store.
var (
	prefixHistory = []byte("h/") // h/<launcher><height BE><seq BE> -> HistoryEntry JSON
	prefixCoin    = []byte("c/") // c/<puzzlehash><coinid> -> CoinRecord JSON
	prefixReward  = []byte("r/") // r/<coinid> -> RewardRecord JSON
	prefixPending = []byte("p/") // p/<launcher><name> -> PendingTransaction JSON
	prefixTxBlock = []byte("b/") // b/<height BE> -> empty (transaction-bearing block)
	keyPeak       = []byte("t/peak")
)

// Store implements Ledger backed by a storage.DB.
type Store struct {
	mu sync.Mutex
	db storage.DB
}

// NewStore creates a ledger store backed by the given database.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

// historyKey builds "h/" + launcher(32) + height(4 BE) + seq(4 BE).
// Big-endian so lexicographic key order is height order.
func historyKey(launcherID types.Hash, height, seq uint32) []byte {
	key := make([]byte, len(prefixHistory)+types.HashSize+8)
	copy(key, prefixHistory)
	copy(key[len(prefixHistory):], launcherID[:])
	off := len(prefixHistory) + types.HashSize
	binary.BigEndian.PutUint32(key[off:], height)
	binary.BigEndian.PutUint32(key[off+4:], seq)
	return key
}

func coinKey(puzzleHash, coinID types.Hash) []byte {
	key := make([]byte, len(prefixCoin)+2*types.HashSize)
	copy(key, prefixCoin)
	copy(key[len(prefixCoin):], puzzleHash[:])
	copy(key[len(prefixCoin)+types.HashSize:], coinID[:])
	return key
}

func rewardKey(coinID types.Hash) []byte {
	key := make([]byte, len(prefixReward)+types.HashSize)
	copy(key, prefixReward)
	copy(key[len(prefixReward):], coinID[:])
	return key
}

func pendingKey(launcherID, name types.Hash) []byte {
	key := make([]byte, len(prefixPending)+2*types.HashSize)
	copy(key, prefixPending)
	copy(key[len(prefixPending):], launcherID[:])
	copy(key[len(prefixPending)+types.HashSize:], name[:])
	return key
}

func txBlockKey(height uint32) []byte {
	key := make([]byte, len(prefixTxBlock)+4)
	copy(key, prefixTxBlock)
	binary.BigEndian.PutUint32(key[len(prefixTxBlock):], height)
	return key
}

// launcherHistoryPrefix is the shared prefix of one launcher's history keys.
func launcherHistoryPrefix(launcherID types.Hash) []byte {
	p := make([]byte, len(prefixHistory)+types.HashSize)
	copy(p, prefixHistory)
	copy(p[len(prefixHistory):], launcherID[:])
	return p
}

// SpendHistory returns the launcher's confirmed spends in height order.
func (s *Store) SpendHistory(launcherID types.Hash) ([]HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spendHistoryLocked(launcherID)
}

func (s *Store) spendHistoryLocked(launcherID types.Hash) ([]HistoryEntry, error) {
	var out []HistoryEntry
	err := s.db.ForEach(launcherHistoryPrefix(launcherID), func(_, value []byte) error {
		var e HistoryEntry
		if err := json.Unmarshal(value, &e); err != nil {
			return fmt.Errorf("history unmarshal: %w", err)
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("spend history: %w", err)
	}
	return out, nil
}

// AppendSpend records a confirmed spend. The new entry must spend the
// previous entry's singleton output and must not decrease in height; a
// violation means the caller's lineage tracking has diverged.
func (s *Store) AppendSpend(launcherID types.Hash, spend types.CoinSpend, height uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.spendHistoryLocked(launcherID)
	if err != nil {
		return err
	}
	seq := uint32(0)
	if n := len(history); n > 0 {
		last := history[n-1]
		if height < last.Height {
			return fmt.Errorf("append spend: height %d below last entry height %d", height, last.Height)
		}
		if spend.Coin.ParentCoinInfo != crypto.CoinID(last.Spend.Coin) {
			return fmt.Errorf("append spend: coin %s does not extend the lineage", crypto.CoinID(spend.Coin))
		}
		if height == last.Height {
			seq = historySeq(history, height)
		}
	}

	entry := HistoryEntry{Height: height, Spend: spend}
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("history marshal: %w", err)
	}
	return s.db.Put(historyKey(launcherID, height, seq), value)
}

// historySeq counts existing entries at the given height, so two state
// changes in one block get distinct, ordered keys.
func historySeq(history []HistoryEntry, height uint32) uint32 {
	var n uint32
	for _, e := range history {
		if e.Height == height {
			n++
		}
	}
	return n
}

// Rollback removes history entries above the given height and any coin,
// reward and transaction-block records confirmed above it.
func (s *Store) Rollback(launcherID types.Hash, height uint32) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.spendHistoryLocked(launcherID)
	if err != nil {
		return 0, err
	}
	remaining := 0
	seqAt := make(map[uint32]uint32)
	for _, e := range history {
		seq := seqAt[e.Height]
		seqAt[e.Height]++
		if e.Height <= height {
			remaining++
			continue
		}
		if err := s.db.Delete(historyKey(launcherID, e.Height, seq)); err != nil {
			return 0, fmt.Errorf("rollback history: %w", err)
		}
	}

	if err := s.deleteAboveHeight(prefixCoin, height, func(v []byte) (uint32, error) {
		var r CoinRecord
		if err := json.Unmarshal(v, &r); err != nil {
			return 0, err
		}
		return r.Height, nil
	}); err != nil {
		return 0, err
	}
	if err := s.deleteAboveHeight(prefixReward, height, func(v []byte) (uint32, error) {
		var r RewardRecord
		if err := json.Unmarshal(v, &r); err != nil {
			return 0, err
		}
		return r.Height, nil
	}); err != nil {
		return 0, err
	}

	// Transaction-block markers above the rollback point are stale.
	var staleBlocks [][]byte
	err = s.db.ForEach(prefixTxBlock, func(key, _ []byte) error {
		if len(key) == len(prefixTxBlock)+4 &&
			binary.BigEndian.Uint32(key[len(prefixTxBlock):]) > height {
			k := make([]byte, len(key))
			copy(k, key)
			staleBlocks = append(staleBlocks, k)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("rollback tx blocks: %w", err)
	}
	for _, k := range staleBlocks {
		if err := s.db.Delete(k); err != nil {
			return 0, fmt.Errorf("rollback tx blocks: %w", err)
		}
	}
	return remaining, nil
}

// deleteAboveHeight removes records under a prefix whose decoded height
// exceeds the cutoff.
func (s *Store) deleteAboveHeight(prefix []byte, cutoff uint32, heightOf func([]byte) (uint32, error)) error {
	var stale [][]byte
	err := s.db.ForEach(prefix, func(key, value []byte) error {
		h, err := heightOf(value)
		if err != nil {
			return fmt.Errorf("decode record: %w", err)
		}
		if h > cutoff {
			k := make([]byte, len(key))
			copy(k, key)
			stale = append(stale, k)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %q: %w", prefix, err)
	}
	for _, k := range stale {
		if err := s.db.Delete(k); err != nil {
			return fmt.Errorf("delete %q: %w", prefix, err)
		}
	}
	return nil
}

// PeakHeight returns the current chain peak (zero before the first block).
func (s *Store) PeakHeight() (uint32, error) {
	v, err := s.db.Get(keyPeak)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("peak height: %w", err)
	}
	if len(v) != 4 {
		return 0, fmt.Errorf("peak height: bad record length %d", len(v))
	}
	return binary.BigEndian.Uint32(v), nil
}

// SetPeakHeight records a new chain peak. Called by the block pipeline.
func (s *Store) SetPeakHeight(height uint32) error {
	var v [4]byte
	binary.BigEndian.PutUint32(v[:], height)
	return s.db.Put(keyPeak, v[:])
}

// MarkTransactionBlock records that the block at the given height carried
// transactions.
func (s *Store) MarkTransactionBlock(height uint32) error {
	return s.db.Put(txBlockKey(height), nil)
}

// LastTransactionBlock returns the highest transaction-bearing block at or
// below the given height.
func (s *Store) LastTransactionBlock(atOrBelow uint32) (uint32, bool, error) {
	var best uint32
	found := false
	err := s.db.ForEach(prefixTxBlock, func(key, _ []byte) error {
		if len(key) != len(prefixTxBlock)+4 {
			return nil
		}
		h := binary.BigEndian.Uint32(key[len(prefixTxBlock):])
		if h <= atOrBelow && (!found || h > best) {
			best = h
			found = true
		}
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("last transaction block: %w", err)
	}
	return best, found, nil
}

// AddUnspentCoin indexes a confirmed unspent coin by its puzzle hash.
// Called by the coin-sync pipeline.
func (s *Store) AddUnspentCoin(coin types.Coin, height uint32) error {
	value, err := json.Marshal(CoinRecord{Coin: coin, Height: height})
	if err != nil {
		return fmt.Errorf("coin marshal: %w", err)
	}
	return s.db.Put(coinKey(coin.PuzzleHash, crypto.CoinID(coin)), value)
}

// MarkCoinSpent removes a coin from the unspent index.
func (s *Store) MarkCoinSpent(coin types.Coin) error {
	return s.db.Delete(coinKey(coin.PuzzleHash, crypto.CoinID(coin)))
}

// UnspentCoinsByPuzzleHash lists unspent coins locked by the puzzle hash.
func (s *Store) UnspentCoinsByPuzzleHash(puzzleHash types.Hash) ([]CoinRecord, error) {
	p := make([]byte, len(prefixCoin)+types.HashSize)
	copy(p, prefixCoin)
	copy(p[len(prefixCoin):], puzzleHash[:])

	var out []CoinRecord
	err := s.db.ForEach(p, func(_, value []byte) error {
		var r CoinRecord
		if err := json.Unmarshal(value, &r); err != nil {
			return fmt.Errorf("coin unmarshal: %w", err)
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("coins by puzzle hash: %w", err)
	}
	return out, nil
}

// AddFarmingReward records a coin as a farming reward minted at a height.
func (s *Store) AddFarmingReward(coin types.Coin, height uint32) error {
	value, err := json.Marshal(RewardRecord{Coin: coin, Height: height})
	if err != nil {
		return fmt.Errorf("reward marshal: %w", err)
	}
	return s.db.Put(rewardKey(crypto.CoinID(coin)), value)
}

// FarmingRewardRecords lists all known farming-reward coins.
func (s *Store) FarmingRewardRecords() ([]RewardRecord, error) {
	var out []RewardRecord
	err := s.db.ForEach(prefixReward, func(_, value []byte) error {
		var r RewardRecord
		if err := json.Unmarshal(value, &r); err != nil {
			return fmt.Errorf("reward unmarshal: %w", err)
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("farming rewards: %w", err)
	}
	return out, nil
}

// SubmitPendingTransaction registers a constructed transaction.
func (s *Store) SubmitPendingTransaction(tx *PendingTransaction) error {
	if tx == nil || len(tx.Spends) == 0 {
		return fmt.Errorf("submit pending: empty transaction")
	}
	value, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("pending marshal: %w", err)
	}
	return s.db.Put(pendingKey(tx.LauncherID, tx.Name), value)
}

// PendingTransactions lists unconfirmed transactions for a launcher.
func (s *Store) PendingTransactions(launcherID types.Hash) ([]PendingTransaction, error) {
	p := make([]byte, len(prefixPending)+types.HashSize)
	copy(p, prefixPending)
	copy(p[len(prefixPending):], launcherID[:])

	var out []PendingTransaction
	err := s.db.ForEach(p, func(_, value []byte) error {
		var tx PendingTransaction
		if err := json.Unmarshal(value, &tx); err != nil {
			return fmt.Errorf("pending unmarshal: %w", err)
		}
		out = append(out, tx)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pending transactions: %w", err)
	}
	return out, nil
}

// HasUnconfirmedTransaction reports whether any transaction for the
// launcher is still unconfirmed.
func (s *Store) HasUnconfirmedTransaction(launcherID types.Hash) (bool, error) {
	txs, err := s.PendingTransactions(launcherID)
	if err != nil {
		return false, err
	}
	return len(txs) > 0, nil
}

// DeletePendingTransactions drops all unconfirmed transactions for a
// launcher.
func (s *Store) DeletePendingTransactions(launcherID types.Hash) error {
	txs, err := s.PendingTransactions(launcherID)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		if err := s.db.Delete(pendingKey(launcherID, tx.Name)); err != nil {
			return fmt.Errorf("delete pending: %w", err)
		}
	}
	return nil
}

// ForgetLauncher erases every record tied to a launcher: its spend history
// and its pending transactions. Called when a reorg rolls the launcher
// spend itself back and the wallet is destroyed.
func (s *Store) ForgetLauncher(launcherID types.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := storage.NewPrefixDB(s.db, launcherHistoryPrefix(launcherID)).DeleteAll(); err != nil {
		return fmt.Errorf("forget history: %w", err)
	}
	pending := make([]byte, len(prefixPending)+types.HashSize)
	copy(pending, prefixPending)
	copy(pending[len(prefixPending):], launcherID[:])
	if err := storage.NewPrefixDB(s.db, pending).DeleteAll(); err != nil {
		return fmt.Errorf("forget pending: %w", err)
	}
	return nil
}
