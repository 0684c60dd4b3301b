package wallet

import (
	"fmt"
	"sync"

	"github.com/orchardnet/orchard-wallet/internal/log"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// Kind discriminates wallet variants in the collection.
type Kind uint8

const (
	// KindStandard is the ordinary key-and-coin wallet.
	KindStandard Kind = 1
	// KindPool is a pool-membership singleton wallet.
	KindPool Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindPool:
		return "pool"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Wallet is the capability surface every wallet variant exposes to chain
// event processing. Variant-specific operations live on the concrete types;
// callers that need them assert for the concrete type rather than growing
// this interface.
type Wallet interface {
	Kind() Kind
	// OnNewPeak is called after each new peak is processed.
	OnNewPeak(peak uint32) error
	// Rewind truncates wallet state to the given height during a reorg.
	// Returns true when the wallet's founding event itself rolled back,
	// telling the collection to drop the wallet.
	Rewind(height uint32) bool
}

// Collection tracks the wallet variants of one process, keyed by id
// (launcher id for pool wallets). One coarse lock serializes chain event
// fan-out against registration; individual wallets have their own locks
// for user-facing calls.
type Collection struct {
	mu      sync.Mutex
	wallets map[types.Hash]Wallet
}

// NewCollection creates an empty wallet collection.
func NewCollection() *Collection {
	return &Collection{wallets: make(map[types.Hash]Wallet)}
}

// Add registers a wallet under its id. Replacing an existing id is an
// error; destroy-then-recreate is explicit.
func (c *Collection) Add(id types.Hash, w Wallet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.wallets[id]; ok {
		return fmt.Errorf("wallet %s already registered", id)
	}
	c.wallets[id] = w
	log.Wallet.Debug().Str("id", id.String()).Str("kind", w.Kind().String()).Msg("wallet registered")
	return nil
}

// Remove drops a wallet from the collection.
func (c *Collection) Remove(id types.Hash) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.wallets, id)
}

// Get returns a registered wallet, or nil.
func (c *Collection) Get(id types.Hash) Wallet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wallets[id]
}

// OfKind returns the ids of all wallets of one kind.
func (c *Collection) OfKind(kind Kind) []types.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []types.Hash
	for id, w := range c.wallets {
		if w.Kind() == kind {
			ids = append(ids, id)
		}
	}
	return ids
}

// OnNewPeak fans a new peak out to every wallet. Per-wallet errors are
// logged and do not stop the fan-out.
func (c *Collection) OnNewPeak(peak uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, w := range c.wallets {
		if err := w.OnNewPeak(peak); err != nil {
			log.Wallet.Error().Str("id", id.String()).Uint32("peak", peak).Err(err).
				Msg("peak processing failed")
		}
	}
}

// Rewind fans a reorg rollback out to every wallet and removes wallets
// whose founding event rolled back. Returns the removed ids.
func (c *Collection) Rewind(height uint32) []types.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	var destroyed []types.Hash
	for id, w := range c.wallets {
		if w.Rewind(height) {
			destroyed = append(destroyed, id)
			delete(c.wallets, id)
			log.Wallet.Warn().Str("id", id.String()).Uint32("height", height).
				Msg("wallet destroyed by reorg")
		}
	}
	return destroyed
}
