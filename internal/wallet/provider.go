package wallet

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// PayoutAccounts derives fresh payout puzzle hashes for a named wallet,
// recording each derived account in the keystore so a restored wallet can
// rediscover them. It satisfies the pool subsystem's payout provider.
type PayoutAccounts struct {
	mu      sync.Mutex
	store   *Keystore
	master  *HDKey
	name    string
	account uint32
}

// NewPayoutAccounts wraps a decrypted master key and its keystore entry.
func NewPayoutAccounts(store *Keystore, master *HDKey, walletName string) *PayoutAccounts {
	return &PayoutAccounts{store: store, master: master, name: walletName}
}

// PuzzleHashAt derives the external payout puzzle hash at a fixed index
// without advancing the index counter. Used when rescanning.
func (p *PayoutAccounts) PuzzleHashAt(index uint32) (types.Hash, error) {
	key, err := p.master.DerivePayout(p.account, ChangeExternal, index)
	if err != nil {
		return types.Hash{}, err
	}
	return key.PuzzleHash(), nil
}

// NextPayoutPuzzleHash derives the puzzle hash at the next external index,
// records it, and advances the index.
func (p *PayoutAccounts) NextPayoutPuzzleHash() (types.Hash, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	index, err := p.store.GetExternalIndex(p.name)
	if err != nil {
		return types.Hash{}, fmt.Errorf("next payout index: %w", err)
	}
	hash, err := p.PuzzleHashAt(index)
	if err != nil {
		return types.Hash{}, fmt.Errorf("derive payout key: %w", err)
	}
	entry := AccountEntry{
		Index:      index,
		Change:     ChangeExternal,
		PuzzleHash: hash.String(),
	}
	if err := p.store.AddAccount(p.name, entry); err != nil {
		return types.Hash{}, fmt.Errorf("record payout account: %w", err)
	}
	if err := p.store.IncrementExternalIndex(p.name); err != nil {
		return types.Hash{}, fmt.Errorf("advance payout index: %w", err)
	}
	return hash, nil
}

// AuthenticationPublicKey returns the hex-encoded compressed public key
// used to authenticate with pools, or "" if derivation fails.
func (p *PayoutAccounts) AuthenticationPublicKey() string {
	key, err := p.master.DeriveAuthentication()
	if err != nil {
		return ""
	}
	return hex.EncodeToString(key.PublicKeyBytes())
}

// AuthenticationSigner returns the signing key matching
// AuthenticationPublicKey, for signing pool protocol requests.
func (p *PayoutAccounts) AuthenticationSigner() (*HDKey, error) {
	if !p.master.IsPrivate() {
		return nil, fmt.Errorf("watch-only wallet cannot sign")
	}
	return p.master.DeriveAuthentication()
}
