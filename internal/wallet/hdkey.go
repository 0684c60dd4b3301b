package wallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip32"

	"github.com/orchardnet/orchard-wallet/pkg/crypto"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// Derivation follows BIP-44: m/44'/CoinType'/account'/change/index.
const (
	PurposeBIP44 = bip32.FirstHardenedChild + 44

	// CoinTypeOrchard is our registered (placeholder) coin type (hardened).
	// TODO: Register an actual coin type number.
	CoinTypeOrchard = bip32.FirstHardenedChild + 8444

	// ChangeExternal addresses receive payouts; ChangeInternal receives change.
	ChangeExternal = 0
	ChangeInternal = 1

	// authKeyIndex is a hardened child under account 0 reserved for the
	// farmer's pool authentication key.
	authKeyIndex = bip32.FirstHardenedChild + 1000
)

// HDKey is a node in a BIP-32 derivation tree.
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey builds the tree root from a BIP-39 seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// DeriveChild steps one level down the tree. Add bip32.FirstHardenedChild to
// the index for hardened derivation.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{key: child}, nil
}

// DerivePath walks the tree along indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	node := k
	for _, idx := range indices {
		next, err := node.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		node = next
	}
	return node, nil
}

// DerivePayout resolves m/44'/8444'/account'/change/index.
func (k *HDKey) DerivePayout(account, change, index uint32) (*HDKey, error) {
	return k.DerivePath(
		PurposeBIP44,
		CoinTypeOrchard,
		bip32.FirstHardenedChild+account,
		change,
		index,
	)
}

// DeriveAuthentication resolves m/44'/8444'/0'/1000', the hardened key a
// farmer uses to authenticate with its pool.
func (k *HDKey) DeriveAuthentication() (*HDKey, error) {
	return k.DerivePath(
		PurposeBIP44,
		CoinTypeOrchard,
		bip32.FirstHardenedChild,
		authKeyIndex,
	)
}

// PrivateKeyBytes returns the raw 32-byte secret, or nil for a public-only
// node.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 stores private keys as 33 bytes with a 0x00 pad byte.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// PublicKeyBytes returns the 33-byte compressed public key.
func (k *HDKey) PublicKeyBytes() []byte {
	return k.key.PublicKey().Key
}

// Signer wraps the node's secret as a crypto.PrivateKey. Public-only nodes
// cannot sign.
func (k *HDKey) Signer() (*crypto.PrivateKey, error) {
	secret := k.PrivateKeyBytes()
	if secret == nil {
		return nil, fmt.Errorf("cannot create signer from public key")
	}
	return crypto.PrivateKeyFromBytes(secret)
}

// PuzzleHash is BLAKE3 of the compressed public key, the pay-to-key puzzle
// this node's coins lock to.
func (k *HDKey) PuzzleHash() types.Hash {
	return crypto.Hash(k.PublicKeyBytes())
}

func (k *HDKey) IsPrivate() bool { return k.key.IsPrivate }

// Depth is 0 at the master key.
func (k *HDKey) Depth() uint8 { return k.key.Depth }

// Neuter strips the private material for watch-only use.
func (k *HDKey) Neuter() *HDKey {
	return &HDKey{key: k.key.PublicKey()}
}
