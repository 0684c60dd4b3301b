// Package crypto provides cryptographic primitives for the Orchard wallet.
package crypto

import (
	"github.com/orchardnet/orchard-wallet/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash is BLAKE3-256.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// HashConcat hashes a || b. Puzzle trees and curried puzzle hashes are built
// from pairwise concatenation.
func HashConcat(a, b types.Hash) types.Hash {
	var buf [2 * types.HashSize]byte
	copy(buf[:types.HashSize], a[:])
	copy(buf[types.HashSize:], b[:])
	return Hash(buf[:])
}

// CoinID derives a coin's id from its canonical bytes. The launcher coin's
// id is the singleton's launcher id.
func CoinID(c types.Coin) types.Hash {
	return Hash(c.Bytes())
}
