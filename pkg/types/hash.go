// Package types defines core primitive types for the Orchard wallet.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashSize is the length of a hash in bytes.
const HashSize = 32

// Hash is a 256-bit value. Puzzle hashes, coin ids and launcher ids are all
// hashes.
type Hash [HashSize]byte

// PublicKeySize is the length of a serialized owner public key in bytes
// (a compressed G1 curve point).
const PublicKeySize = 48

// PublicKey is the serialized form of a singleton owner key. The wallet
// treats it as an opaque curve point; signatures come from an external
// signer.
type PublicKey [PublicKeySize]byte

// fromHex decodes s into dst, demanding an exact length match.
func fromHex(dst []byte, s, what string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid %s hex: %w", what, err)
	}
	if len(b) != len(dst) {
		return fmt.Errorf("%s must be %d bytes, got %d", what, len(dst), len(b))
	}
	copy(dst, b)
	return nil
}

func unmarshalHexJSON(dst []byte, data []byte, what string) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		clear(dst)
		return nil
	}
	return fromHex(dst, s, what)
}

// HexToHash parses exactly 64 hex characters into a Hash.
func HexToHash(s string) (Hash, error) {
	var h Hash
	if err := fromHex(h[:], s, "hash"); err != nil {
		return Hash{}, err
	}
	return h, nil
}

func (h Hash) IsZero() bool { return h == Hash{} }

// String renders the hash as lowercase hex.
func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// Bytes copies the hash into a fresh slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	return unmarshalHexJSON(h[:], data, "hash")
}

// HexToPublicKey parses a 48-byte hex-encoded owner public key.
func HexToPublicKey(s string) (PublicKey, error) {
	var p PublicKey
	if err := fromHex(p[:], s, "public key"); err != nil {
		return PublicKey{}, err
	}
	return p, nil
}

func (p PublicKey) IsZero() bool { return p == PublicKey{} }

// String renders the key as lowercase hex.
func (p PublicKey) String() string { return hex.EncodeToString(p[:]) }

// Bytes copies the key into a fresh slice.
func (p PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	copy(b, p[:])
	return b
}

func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PublicKey) UnmarshalJSON(data []byte) error {
	return unmarshalHexJSON(p[:], data, "public key")
}
