package types

import (
	"fmt"
	"strings"
)

// Address HRP (human-readable part) constants for bech32 encoding.
// Addresses are bech32-encoded 32-byte puzzle hashes.
const (
	MainnetHRP = "orc"
	TestnetHRP = "torc"
)

// activeHRP is the address HRP used by AddressString().
// Set once at startup via SetAddressHRP(). Default is mainnet.
var activeHRP = MainnetHRP

// SetAddressHRP sets the active address HRP (call once at startup).
func SetAddressHRP(hrp string) {
	activeHRP = hrp
}

// GetAddressHRP returns the currently active address HRP.
func GetAddressHRP() string {
	return activeHRP
}

// AddressString encodes the puzzle hash as a bech32 address with the
// active HRP.
func (h Hash) AddressString() string {
	s, err := Bech32Encode(activeHRP, h[:])
	if err != nil {
		// Encoding a fixed-size hash with a valid HRP cannot fail.
		return ""
	}
	return s
}

// ParseAddress decodes a bech32 address into a puzzle hash.
// Accepts both mainnet and testnet HRPs.
func ParseAddress(s string) (Hash, error) {
	hrp, data, err := Bech32Decode(strings.TrimSpace(s))
	if err != nil {
		return Hash{}, fmt.Errorf("parse address: %w", err)
	}
	if hrp != MainnetHRP && hrp != TestnetHRP {
		return Hash{}, fmt.Errorf("parse address: unknown HRP %q", hrp)
	}
	if len(data) != HashSize {
		return Hash{}, fmt.Errorf("parse address: payload must be %d bytes, got %d", HashSize, len(data))
	}
	var h Hash
	copy(h[:], data)
	return h, nil
}
