// Package wallet holds the standard-wallet key material the pool subsystem
// leans on: mnemonic and seed handling, hierarchical key derivation, the
// encrypted keystore, payout derivation, and the registry of wallet
// variants driven by chain events.
package wallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

const (
	// MnemonicEntropyBits sizes new mnemonics at 24 words.
	MnemonicEntropyBits = 256

	// SeedSize is the length of a BIP-39 derived seed in bytes.
	SeedSize = 64
)

// GenerateMnemonic creates a fresh 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks word count, word list membership and checksum.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// SeedFromMnemonic stretches a mnemonic and optional passphrase into a
// 512-bit seed (PBKDF2-SHA512 per BIP-39).
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}
	return seed, nil
}
