package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	keystoreVersion = 1
	walletExt       = ".wallet"
)

// keystoreFile is the on-disk JSON format for an encrypted wallet.
type keystoreFile struct {
	Version           int            `json:"version"`
	CreatedAt         time.Time      `json:"created_at"`
	EncryptedSeed     []byte         `json:"encrypted_seed"`
	Accounts          []AccountEntry `json:"accounts"`
	NextChangeIndex   uint32         `json:"next_change_index"`   // BIP-44 internal chain index.
	NextExternalIndex uint32         `json:"next_external_index"` // BIP-44 external chain index.
}

// AccountEntry stores metadata for a derived payout account.
type AccountEntry struct {
	Index      uint32 `json:"index"`
	Change     uint32 `json:"change"` // 0=external (payout), 1=internal (change)
	Name       string `json:"name"`
	PuzzleHash string `json:"puzzle_hash"` // hex-encoded
}

// Derivation returns the BIP-44 (change, index) pair for this account entry.
func (a AccountEntry) Derivation() (change uint32, index uint32) {
	return a.Change, a.Index
}

// Keystore manages encrypted wallet files in one directory, one file per
// wallet name. All mutations re-read and re-write the whole file.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore rooted at the given directory, creating it
// if needed.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

func (ks *Keystore) walletPath(name string) string {
	return filepath.Join(ks.path, name+walletExt)
}

// read loads and version-checks a wallet file by name.
func (ks *Keystore) read(name string) (*keystoreFile, error) {
	data, err := os.ReadFile(ks.walletPath(name))
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported wallet version: %d", kf.Version)
	}
	return &kf, nil
}

func (ks *Keystore) write(name string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := os.WriteFile(ks.walletPath(name), data, 0600); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

// update applies a read-modify-write cycle to a wallet file.
func (ks *Keystore) update(name string, fn func(*keystoreFile) error) error {
	kf, err := ks.read(name)
	if err != nil {
		return err
	}
	if err := fn(kf); err != nil {
		return err
	}
	return ks.write(name, kf)
}

// Create writes a new encrypted wallet file holding the seed. It refuses to
// overwrite an existing wallet of the same name.
func (ks *Keystore) Create(name string, seed, password []byte, params EncryptionParams) error {
	if _, err := os.Stat(ks.walletPath(name)); err == nil {
		return fmt.Errorf("wallet %q already exists", name)
	}

	sealed, err := Encrypt(seed, password, params)
	if err != nil {
		return fmt.Errorf("encrypt seed: %w", err)
	}

	return ks.write(name, &keystoreFile{
		Version:       keystoreVersion,
		CreatedAt:     time.Now().UTC(),
		EncryptedSeed: sealed,
		Accounts:      []AccountEntry{},
	})
}

// Load decrypts a wallet and returns the seed bytes.
func (ks *Keystore) Load(name string, password []byte) ([]byte, error) {
	kf, err := ks.read(name)
	if err != nil {
		return nil, err
	}
	seed, err := Decrypt(kf.EncryptedSeed, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt wallet: %w", err)
	}
	return seed, nil
}

// AddAccount records a derived payout account. Re-adding the same derivation
// path or puzzle hash is a no-op; a path collision with a different puzzle
// hash is an error.
func (ks *Keystore) AddAccount(walletName string, acct AccountEntry) error {
	change, index := acct.Derivation()
	acct.Change = change
	acct.Index = index

	return ks.update(walletName, func(kf *keystoreFile) error {
		for _, existing := range kf.Accounts {
			exChange, exIndex := existing.Derivation()
			if exChange == acct.Change && exIndex == acct.Index {
				if existing.PuzzleHash == acct.PuzzleHash {
					return nil
				}
				return fmt.Errorf("account path change=%d index=%d already exists", acct.Change, acct.Index)
			}
			if existing.PuzzleHash != "" && existing.PuzzleHash == acct.PuzzleHash {
				return nil
			}
		}
		kf.Accounts = append(kf.Accounts, acct)
		return nil
	})
}

// ListAccounts returns the recorded account entries for a wallet.
func (ks *Keystore) ListAccounts(walletName string) ([]AccountEntry, error) {
	kf, err := ks.read(walletName)
	if err != nil {
		return nil, err
	}
	return kf.Accounts, nil
}

// List returns the names of all wallets in the keystore.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), walletExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), walletExt))
	}
	return names, nil
}

// GetChangeIndex returns the next internal-chain derivation index.
func (ks *Keystore) GetChangeIndex(name string) (uint32, error) {
	kf, err := ks.read(name)
	if err != nil {
		return 0, err
	}
	return kf.NextChangeIndex, nil
}

// IncrementChangeIndex advances the internal-chain derivation index by 1.
func (ks *Keystore) IncrementChangeIndex(name string) error {
	return ks.update(name, func(kf *keystoreFile) error {
		kf.NextChangeIndex++
		return nil
	})
}

// GetExternalIndex returns the next external-chain derivation index.
func (ks *Keystore) GetExternalIndex(name string) (uint32, error) {
	kf, err := ks.read(name)
	if err != nil {
		return 0, err
	}
	return kf.NextExternalIndex, nil
}

// IncrementExternalIndex advances the external-chain derivation index by 1.
func (ks *Keystore) IncrementExternalIndex(name string) error {
	return ks.update(name, func(kf *keystoreFile) error {
		kf.NextExternalIndex++
		return nil
	})
}

// SetExternalIndex overwrites the next external-chain derivation index,
// used after a rescan discovers previously derived accounts.
func (ks *Keystore) SetExternalIndex(name string, idx uint32) error {
	return ks.update(name, func(kf *keystoreFile) error {
		kf.NextExternalIndex = idx
		return nil
	})
}

// SetChangeIndex overwrites the next internal-chain derivation index.
func (ks *Keystore) SetChangeIndex(name string, idx uint32) error {
	return ks.update(name, func(kf *keystoreFile) error {
		kf.NextChangeIndex = idx
		return nil
	})
}

// Delete removes a wallet file.
func (ks *Keystore) Delete(name string) error {
	path := ks.walletPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("wallet %q not found", name)
	}
	return os.Remove(path)
}
