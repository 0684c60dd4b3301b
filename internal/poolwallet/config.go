package poolwallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/orchardnet/orchard-wallet/internal/log"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// Config is the persisted per-launcher pool record mirrored for the farmer
// and for off-chain pool communication. Consensus never reads it.
type Config struct {
	LauncherID               types.Hash      `json:"launcher_id"`
	PoolURL                  string          `json:"pool_url"`
	PayoutInstructions       string          `json:"payout_instructions"`
	TargetPuzzleHash         types.Hash      `json:"target_puzzle_hash"`
	PayToSingletonPuzzleHash types.Hash      `json:"p2_singleton_puzzle_hash"`
	OwnerPublicKey           types.PublicKey `json:"owner_public_key"`
	AuthenticationPublicKey  string          `json:"authentication_public_key,omitempty"`
}

// ConfigStore persists the pool config list as one JSON file, keyed by
// launcher id. The file is shared by every pool wallet in the process, so
// each update re-reads and re-writes the whole list under the store lock;
// incremental writes would lose updates between concurrently-transitioning
// singletons.
type ConfigStore struct {
	mu   sync.Mutex
	path string
}

// NewConfigStore creates a config store writing to the given file path.
// The parent directory is created if it doesn't exist.
func NewConfigStore(path string) (*ConfigStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return &ConfigStore{path: path}, nil
}

// Load reads the full config list. A missing file is an empty list.
func (cs *ConfigStore) Load() ([]Config, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.loadLocked()
}

func (cs *ConfigStore) loadLocked() ([]Config, error) {
	data, err := os.ReadFile(cs.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pool config: %w", err)
	}
	var list []Config
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	return list, nil
}

// Get returns the config entry for a launcher id.
func (cs *ConfigStore) Get(launcherID types.Hash) (*Config, error) {
	list, err := cs.Load()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].LauncherID == launcherID {
			return &list[i], nil
		}
	}
	return nil, nil
}

// Update inserts or replaces the entry for cfg.LauncherID and rewrites the
// whole list.
func (cs *ConfigStore) Update(cfg Config) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	list, err := cs.loadLocked()
	if err != nil {
		return err
	}
	replaced := false
	for i := range list {
		if list[i].LauncherID == cfg.LauncherID {
			list[i] = cfg
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, cfg)
	}
	if err := cs.writeLocked(list); err != nil {
		return err
	}
	log.Config.Debug().
		Str("launcher_id", cfg.LauncherID.String()).
		Str("pool_url", cfg.PoolURL).
		Msg("pool config updated")
	return nil
}

// Remove drops the entry for a launcher id, if present.
func (cs *ConfigStore) Remove(launcherID types.Hash) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	list, err := cs.loadLocked()
	if err != nil {
		return err
	}
	out := list[:0]
	for _, c := range list {
		if c.LauncherID != launcherID {
			out = append(out, c)
		}
	}
	if len(out) == len(list) {
		return nil
	}
	return cs.writeLocked(out)
}

// writeLocked writes the list atomically via a temp file rename.
func (cs *ConfigStore) writeLocked(list []Config) error {
	if list == nil {
		list = []Config{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pool config: %w", err)
	}
	tmp := cs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write pool config: %w", err)
	}
	if err := os.Rename(tmp, cs.path); err != nil {
		return fmt.Errorf("replace pool config: %w", err)
	}
	return nil
}
