package poolwallet

import (
	"path/filepath"
	"testing"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

func newTestConfigStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "pool.json")
	cs, err := NewConfigStore(path)
	if err != nil {
		t.Fatalf("NewConfigStore: %v", err)
	}
	return cs, path
}

func TestConfigStore_MissingFileIsEmpty(t *testing.T) {
	cs, _ := newTestConfigStore(t)
	list, err := cs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("fresh store has %d entries", len(list))
	}
	cfg, err := cs.Get(types.Hash{0x01})
	if err != nil || cfg != nil {
		t.Errorf("Get on fresh store = %v, %v", cfg, err)
	}
}

func TestConfigStore_UpdateGetRemove(t *testing.T) {
	cs, path := newTestConfigStore(t)
	a := Config{
		LauncherID:         types.Hash{0x01},
		PoolURL:            "https://pool.example.com",
		PayoutInstructions: "orc1q...",
		TargetPuzzleHash:   types.Hash{0x10},
	}
	b := Config{LauncherID: types.Hash{0x02}}

	if err := cs.Update(a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := cs.Update(b); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := cs.Get(a.LauncherID)
	if err != nil || got == nil {
		t.Fatalf("Get: %v, %v", got, err)
	}
	if got.PoolURL != a.PoolURL {
		t.Errorf("pool url = %q", got.PoolURL)
	}

	// Updating an existing entry replaces it in place.
	a.PoolURL = ""
	if err := cs.Update(a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	list, err := cs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("entries = %d, want 2", len(list))
	}

	// The file survives a store restart.
	reopened, err := NewConfigStore(path)
	if err != nil {
		t.Fatalf("NewConfigStore: %v", err)
	}
	got, err = reopened.Get(a.LauncherID)
	if err != nil || got == nil {
		t.Fatalf("Get after reopen: %v, %v", got, err)
	}
	if got.PoolURL != "" {
		t.Error("replaced entry should persist")
	}

	if err := cs.Remove(a.LauncherID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, err = cs.Get(a.LauncherID)
	if err != nil || got != nil {
		t.Errorf("removed entry still present: %v, %v", got, err)
	}
	// Removing a missing entry is a no-op.
	if err := cs.Remove(types.Hash{0x99}); err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
}
