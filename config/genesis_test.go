package config

import (
	"path/filepath"
	"testing"
)

func TestGenesis_Validate_MainnetValid(t *testing.T) {
	g := MainnetGenesis()
	if err := g.Validate(); err != nil {
		t.Errorf("mainnet genesis should be valid: %v", err)
	}
}

func TestGenesis_Validate_TestnetValid(t *testing.T) {
	g := TestnetGenesis()
	if err := g.Validate(); err != nil {
		t.Errorf("testnet genesis should be valid: %v", err)
	}
}

func TestGenesis_ChallengeDiffersPerNetwork(t *testing.T) {
	main, err := MainnetGenesis().Challenge()
	if err != nil {
		t.Fatalf("mainnet Challenge(): %v", err)
	}
	test, err := TestnetGenesis().Challenge()
	if err != nil {
		t.Fatalf("testnet Challenge(): %v", err)
	}
	if main == test {
		t.Error("mainnet and testnet genesis challenges must differ")
	}
}

func TestGenesis_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Genesis)
	}{
		{"empty chain id", func(g *Genesis) { g.ChainID = "" }},
		{"empty prefix", func(g *Genesis) { g.AddressPrefix = "" }},
		{"bad challenge", func(g *Genesis) { g.GenesisChallenge = "zz" }},
		{"short challenge", func(g *Genesis) { g.GenesisChallenge = "abcd" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := MainnetGenesis()
			tt.mutate(g)
			if err := g.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGenesis_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")
	g := TestnetGenesis()
	if err := g.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadGenesis(path)
	if err != nil {
		t.Fatalf("LoadGenesis: %v", err)
	}
	if loaded.ChainID != g.ChainID || loaded.GenesisChallenge != g.GenesisChallenge {
		t.Error("loaded genesis should match saved genesis")
	}
}
