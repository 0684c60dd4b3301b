package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// Denominations. All on-chain amounts are in base units; 1 coin = 10^12.
const (
	Decimals  = 12
	Coin      = 1_000_000_000_000
	MilliCoin = Coin / 1_000
	MicroCoin = Coin / 1_000_000
)

// Genesis holds the network identity the wallet derives against.
// This is immutable after chain launch: the genesis challenge is folded
// into every farming reward parent id, and the address prefix into every
// rendered address.
type Genesis struct {
	// Chain identity
	ChainID   string `json:"chain_id"`
	ChainName string `json:"chain_name"`
	Symbol    string `json:"symbol,omitempty"` // Native coin symbol (e.g., "ORC")

	// GenesisChallenge is the 32-byte network fingerprint (hex).
	GenesisChallenge string `json:"genesis_challenge"`

	// AddressPrefix is the bech32 human-readable part for this network.
	AddressPrefix string `json:"address_prefix"`

	// MinFeeRate is the network's minimum relay fee in base units per byte
	// of canonical bundle serialization.
	MinFeeRate uint64 `json:"min_fee_rate"`

	Timestamp uint64 `json:"timestamp"`
	ExtraData string `json:"extra_data,omitempty"`
}

// MainnetGenesis returns the mainnet network identity.
func MainnetGenesis() *Genesis {
	return &Genesis{
		ChainID:          "orchard-mainnet-1",
		ChainName:        "Orchard Mainnet",
		Symbol:           "ORC",
		GenesisChallenge: "6fcb0c07b4c3f77aa4b3b74949595b82d7a071758bd6f4e5d8f3a734bdd4f177",
		AddressPrefix:    types.MainnetHRP,
		MinFeeRate:       5, // base units per byte
		Timestamp:        1771027200, // 2026-02-14
		ExtraData:        "Orchard Genesis",
	}
}

// TestnetGenesis returns the testnet network identity.
func TestnetGenesis() *Genesis {
	g := MainnetGenesis()
	g.ChainID = "orchard-testnet-1"
	g.ChainName = "Orchard Testnet"
	g.GenesisChallenge = "ae83525ba8d1dd3f09b277de860f8003a1b3e38a67b2eff79e5e71d80fe18aaf"
	g.AddressPrefix = types.TestnetHRP
	g.MinFeeRate = 1
	g.ExtraData = "Orchard Testnet Genesis"
	return g
}

// GenesisFor returns the network identity for the given network.
func GenesisFor(network NetworkType) *Genesis {
	switch network {
	case Testnet:
		return TestnetGenesis()
	default:
		return MainnetGenesis()
	}
}

// Challenge parses the genesis challenge into a hash.
func (g *Genesis) Challenge() (types.Hash, error) {
	h, err := types.HexToHash(g.GenesisChallenge)
	if err != nil {
		return types.Hash{}, fmt.Errorf("invalid genesis challenge: %w", err)
	}
	return h, nil
}

// LoadGenesis reads and validates a network identity file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis file: %w", err)
	}
	g := new(Genesis)
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("parse genesis file: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	return g, nil
}

// Save writes the network identity as indented JSON.
func (g *Genesis) Save(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encode genesis: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write genesis file: %w", err)
	}
	return nil
}

// Validate checks the identity carries everything derivation depends on.
func (g *Genesis) Validate() error {
	switch {
	case g.ChainID == "":
		return fmt.Errorf("chain_id is required")
	case g.AddressPrefix == "":
		return fmt.Errorf("address_prefix is required")
	}
	_, err := g.Challenge()
	return err
}
