package config

import (
	"encoding/hex"
	"fmt"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// Validate checks runtime process config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.Wallet.Name == "" {
		return fmt.Errorf("wallet.name is required")
	}
	if cfg.Pool.DelaySeconds == 0 {
		return fmt.Errorf("pool.delay_seconds must be positive")
	}
	if cfg.Pool.DelayPuzzleHash != "" {
		b, err := hex.DecodeString(cfg.Pool.DelayPuzzleHash)
		if err != nil || len(b) != types.HashSize {
			return fmt.Errorf("pool.delay_puzzle_hash must be 32-byte hex")
		}
	}
	switch cfg.Log.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not a known level", cfg.Log.Level)
	}
	return nil
}
