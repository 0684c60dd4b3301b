// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Network identity: Defined in genesis, immutable, must match the chain
//   - Process settings: Runtime configuration, can vary per installation
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Config holds process-specific runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Wallet
	Wallet WalletConfig

	// Pool membership
	Pool PoolConfig

	// Logging
	Log LogConfig
}

// WalletConfig holds standard-wallet settings.
type WalletConfig struct {
	Name        string `conf:"wallet.name"`     // Keystore wallet name to open.
	KeystoreDir string `conf:"wallet.keystore"` // Override for the keystore directory.
}

// PoolConfig holds pool-membership settings.
type PoolConfig struct {
	// ConfigFile overrides the path of the shared pool config JSON.
	ConfigFile string `conf:"pool.config"`

	// DelaySeconds and DelayPuzzleHash parameterize the timelocked escape
	// path of pay-to-singleton puzzles. Changing them changes every
	// derived puzzle hash, so they are fixed per installation.
	DelaySeconds    uint64 `conf:"pool.delay_seconds"`
	DelayPuzzleHash string `conf:"pool.delay_puzzle_hash"` // hex, 32 bytes
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir picks the conventional per-user data directory:
// ~/.orchard on Linux, ~/Library/Application Support/Orchard on macOS,
// %APPDATA%\Orchard on Windows.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".orchard"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Orchard")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Orchard")
		}
		return filepath.Join(home, "AppData", "Roaming", "Orchard")
	}
	return filepath.Join(home, ".orchard")
}

// ChainDataDir is the network-scoped subtree of DataDir. Everything derived
// from chain state lives under it so mainnet and testnet never mix.
func (c *Config) ChainDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// LedgerDir holds the coin-tracking database.
func (c *Config) LedgerDir() string {
	return filepath.Join(c.ChainDataDir(), "ledger")
}

// KeystoreDir holds encrypted wallet files, overridable via wallet.keystore.
func (c *Config) KeystoreDir() string {
	if c.Wallet.KeystoreDir != "" {
		return c.Wallet.KeystoreDir
	}
	return filepath.Join(c.ChainDataDir(), "keystore")
}

// PoolConfigFile is the shared pool config JSON the farmer reads.
func (c *Config) PoolConfigFile() string {
	if c.Pool.ConfigFile != "" {
		return c.Pool.ConfigFile
	}
	return filepath.Join(c.ChainDataDir(), "pool.json")
}

// LogsDir holds log files, network-independent.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile is the process settings file.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "orchard.conf")
}
