package config

// DefaultDelaySeconds is one week, the conventional timelock on the
// pay-to-singleton escape path.
const DefaultDelaySeconds uint64 = 604800

// Default builds the baseline process configuration for a network. File and
// flag values overlay it.
func Default(network NetworkType) *Config {
	if network != Testnet {
		network = Mainnet
	}
	return &Config{
		Network: network,
		DataDir: DefaultDataDir(),
		Wallet:  WalletConfig{Name: "main"},
		Pool:    PoolConfig{DelaySeconds: DefaultDelaySeconds},
		Log:     LogConfig{Level: "info"},
	}
}

// DefaultMainnet is shorthand for Default(Mainnet).
func DefaultMainnet() *Config { return Default(Mainnet) }

// DefaultTestnet is shorthand for Default(Testnet).
func DefaultTestnet() *Config { return Default(Testnet) }
