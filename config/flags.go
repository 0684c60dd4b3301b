package config

import (
	"flag"
	"fmt"
	"os"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	DataDir string
	Config  string

	// Wallet
	WalletName  string
	KeystoreDir string

	// Pool membership
	PoolConfig      string
	DelaySeconds    uint64
	DelayPuzzleHash string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args
	Args []string

	// Explicitly-set flags (for overriding file config).
	set map[string]bool
}

// ParseFlags parses command-line arguments.
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("orchard-wallet", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.BoolVar(&f.Help, "help", false, "Show usage")
	fs.BoolVar(&f.Version, "version", false, "Show version")

	fs.StringVar(&f.Network, "network", "", "Network: mainnet or testnet")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory")
	fs.StringVar(&f.Config, "config", "", "Config file path")

	fs.StringVar(&f.WalletName, "wallet", "", "Keystore wallet name")
	fs.StringVar(&f.KeystoreDir, "keystore", "", "Keystore directory")

	fs.StringVar(&f.PoolConfig, "pool-config", "", "Pool config file path")
	fs.Uint64Var(&f.DelaySeconds, "pool-delay", 0, "Pay-to-singleton escape delay (seconds)")
	fs.StringVar(&f.DelayPuzzleHash, "pool-delay-ph", "", "Pay-to-singleton escape puzzle hash (hex)")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Log in JSON format")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	f.Args = fs.Args()
	return f, nil
}

// IsSet reports whether a flag was given explicitly.
func (f *Flags) IsSet(name string) bool {
	return f.set[name]
}

// Apply layers explicitly-set flags over a Config.
func (f *Flags) Apply(cfg *Config) error {
	if f.IsSet("network") {
		switch NetworkType(f.Network) {
		case Mainnet, Testnet:
			cfg.Network = NetworkType(f.Network)
		default:
			return fmt.Errorf("unknown network %q", f.Network)
		}
	}
	if f.IsSet("datadir") {
		cfg.DataDir = f.DataDir
	}
	if f.IsSet("wallet") {
		cfg.Wallet.Name = f.WalletName
	}
	if f.IsSet("keystore") {
		cfg.Wallet.KeystoreDir = f.KeystoreDir
	}
	if f.IsSet("pool-config") {
		cfg.Pool.ConfigFile = f.PoolConfig
	}
	if f.IsSet("pool-delay") {
		cfg.Pool.DelaySeconds = f.DelaySeconds
	}
	if f.IsSet("pool-delay-ph") {
		cfg.Pool.DelayPuzzleHash = f.DelayPuzzleHash
	}
	if f.IsSet("log-level") {
		cfg.Log.Level = f.LogLevel
	}
	if f.IsSet("log-file") {
		cfg.Log.File = f.LogFile
	}
	if f.IsSet("log-json") {
		cfg.Log.JSON = f.LogJSON
	}
	return nil
}

// Load resolves the effective configuration: defaults for the selected
// network, then the config file, then explicit flags.
func Load(args []string) (*Config, *Flags, error) {
	flags, err := ParseFlags(args)
	if err != nil {
		return nil, nil, err
	}

	network := Mainnet
	if flags.IsSet("network") {
		network = NetworkType(flags.Network)
	}
	cfg := Default(network)

	path := cfg.ConfigFile()
	if flags.IsSet("config") {
		path = flags.Config
	}
	values, err := LoadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, values); err != nil {
		return nil, nil, err
	}

	if err := flags.Apply(cfg); err != nil {
		return nil, nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, flags, nil
}
