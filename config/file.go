package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile reads a key = value .conf file into a map. A missing file is not
// an error: it yields an empty map so first runs work without setup.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	defer f.Close()

	values := map[string]string{}
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		key, value, err := parseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if key != "" {
			values[key] = value
		}
	}
	return values, sc.Err()
}

// parseLine splits one config line. Blank lines and # comments return an
// empty key.
func parseLine(raw string) (key, value string, err error) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", nil
	}
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid format (expected key = value)")
	}
	return strings.TrimSpace(key), unquote(strings.TrimSpace(value)), nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if first == last && (first == '"' || first == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// ApplyFileConfig overlays file values onto cfg.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue applies one key. Unknown keys are ignored so newer config
// files still load on older binaries.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "network":
		cfg.Network = NetworkType(value)
	case "datadir":
		cfg.DataDir = value

	case "wallet.name":
		cfg.Wallet.Name = value
	case "wallet.keystore":
		cfg.Wallet.KeystoreDir = value

	case "pool.config":
		cfg.Pool.ConfigFile = value
	case "pool.delay_seconds":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Pool.DelaySeconds = n
	case "pool.delay_puzzle_hash":
		cfg.Pool.DelayPuzzleHash = value

	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// WriteDefaultConfig writes a commented starter configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	content := `# Orchard Wallet Configuration
#
# This file contains PROCESS settings only.
# Network identity (genesis challenge, address prefix) is fixed per
# network and cannot be changed here.

# Network: mainnet or testnet
network = ` + string(network) + `

# Data directory (default: ~/.orchard)
# datadir = ~/.orchard

# ============================================================================
# Wallet
# ============================================================================

# Keystore wallet name to open
wallet.name = main

# Override the keystore directory
# wallet.keystore = ~/.orchard/` + string(network) + `/keystore

# ============================================================================
# Pool Membership
# ============================================================================

# Shared pool config file read by the farmer
# pool.config = ~/.orchard/` + string(network) + `/pool.json

# Timelock on the pay-to-singleton escape path, in seconds.
# Changing this changes every derived puzzle hash.
pool.delay_seconds = ` + strconv.FormatUint(DefaultDelaySeconds, 10) + `

# Puzzle hash paid by the timelocked escape path (hex, 32 bytes)
# pool.delay_puzzle_hash =

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
