// orchard-wallet is the command-line interface to the Orchard pooling
// wallet: keystore management, singleton origination, and pool membership
// transitions against the local ledger database.
package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/orchardnet/orchard-wallet/config"
	"github.com/orchardnet/orchard-wallet/internal/ledger"
	"github.com/orchardnet/orchard-wallet/internal/log"
	"github.com/orchardnet/orchard-wallet/internal/poolwallet"
	"github.com/orchardnet/orchard-wallet/internal/storage"
	"github.com/orchardnet/orchard-wallet/internal/wallet"
	"github.com/orchardnet/orchard-wallet/pkg/tx"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	dataDir := ""
	network := string(config.Mainnet)

	// Scan for --datadir and --network before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	// Set address HRP based on network.
	if network == string(config.Testnet) {
		types.SetAddressHRP(types.TestnetHRP)
	} else {
		types.SetAddressHRP(types.MainnetHRP)
	}

	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg := loadConfig(dataDir, network)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "status":
		cmdStatus(cfg)
	case "wallet":
		cmdWallet(cfg, cmdArgs)
	case "pool":
		cmdPool(cfg, cmdArgs)
	case "sync":
		cmdSync(cfg, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: orchard-wallet [global flags] <command> [flags]

Global flags:
  --datadir <path>    Data directory (default: ~/.orchard)
  --network <net>     mainnet (default) or testnet

Commands:
  status                          Show ledger sync status
  sync [--file <path>]            Replay a chain event stream into the ledger

  wallet create --name <n>        Create a new wallet
  wallet import --name <n> --mnemonic "..."
                                  Import wallet from mnemonic
  wallet list                     List wallets
  wallet accounts --wallet <w>    List derived payout addresses

  pool list                       List tracked pool singletons
  pool create --wallet <w> --owner-key <hex>
              [--url <u> --target <addr> --lock-height <n>] [--fee <amt>]
                                  Originate a pool singleton
  pool status --launcher <id>     Show singleton state
  pool join --launcher <id> --wallet <w> --url <u> --target <addr>
            [--lock-height <n>] [--fee <amt>]
                                  Join a pool (two-phase when leaving another)
  pool self-pool --launcher <id> --wallet <w> [--fee <amt>]
                                  Return to self-pooling
  pool claim --launcher <id> [--fee <amt>]
                                  Absorb unclaimed farming rewards
  pool cancel --launcher <id>     Delete the pending transaction
  pool pending --launcher <id>    List pending transactions
`)
}

// loadConfig builds the process config the same way the config loader does:
// network defaults, then the config file, then the command-line overrides.
func loadConfig(dataDir, network string) *config.Config {
	net := config.NetworkType(network)
	if net != config.Mainnet && net != config.Testnet {
		fatal("unknown network %q (use mainnet or testnet)", network)
	}

	cfg := config.Default(net)
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	values, err := config.LoadFile(cfg.ConfigFile())
	if err != nil {
		fatal("read config file: %v", err)
	}
	if len(values) > 0 {
		if err := config.ApplyFileConfig(cfg, values); err != nil {
			fatal("apply config file: %v", err)
		}
		// Command-line flags win over the file.
		cfg.Network = net
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
	}

	if err := config.Validate(cfg); err != nil {
		fatal("config: %v", err)
	}
	return cfg
}

// env bundles the open stores every pool command operates on.
type env struct {
	cfg       *config.Config
	db        storage.DB
	store     *ledger.Store
	configs   *poolwallet.ConfigStore
	challenge types.Hash
	delayHash types.Hash
}

func openEnv(cfg *config.Config) *env {
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logging: %v", err)
	}

	challenge, err := config.GenesisFor(cfg.Network).Challenge()
	if err != nil {
		fatal("genesis challenge: %v", err)
	}

	var delayHash types.Hash
	if cfg.Pool.DelayPuzzleHash != "" {
		delayHash, err = types.HexToHash(cfg.Pool.DelayPuzzleHash)
		if err != nil {
			fatal("pool.delay_puzzle_hash: %v", err)
		}
	}

	db, err := storage.NewBadger(cfg.LedgerDir())
	if err != nil {
		fatal("open ledger database: %v", err)
	}

	configs, err := poolwallet.NewConfigStore(cfg.PoolConfigFile())
	if err != nil {
		db.Close()
		fatal("open pool config: %v", err)
	}

	return &env{
		cfg:       cfg,
		db:        db,
		store:     ledger.NewStore(db),
		configs:   configs,
		challenge: challenge,
		delayHash: delayHash,
	}
}

func (e *env) close() {
	e.db.Close()
}

func (e *env) options(payout poolwallet.PayoutProvider) poolwallet.Options {
	return poolwallet.Options{
		Ledger:           e.store,
		Configs:          e.configs,
		Payout:           payout,
		GenesisChallenge: e.challenge,
		DelaySeconds:     e.cfg.Pool.DelaySeconds,
		DelayPuzzleHash:  e.delayHash,
		MinFeeRate:       config.GenesisFor(e.cfg.Network).MinFeeRate,
	}
}

// openPoolWallet reconstructs the wallet for an existing launcher from its
// confirmed spend history. The first history entry is the launcher spend.
func (e *env) openPoolWallet(launcherID types.Hash, payout poolwallet.PayoutProvider) *poolwallet.PoolWallet {
	history, err := e.store.SpendHistory(launcherID)
	if err != nil {
		fatal("read spend history: %v", err)
	}
	if len(history) == 0 {
		fatal("no confirmed spends for launcher %s (still pending?)", launcherID)
	}
	opts := e.options(payout)
	opts.LauncherCoin = history[0].Spend.Coin
	w, err := poolwallet.New(opts)
	if err != nil {
		fatal("open pool wallet: %v", err)
	}
	return w
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(cfg *config.Config) {
	e := openEnv(cfg)
	defer e.close()

	peak, err := e.store.PeakHeight()
	if err != nil {
		fatal("read peak height: %v", err)
	}
	fmt.Printf("Network: %s\n", cfg.Network)
	fmt.Printf("Peak:    %d\n", peak)

	if last, ok, err := e.store.LastTransactionBlock(peak); err != nil {
		fatal("read transaction blocks: %v", err)
	} else if ok {
		fmt.Printf("Last transaction block: %d\n", last)
	}

	list, err := e.configs.Load()
	if err != nil {
		fatal("read pool config: %v", err)
	}
	fmt.Printf("Pool singletons: %d\n", len(list))
}

// ── helpers ─────────────────────────────────────────────────────────────

func openKeystore(cfg *config.Config) *wallet.Keystore {
	ks, err := wallet.NewKeystore(cfg.KeystoreDir())
	if err != nil {
		fatal("open keystore: %v", err)
	}
	return ks
}

// unlockPayout prompts for the wallet password and returns the payout
// account derivation for the named wallet.
func unlockPayout(cfg *config.Config, name string) *wallet.PayoutAccounts {
	ks := openKeystore(cfg)

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	seed, err := ks.Load(name, password)
	if err != nil {
		fatal("unlock wallet: %v", err)
	}

	master, err := wallet.NewMasterKey(seed)
	for i := range seed {
		seed[i] = 0
	}
	if err != nil {
		fatal("derive master key: %v", err)
	}

	return wallet.NewPayoutAccounts(ks, master, name)
}

func parseLauncherID(s string) types.Hash {
	id, err := types.HexToHash(s)
	if err != nil {
		fatal("invalid launcher id: %v", err)
	}
	return id
}

// formatAmount renders raw units as a decimal coin amount.
func formatAmount(units uint64) string {
	whole := units / config.Coin
	frac := units % config.Coin
	return fmt.Sprintf("%d.%012d", whole, frac)
}

// parseAmount converts a decimal string to raw units.
func parseAmount(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative amount")
	}

	parts := strings.SplitN(s, ".", 2)

	whole, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid whole part: %w", err)
	}

	var frac uint64
	if len(parts) == 2 {
		fracStr := parts[1]
		if len(fracStr) > config.Decimals {
			return 0, fmt.Errorf("too many decimal places (max %d)", config.Decimals)
		}
		// Pad to Decimals digits.
		fracStr = fracStr + strings.Repeat("0", config.Decimals-len(fracStr))
		frac, err = strconv.ParseUint(fracStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fractional part: %w", err)
		}
	}

	if whole > math.MaxUint64/config.Coin {
		return 0, fmt.Errorf("amount overflows")
	}
	units := whole * config.Coin
	if units > math.MaxUint64-frac {
		return 0, fmt.Errorf("amount overflows")
	}
	return units + frac, nil
}

func parseFee(s string) uint64 {
	fee, err := parseAmount(s)
	if err != nil {
		fatal("invalid fee: %v", err)
	}
	return fee
}

// resolveFee parses the --fee flag, estimating from the network's minimum
// relay rate when the flag was omitted.
func resolveFee(cfg *config.Config, s string, numSpends int) uint64 {
	if s == "" {
		return tx.EstimateFee(numSpends, config.GenesisFor(cfg.Network).MinFeeRate)
	}
	return parseFee(s)
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
