package main

import (
	"flag"
	"fmt"

	"github.com/orchardnet/orchard-wallet/config"
	"github.com/orchardnet/orchard-wallet/internal/wallet"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

func cmdWallet(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fatal("Usage: orchard-wallet wallet <create|import|list|accounts> [flags]")
	}

	switch args[0] {
	case "create":
		cmdWalletCreate(cfg, args[1:])
	case "import":
		cmdWalletImport(cfg, args[1:])
	case "list":
		cmdWalletList(cfg)
	case "accounts":
		cmdWalletAccounts(cfg, args[1:])
	default:
		fatal("Unknown wallet command: %s\nUsage: orchard-wallet wallet <create|import|list|accounts> [flags]", args[0])
	}
}

func cmdWalletCreate(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("wallet create", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: orchard-wallet wallet create --name <name>")
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	saveWallet(cfg, *name, mnemonic)
	fmt.Printf("\nWallet created: %s\n", *name)
}

func cmdWalletImport(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("wallet import", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic (24 words)")
	fs.Parse(args)

	if *name == "" || *mnemonic == "" {
		fatal("Usage: orchard-wallet wallet import --name <name> --mnemonic \"word1 word2 ...\"")
	}
	if !wallet.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}

	saveWallet(cfg, *name, *mnemonic)
	fmt.Printf("Wallet imported: %s\n", *name)
}

// saveWallet encrypts the seed under a freshly prompted password and records
// the first payout account.
func saveWallet(cfg *config.Config, name, mnemonic string) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}

	// Derive the first payout puzzle hash before encrypting.
	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		fatal("derive master key: %v", err)
	}
	key, err := master.DerivePayout(0, wallet.ChangeExternal, 0)
	if err != nil {
		fatal("derive payout key: %v", err)
	}
	hash := key.PuzzleHash()

	ks := openKeystore(cfg)
	if err := ks.Create(name, seed, password, wallet.DefaultParams()); err != nil {
		fatal("create wallet: %v", err)
	}

	// Zero seed.
	for i := range seed {
		seed[i] = 0
	}

	if err := ks.AddAccount(name, wallet.AccountEntry{
		Index:      0,
		Change:     wallet.ChangeExternal,
		Name:       "Default",
		PuzzleHash: hash.String(),
	}); err != nil {
		fatal("add account: %v", err)
	}
	if err := ks.IncrementExternalIndex(name); err != nil {
		fatal("advance payout index: %v", err)
	}

	fmt.Printf("Payout address: %s\n", hash.AddressString())
}

func cmdWalletList(cfg *config.Config) {
	ks := openKeystore(cfg)

	names, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}

	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func cmdWalletAccounts(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("wallet accounts", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	fs.Parse(args)

	if *walletName == "" {
		fatal("Usage: orchard-wallet wallet accounts --wallet <name>")
	}

	ks := openKeystore(cfg)
	accounts, err := ks.ListAccounts(*walletName)
	if err != nil {
		fatal("list accounts: %v", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No accounts found.")
		return
	}

	for _, acct := range accounts {
		hash, err := types.HexToHash(acct.PuzzleHash)
		if err != nil {
			fmt.Printf("  [%d] %s\n", acct.Index, acct.PuzzleHash)
			continue
		}
		fmt.Printf("  [%d] %s\n", acct.Index, hash.AddressString())
	}
}
