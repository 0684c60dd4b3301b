package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/orchardnet/orchard-wallet/config"
	"github.com/orchardnet/orchard-wallet/internal/pool"
	"github.com/orchardnet/orchard-wallet/internal/poolwallet"
	"github.com/orchardnet/orchard-wallet/internal/puzzle"
	"github.com/orchardnet/orchard-wallet/internal/wallet"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

func cmdPool(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fatal("Usage: orchard-wallet pool <list|create|status|join|self-pool|claim|cancel|pending> [flags]")
	}

	switch args[0] {
	case "list":
		cmdPoolList(cfg)
	case "create":
		cmdPoolCreate(cfg, args[1:])
	case "status":
		cmdPoolStatus(cfg, args[1:])
	case "join":
		cmdPoolJoin(cfg, args[1:])
	case "self-pool":
		cmdPoolSelfPool(cfg, args[1:])
	case "claim":
		cmdPoolClaim(cfg, args[1:])
	case "cancel":
		cmdPoolCancel(cfg, args[1:])
	case "pending":
		cmdPoolPending(cfg, args[1:])
	default:
		fatal("Unknown pool command: %s\nUsage: orchard-wallet pool <list|create|status|join|self-pool|claim|cancel|pending> [flags]", args[0])
	}
}

func cmdPoolList(cfg *config.Config) {
	e := openEnv(cfg)
	defer e.close()

	list, err := e.configs.Load()
	if err != nil {
		fatal("read pool config: %v", err)
	}

	if len(list) == 0 {
		fmt.Println("No pool singletons found.")
		return
	}

	for i, c := range list {
		fmt.Printf("  [%d] %s\n", i, c.LauncherID)
		if c.PoolURL != "" {
			fmt.Printf("      Pool URL: %s\n", c.PoolURL)
		} else {
			fmt.Printf("      Pool URL: (self-pooling)\n")
		}
		fmt.Printf("      Target:   %s\n", c.TargetPuzzleHash.AddressString())
		fmt.Printf("      P2 hash:  %s\n", c.PayToSingletonPuzzleHash)
	}
}

func cmdPoolCreate(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("pool create", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet funding the launcher")
	ownerHex := fs.String("owner-key", "", "Owner public key (48-byte hex, from your farming keys)")
	poolURL := fs.String("url", "", "Pool URL (omit to self-pool)")
	target := fs.String("target", "", "Pool reward target address (required with --url)")
	lockHeight := fs.Uint("lock-height", uint(pool.MinRelativeLockHeight), "Relative lock height for leaving the pool")
	feeStr := fs.String("fee", "", "Transaction fee (default: estimated from the network minimum)")
	fs.Parse(args)

	if *walletName == "" || *ownerHex == "" {
		fatal("Usage: orchard-wallet pool create --wallet <name> --owner-key <hex> [--url <u> --target <addr> --lock-height <n>] [--fee <amt>]")
	}

	owner, err := types.HexToPublicKey(*ownerHex)
	if err != nil {
		fatal("invalid owner key: %v", err)
	}
	fee := resolveFee(cfg, *feeStr, 1)

	payout := unlockPayout(cfg, *walletName)
	e := openEnv(cfg)
	defer e.close()

	initial := pool.State{
		Version:        pool.ProtocolVersion,
		OwnerPublicKey: owner,
	}
	if *poolURL == "" {
		hash, err := payout.NextPayoutPuzzleHash()
		if err != nil {
			fatal("derive payout puzzle hash: %v", err)
		}
		initial.State = pool.SelfPooling
		initial.TargetPuzzleHash = hash
	} else {
		if *target == "" {
			fatal("--target is required when creating with a pool URL")
		}
		th, err := types.ParseAddress(*target)
		if err != nil {
			fatal("invalid target address: %v", err)
		}
		initial.State = pool.FarmingToPool
		initial.PoolURL = *poolURL
		initial.TargetPuzzleHash = th
		initial.RelativeLockHeight = uint32(*lockHeight)
	}

	coins := spendableCoins(e, *walletName)
	sel, err := wallet.SelectCoins(coins, puzzle.SingletonAmount+fee)
	if err != nil {
		fatal("select funding coin: %v", err)
	}

	res, err := poolwallet.Create(e.options(payout), initial, sel.Coins[0], fee)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Pool singleton originated!\n")
	fmt.Printf("  Launcher ID: %s\n", res.LauncherID)
	fmt.Printf("  P2 hash:     %s\n", res.PayToSingletonHash)
	fmt.Printf("  Tx name:     %s\n", res.Transaction.Name)
	fmt.Printf("  Fee:         %s\n", formatAmount(res.Transaction.Fee))
	fmt.Println("\nPoint your farmer plots at the P2 hash. The singleton activates")
	fmt.Println("when the launcher transaction is included in a block.")
}

func cmdPoolStatus(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("pool status", flag.ExitOnError)
	launcher := fs.String("launcher", "", "Launcher ID (32-byte hex)")
	fs.Parse(args)

	if *launcher == "" {
		fatal("Usage: orchard-wallet pool status --launcher <id>")
	}
	id := parseLauncherID(*launcher)

	e := openEnv(cfg)
	defer e.close()

	history, err := e.store.SpendHistory(id)
	if err != nil {
		fatal("read spend history: %v", err)
	}
	if len(history) == 0 {
		fmt.Println("Launcher not yet confirmed.")
		printPending(e, id)
		return
	}

	opts := e.options(nil)
	opts.LauncherCoin = history[0].Spend.Coin
	w, err := poolwallet.New(opts)
	if err != nil {
		fatal("open pool wallet: %v", err)
	}

	info, err := w.Status()
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Launcher ID: %s\n", info.LauncherID)
	fmt.Printf("State:       %s\n", info.Current.State)
	if info.Current.PoolURL != "" {
		fmt.Printf("Pool URL:    %s\n", info.Current.PoolURL)
		fmt.Printf("Lock height: %d\n", info.Current.RelativeLockHeight)
	}
	fmt.Printf("Target:      %s\n", info.Current.TargetPuzzleHash.AddressString())
	fmt.Printf("P2 hash:     %s\n", info.PayToSingletonHash)
	fmt.Printf("Tip height:  %d\n", info.TipHeight)
	fmt.Printf("Tip coin:    %s\n", info.TipCoinID)
	if info.Target != nil {
		fmt.Printf("Transitioning to: %s", info.Target.State)
		if info.Target.PoolURL != "" {
			fmt.Printf(" (%s)", info.Target.PoolURL)
		}
		fmt.Println()
	}

	printPending(e, id)
}

func printPending(e *env, id types.Hash) {
	pending, err := e.store.PendingTransactions(id)
	if err != nil {
		fatal("read pending transactions: %v", err)
	}
	for _, tx := range pending {
		fmt.Printf("Pending tx:  %s (fee %s, submitted at height %d)\n",
			tx.Name, formatAmount(tx.Fee), tx.Height)
	}
}

func cmdPoolJoin(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("pool join", flag.ExitOnError)
	launcher := fs.String("launcher", "", "Launcher ID (32-byte hex)")
	walletName := fs.String("wallet", "", "Owning wallet")
	poolURL := fs.String("url", "", "Pool URL")
	target := fs.String("target", "", "Pool reward target address")
	lockHeight := fs.Uint("lock-height", uint(pool.MinRelativeLockHeight), "Relative lock height for leaving the pool")
	feeStr := fs.String("fee", "", "Transaction fee (doubled when leaving another pool; default: estimated)")
	fs.Parse(args)

	if *launcher == "" || *walletName == "" || *poolURL == "" || *target == "" {
		fatal("Usage: orchard-wallet pool join --launcher <id> --wallet <name> --url <u> --target <addr> [--lock-height <n>] [--fee <amt>]")
	}
	id := parseLauncherID(*launcher)
	th, err := types.ParseAddress(*target)
	if err != nil {
		fatal("invalid target address: %v", err)
	}
	fee := resolveFee(cfg, *feeStr, 1)

	payout := unlockPayout(cfg, *walletName)
	e := openEnv(cfg)
	defer e.close()

	w := e.openPoolWallet(id, payout)
	info, err := w.Status()
	if err != nil {
		fatal("%v", err)
	}

	goal := pool.State{
		Version:            pool.ProtocolVersion,
		State:              pool.FarmingToPool,
		TargetPuzzleHash:   th,
		OwnerPublicKey:     info.Current.OwnerPublicKey,
		PoolURL:            *poolURL,
		RelativeLockHeight: uint32(*lockHeight),
	}

	tx, err := w.JoinPool(goal, fee)
	if err != nil {
		fatalTransition(err)
	}

	fmt.Printf("Join transaction submitted!\n")
	fmt.Printf("  Tx name: %s\n", tx.Name)
	fmt.Printf("  Fee:     %s\n", formatAmount(tx.Fee))
	if info.Current.State == pool.FarmingToPool {
		fmt.Println("\nLeaving the current pool first. The join completes automatically")
		fmt.Println("once the relative lock height elapses.")
	}
}

func cmdPoolSelfPool(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("pool self-pool", flag.ExitOnError)
	launcher := fs.String("launcher", "", "Launcher ID (32-byte hex)")
	walletName := fs.String("wallet", "", "Owning wallet")
	feeStr := fs.String("fee", "", "Transaction fee (doubled when leaving a pool; default: estimated)")
	fs.Parse(args)

	if *launcher == "" || *walletName == "" {
		fatal("Usage: orchard-wallet pool self-pool --launcher <id> --wallet <name> [--fee <amt>]")
	}
	id := parseLauncherID(*launcher)
	fee := resolveFee(cfg, *feeStr, 1)

	payout := unlockPayout(cfg, *walletName)
	e := openEnv(cfg)
	defer e.close()

	w := e.openPoolWallet(id, payout)
	tx, err := w.SelfPool(fee)
	if err != nil {
		fatalTransition(err)
	}

	fmt.Printf("Self-pool transaction submitted!\n")
	fmt.Printf("  Tx name: %s\n", tx.Name)
	fmt.Printf("  Fee:     %s\n", formatAmount(tx.Fee))
}

func cmdPoolClaim(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("pool claim", flag.ExitOnError)
	launcher := fs.String("launcher", "", "Launcher ID (32-byte hex)")
	feeStr := fs.String("fee", "", "Transaction fee (default: estimated)")
	fs.Parse(args)

	if *launcher == "" {
		fatal("Usage: orchard-wallet pool claim --launcher <id> [--fee <amt>]")
	}
	id := parseLauncherID(*launcher)
	// A claim spends a (singleton, reward) pair per unclaimed reward.
	fee := resolveFee(cfg, *feeStr, 2)

	e := openEnv(cfg)
	defer e.close()

	w := e.openPoolWallet(id, nil)
	tx, err := w.ClaimRewards(fee)
	if errors.Is(err, poolwallet.ErrNothingToClaim) {
		fmt.Println("No unclaimed farming rewards.")
		return
	}
	if err != nil {
		fatal("%v", err)
	}

	// Each reward is absorbed by a (singleton, reward) spend pair.
	fmt.Printf("Claim transaction submitted!\n")
	fmt.Printf("  Tx name: %s\n", tx.Name)
	fmt.Printf("  Rewards: %d\n", len(tx.Spends)/2)
	fmt.Printf("  Fee:     %s\n", formatAmount(tx.Fee))
}

func cmdPoolCancel(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("pool cancel", flag.ExitOnError)
	launcher := fs.String("launcher", "", "Launcher ID (32-byte hex)")
	fs.Parse(args)

	if *launcher == "" {
		fatal("Usage: orchard-wallet pool cancel --launcher <id>")
	}
	id := parseLauncherID(*launcher)

	e := openEnv(cfg)
	defer e.close()

	w := e.openPoolWallet(id, nil)
	if err := w.DeletePending(); err != nil {
		fatal("%v", err)
	}
	fmt.Println("Pending transactions deleted.")
}

func cmdPoolPending(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("pool pending", flag.ExitOnError)
	launcher := fs.String("launcher", "", "Launcher ID (32-byte hex)")
	fs.Parse(args)

	if *launcher == "" {
		fatal("Usage: orchard-wallet pool pending --launcher <id>")
	}
	id := parseLauncherID(*launcher)

	e := openEnv(cfg)
	defer e.close()

	pending, err := e.store.PendingTransactions(id)
	if err != nil {
		fatal("read pending transactions: %v", err)
	}
	if len(pending) == 0 {
		fmt.Println("No pending transactions.")
		return
	}
	printPending(e, id)
}

// spendableCoins gathers unspent coins across the wallet's recorded payout
// accounts.
func spendableCoins(e *env, name string) []types.Coin {
	ks := openKeystore(e.cfg)
	accounts, err := ks.ListAccounts(name)
	if err != nil {
		fatal("list accounts: %v", err)
	}

	var coins []types.Coin
	for _, acct := range accounts {
		hash, err := types.HexToHash(acct.PuzzleHash)
		if err != nil {
			continue
		}
		records, err := e.store.UnspentCoinsByPuzzleHash(hash)
		if err != nil {
			fatal("read unspent coins: %v", err)
		}
		for _, r := range records {
			coins = append(coins, r.Coin)
		}
	}
	return coins
}

// fatalTransition renders transition failures, pointing at the wait height
// when a relative lock has not yet elapsed.
func fatalTransition(err error) {
	var lockErr *poolwallet.TimingLockError
	if errors.As(err, &lockErr) {
		fatal("relative lock height has not elapsed: retry at height %d (peak %d)",
			lockErr.LegalHeight, lockErr.PeakHeight)
	}
	fatal("%v", err)
}
