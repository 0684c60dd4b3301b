package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/orchardnet/orchard-wallet/config"
	"github.com/orchardnet/orchard-wallet/internal/chain"
	"github.com/orchardnet/orchard-wallet/internal/poolwallet"
	"github.com/orchardnet/orchard-wallet/internal/wallet"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// chainEvent is one line of the ingest stream: a confirmed block or a
// reorg notice, as exported by the node filtering coin events for this
// wallet's watched puzzle hashes.
type chainEvent struct {
	Block *chain.Block `json:"block,omitempty"`
	Reorg *reorgEvent  `json:"reorg,omitempty"`
}

type reorgEvent struct {
	ForkHeight uint32 `json:"fork_height"`
}

func cmdSync(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	file := fs.String("file", "", "Chain event stream, one JSON event per line (default: stdin)")
	fs.Parse(args)

	var in io.Reader = os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fatal("open event stream: %v", err)
		}
		defer f.Close()
		in = f
	}

	e := openEnv(cfg)
	defer e.close()

	follower, err := newFollower(e)
	if err != nil {
		fatal("%v", err)
	}

	applied, err := ingestEvents(follower, in)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Applied %d chain events; peak height %d.\n", applied, follower.PeakHeight())
}

// newFollower reconstructs every tracked pool wallet from the shared pool
// config and wires them into a block follower over the local ledger.
func newFollower(e *env) (*chain.Follower, error) {
	list, err := e.configs.Load()
	if err != nil {
		return nil, fmt.Errorf("read pool config: %w", err)
	}

	wallets := wallet.NewCollection()
	for _, c := range list {
		coin, ok, err := launcherCoin(e, c.LauncherID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		opts := e.options(nil)
		opts.LauncherCoin = coin
		w, err := poolwallet.New(opts)
		if err != nil {
			return nil, fmt.Errorf("open pool wallet %s: %w", c.LauncherID, err)
		}
		if err := wallets.Add(w.LauncherID(), w); err != nil {
			return nil, err
		}
	}
	return chain.NewFollower(e.store, wallets)
}

// launcherCoin recovers the launcher coin from the confirmed spend history,
// falling back to the pending origination transaction for singletons whose
// launcher has not yet confirmed.
func launcherCoin(e *env, id types.Hash) (types.Coin, bool, error) {
	history, err := e.store.SpendHistory(id)
	if err != nil {
		return types.Coin{}, false, fmt.Errorf("read spend history: %w", err)
	}
	if len(history) > 0 {
		return history[0].Spend.Coin, true, nil
	}
	pending, err := e.store.PendingTransactions(id)
	if err != nil {
		return types.Coin{}, false, fmt.Errorf("read pending transactions: %w", err)
	}
	if len(pending) == 0 || len(pending[0].Spends) == 0 {
		return types.Coin{}, false, nil
	}
	return pending[0].Spends[0].Coin, true, nil
}

// ingestEvents replays a stream of chain events through the follower.
func ingestEvents(follower *chain.Follower, in io.Reader) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	applied := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev chainEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return applied, fmt.Errorf("event %d: %w", applied+1, err)
		}
		switch {
		case ev.Reorg != nil:
			if _, err := follower.ProcessReorg(ev.Reorg.ForkHeight); err != nil {
				return applied, fmt.Errorf("reorg to %d: %w", ev.Reorg.ForkHeight, err)
			}
		case ev.Block != nil:
			if err := follower.ProcessBlock(ev.Block); err != nil {
				return applied, fmt.Errorf("block %d: %w", ev.Block.Height, err)
			}
		default:
			return applied, fmt.Errorf("event %d: neither block nor reorg", applied+1)
		}
		applied++
	}
	if err := scanner.Err(); err != nil {
		return applied, fmt.Errorf("read event stream: %w", err)
	}
	return applied, nil
}
