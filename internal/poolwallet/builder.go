package poolwallet

import (
	"fmt"

	"github.com/orchardnet/orchard-wallet/internal/pool"
	"github.com/orchardnet/orchard-wallet/internal/puzzle"
	"github.com/orchardnet/orchard-wallet/pkg/crypto"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// PoolRewardAmount is the farming reward routed through the pay-to-singleton
// puzzle for every reward coin.
const PoolRewardAmount uint64 = 1_750_000_000_000

// AbsorbPair is the same-block spend pair sweeping one farming reward: the
// singleton spend (no state change) and the pay-to-singleton reward coin
// spend. Both must land in the same block to be consensus-valid; that is
// the caller's obligation, not the builder's.
type AbsorbPair struct {
	Singleton types.CoinSpend
	Reward    types.CoinSpend
}

// leavingFrom is the intermediate LeavingPool state a member passes through
// on its way out of a pool. It keeps the member's parameters so its inner
// puzzle hash equals the member puzzle's curried escape destination.
func leavingFrom(current pool.State) pool.State {
	return pool.State{
		Version:            current.Version,
		State:              pool.LeavingPool,
		TargetPuzzleHash:   current.TargetPuzzleHash,
		OwnerPublicKey:     current.OwnerPublicKey,
		PoolURL:            current.PoolURL,
		RelativeLockHeight: current.RelativeLockHeight,
	}
}

// singletonToSpend reconstructs the live singleton coin created by the last
// confirmed spend.
func singletonToSpend(lastSpend types.CoinSpend, current pool.State, ctx puzzle.DeriveContext) types.Coin {
	return types.Coin{
		ParentCoinInfo: crypto.CoinID(lastSpend.Coin),
		PuzzleHash:     puzzle.FullPuzzleHash(current, ctx),
		Amount:         puzzle.SingletonAmount,
	}
}

// lineageProofFor assembles the lineage proof for spending the singleton
// child of lastSpend. A direct child of the launcher proves the launcher's
// parent and amount; deeper descendants also reveal the parent's inner
// puzzle hash, recovered from the prior spend's puzzle reveal.
func lineageProofFor(lastSpend types.CoinSpend, launcherCoin types.Coin) (puzzle.LineageProof, error) {
	if lastSpend.Coin.PuzzleHash == puzzle.LauncherPuzzleHash() {
		return puzzle.LineageProof{
			ParentCoinID: launcherCoin.ParentCoinInfo,
			Amount:       launcherCoin.Amount,
		}, nil
	}
	reveal, err := puzzle.Parse(lastSpend.PuzzleReveal)
	if err != nil {
		return puzzle.LineageProof{}, fmt.Errorf("parent puzzle reveal: %w", err)
	}
	_, parentInner, err := puzzle.UnwrapSingleton(reveal)
	if err != nil {
		return puzzle.LineageProof{}, fmt.Errorf("parent puzzle reveal: %w", err)
	}
	innerHash := parentInner.TreeHash()
	return puzzle.LineageProof{
		ParentCoinID:    crypto.CoinID(lastSpend.Coin),
		InnerPuzzleHash: &innerHash,
		Amount:          lastSpend.Coin.Amount,
	}, nil
}

// BuildTravelSpend constructs the spend changing the singleton's declared
// state. Departing FarmingToPool always routes through the curried escape
// destination first, committing the LeavingPool intermediate; the remaining
// hop toward target happens in a later spend once the lock elapses.
func BuildTravelSpend(lastSpend types.CoinSpend, launcherCoin types.Coin, current, target pool.State, ctx puzzle.DeriveContext) (types.CoinSpend, error) {
	inner := puzzle.InnerPuzzle(current, ctx)
	full := puzzle.NewSingletonPuzzle(ctx.LauncherID, inner)
	coin := singletonToSpend(lastSpend, current, ctx)

	proof, err := lineageProofFor(lastSpend, launcherCoin)
	if err != nil {
		return types.CoinSpend{}, err
	}

	var innerSolution *puzzle.Program
	switch puzzle.Classify(inner) {
	case puzzle.KindMember:
		committed := leavingFrom(current)
		innerSolution = puzzle.NewMemberTravelSolution(coin.Amount, committed.Bytes())
	case puzzle.KindWaitingRoom:
		destination := puzzle.InnerPuzzle(target, ctx).TreeHash()
		innerSolution = puzzle.NewWaitingRoomTravelSolution(coin.Amount, destination, target.Bytes())
	default:
		return types.CoinSpend{}, fmt.Errorf("current state %s derives no known template", current.State)
	}

	solution := puzzle.NewSingletonSolution(proof, coin.Amount, innerSolution)
	return types.CoinSpend{
		Coin:         coin,
		PuzzleReveal: full.Serialize(),
		Solution:     solution.Serialize(),
	}, nil
}

// BuildAbsorbSpend constructs the same-block pair sweeping the farming
// reward minted at rewardHeight into the singleton's payout target.
func BuildAbsorbSpend(lastSpend types.CoinSpend, current pool.State, launcherCoin types.Coin, rewardHeight uint32, ctx puzzle.DeriveContext) (*AbsorbPair, error) {
	inner := puzzle.InnerPuzzle(current, ctx)
	full := puzzle.NewSingletonPuzzle(ctx.LauncherID, inner)
	coin := singletonToSpend(lastSpend, current, ctx)

	proof, err := lineageProofFor(lastSpend, launcherCoin)
	if err != nil {
		return nil, err
	}

	p2Puzzle := puzzle.NewPayToSingletonPuzzle(ctx.LauncherID, ctx.DelaySeconds, ctx.DelayPuzzleHash)
	rewardCoin := types.Coin{
		ParentCoinInfo: puzzle.PoolRewardParentID(ctx.GenesisChallenge, rewardHeight),
		PuzzleHash:     p2Puzzle.TreeHash(),
		Amount:         PoolRewardAmount,
	}
	rewardCoinID := crypto.CoinID(rewardCoin)

	innerSolution := puzzle.NewAbsorbInnerSolution(rewardCoinID, rewardHeight)
	singletonSpend := types.CoinSpend{
		Coin:         coin,
		PuzzleReveal: full.Serialize(),
		Solution:     puzzle.NewSingletonSolution(proof, coin.Amount, innerSolution).Serialize(),
	}
	rewardSpend := types.CoinSpend{
		Coin:         rewardCoin,
		PuzzleReveal: p2Puzzle.Serialize(),
		Solution:     puzzle.NewPayToSingletonSolution(inner.TreeHash(), rewardCoinID).Serialize(),
	}
	return &AbsorbPair{Singleton: singletonSpend, Reward: rewardSpend}, nil
}

// StateFromSpend decodes the pool state a confirmed spend declares.
// Launcher spends embed the state directly in their solution. For other
// spends, absorb-shaped solutions decode to nil (no explicit state); travel
// solutions carry the committed state blob at a fixed trailing position.
func StateFromSpend(spend types.CoinSpend) (*pool.State, error) {
	solution, err := puzzle.Parse(spend.Solution)
	if err != nil {
		return nil, fmt.Errorf("parse solution: %w", err)
	}

	if spend.Coin.PuzzleHash == puzzle.LauncherPuzzleHash() {
		blob, err := puzzle.LauncherSolutionState(solution)
		if err != nil {
			return nil, err
		}
		s, err := pool.ParseState(blob)
		if err != nil {
			return nil, err
		}
		return &s, nil
	}

	innerSolution, err := puzzle.InnerSolution(solution)
	if err != nil {
		return nil, err
	}
	blob, ok, err := puzzle.SolutionStateBlob(innerSolution)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	s, err := pool.ParseState(blob)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
