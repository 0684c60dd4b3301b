package puzzle

import (
	"github.com/orchardnet/orchard-wallet/internal/pool"
	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// DeriveContext carries the per-singleton constants every derivation needs:
// the lineage identity, the chain's genesis challenge (reward prefix), and
// the pay-to-singleton timeout fallback.
type DeriveContext struct {
	LauncherID       types.Hash
	GenesisChallenge types.Hash
	DelaySeconds     uint64
	DelayPuzzleHash  types.Hash
}

// PayToSingletonHash returns the hash of the reward-collection puzzle for
// this context.
func (ctx DeriveContext) PayToSingletonHash() types.Hash {
	return NewPayToSingletonPuzzle(ctx.LauncherID, ctx.DelaySeconds, ctx.DelayPuzzleHash).TreeHash()
}

// InnerPuzzle derives the inner puzzle declared by a pool state.
// SelfPooling and LeavingPool share the waiting-room template; FarmingToPool
// uses the member template, whose escape destination is the waiting room
// with the same parameters (every member puzzle commits its own escape
// target up front).
func InnerPuzzle(s pool.State, ctx DeriveContext) *Program {
	p2 := ctx.PayToSingletonHash()
	prefix := RewardPrefix(ctx.GenesisChallenge)

	waitingRoom := NewWaitingRoomPuzzle(WaitingRoomParams{
		TargetPuzzleHash:   s.TargetPuzzleHash,
		PayToSingletonHash: p2,
		OwnerPublicKey:     s.OwnerPublicKey,
		RewardPrefix:       prefix,
		RelativeLockHeight: s.RelativeLockHeight,
	})
	if s.State != pool.FarmingToPool {
		return waitingRoom
	}
	return NewMemberPuzzle(MemberParams{
		TargetPuzzleHash:   s.TargetPuzzleHash,
		PayToSingletonHash: p2,
		OwnerPublicKey:     s.OwnerPublicKey,
		RewardPrefix:       prefix,
		EscapePuzzleHash:   waitingRoom.TreeHash(),
	})
}

// FullPuzzle wraps a state's inner puzzle in the singleton top layer; its
// tree hash equals the on-chain coin's puzzle hash.
func FullPuzzle(s pool.State, ctx DeriveContext) *Program {
	return NewSingletonPuzzle(ctx.LauncherID, InnerPuzzle(s, ctx))
}

// FullPuzzleHash is a convenience for FullPuzzle(s, ctx).TreeHash().
func FullPuzzleHash(s pool.State, ctx DeriveContext) types.Hash {
	return FullPuzzle(s, ctx).TreeHash()
}
