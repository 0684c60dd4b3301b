package puzzle

import (
	"encoding/binary"
	"fmt"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// SingletonAmount is the fixed amount of every singleton coin. It stays odd
// and constant for the lifetime of the lineage; absorbed rewards are paid
// out to the target, never folded into the singleton.
const SingletonAmount uint64 = 1

// LineageProof proves a singleton's ancestry when spending it.
// A direct child of the launcher proves (launcher_parent, launcher_amount);
// deeper descendants additionally reveal the parent's inner puzzle hash.
type LineageProof struct {
	ParentCoinID    types.Hash
	InnerPuzzleHash *types.Hash // nil for launcher-child proofs
	Amount          uint64
}

// Program encodes the proof as a solution fragment.
func (lp LineageProof) Program() *Program {
	if lp.InnerPuzzleHash == nil {
		return List(AtomHash(lp.ParentCoinID), AtomUint64(lp.Amount))
	}
	return List(AtomHash(lp.ParentCoinID), AtomHash(*lp.InnerPuzzleHash), AtomUint64(lp.Amount))
}

// singletonStruct is the curried identity of a singleton lineage:
// (singleton_mod_hash . (launcher_id . launcher_mod_hash))
func singletonStruct(launcherID types.Hash) *Program {
	return Pair(
		AtomHash(SingletonModHash),
		Pair(AtomHash(launcherID), AtomHash(LauncherModHash)),
	)
}

// NewSingletonPuzzle wraps an inner puzzle in the singleton top layer.
// Its tree hash equals the on-chain coin's puzzle hash.
func NewSingletonPuzzle(launcherID types.Hash, inner *Program) *Program {
	return Curry(singletonMod, singletonStruct(launcherID), inner)
}

// NewLauncherPuzzle returns the launcher puzzle. Every singleton lineage
// originates from a coin locked by this exact puzzle.
func NewLauncherPuzzle() *Program {
	return launcherMod
}

// LauncherPuzzleHash is the fixed puzzle hash of launcher coins.
func LauncherPuzzleHash() types.Hash {
	return LauncherModHash
}

// UnwrapSingleton recovers the launcher id and inner puzzle from a full
// singleton puzzle. Fails closed on anything that is not an exact singleton
// wrap.
func UnwrapSingleton(full *Program) (launcherID types.Hash, inner *Program, err error) {
	mod, args, err := Uncurry(full)
	if err != nil {
		return types.Hash{}, nil, fmt.Errorf("%w: %v", ErrUnknownTemplate, err)
	}
	if !mod.Equal(singletonMod) || len(args) != 2 {
		return types.Hash{}, nil, ErrUnknownTemplate
	}
	modHashP, restP, err := args[0].Split()
	if err != nil {
		return types.Hash{}, nil, fmt.Errorf("%w: bad singleton struct", ErrUnknownTemplate)
	}
	modHash, err := modHashP.AtomHash32()
	if err != nil || modHash != SingletonModHash {
		return types.Hash{}, nil, fmt.Errorf("%w: bad singleton mod hash", ErrUnknownTemplate)
	}
	launcherP, launcherModP, err := restP.Split()
	if err != nil {
		return types.Hash{}, nil, fmt.Errorf("%w: bad singleton struct", ErrUnknownTemplate)
	}
	launcherID, err = launcherP.AtomHash32()
	if err != nil {
		return types.Hash{}, nil, fmt.Errorf("%w: bad launcher id", ErrUnknownTemplate)
	}
	lmh, err := launcherModP.AtomHash32()
	if err != nil || lmh != LauncherModHash {
		return types.Hash{}, nil, fmt.Errorf("%w: bad launcher mod hash", ErrUnknownTemplate)
	}
	return launcherID, args[1], nil
}

// NewPayToSingletonPuzzle builds the intermediate puzzle that collects raw
// farming rewards and forwards them to the singleton's current inner puzzle
// hash. After delaySeconds it may instead be claimed by delayPuzzleHash, so
// a permanently stuck singleton cannot strand rewards.
func NewPayToSingletonPuzzle(launcherID types.Hash, delaySeconds uint64, delayPuzzleHash types.Hash) *Program {
	return Curry(payToSingMod,
		AtomHash(launcherID),
		AtomUint64(delaySeconds),
		AtomHash(delayPuzzleHash),
	)
}

// PayToSingletonParams are the curried parameters of a pay-to-singleton
// puzzle.
type PayToSingletonParams struct {
	LauncherID      types.Hash
	DelaySeconds    uint64
	DelayPuzzleHash types.Hash
}

// ParsePayToSingleton extracts the curried parameters of a pay-to-singleton
// puzzle.
func ParsePayToSingleton(p *Program) (*PayToSingletonParams, error) {
	mod, args, err := Uncurry(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTemplate, err)
	}
	if !mod.Equal(payToSingMod) || len(args) != 3 {
		return nil, ErrUnknownTemplate
	}
	launcherID, err := args[0].AtomHash32()
	if err != nil {
		return nil, fmt.Errorf("%w: launcher id: %v", ErrUnknownTemplate, err)
	}
	delay, err := args[1].AtomUint64Value()
	if err != nil {
		return nil, fmt.Errorf("%w: delay: %v", ErrUnknownTemplate, err)
	}
	delayPH, err := args[2].AtomHash32()
	if err != nil {
		return nil, fmt.Errorf("%w: delay puzzle hash: %v", ErrUnknownTemplate, err)
	}
	return &PayToSingletonParams{
		LauncherID:      launcherID,
		DelaySeconds:    delay,
		DelayPuzzleHash: delayPH,
	}, nil
}

// RewardPrefix derives the farming-reward parent prefix from the genesis
// challenge. Reward coins minted at height h have parent id
// prefix(16) | zeros(12) | height(4 BE); the pooling puzzles enforce it.
func RewardPrefix(genesisChallenge types.Hash) []byte {
	prefix := make([]byte, RewardPrefixSize)
	copy(prefix, genesisChallenge[:RewardPrefixSize])
	return prefix
}

// PoolRewardParentID computes the deterministic parent coin id of the
// farming reward minted at the given height.
func PoolRewardParentID(genesisChallenge types.Hash, height uint32) types.Hash {
	var parent types.Hash
	copy(parent[:RewardPrefixSize], genesisChallenge[:RewardPrefixSize])
	binary.BigEndian.PutUint32(parent[types.HashSize-4:], height)
	return parent
}
