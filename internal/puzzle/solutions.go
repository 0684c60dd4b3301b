package puzzle

import (
	"errors"
	"fmt"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// Inner solution leading tags. Absorbs never change state; travels commit a
// new declared state.
const (
	solutionTagAbsorb uint64 = 0
	solutionTagTravel uint64 = 1
)

// Inner solution arities. Member travels are 4-ary (the destination was
// curried as the escape hash); waiting-room travels are 5-ary and name
// their destination explicitly.
const (
	memberTravelArity      = 4
	waitingRoomTravelArity = 5
)

// ErrUnknownSolution is returned when a solution matches no recognized
// shape.
var ErrUnknownSolution = errors.New("solution does not match a known shape")

// NewAbsorbInnerSolution builds the inner solution sweeping one farming
// reward into the singleton without a state change.
func NewAbsorbInnerSolution(rewardCoinID types.Hash, rewardHeight uint32) *Program {
	return List(
		AtomUint64(solutionTagAbsorb),
		AtomHash(rewardCoinID),
		AtomUint64(uint64(rewardHeight)),
	)
}

// NewMemberTravelSolution builds the member inner solution escaping toward
// the curried escape destination. stateBlob is the canonical encoding of
// the declared target state.
func NewMemberTravelSolution(amount uint64, stateBlob []byte) *Program {
	return List(
		AtomUint64(solutionTagTravel),
		AtomUint64(amount),
		Nil(), // reserved for announcement data
		Atom(stateBlob),
	)
}

// NewWaitingRoomTravelSolution builds the waiting-room inner solution
// traveling to an explicit destination inner puzzle hash.
func NewWaitingRoomTravelSolution(amount uint64, destinationInnerHash types.Hash, stateBlob []byte) *Program {
	return List(
		AtomUint64(solutionTagTravel),
		AtomUint64(amount),
		AtomHash(destinationInnerHash),
		Nil(), // reserved for announcement data
		Atom(stateBlob),
	)
}

// NewSingletonSolution wraps an inner solution with the lineage proof and
// amount the singleton top layer requires.
func NewSingletonSolution(proof LineageProof, amount uint64, inner *Program) *Program {
	return List(proof.Program(), AtomUint64(amount), inner)
}

// NewLauncherSolution builds the launcher spend solution, committing the
// full puzzle hash of the first singleton and the initial declared state.
func NewLauncherSolution(fullPuzzleHash types.Hash, amount uint64, stateBlob []byte) *Program {
	return List(AtomHash(fullPuzzleHash), AtomUint64(amount), Atom(stateBlob))
}

// NewPayToSingletonSolution builds the reward-coin side of an absorb pair:
// it names the singleton's current inner puzzle hash and the reward coin's
// own id as proof of destination.
func NewPayToSingletonSolution(singletonInnerHash, rewardCoinID types.Hash) *Program {
	return List(AtomHash(singletonInnerHash), AtomHash(rewardCoinID))
}

// InnerSolution extracts the inner solution from a full singleton solution.
func InnerSolution(outer *Program) (*Program, error) {
	items, err := outer.ToList()
	if err != nil || len(items) != 3 {
		return nil, fmt.Errorf("%w: bad singleton solution", ErrUnknownSolution)
	}
	return items[2], nil
}

// SolutionStateBlob decodes an inner solution. Absorb-shaped solutions
// return (nil, false, nil): they carry no explicit state. Travel-shaped
// solutions return the committed state blob from the fixed trailing
// position. Anything else fails closed.
func SolutionStateBlob(inner *Program) (blob []byte, ok bool, err error) {
	items, err := inner.ToList()
	if err != nil || len(items) == 0 {
		return nil, false, fmt.Errorf("%w: not a list", ErrUnknownSolution)
	}
	tag, err := items[0].AtomUint64Value()
	if err != nil {
		return nil, false, fmt.Errorf("%w: bad leading tag", ErrUnknownSolution)
	}
	switch {
	case tag == solutionTagAbsorb:
		return nil, false, nil
	case tag == solutionTagTravel && (len(items) == memberTravelArity || len(items) == waitingRoomTravelArity):
		blob, err := items[len(items)-1].AtomBytes()
		if err != nil {
			return nil, false, fmt.Errorf("%w: bad state blob", ErrUnknownSolution)
		}
		return blob, true, nil
	default:
		return nil, false, fmt.Errorf("%w: tag %d arity %d", ErrUnknownSolution, tag, len(items))
	}
}

// TravelDestination returns the explicit destination of a waiting-room
// travel solution, or ok=false for member travels whose destination was
// curried.
func TravelDestination(inner *Program) (dest types.Hash, ok bool, err error) {
	items, err := inner.ToList()
	if err != nil {
		return types.Hash{}, false, fmt.Errorf("%w: not a list", ErrUnknownSolution)
	}
	if len(items) != waitingRoomTravelArity {
		return types.Hash{}, false, nil
	}
	dest, err = items[2].AtomHash32()
	if err != nil {
		return types.Hash{}, false, fmt.Errorf("%w: bad destination", ErrUnknownSolution)
	}
	return dest, true, nil
}

// LauncherSolutionState extracts the initial state blob from a launcher
// spend solution.
func LauncherSolutionState(solution *Program) ([]byte, error) {
	items, err := solution.ToList()
	if err != nil || len(items) != 3 {
		return nil, fmt.Errorf("%w: bad launcher solution", ErrUnknownSolution)
	}
	blob, err := items[2].AtomBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: bad launcher state blob", ErrUnknownSolution)
	}
	return blob, nil
}
