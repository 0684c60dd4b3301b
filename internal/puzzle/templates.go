package puzzle

import (
	"errors"
	"fmt"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// Template mod programs. Each template is identified by its mod tree hash;
// classification compares uncurried mods against these exact programs.
var (
	singletonMod   = Atom([]byte("orchard/singleton-top-layer/v1"))
	launcherMod    = Atom([]byte("orchard/singleton-launcher/v1"))
	memberMod      = Atom([]byte("orchard/pool-member/v1"))
	waitingRoomMod = Atom([]byte("orchard/pool-waiting-room/v1"))
	payToSingMod   = Atom([]byte("orchard/pay-to-singleton/v1"))
)

// Mod tree hashes, fixed for the protocol.
var (
	SingletonModHash      = singletonMod.TreeHash()
	LauncherModHash       = launcherMod.TreeHash()
	MemberModHash         = memberMod.TreeHash()
	WaitingRoomModHash    = waitingRoomMod.TreeHash()
	PayToSingletonModHash = payToSingMod.TreeHash()
)

// RewardPrefixSize is the length of the farming-reward parent prefix.
const RewardPrefixSize = 16

// ErrUnknownTemplate is returned when extracting parameters from a puzzle
// that does not match the requested template.
var ErrUnknownTemplate = errors.New("puzzle does not match a known template")

// InnerKind classifies an observed inner puzzle.
type InnerKind uint8

const (
	KindNeither InnerKind = iota
	KindMember
	KindWaitingRoom
)

// String returns a human-readable name for the inner kind.
func (k InnerKind) String() string {
	switch k {
	case KindMember:
		return "Member"
	case KindWaitingRoom:
		return "WaitingRoom"
	default:
		return "Neither"
	}
}

// MemberParams are the curried parameters of a pool-member inner puzzle.
type MemberParams struct {
	TargetPuzzleHash   types.Hash
	PayToSingletonHash types.Hash
	OwnerPublicKey     types.PublicKey
	RewardPrefix       []byte
	EscapePuzzleHash   types.Hash
}

// WaitingRoomParams are the curried parameters of a waiting-room inner
// puzzle. The same template serves SelfPooling and LeavingPool; the state
// distinction lives in the solution, not here.
type WaitingRoomParams struct {
	TargetPuzzleHash   types.Hash
	PayToSingletonHash types.Hash
	OwnerPublicKey     types.PublicKey
	RewardPrefix       []byte
	RelativeLockHeight uint32
}

// NewMemberPuzzle builds the inner puzzle active while farming to a pool.
// Its spend accepts an absorb (no state change) or an escape toward the
// already-committed escape destination.
func NewMemberPuzzle(p MemberParams) *Program {
	return Curry(memberMod,
		AtomHash(p.TargetPuzzleHash),
		AtomHash(p.PayToSingletonHash),
		Atom(p.OwnerPublicKey[:]),
		Atom(p.RewardPrefix),
		AtomHash(p.EscapePuzzleHash),
	)
}

// NewWaitingRoomPuzzle builds the inner puzzle active while self-pooling or
// leaving a pool. Its spend accepts an absorb or a travel to an explicit
// destination, gated by the curried relative lock height.
func NewWaitingRoomPuzzle(p WaitingRoomParams) *Program {
	return Curry(waitingRoomMod,
		AtomHash(p.TargetPuzzleHash),
		AtomHash(p.PayToSingletonHash),
		Atom(p.OwnerPublicKey[:]),
		Atom(p.RewardPrefix),
		AtomUint64(uint64(p.RelativeLockHeight)),
	)
}

// Classify identifies which template an observed inner puzzle instantiates.
// It fails closed: anything that is not exactly a curried member or
// waiting-room puzzle is Neither.
func Classify(p *Program) InnerKind {
	mod, args, err := Uncurry(p)
	if err != nil || len(args) != 5 {
		return KindNeither
	}
	switch {
	case mod.Equal(memberMod):
		if _, err := memberParamsFromArgs(args); err != nil {
			return KindNeither
		}
		return KindMember
	case mod.Equal(waitingRoomMod):
		if _, err := waitingRoomParamsFromArgs(args); err != nil {
			return KindNeither
		}
		return KindWaitingRoom
	default:
		return KindNeither
	}
}

// ParseMember extracts the curried parameters of a member puzzle.
func ParseMember(p *Program) (*MemberParams, error) {
	mod, args, err := Uncurry(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTemplate, err)
	}
	if !mod.Equal(memberMod) || len(args) != 5 {
		return nil, ErrUnknownTemplate
	}
	return memberParamsFromArgs(args)
}

// ParseWaitingRoom extracts the curried parameters of a waiting-room puzzle.
func ParseWaitingRoom(p *Program) (*WaitingRoomParams, error) {
	mod, args, err := Uncurry(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTemplate, err)
	}
	if !mod.Equal(waitingRoomMod) || len(args) != 5 {
		return nil, ErrUnknownTemplate
	}
	return waitingRoomParamsFromArgs(args)
}

func memberParamsFromArgs(args []*Program) (*MemberParams, error) {
	target, err := args[0].AtomHash32()
	if err != nil {
		return nil, fmt.Errorf("%w: target hash: %v", ErrUnknownTemplate, err)
	}
	p2, err := args[1].AtomHash32()
	if err != nil {
		return nil, fmt.Errorf("%w: pay-to-singleton hash: %v", ErrUnknownTemplate, err)
	}
	owner, err := ownerKeyFromAtom(args[2])
	if err != nil {
		return nil, err
	}
	prefix, err := rewardPrefixFromAtom(args[3])
	if err != nil {
		return nil, err
	}
	escape, err := args[4].AtomHash32()
	if err != nil {
		return nil, fmt.Errorf("%w: escape hash: %v", ErrUnknownTemplate, err)
	}
	return &MemberParams{
		TargetPuzzleHash:   target,
		PayToSingletonHash: p2,
		OwnerPublicKey:     owner,
		RewardPrefix:       prefix,
		EscapePuzzleHash:   escape,
	}, nil
}

func waitingRoomParamsFromArgs(args []*Program) (*WaitingRoomParams, error) {
	target, err := args[0].AtomHash32()
	if err != nil {
		return nil, fmt.Errorf("%w: target hash: %v", ErrUnknownTemplate, err)
	}
	p2, err := args[1].AtomHash32()
	if err != nil {
		return nil, fmt.Errorf("%w: pay-to-singleton hash: %v", ErrUnknownTemplate, err)
	}
	owner, err := ownerKeyFromAtom(args[2])
	if err != nil {
		return nil, err
	}
	prefix, err := rewardPrefixFromAtom(args[3])
	if err != nil {
		return nil, err
	}
	lock, err := args[4].AtomUint64Value()
	if err != nil {
		return nil, fmt.Errorf("%w: lock height: %v", ErrUnknownTemplate, err)
	}
	if lock > 0xffffffff {
		return nil, fmt.Errorf("%w: lock height out of range", ErrUnknownTemplate)
	}
	return &WaitingRoomParams{
		TargetPuzzleHash:   target,
		PayToSingletonHash: p2,
		OwnerPublicKey:     owner,
		RewardPrefix:       prefix,
		RelativeLockHeight: uint32(lock),
	}, nil
}

func ownerKeyFromAtom(p *Program) (types.PublicKey, error) {
	b, err := p.AtomBytes()
	if err != nil || len(b) != types.PublicKeySize {
		return types.PublicKey{}, fmt.Errorf("%w: owner key must be %d bytes", ErrUnknownTemplate, types.PublicKeySize)
	}
	var pk types.PublicKey
	copy(pk[:], b)
	return pk, nil
}

func rewardPrefixFromAtom(p *Program) ([]byte, error) {
	b, err := p.AtomBytes()
	if err != nil || len(b) != RewardPrefixSize {
		return nil, fmt.Errorf("%w: reward prefix must be %d bytes", ErrUnknownTemplate, RewardPrefixSize)
	}
	return b, nil
}
