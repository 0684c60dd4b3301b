// Package pool defines the typed pool-state model and its validation rules.
package pool

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

// ProtocolVersion is the newest pool-state version this wallet understands.
// States declaring a newer version must not be operated on.
const ProtocolVersion uint8 = 1

// Relative lock height bounds for pooled states.
const (
	MinRelativeLockHeight uint32 = 5
	MaxRelativeLockHeight uint32 = 1000
)

// SingletonState is the declared state of a pool singleton.
type SingletonState uint8

const (
	SelfPooling   SingletonState = 1
	LeavingPool   SingletonState = 2
	FarmingToPool SingletonState = 3
)

// String returns a human-readable name for the singleton state.
func (s SingletonState) String() string {
	switch s {
	case SelfPooling:
		return "SelfPooling"
	case LeavingPool:
		return "LeavingPool"
	case FarmingToPool:
		return "FarmingToPool"
	default:
		return "Unknown"
	}
}

// Valid reports whether the value is a known state.
func (s SingletonState) Valid() bool {
	return s == SelfPooling || s == LeavingPool || s == FarmingToPool
}

// Validation errors.
var (
	// ErrValidation wraps every policy violation of a declared state.
	ErrValidation = errors.New("invalid pool state")

	// ErrVersionTooNew marks a state from a newer protocol than this
	// wallet supports. Unrecoverable for that singleton; the user must
	// upgrade their software.
	ErrVersionTooNew = errors.New("pool state protocol version is newer than this wallet supports: upgrade your software")
)

// State is the immutable declared state of a pool singleton.
type State struct {
	Version            uint8           `json:"version"`
	State              SingletonState  `json:"state"`
	TargetPuzzleHash   types.Hash      `json:"target_puzzle_hash"`
	OwnerPublicKey     types.PublicKey `json:"owner_public_key"`
	PoolURL            string          `json:"pool_url,omitempty"`
	RelativeLockHeight uint32          `json:"relative_lock_height"`
}

// Validate checks the state against the pooling policy rules. It is pure
// and is called before every user-initiated transition and before trusting
// decoded on-chain data.
func (s State) Validate() error {
	if s.Version > ProtocolVersion {
		return fmt.Errorf("%w (state version %d, supported %d)", ErrVersionTooNew, s.Version, ProtocolVersion)
	}
	switch s.State {
	case SelfPooling:
		if s.PoolURL != "" {
			return fmt.Errorf("%w: self-pooling state must not carry a pool URL", ErrValidation)
		}
		if s.RelativeLockHeight != 0 {
			return fmt.Errorf("%w: self-pooling relative lock height must be zero, got %d", ErrValidation, s.RelativeLockHeight)
		}
	case FarmingToPool, LeavingPool:
		if s.PoolURL == "" {
			return fmt.Errorf("%w: %s state requires a pool URL", ErrValidation, s.State)
		}
		if s.RelativeLockHeight < MinRelativeLockHeight {
			return fmt.Errorf("%w: relative lock height below minimum of %d", ErrValidation, MinRelativeLockHeight)
		}
		if s.RelativeLockHeight > MaxRelativeLockHeight {
			return fmt.Errorf("%w: relative lock height above maximum of %d", ErrValidation, MaxRelativeLockHeight)
		}
	default:
		return fmt.Errorf("%w: unknown singleton state %d", ErrValidation, uint8(s.State))
	}
	return nil
}

// Equal reports whether two states are identical field for field.
func (s State) Equal(o State) bool {
	return s == o
}

// Bytes returns the canonical encoding committed in spend solutions.
// Format: version(1) | state(1) | target(32) | owner(48) | url_len(4 LE) | url | lock_height(4 LE)
func (s State) Bytes() []byte {
	buf := make([]byte, 0, 2+types.HashSize+types.PublicKeySize+4+len(s.PoolURL)+4)
	buf = append(buf, s.Version, byte(s.State))
	buf = append(buf, s.TargetPuzzleHash[:]...)
	buf = append(buf, s.OwnerPublicKey[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.PoolURL)))
	buf = append(buf, s.PoolURL...)
	buf = binary.LittleEndian.AppendUint32(buf, s.RelativeLockHeight)
	return buf
}

// ParseState decodes a canonical state blob. It fails closed on truncated
// or oversized input.
func ParseState(data []byte) (State, error) {
	const fixed = 2 + types.HashSize + types.PublicKeySize + 4
	if len(data) < fixed+4 {
		return State{}, fmt.Errorf("%w: state blob too short (%d bytes)", ErrValidation, len(data))
	}
	var s State
	s.Version = data[0]
	s.State = SingletonState(data[1])
	off := 2
	copy(s.TargetPuzzleHash[:], data[off:off+types.HashSize])
	off += types.HashSize
	copy(s.OwnerPublicKey[:], data[off:off+types.PublicKeySize])
	off += types.PublicKeySize
	urlLen := binary.LittleEndian.Uint32(data[off : off+4])
	off += 4
	if uint32(len(data)-off-4) != urlLen {
		return State{}, fmt.Errorf("%w: state blob length mismatch", ErrValidation)
	}
	s.PoolURL = string(data[off : off+int(urlLen)])
	off += int(urlLen)
	s.RelativeLockHeight = binary.LittleEndian.Uint32(data[off : off+4])
	return s, nil
}
