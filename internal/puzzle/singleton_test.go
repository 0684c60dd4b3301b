package puzzle

import (
	"bytes"
	"errors"
	"testing"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

func TestSingletonWrapUnwrap(t *testing.T) {
	launcherID := types.Hash{0xaa, 0xbb}
	inner := NewWaitingRoomPuzzle(testWaitingRoomParams())
	full := NewSingletonPuzzle(launcherID, inner)

	gotLauncher, gotInner, err := UnwrapSingleton(full)
	if err != nil {
		t.Fatalf("UnwrapSingleton: %v", err)
	}
	if gotLauncher != launcherID {
		t.Error("launcher id changed through wrap round trip")
	}
	if !gotInner.Equal(inner) {
		t.Error("inner puzzle changed through wrap round trip")
	}
}

func TestSingletonHash_BindsLauncherAndInner(t *testing.T) {
	inner := NewWaitingRoomPuzzle(testWaitingRoomParams())
	base := NewSingletonPuzzle(types.Hash{0x01}, inner).TreeHash()

	if NewSingletonPuzzle(types.Hash{0x02}, inner).TreeHash() == base {
		t.Error("different launcher should produce a different singleton hash")
	}
	other := NewMemberPuzzle(testMemberParams())
	if NewSingletonPuzzle(types.Hash{0x01}, other).TreeHash() == base {
		t.Error("different inner puzzle should produce a different singleton hash")
	}
}

func TestUnwrapSingleton_FailsClosed(t *testing.T) {
	inner := Nil()
	tests := []struct {
		name string
		p    *Program
	}{
		{"not curried", Atom([]byte("x"))},
		{"wrong mod", Curry(memberMod, singletonStruct(types.Hash{}), inner)},
		{"wrong arity", Curry(singletonMod, singletonStruct(types.Hash{}))},
		{"struct is atom", Curry(singletonMod, Atom([]byte("flat")), inner)},
		{"wrong singleton mod hash", Curry(singletonMod,
			Pair(AtomHash(types.Hash{0xff}), Pair(AtomHash(types.Hash{}), AtomHash(LauncherModHash))), inner)},
		{"wrong launcher mod hash", Curry(singletonMod,
			Pair(AtomHash(SingletonModHash), Pair(AtomHash(types.Hash{}), AtomHash(types.Hash{0xff}))), inner)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := UnwrapSingleton(tt.p); !errors.Is(err, ErrUnknownTemplate) {
				t.Errorf("expected ErrUnknownTemplate, got: %v", err)
			}
		})
	}
}

func TestLauncherPuzzleHash(t *testing.T) {
	if LauncherPuzzleHash() != NewLauncherPuzzle().TreeHash() {
		t.Error("launcher hash should match the launcher puzzle's tree hash")
	}
}

func TestLineageProof_Program(t *testing.T) {
	parent := types.Hash{0x01}
	innerHash := types.Hash{0x02}

	// Launcher-child proofs carry two fields, deeper proofs three.
	short, err := LineageProof{ParentCoinID: parent, Amount: SingletonAmount}.Program().ToList()
	if err != nil {
		t.Fatalf("ToList: %v", err)
	}
	if len(short) != 2 {
		t.Errorf("launcher-child proof has %d fields, want 2", len(short))
	}

	long, err := LineageProof{ParentCoinID: parent, InnerPuzzleHash: &innerHash, Amount: SingletonAmount}.Program().ToList()
	if err != nil {
		t.Fatalf("ToList: %v", err)
	}
	if len(long) != 3 {
		t.Errorf("descendant proof has %d fields, want 3", len(long))
	}
	got, err := long[1].AtomHash32()
	if err != nil || got != innerHash {
		t.Errorf("proof inner hash = %v, %v", got, err)
	}
}

func TestPayToSingleton_ParseRoundTrip(t *testing.T) {
	launcherID := types.Hash{0x07}
	delayPH := types.Hash{0x08}
	p := NewPayToSingletonPuzzle(launcherID, 604800, delayPH)

	got, err := ParsePayToSingleton(p)
	if err != nil {
		t.Fatalf("ParsePayToSingleton: %v", err)
	}
	if got.LauncherID != launcherID || got.DelaySeconds != 604800 || got.DelayPuzzleHash != delayPH {
		t.Errorf("params mismatch: %+v", got)
	}

	if _, err := ParsePayToSingleton(NewLauncherPuzzle()); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got: %v", err)
	}
}

func TestPoolRewardParentID(t *testing.T) {
	var challenge types.Hash
	for i := range challenge {
		challenge[i] = byte(0xf0 + i)
	}

	parent := PoolRewardParentID(challenge, 0x01020304)
	if !bytes.Equal(parent[:RewardPrefixSize], challenge[:RewardPrefixSize]) {
		t.Error("parent id should start with the genesis prefix")
	}
	for _, b := range parent[RewardPrefixSize : types.HashSize-4] {
		if b != 0 {
			t.Fatal("middle bytes should be zero")
		}
	}
	if got := parent[types.HashSize-4:]; !bytes.Equal(got, []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Errorf("height suffix = %x", got)
	}

	if PoolRewardParentID(challenge, 1) == PoolRewardParentID(challenge, 2) {
		t.Error("different heights should give different parent ids")
	}
	if !bytes.Equal(RewardPrefix(challenge), challenge[:RewardPrefixSize]) {
		t.Error("RewardPrefix should be the challenge's leading bytes")
	}
}
