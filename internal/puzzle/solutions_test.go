package puzzle

import (
	"bytes"
	"errors"
	"testing"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

func TestSolutionStateBlob_Absorb(t *testing.T) {
	inner := NewAbsorbInnerSolution(types.Hash{0x01}, 42)
	blob, ok, err := SolutionStateBlob(inner)
	if err != nil {
		t.Fatalf("SolutionStateBlob: %v", err)
	}
	if ok || blob != nil {
		t.Error("absorb solutions carry no state")
	}
}

func TestSolutionStateBlob_Travel(t *testing.T) {
	state := []byte("declared state bytes")

	member := NewMemberTravelSolution(SingletonAmount, state)
	blob, ok, err := SolutionStateBlob(member)
	if err != nil || !ok {
		t.Fatalf("member travel: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(blob, state) {
		t.Error("member travel state blob mismatch")
	}

	waiting := NewWaitingRoomTravelSolution(SingletonAmount, types.Hash{0x05}, state)
	blob, ok, err = SolutionStateBlob(waiting)
	if err != nil || !ok {
		t.Fatalf("waiting-room travel: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(blob, state) {
		t.Error("waiting-room travel state blob mismatch")
	}
}

func TestSolutionStateBlob_FailsClosed(t *testing.T) {
	tests := []struct {
		name string
		p    *Program
	}{
		{"atom", Atom([]byte("x"))},
		{"empty list", Nil()},
		{"pair tag", List(Pair(Nil(), Nil()), Nil())},
		{"unknown tag", List(AtomUint64(9), AtomUint64(1))},
		{"travel wrong arity", List(AtomUint64(1), AtomUint64(1))},
		{"travel pair blob", List(AtomUint64(1), AtomUint64(1), Nil(), Pair(Nil(), Nil()))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := SolutionStateBlob(tt.p); !errors.Is(err, ErrUnknownSolution) {
				t.Errorf("expected ErrUnknownSolution, got: %v", err)
			}
		})
	}
}

func TestTravelDestination(t *testing.T) {
	dest := types.Hash{0x09}
	waiting := NewWaitingRoomTravelSolution(SingletonAmount, dest, []byte("s"))
	got, ok, err := TravelDestination(waiting)
	if err != nil || !ok {
		t.Fatalf("waiting-room travel: ok=%v err=%v", ok, err)
	}
	if got != dest {
		t.Error("destination mismatch")
	}

	// Member travels curried their destination; no explicit one here.
	member := NewMemberTravelSolution(SingletonAmount, []byte("s"))
	_, ok, err = TravelDestination(member)
	if err != nil || ok {
		t.Errorf("member travel: ok=%v err=%v, want no destination", ok, err)
	}
}

func TestInnerSolution(t *testing.T) {
	proof := LineageProof{ParentCoinID: types.Hash{0x01}, Amount: SingletonAmount}
	inner := NewAbsorbInnerSolution(types.Hash{0x02}, 7)
	outer := NewSingletonSolution(proof, SingletonAmount, inner)

	got, err := InnerSolution(outer)
	if err != nil {
		t.Fatalf("InnerSolution: %v", err)
	}
	if !got.Equal(inner) {
		t.Error("inner solution changed through wrap round trip")
	}

	if _, err := InnerSolution(List(Nil())); !errors.Is(err, ErrUnknownSolution) {
		t.Errorf("expected ErrUnknownSolution, got: %v", err)
	}
}

func TestLauncherSolutionState(t *testing.T) {
	state := []byte("initial state")
	sol := NewLauncherSolution(types.Hash{0x03}, SingletonAmount, state)

	blob, err := LauncherSolutionState(sol)
	if err != nil {
		t.Fatalf("LauncherSolutionState: %v", err)
	}
	if !bytes.Equal(blob, state) {
		t.Error("launcher state blob mismatch")
	}

	if _, err := LauncherSolutionState(Atom([]byte("x"))); !errors.Is(err, ErrUnknownSolution) {
		t.Errorf("expected ErrUnknownSolution, got: %v", err)
	}
	if _, err := LauncherSolutionState(List(Nil(), Nil(), Pair(Nil(), Nil()))); !errors.Is(err, ErrUnknownSolution) {
		t.Errorf("expected ErrUnknownSolution, got: %v", err)
	}
}

func TestSolutions_SerializeRoundTrip(t *testing.T) {
	proof := LineageProof{ParentCoinID: types.Hash{0x01}, Amount: SingletonAmount}
	sols := []*Program{
		NewAbsorbInnerSolution(types.Hash{0x02}, 1000),
		NewMemberTravelSolution(SingletonAmount, []byte("state")),
		NewWaitingRoomTravelSolution(SingletonAmount, types.Hash{0x04}, []byte("state")),
		NewSingletonSolution(proof, SingletonAmount, Nil()),
		NewLauncherSolution(types.Hash{0x05}, SingletonAmount, []byte("state")),
		NewPayToSingletonSolution(types.Hash{0x06}, types.Hash{0x07}),
	}
	for i, s := range sols {
		got, err := Parse(s.Serialize())
		if err != nil {
			t.Fatalf("solution %d: Parse: %v", i, err)
		}
		if !got.Equal(s) {
			t.Errorf("solution %d: round trip mismatch", i)
		}
	}
}
