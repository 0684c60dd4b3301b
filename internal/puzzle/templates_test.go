package puzzle

import (
	"bytes"
	"errors"
	"testing"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

func testRewardPrefix() []byte {
	prefix := make([]byte, RewardPrefixSize)
	for i := range prefix {
		prefix[i] = byte(i + 1)
	}
	return prefix
}

func testMemberParams() MemberParams {
	return MemberParams{
		TargetPuzzleHash:   types.Hash{0x11},
		PayToSingletonHash: types.Hash{0x22},
		OwnerPublicKey:     types.PublicKey{0x33},
		RewardPrefix:       testRewardPrefix(),
		EscapePuzzleHash:   types.Hash{0x44},
	}
}

func testWaitingRoomParams() WaitingRoomParams {
	return WaitingRoomParams{
		TargetPuzzleHash:   types.Hash{0x11},
		PayToSingletonHash: types.Hash{0x22},
		OwnerPublicKey:     types.PublicKey{0x33},
		RewardPrefix:       testRewardPrefix(),
		RelativeLockHeight: 100,
	}
}

func TestMemberPuzzle_ParseRoundTrip(t *testing.T) {
	params := testMemberParams()
	p := NewMemberPuzzle(params)

	got, err := ParseMember(p)
	if err != nil {
		t.Fatalf("ParseMember: %v", err)
	}
	if got.TargetPuzzleHash != params.TargetPuzzleHash {
		t.Error("target puzzle hash mismatch")
	}
	if got.PayToSingletonHash != params.PayToSingletonHash {
		t.Error("pay-to-singleton hash mismatch")
	}
	if got.OwnerPublicKey != params.OwnerPublicKey {
		t.Error("owner public key mismatch")
	}
	if !bytes.Equal(got.RewardPrefix, params.RewardPrefix) {
		t.Error("reward prefix mismatch")
	}
	if got.EscapePuzzleHash != params.EscapePuzzleHash {
		t.Error("escape puzzle hash mismatch")
	}
}

func TestWaitingRoomPuzzle_ParseRoundTrip(t *testing.T) {
	params := testWaitingRoomParams()
	p := NewWaitingRoomPuzzle(params)

	got, err := ParseWaitingRoom(p)
	if err != nil {
		t.Fatalf("ParseWaitingRoom: %v", err)
	}
	if got.TargetPuzzleHash != params.TargetPuzzleHash {
		t.Error("target puzzle hash mismatch")
	}
	if got.OwnerPublicKey != params.OwnerPublicKey {
		t.Error("owner public key mismatch")
	}
	if got.RelativeLockHeight != params.RelativeLockHeight {
		t.Errorf("lock height = %d, want %d", got.RelativeLockHeight, params.RelativeLockHeight)
	}
}

func TestClassify(t *testing.T) {
	member := NewMemberPuzzle(testMemberParams())
	waiting := NewWaitingRoomPuzzle(testWaitingRoomParams())

	if k := Classify(member); k != KindMember {
		t.Errorf("member classified as %v", k)
	}
	if k := Classify(waiting); k != KindWaitingRoom {
		t.Errorf("waiting room classified as %v", k)
	}

	neithers := []*Program{
		Atom([]byte("not a puzzle")),
		Curry(Atom([]byte("unknown mod")), Nil(), Nil(), Nil(), Nil(), Nil()),
		Curry(memberMod, Nil()), // wrong arity
		// Right mod and arity but a malformed owner key.
		Curry(memberMod, AtomHash(types.Hash{}), AtomHash(types.Hash{}),
			Atom([]byte("short key")), Atom(testRewardPrefix()), AtomHash(types.Hash{})),
		NewSingletonPuzzle(types.Hash{0x01}, member),
	}
	for i, p := range neithers {
		if k := Classify(p); k != KindNeither {
			t.Errorf("program %d classified as %v, want Neither", i, k)
		}
	}
}

func TestParseMember_RejectsOtherTemplates(t *testing.T) {
	waiting := NewWaitingRoomPuzzle(testWaitingRoomParams())
	if _, err := ParseMember(waiting); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got: %v", err)
	}
	member := NewMemberPuzzle(testMemberParams())
	if _, err := ParseWaitingRoom(member); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got: %v", err)
	}
}

func TestWaitingRoomParams_LockHeightOutOfRange(t *testing.T) {
	p := Curry(waitingRoomMod,
		AtomHash(types.Hash{}),
		AtomHash(types.Hash{}),
		Atom(make([]byte, types.PublicKeySize)),
		Atom(testRewardPrefix()),
		AtomUint64(1<<33),
	)
	if _, err := ParseWaitingRoom(p); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got: %v", err)
	}
}

func TestTemplateHashes_Distinct(t *testing.T) {
	hashes := map[types.Hash]string{
		SingletonModHash:      "singleton",
		LauncherModHash:       "launcher",
		MemberModHash:         "member",
		WaitingRoomModHash:    "waiting room",
		PayToSingletonModHash: "pay to singleton",
	}
	if len(hashes) != 5 {
		t.Fatal("template mod hashes collide")
	}
}
