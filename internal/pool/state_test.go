package pool

import (
	"errors"
	"strings"
	"testing"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

func selfPoolingState() State {
	return State{
		Version:          ProtocolVersion,
		State:            SelfPooling,
		TargetPuzzleHash: types.Hash{0x11},
		OwnerPublicKey:   types.PublicKey{0x22},
	}
}

func farmingState(lock uint32) State {
	return State{
		Version:            ProtocolVersion,
		State:              FarmingToPool,
		TargetPuzzleHash:   types.Hash{0x33},
		OwnerPublicKey:     types.PublicKey{0x44},
		PoolURL:            "https://pool.example.com",
		RelativeLockHeight: lock,
	}
}

func TestSingletonState_String(t *testing.T) {
	tests := []struct {
		s    SingletonState
		want string
	}{
		{SelfPooling, "SelfPooling"},
		{LeavingPool, "LeavingPool"},
		{FarmingToPool, "FarmingToPool"},
		{SingletonState(0), "Unknown"},
		{SingletonState(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", uint8(tt.s), got, tt.want)
		}
	}
}

func TestState_Validate_SelfPooling(t *testing.T) {
	s := selfPoolingState()
	if err := s.Validate(); err != nil {
		t.Errorf("valid self-pooling state rejected: %v", err)
	}

	withURL := s
	withURL.PoolURL = "https://pool.example.com"
	if err := withURL.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("self-pooling with URL should fail validation, got: %v", err)
	}

	withLock := s
	withLock.RelativeLockHeight = 5
	if err := withLock.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("self-pooling with lock height should fail validation, got: %v", err)
	}
}

func TestState_Validate_LockHeightBounds(t *testing.T) {
	tests := []struct {
		lock uint32
		ok   bool
	}{
		{4, false},
		{5, true},
		{1000, true},
		{1001, false},
	}
	for _, tt := range tests {
		s := farmingState(tt.lock)
		err := s.Validate()
		if tt.ok && err != nil {
			t.Errorf("lock %d should validate: %v", tt.lock, err)
		}
		if !tt.ok && !errors.Is(err, ErrValidation) {
			t.Errorf("lock %d should fail validation, got: %v", tt.lock, err)
		}
	}
}

func TestState_Validate_PooledRequiresURL(t *testing.T) {
	s := farmingState(10)
	s.PoolURL = ""
	if err := s.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("pooled state without URL should fail, got: %v", err)
	}

	leaving := s
	leaving.State = LeavingPool
	if err := leaving.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("leaving state without URL should fail, got: %v", err)
	}
}

func TestState_Validate_UnknownState(t *testing.T) {
	s := selfPoolingState()
	s.State = SingletonState(7)
	if err := s.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown state should fail validation, got: %v", err)
	}
}

func TestState_Validate_VersionTooNew(t *testing.T) {
	s := farmingState(10)
	s.Version = ProtocolVersion + 1
	err := s.Validate()
	if !errors.Is(err, ErrVersionTooNew) {
		t.Fatalf("newer version should fail with ErrVersionTooNew, got: %v", err)
	}
	if !strings.Contains(err.Error(), "upgrade") {
		t.Errorf("version error should tell the user to upgrade: %v", err)
	}
}

func TestState_Equal(t *testing.T) {
	a := farmingState(10)
	b := farmingState(10)
	if !a.Equal(b) {
		t.Error("identical states should be equal")
	}

	c := b
	c.PoolURL = "https://other.example.com"
	if a.Equal(c) {
		t.Error("states with different URLs should not be equal")
	}

	d := b
	d.RelativeLockHeight = 11
	if a.Equal(d) {
		t.Error("states with different lock heights should not be equal")
	}
}

func TestState_BytesRoundTrip(t *testing.T) {
	states := []State{
		selfPoolingState(),
		farmingState(10),
		{
			Version:            ProtocolVersion,
			State:              LeavingPool,
			TargetPuzzleHash:   types.Hash{0xaa, 0xbb},
			OwnerPublicKey:     types.PublicKey{0xcc},
			PoolURL:            "https://pool.example.com:8443",
			RelativeLockHeight: 1000,
		},
	}
	for _, s := range states {
		got, err := ParseState(s.Bytes())
		if err != nil {
			t.Fatalf("ParseState(%s): %v", s.State, err)
		}
		if !got.Equal(s) {
			t.Errorf("round trip mismatch for %s: got %+v", s.State, got)
		}
	}
}

func TestParseState_FailsClosed(t *testing.T) {
	valid := farmingState(10).Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated fixed", valid[:40]},
		{"truncated url", valid[:len(valid)-6]},
		{"trailing bytes", append(append([]byte{}, valid...), 0x00)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseState(tt.data); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestParseState_VersionCarried(t *testing.T) {
	// A newer-version blob parses (length permitting) but fails Validate,
	// so history reconstruction can report the version error.
	s := farmingState(10)
	s.Version = ProtocolVersion + 1
	got, err := ParseState(s.Bytes())
	if err != nil {
		t.Fatalf("ParseState: %v", err)
	}
	if got.Version != ProtocolVersion+1 {
		t.Errorf("version = %d, want %d", got.Version, ProtocolVersion+1)
	}
	if err := got.Validate(); !errors.Is(err, ErrVersionTooNew) {
		t.Errorf("expected ErrVersionTooNew, got: %v", err)
	}
}
