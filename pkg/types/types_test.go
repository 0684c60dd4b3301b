package types

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestHash_HexRoundTrip(t *testing.T) {
	h := Hash{0x01, 0x02, 0xff}
	got, err := HexToHash(h.String())
	if err != nil {
		t.Fatalf("HexToHash: %v", err)
	}
	if got != h {
		t.Error("hex round trip mismatch")
	}

	bad := []string{"", "abcd", strings.Repeat("0", 63), strings.Repeat("0", 64) + "00", "zz" + strings.Repeat("0", 62)}
	for _, s := range bad {
		if _, err := HexToHash(s); err == nil {
			t.Errorf("HexToHash(%q) should fail", s)
		}
	}
}

func TestHash_JSON(t *testing.T) {
	h := Hash{0xab, 0xcd}
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Hash
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != h {
		t.Error("JSON round trip mismatch")
	}

	// Empty string decodes to the zero hash.
	if err := json.Unmarshal([]byte(`""`), &got); err != nil || !got.IsZero() {
		t.Errorf("empty string = %v, %v", got, err)
	}
	if err := json.Unmarshal([]byte(`"abcd"`), &got); err == nil {
		t.Error("short hex should fail")
	}
}

func TestPublicKey_JSON(t *testing.T) {
	var pk PublicKey
	pk[0] = 0xb0
	pk[47] = 0x01

	data, err := json.Marshal(pk)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got PublicKey
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != pk {
		t.Error("JSON round trip mismatch")
	}

	parsed, err := HexToPublicKey(pk.String())
	if err != nil || parsed != pk {
		t.Errorf("HexToPublicKey: %v", err)
	}
	if _, err := HexToPublicKey("b0a1"); err == nil {
		t.Error("short key should fail")
	}
}

func TestCoin_Bytes(t *testing.T) {
	c := Coin{ParentCoinInfo: Hash{0x01}, PuzzleHash: Hash{0x02}, Amount: 0x0403}
	b := c.Bytes()
	if len(b) != 72 {
		t.Fatalf("length = %d, want 72", len(b))
	}
	if !bytes.Equal(b[:32], c.ParentCoinInfo[:]) || !bytes.Equal(b[32:64], c.PuzzleHash[:]) {
		t.Error("hash layout mismatch")
	}
	// Amount is little-endian.
	if b[64] != 0x03 || b[65] != 0x04 {
		t.Errorf("amount bytes = %x", b[64:])
	}
}

func TestCoinSpend_JSON(t *testing.T) {
	sp := CoinSpend{
		Coin:         Coin{ParentCoinInfo: Hash{0x01}, PuzzleHash: Hash{0x02}, Amount: 7},
		PuzzleReveal: SerializedProgram{0x01, 0x00},
		Solution:     SerializedProgram{0x01, 0x02, 0x03},
	}
	data, err := json.Marshal(sp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got CoinSpend
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Coin != sp.Coin ||
		!bytes.Equal(got.PuzzleReveal, sp.PuzzleReveal) ||
		!bytes.Equal(got.Solution, sp.Solution) {
		t.Error("JSON round trip mismatch")
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	h := Hash{0x11, 0x22, 0x33}
	addr := h.AddressString()
	if !strings.HasPrefix(addr, MainnetHRP+"1") {
		t.Errorf("address %q should carry the mainnet HRP", addr)
	}
	got, err := ParseAddress(addr)
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if got != h {
		t.Error("address round trip mismatch")
	}

	// Surrounding whitespace is tolerated.
	if _, err := ParseAddress("  " + addr + "\n"); err != nil {
		t.Errorf("trimmed parse: %v", err)
	}
}

func TestParseAddress_Rejects(t *testing.T) {
	h := Hash{0x44}
	// A valid bech32 string with a foreign HRP.
	foreign, err := Bech32Encode("zzz", h[:])
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}
	short, err := Bech32Encode(MainnetHRP, h[:16])
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}

	for _, s := range []string{"", "not-an-address", foreign, short} {
		if _, err := ParseAddress(s); err == nil {
			t.Errorf("ParseAddress(%q) should fail", s)
		}
	}

	// A single corrupted character breaks the checksum.
	addr := h.AddressString()
	corrupt := addr[:len(addr)-1]
	if addr[len(addr)-1] == 'q' {
		corrupt += "p"
	} else {
		corrupt += "q"
	}
	if _, err := ParseAddress(corrupt); err == nil {
		t.Error("corrupted checksum should fail")
	}
}

func TestSetAddressHRP(t *testing.T) {
	defer SetAddressHRP(MainnetHRP)
	SetAddressHRP(TestnetHRP)
	if GetAddressHRP() != TestnetHRP {
		t.Fatalf("active HRP = %q", GetAddressHRP())
	}
	addr := Hash{0x55}.AddressString()
	if !strings.HasPrefix(addr, TestnetHRP+"1") {
		t.Errorf("address %q should carry the testnet HRP", addr)
	}
	if _, err := ParseAddress(addr); err != nil {
		t.Errorf("testnet address should parse: %v", err)
	}
}
