package crypto

import (
	"bytes"
	"testing"

	"github.com/orchardnet/orchard-wallet/pkg/types"
)

func TestHash(t *testing.T) {
	a := Hash([]byte("orchard"))
	if a != Hash([]byte("orchard")) {
		t.Error("hash should be deterministic")
	}
	if a == Hash([]byte("orchard!")) {
		t.Error("different input should hash differently")
	}
	if Hash(nil).IsZero() {
		t.Error("the empty-input hash is not zero")
	}
}

func TestHashConcat(t *testing.T) {
	a := types.Hash{0x01}
	b := types.Hash{0x02}

	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	if HashConcat(a, b) != Hash(buf[:]) {
		t.Error("HashConcat should hash a|b")
	}
	if HashConcat(a, b) == HashConcat(b, a) {
		t.Error("concatenation order should matter")
	}
}

func TestCoinID(t *testing.T) {
	c := types.Coin{ParentCoinInfo: types.Hash{0x01}, PuzzleHash: types.Hash{0x02}, Amount: 3}
	if CoinID(c) != Hash(c.Bytes()) {
		t.Error("coin id should hash the canonical coin bytes")
	}

	// Every field participates.
	variants := []types.Coin{
		{ParentCoinInfo: types.Hash{0x09}, PuzzleHash: types.Hash{0x02}, Amount: 3},
		{ParentCoinInfo: types.Hash{0x01}, PuzzleHash: types.Hash{0x09}, Amount: 3},
		{ParentCoinInfo: types.Hash{0x01}, PuzzleHash: types.Hash{0x02}, Amount: 9},
	}
	for i, v := range variants {
		if CoinID(v) == CoinID(c) {
			t.Errorf("variant %d should have a different coin id", i)
		}
	}
}

func TestSignVerify(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	msg := Hash([]byte("message"))

	sig, err := key.Sign(msg[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	pub := key.PublicKey()
	if len(pub) != 33 {
		t.Fatalf("public key length = %d, want 33", len(pub))
	}
	if !VerifySignature(msg[:], sig, pub) {
		t.Fatal("valid signature should verify")
	}
	if !(SchnorrVerifier{}).Verify(msg[:], sig, pub) {
		t.Fatal("verifier interface disagrees with VerifySignature")
	}

	other := Hash([]byte("other"))
	if VerifySignature(other[:], sig, pub) {
		t.Error("signature should not verify for a different hash")
	}

	wrongKey, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if VerifySignature(msg[:], sig, wrongKey.PublicKey()) {
		t.Error("signature should not verify under another key")
	}
	if VerifySignature(msg[:], []byte("garbage"), pub) {
		t.Error("malformed signature should not verify")
	}
	if VerifySignature(msg[:], sig, []byte("garbage")) {
		t.Error("malformed public key should not verify")
	}

	if _, err := key.Sign([]byte("short")); err == nil {
		t.Error("non-32-byte hash should be rejected")
	}
}

func TestPrivateKeyFromBytes(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	secret := key.Serialize()

	restored, err := PrivateKeyFromBytes(secret)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}
	if !bytes.Equal(restored.PublicKey(), key.PublicKey()) {
		t.Error("restored key should derive the same public key")
	}

	if _, err := PrivateKeyFromBytes(secret[:16]); err == nil {
		t.Error("short secret should be rejected")
	}

	key.Zero()
	if !bytes.Equal(key.Serialize(), make([]byte, 32)) {
		t.Error("Zero should clear the scalar")
	}
}
