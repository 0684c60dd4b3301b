package wallet

import (
	"bytes"
	"testing"
)

// cheapParams keeps Argon2 affordable in tests.
func cheapParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64,
		Iterations:  1,
		Parallelism: 1,
	}
}

func sealed(t *testing.T, plaintext, password []byte) []byte {
	t.Helper()
	blob, err := Encrypt(plaintext, password, cheapParams())
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	return blob
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	password := []byte("strong-password-123")
	for _, plaintext := range [][]byte{
		[]byte("orchard payout seed material"),
		{},
		bytes.Repeat([]byte{0xa5, 0x00, 0xff}, 4000),
	} {
		blob := sealed(t, plaintext, password)
		got, err := Decrypt(blob, password)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Errorf("roundtrip of %d bytes failed", len(plaintext))
		}
	}
}

func TestDecrypt_FailsClosed(t *testing.T) {
	blob := sealed(t, []byte("secret data"), []byte("correct"))

	if _, err := Decrypt(blob, []byte("wrong")); err == nil {
		t.Error("wrong password decrypted")
	}
	if _, err := Decrypt([]byte("too short"), []byte("correct")); err == nil {
		t.Error("truncated blob decrypted")
	}

	// Flip one auth-tag byte.
	blob[len(blob)-1] ^= 0xff
	if _, err := Decrypt(blob, []byte("correct")); err == nil {
		t.Error("corrupted ciphertext decrypted")
	}
}

func TestEncrypt_FreshSaltAndNonce(t *testing.T) {
	plaintext := []byte("same data")
	password := []byte("same pass")

	a := sealed(t, plaintext, password)
	b := sealed(t, plaintext, password)
	if bytes.Equal(a, b) {
		t.Fatal("two encryptions of the same plaintext are identical")
	}

	for _, blob := range [][]byte{a, b} {
		got, err := Decrypt(blob, password)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Error("decryption mismatch")
		}
	}
}

func TestEncrypt_BlobLayout(t *testing.T) {
	plaintext := []byte("test")
	blob := sealed(t, plaintext, []byte("pass"))

	// header | 24-byte XChaCha20 nonce | ciphertext + 16-byte tag
	min := headerSize + 24 + len(plaintext) + 16
	if len(blob) < min {
		t.Errorf("blob length = %d, want at least %d", len(blob), min)
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Memory != 64*1024 || p.Iterations != 3 || p.Parallelism != 4 {
		t.Errorf("DefaultParams() = %+v, want 64 MiB / 3 iterations / 4 lanes", p)
	}
}

func TestEncryptDecrypt_Seed(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic12, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}

	password := []byte("wallet-password!")
	got, err := Decrypt(sealed(t, seed, password), password)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, seed) {
		t.Error("decrypted seed differs from original")
	}
}
