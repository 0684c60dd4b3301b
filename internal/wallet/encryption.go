package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// SaltSize is the Argon2id salt length.
const SaltSize = 32

// Sealed blob layout:
//
//	salt(32) | memory(4 LE) | iterations(4 LE) | parallelism(1) | nonce(24) | ciphertext+tag
//
// The KDF parameters travel with the blob so old wallets stay readable
// after the defaults harden.
const headerSize = SaltSize + 4 + 4 + 1

// EncryptionParams holds Argon2id cost parameters.
type EncryptionParams struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns the recommended Argon2id cost for wallet files.
func DefaultParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64 * 1024, // 64 MiB
		Iterations:  3,
		Parallelism: 4,
	}
}

func (p EncryptionParams) deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, p.Iterations, p.Memory, p.Parallelism,
		chacha20poly1305.KeySize)
}

func zeroKey(key []byte) {
	for i := range key {
		key[i] = 0
	}
}

// Encrypt seals data under a password with Argon2id + XChaCha20-Poly1305.
func Encrypt(data, password []byte, params EncryptionParams) ([]byte, error) {
	out := make([]byte, headerSize, headerSize+chacha20poly1305.NonceSizeX+len(data)+chacha20poly1305.Overhead)
	salt := out[:SaltSize]
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	binary.LittleEndian.PutUint32(out[SaltSize:], params.Memory)
	binary.LittleEndian.PutUint32(out[SaltSize+4:], params.Iterations)
	out[SaltSize+8] = params.Parallelism

	key := params.deriveKey(password, salt)
	defer zeroKey(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out = append(out, nonce...)
	return aead.Seal(out, nonce, data, nil), nil
}

// Decrypt opens a blob produced by Encrypt. A wrong password surfaces as an
// authentication failure, not a distinguishable error.
func Decrypt(encrypted, password []byte) ([]byte, error) {
	minSize := headerSize + chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead
	if len(encrypted) < minSize {
		return nil, fmt.Errorf("encrypted data too short: %d bytes, need at least %d", len(encrypted), minSize)
	}

	salt := encrypted[:SaltSize]
	params := EncryptionParams{
		Memory:      binary.LittleEndian.Uint32(encrypted[SaltSize:]),
		Iterations:  binary.LittleEndian.Uint32(encrypted[SaltSize+4:]),
		Parallelism: encrypted[SaltSize+8],
	}
	nonce := encrypted[headerSize : headerSize+chacha20poly1305.NonceSizeX]
	ciphertext := encrypted[headerSize+chacha20poly1305.NonceSizeX:]

	key := params.deriveKey(password, salt)
	defer zeroKey(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}
