package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
)

// Schnorr/secp256k1 key and digest sizes.
const (
	SecretKeySize        = 32
	CompressedPubKeySize = 33
	digestSize           = 32
)

// Signer signs 32-byte digests. The wallet uses it for pool protocol
// authentication; singleton spends are signed by an external collaborator.
type Signer interface {
	// Sign produces a Schnorr signature over a 32-byte hash.
	Sign(hash []byte) ([]byte, error)
	// PublicKey returns the compressed 33-byte public key.
	PublicKey() []byte
}

// Verifier checks Schnorr signatures against compressed public keys.
type Verifier interface {
	Verify(hash, signature, publicKey []byte) bool
}

// PrivateKey is a secp256k1 secret scalar used for Schnorr signing.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey draws a fresh random private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes wraps a 32-byte secret scalar.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != SecretKeySize {
		return nil, fmt.Errorf("secret must be %d bytes, got %d", SecretKeySize, len(b))
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// Sign produces a Schnorr signature over a 32-byte hash.
func (pk *PrivateKey) Sign(hash []byte) ([]byte, error) {
	if len(hash) != digestSize {
		return nil, fmt.Errorf("signing digest must be %d bytes, got %d", digestSize, len(hash))
	}
	sig, err := schnorr.Sign(pk.key, hash)
	if err != nil {
		return nil, fmt.Errorf("schnorr sign: %w", err)
	}
	return sig.Serialize(), nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// Serialize returns the 32-byte secret scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero wipes the secret scalar from memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// VerifySignature checks a Schnorr signature against a 32-byte hash and a
// compressed public key. Any parse failure verifies as false.
func VerifySignature(hash, signature, publicKey []byte) bool {
	pub, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pub)
}

// SchnorrVerifier is the stateless Verifier over VerifySignature.
type SchnorrVerifier struct{}

func (SchnorrVerifier) Verify(hash, signature, publicKey []byte) bool {
	return VerifySignature(hash, signature, publicKey)
}
