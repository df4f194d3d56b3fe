// Package keys implements the SDK's key material: Ed25519 and
// ECDSA(secp256k1) key pairs, the recursive key structures the network uses
// for multi-signature policies, and signing over canonical transaction
// bytes.
package keys

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"

	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

type keyKind int

const (
	keyKindEd25519 keyKind = iota
	keyKindECDSA
)

// PublicKey is a single Ed25519 or ECDSA(secp256k1) public key.
type PublicKey struct {
	kind keyKind
	ed   ed25519.PublicKey
	ec   *secp256k1.ECDSAPublicKey
	// raw is the canonical raw encoding: 32 bytes for Ed25519,
	// 33 compressed bytes for ECDSA. Used as the signature pair prefix.
	raw []byte
}

// PublicKeyFromBytesEd25519 parses a raw 32-byte Ed25519 public key.
func PublicKeyFromBytesEd25519(b []byte) (PublicKey, error) {
	if len(b) != ed25519.PublicKeySize {
		return PublicKey{}, errors.Errorf("invalid Ed25519 public key length %d", len(b))
	}
	raw := make([]byte, len(b))
	copy(raw, b)
	return PublicKey{kind: keyKindEd25519, ed: ed25519.PublicKey(raw), raw: raw}, nil
}

// PublicKeyFromBytesECDSA parses a 33-byte compressed secp256k1 public key.
func PublicKeyFromBytesECDSA(b []byte) (PublicKey, error) {
	ec, err := secp256k1.DeserializeECDSAPubKey(b)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "invalid ECDSA public key")
	}
	serialized, err := ec.Serialize()
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "serializing ECDSA public key")
	}
	return PublicKey{kind: keyKindECDSA, ec: ec, raw: serialized[:]}, nil
}

// IsEd25519 reports whether the key is an Ed25519 key.
func (pk PublicKey) IsEd25519() bool {
	return pk.kind == keyKindEd25519
}

// IsECDSA reports whether the key is an ECDSA(secp256k1) key.
func (pk PublicKey) IsECDSA() bool {
	return pk.kind == keyKindECDSA
}

// BytesRaw returns the canonical raw encoding: 32 bytes for Ed25519,
// 33 compressed bytes for ECDSA.
func (pk PublicKey) BytesRaw() []byte {
	out := make([]byte, len(pk.raw))
	copy(out, pk.raw)
	return out
}

// Equal reports whether two public keys are the same key.
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.kind == other.kind && bytes.Equal(pk.raw, other.raw)
}

func (pk PublicKey) String() string {
	return hex.EncodeToString(pk.raw)
}

// Verify reports whether signature is a valid signature of message by this
// key. Ed25519 verifies over the message itself; ECDSA verifies over its
// Keccak-256 digest, matching Sign.
func (pk PublicKey) Verify(message, signature []byte) bool {
	switch pk.kind {
	case keyKindEd25519:
		return ed25519.Verify(pk.ed, message, signature)
	case keyKindECDSA:
		sig, err := secp256k1.DeserializeECDSASignatureFromSlice(signature)
		if err != nil {
			return false
		}
		hash := keccak256(message)
		secpHash := secp256k1.Hash(hash)
		return pk.ec.ECDSAVerify(&secpHash, sig)
	}
	return false
}

func keccak256(message []byte) [32]byte {
	digest := sha3.NewLegacyKeccak256()
	digest.Write(message)
	var out [32]byte
	copy(out[:], digest.Sum(nil))
	return out
}
