package keys

import (
	"crypto/ed25519"

	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
)

// PrivateKey is a single Ed25519 or ECDSA(secp256k1) private key. Signing
// is a pure function over the provided bytes: Ed25519 signs the bytes
// directly, ECDSA signs their Keccak-256 digest.
type PrivateKey struct {
	kind keyKind
	ed   ed25519.PrivateKey
	ec   *secp256k1.ECDSAPrivateKey
}

// PrivateKeyFromBytesEd25519 parses Ed25519 private key material: either a
// 32-byte seed or the 64-byte seed-plus-public-key form.
func PrivateKeyFromBytesEd25519(b []byte) (PrivateKey, error) {
	switch len(b) {
	case ed25519.SeedSize:
		return PrivateKey{kind: keyKindEd25519, ed: ed25519.NewKeyFromSeed(b)}, nil
	case ed25519.PrivateKeySize:
		key := make([]byte, len(b))
		copy(key, b)
		return PrivateKey{kind: keyKindEd25519, ed: ed25519.PrivateKey(key)}, nil
	default:
		return PrivateKey{}, errors.Errorf("invalid Ed25519 private key length %d", len(b))
	}
}

// PrivateKeyFromBytesECDSA parses a 32-byte secp256k1 private key.
func PrivateKeyFromBytesECDSA(b []byte) (PrivateKey, error) {
	ec, err := secp256k1.DeserializeECDSAPrivateKeyFromSlice(b)
	if err != nil {
		return PrivateKey{}, errors.Wrap(err, "invalid ECDSA private key")
	}
	return PrivateKey{kind: keyKindECDSA, ec: ec}, nil
}

// PublicKey returns the corresponding public key.
func (sk PrivateKey) PublicKey() (PublicKey, error) {
	switch sk.kind {
	case keyKindEd25519:
		pub := sk.ed.Public().(ed25519.PublicKey)
		return PublicKeyFromBytesEd25519(pub)
	case keyKindECDSA:
		ecPub, err := sk.ec.ECDSAPublicKey()
		if err != nil {
			return PublicKey{}, errors.Wrap(err, "deriving ECDSA public key")
		}
		serialized, err := ecPub.Serialize()
		if err != nil {
			return PublicKey{}, errors.Wrap(err, "serializing ECDSA public key")
		}
		return PublicKey{kind: keyKindECDSA, ec: ecPub, raw: serialized[:]}, nil
	}
	return PublicKey{}, errors.New("uninitialized private key")
}

// Sign signs the given canonical bytes.
func (sk PrivateKey) Sign(message []byte) ([]byte, error) {
	switch sk.kind {
	case keyKindEd25519:
		return ed25519.Sign(sk.ed, message), nil
	case keyKindECDSA:
		hash := keccak256(message)
		secpHash := secp256k1.Hash(hash)
		sig, err := sk.ec.ECDSASign(&secpHash)
		if err != nil {
			return nil, errors.Wrap(err, "ECDSA signing")
		}
		serialized := sig.Serialize()
		return serialized[:], nil
	}
	return nil, errors.New("uninitialized private key")
}
