package keys

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// Mnemonic is a BIP-39 recovery phrase from which an Ed25519 key pair is
// derived along the ledger's standard path m/44'/3030'/0'/0'.
type Mnemonic struct {
	words string
}

// GenerateMnemonic creates a fresh 24-word mnemonic from 256 bits of
// system entropy.
func GenerateMnemonic() (Mnemonic, error) {
	entropy := make([]byte, 32)
	if _, err := rand.Read(entropy); err != nil {
		return Mnemonic{}, errors.Wrap(err, "reading entropy")
	}
	words, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return Mnemonic{}, errors.Wrap(err, "building mnemonic")
	}
	return Mnemonic{words: words}, nil
}

// MnemonicFromWords validates and wraps an existing recovery phrase.
func MnemonicFromWords(words string) (Mnemonic, error) {
	if !bip39.IsMnemonicValid(words) {
		return Mnemonic{}, errors.New("invalid mnemonic phrase")
	}
	return Mnemonic{words: words}, nil
}

func (m Mnemonic) String() string {
	return m.words
}

// hardened offsets the child index into the hardened range.
const hardened = uint32(1 << 31)

// derivationPath is the ledger's standard account path: purpose 44',
// coin type 3030', account 0', change 0'.
var derivationPath = []uint32{
	44 | hardened,
	3030 | hardened,
	0 | hardened,
	0 | hardened,
}

// ToEd25519PrivateKey derives the Ed25519 private key at the ledger's
// standard path, using SLIP-0010 hardened derivation over the BIP-39 seed.
// The same phrase and passphrase always yield the same key.
func (m Mnemonic) ToEd25519PrivateKey(passphrase string) (PrivateKey, error) {
	seed := bip39.NewSeed(m.words, passphrase)
	key, chainCode := slip10MasterKey(seed)
	for _, index := range derivationPath {
		key, chainCode = slip10ChildKey(key, chainCode, index)
	}
	return PrivateKeyFromBytesEd25519(key)
}

// slip10MasterKey computes the SLIP-0010 Ed25519 master key and chain code
// from a BIP-39 seed.
func slip10MasterKey(seed []byte) (key, chainCode []byte) {
	mac := hmac.New(sha512.New, []byte("ed25519 seed"))
	mac.Write(seed)
	digest := mac.Sum(nil)
	return digest[:32], digest[32:]
}

// slip10ChildKey computes one hardened derivation step. Ed25519 SLIP-0010
// only defines hardened children, so the parent key is fed in directly with
// the 0x00 pad byte.
func slip10ChildKey(parentKey, parentChainCode []byte, index uint32) (key, chainCode []byte) {
	data := make([]byte, 0, 1+len(parentKey)+4)
	data = append(data, 0x00)
	data = append(data, parentKey...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, parentChainCode)
	mac.Write(data)
	digest := mac.Sum(nil)
	return digest[:32], digest[32:]
}
