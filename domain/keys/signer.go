package keys

import (
	"bytes"

	"github.com/pkg/errors"
)

// ErrMissingKeyMaterial is returned when a key structure cannot be satisfied
// with the private keys at hand: a required single key has no matching
// private key, or a threshold list has fewer satisfiable children than its
// threshold.
var ErrMissingKeyMaterial = errors.New("missing private key material")

// SignaturePair is one signature together with the raw public key that
// produced it. Pairs are attached to a transaction's signature map; the
// public key doubles as the dedup identity.
type SignaturePair struct {
	PublicKey PublicKey
	Signature []byte
}

// Signer signs canonical transaction bytes with a set of private keys,
// resolving recursive key structures. The zero Signer holds no keys and can
// only satisfy empty key lists.
type Signer struct {
	keys []signerKey
}

type signerKey struct {
	private PrivateKey
	public  PublicKey
}

// NewSigner builds a Signer over the given private keys. Deriving a public
// key from broken key material fails here rather than at signing time.
func NewSigner(privateKeys ...PrivateKey) (*Signer, error) {
	s := &Signer{keys: make([]signerKey, 0, len(privateKeys))}
	for _, sk := range privateKeys {
		pub, err := sk.PublicKey()
		if err != nil {
			return nil, err
		}
		s.keys = append(s.keys, signerKey{private: sk, public: pub})
	}
	return s, nil
}

// SignaturesFor signs message with every private key needed to satisfy key,
// walking the structure depth-first. Threshold lists are satisfied with the
// first Threshold satisfiable children in list order; threshold zero means
// all children. The result is deduplicated by public key, so a key that
// appears in several branches signs once.
func (s *Signer) SignaturesFor(key Key, message []byte) ([]SignaturePair, error) {
	var pairs []SignaturePair
	if err := s.collect(key, message, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

func (s *Signer) collect(key Key, message []byte, pairs *[]SignaturePair) error {
	if single, ok := key.Single(); ok {
		return s.collectSingle(single, message, pairs)
	}
	list, ok := key.List()
	if !ok {
		return errors.New("uninitialized key")
	}
	needed := len(list.Keys)
	if list.Threshold != 0 {
		if int(list.Threshold) > len(list.Keys) {
			return errors.Errorf("threshold %d exceeds key list size %d",
				list.Threshold, len(list.Keys))
		}
		needed = int(list.Threshold)
	}
	satisfied := 0
	for _, child := range list.Keys {
		if satisfied == needed {
			break
		}
		if !s.canSatisfy(child) {
			if list.Threshold == 0 {
				return errors.Wrap(ErrMissingKeyMaterial, "key list child unsatisfiable")
			}
			continue
		}
		if err := s.collect(child, message, pairs); err != nil {
			return err
		}
		satisfied++
	}
	if satisfied < needed {
		return errors.Wrapf(ErrMissingKeyMaterial,
			"threshold key needs %d signatures, only %d satisfiable", needed, satisfied)
	}
	return nil
}

func (s *Signer) collectSingle(pub PublicKey, message []byte, pairs *[]SignaturePair) error {
	for _, existing := range *pairs {
		if existing.PublicKey.Equal(pub) {
			return nil
		}
	}
	for _, sk := range s.keys {
		if !sk.public.Equal(pub) {
			continue
		}
		sig, err := sk.private.Sign(message)
		if err != nil {
			return err
		}
		*pairs = append(*pairs, SignaturePair{PublicKey: pub, Signature: sig})
		return nil
	}
	return errors.Wrapf(ErrMissingKeyMaterial, "no private key for %s", pub)
}

func (s *Signer) canSatisfy(key Key) bool {
	if single, ok := key.Single(); ok {
		for _, sk := range s.keys {
			if sk.public.Equal(single) {
				return true
			}
		}
		return false
	}
	list, ok := key.List()
	if !ok {
		return false
	}
	needed := len(list.Keys)
	if list.Threshold != 0 {
		needed = int(list.Threshold)
		if needed > len(list.Keys) {
			return false
		}
	}
	satisfiable := 0
	for _, child := range list.Keys {
		if s.canSatisfy(child) {
			satisfiable++
			if satisfiable == needed {
				return true
			}
		}
	}
	return needed == 0
}

// DedupAppend appends pair to pairs unless a pair with the same public key
// prefix is already present. Used when merging independently produced
// signature sets onto one transaction.
func DedupAppend(pairs []SignaturePair, pair SignaturePair) []SignaturePair {
	for _, existing := range pairs {
		if bytes.Equal(existing.PublicKey.BytesRaw(), pair.PublicKey.BytesRaw()) {
			return pairs
		}
	}
	return append(pairs, pair)
}
