package keys

import (
	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
)

// Key is the network's polymorphic key: either a single public key or a
// recursive list of child keys with an optional signing threshold. Each
// composite key exclusively owns its children; signing and encoding walk
// the tree depth-first.
type Key struct {
	single *PublicKey
	list   *KeyList
}

// KeyList is an ordered list of child keys. Threshold zero means every
// child must sign; a non-zero threshold means any Threshold-of-len(Keys)
// children satisfy the list.
type KeyList struct {
	Threshold uint32
	Keys      []Key
}

// KeyFromPublicKey wraps a single public key.
func KeyFromPublicKey(pk PublicKey) Key {
	return Key{single: &pk}
}

// KeyFromList wraps a plain key list (all children required).
func KeyFromList(children ...Key) Key {
	return Key{list: &KeyList{Keys: children}}
}

// KeyFromThreshold wraps a threshold key satisfied by any
// threshold-of-len(children) signatures.
func KeyFromThreshold(threshold uint32, children ...Key) Key {
	return Key{list: &KeyList{Threshold: threshold, Keys: children}}
}

// Single returns the wrapped public key, if this is a single key.
func (k Key) Single() (PublicKey, bool) {
	if k.single == nil {
		return PublicKey{}, false
	}
	return *k.single, true
}

// List returns the wrapped key list, if this is a composite key.
func (k Key) List() (*KeyList, bool) {
	return k.list, k.list != nil
}

// Key message field numbers (fixed external contract).
const (
	keyEd25519Field      = 2
	keyThresholdField    = 5
	keyListField         = 6
	keyECDSAField        = 7
	thresholdValueField  = 1
	thresholdKeysField   = 2
	keyListChildrenField = 1
)

// ToWire writes the Key message body.
func (k Key) ToWire(w *wire.Writer) {
	switch {
	case k.single != nil:
		if k.single.IsEd25519() {
			w.Bytes(keyEd25519Field, k.single.raw)
		} else {
			w.Bytes(keyECDSAField, k.single.raw)
		}
	case k.list != nil:
		if k.list.Threshold != 0 {
			w.Message(keyThresholdField, func(w *wire.Writer) {
				w.Uint64(thresholdValueField, uint64(k.list.Threshold))
				w.Message(thresholdKeysField, k.list.keysToWire)
			})
		} else {
			w.Message(keyListField, k.list.keysToWire)
		}
	}
}

func (kl *KeyList) keysToWire(w *wire.Writer) {
	for _, child := range kl.Keys {
		w.Message(keyListChildrenField, child.ToWire)
	}
}

// KeyFromWire decodes a Key message body.
func KeyFromWire(r *wire.Reader) (Key, error) {
	var key Key
	seen := false
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case keyEd25519Field:
			var b []byte
			if b, err = r.Bytes(); err == nil {
				var pk PublicKey
				pk, err = PublicKeyFromBytesEd25519(b)
				key = Key{single: &pk}
			}
		case keyECDSAField:
			var b []byte
			if b, err = r.Bytes(); err == nil {
				var pk PublicKey
				pk, err = PublicKeyFromBytesECDSA(b)
				key = Key{single: &pk}
			}
		case keyThresholdField:
			err = r.Message(func(r *wire.Reader) error {
				list, thresholdErr := thresholdFromWire(r)
				key = Key{list: list}
				return thresholdErr
			})
		case keyListField:
			err = r.Message(func(r *wire.Reader) error {
				children, listErr := keyListChildrenFromWire(r)
				key = Key{list: &KeyList{Keys: children}}
				return listErr
			})
		default:
			err = r.Skip()
			continue
		}
		if err != nil {
			return Key{}, err
		}
		seen = true
	}
	if err := r.Err(); err != nil {
		return Key{}, err
	}
	if !seen {
		return Key{}, errors.Wrap(wire.ErrMalformedEncoding, "key message has no supported variant")
	}
	return key, nil
}

func thresholdFromWire(r *wire.Reader) (*KeyList, error) {
	list := &KeyList{}
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case thresholdValueField:
			var v uint64
			if v, err = r.Uint64(); err == nil {
				list.Threshold = uint32(v)
			}
		case thresholdKeysField:
			err = r.Message(func(r *wire.Reader) error {
				children, childErr := keyListChildrenFromWire(r)
				list.Keys = children
				return childErr
			})
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	return list, r.Err()
}

func keyListChildrenFromWire(r *wire.Reader) ([]Key, error) {
	var children []Key
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case keyListChildrenField:
			err = r.Message(func(r *wire.Reader) error {
				child, childErr := KeyFromWire(r)
				children = append(children, child)
				return childErr
			})
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	return children, r.Err()
}
