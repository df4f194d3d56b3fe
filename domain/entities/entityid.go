// Package entities holds the basic addressing and value types shared by the
// whole SDK: entity identifiers, transaction identifiers, service endpoints,
// hbar amounts and network status codes, together with their wire encodings.
package entities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
)

// AccountID addresses an account as a shard.realm.num triple. The zero
// value addresses nothing and is treated as "unset" by encoders.
type AccountID struct {
	Shard uint64
	Realm uint64
	Num   uint64
}

// NewAccountID returns the account ID for the given shard.realm.num triple.
func NewAccountID(shard, realm, num uint64) AccountID {
	return AccountID{Shard: shard, Realm: realm, Num: num}
}

// IsZero reports whether the ID is the unset zero value.
func (id AccountID) IsZero() bool {
	return id == AccountID{}
}

// String formats the ID in the canonical "shard.realm.num" form.
func (id AccountID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

// AccountIDFromString parses an ID in "shard.realm.num" form.
func AccountIDFromString(s string) (AccountID, error) {
	shard, realm, num, err := parseTriple(s)
	if err != nil {
		return AccountID{}, err
	}
	return AccountID{Shard: shard, Realm: realm, Num: num}, nil
}

// ToWire writes the AccountID message body.
func (id AccountID) ToWire(w *wire.Writer) {
	w.Uint64(accountIDShardField, id.Shard)
	w.Uint64(accountIDRealmField, id.Realm)
	w.Uint64(accountIDNumField, id.Num)
}

// AccountIDFromWire decodes an AccountID message body.
func AccountIDFromWire(r *wire.Reader) (AccountID, error) {
	var id AccountID
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case accountIDShardField:
			id.Shard, err = r.Uint64()
		case accountIDRealmField:
			id.Realm, err = r.Uint64()
		case accountIDNumField:
			id.Num, err = r.Uint64()
		default:
			err = r.Skip()
		}
		if err != nil {
			return AccountID{}, err
		}
	}
	return id, r.Err()
}

// TopicID addresses a consensus topic as a shard.realm.num triple.
type TopicID struct {
	Shard uint64
	Realm uint64
	Num   uint64
}

// NewTopicID returns the topic ID for the given shard.realm.num triple.
func NewTopicID(shard, realm, num uint64) TopicID {
	return TopicID{Shard: shard, Realm: realm, Num: num}
}

// IsZero reports whether the ID is the unset zero value.
func (id TopicID) IsZero() bool {
	return id == TopicID{}
}

// String formats the ID in the canonical "shard.realm.num" form.
func (id TopicID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

// TopicIDFromString parses an ID in "shard.realm.num" form.
func TopicIDFromString(s string) (TopicID, error) {
	shard, realm, num, err := parseTriple(s)
	if err != nil {
		return TopicID{}, err
	}
	return TopicID{Shard: shard, Realm: realm, Num: num}, nil
}

// ToWire writes the TopicID message body.
func (id TopicID) ToWire(w *wire.Writer) {
	w.Uint64(topicIDShardField, id.Shard)
	w.Uint64(topicIDRealmField, id.Realm)
	w.Uint64(topicIDNumField, id.Num)
}

// TopicIDFromWire decodes a TopicID message body.
func TopicIDFromWire(r *wire.Reader) (TopicID, error) {
	var id TopicID
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case topicIDShardField:
			id.Shard, err = r.Uint64()
		case topicIDRealmField:
			id.Realm, err = r.Uint64()
		case topicIDNumField:
			id.Num, err = r.Uint64()
		default:
			err = r.Skip()
		}
		if err != nil {
			return TopicID{}, err
		}
	}
	return id, r.Err()
}

const (
	accountIDShardField = 1
	accountIDRealmField = 2
	accountIDNumField   = 3

	topicIDShardField = 1
	topicIDRealmField = 2
	topicIDNumField   = 3
)

func parseTriple(s string) (shard, realm, num uint64, err error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return 0, 0, 0, errors.Errorf("invalid entity ID %q: expected shard.realm.num", s)
	}
	values := make([]uint64, 3)
	for i, part := range parts {
		values[i], err = strconv.ParseUint(part, 10, 64)
		if err != nil {
			return 0, 0, 0, errors.Wrapf(err, "invalid entity ID %q", s)
		}
	}
	return values[0], values[1], values[2], nil
}
