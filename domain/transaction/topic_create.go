package transaction

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/domain/keys"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// TopicCreateData creates a consensus topic. A topic without an AdminKey is
// immutable; one without a SubmitKey accepts messages from anyone.
type TopicCreateData struct {
	Memo             string
	AdminKey         *keys.Key
	SubmitKey        *keys.Key
	AutoRenewPeriod  time.Duration
	AutoRenewAccount *entities.AccountID
}

// NewTopicCreate starts a consensus topic creation transaction.
func NewTopicCreate() *Transaction {
	return New(&TopicCreateData{})
}

func (d *TopicCreateData) validate() error {
	if len(d.Memo) > maxMemoBytes {
		return errors.Errorf("topic memo is %d bytes, the maximum is %d", len(d.Memo), maxMemoBytes)
	}
	if d.AutoRenewPeriod < 0 {
		return errors.New("negative auto-renew period")
	}
	return nil
}

func (d *TopicCreateData) fieldNumber() protowire.Number {
	return topicCreateField
}

// GrpcMethod implements Data.
func (d *TopicCreateData) GrpcMethod() string {
	return "/proto.ConsensusService/createTopic"
}

const (
	topicCreateMemoField             = 1
	topicCreateAdminKeyField         = 2
	topicCreateSubmitKeyField        = 3
	topicCreateAutoRenewPeriodField  = 6
	topicCreateAutoRenewAccountField = 7
)

func (d *TopicCreateData) toWire(w *wire.Writer) {
	w.String(topicCreateMemoField, d.Memo)
	if d.AdminKey != nil {
		w.Message(topicCreateAdminKeyField, d.AdminKey.ToWire)
	}
	if d.SubmitKey != nil {
		w.Message(topicCreateSubmitKeyField, d.SubmitKey.ToWire)
	}
	if d.AutoRenewPeriod != 0 {
		w.Message(topicCreateAutoRenewPeriodField, func(w *wire.Writer) {
			entities.DurationToWire(w, d.AutoRenewPeriod)
		})
	}
	if d.AutoRenewAccount != nil {
		w.Message(topicCreateAutoRenewAccountField, d.AutoRenewAccount.ToWire)
	}
}

func topicCreateFromWire(r *wire.Reader) (*TopicCreateData, error) {
	d := &TopicCreateData{}
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case topicCreateMemoField:
			d.Memo, err = r.String()
		case topicCreateAdminKeyField:
			err = r.Message(func(r *wire.Reader) error {
				key, keyErr := keys.KeyFromWire(r)
				d.AdminKey = &key
				return keyErr
			})
		case topicCreateSubmitKeyField:
			err = r.Message(func(r *wire.Reader) error {
				key, keyErr := keys.KeyFromWire(r)
				d.SubmitKey = &key
				return keyErr
			})
		case topicCreateAutoRenewPeriodField:
			err = r.Message(func(r *wire.Reader) error {
				d.AutoRenewPeriod, err = entities.DurationFromWire(r)
				return err
			})
		case topicCreateAutoRenewAccountField:
			err = r.Message(func(r *wire.Reader) error {
				account, accountErr := entities.AccountIDFromWire(r)
				d.AutoRenewAccount = &account
				return accountErr
			})
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	return d, r.Err()
}
