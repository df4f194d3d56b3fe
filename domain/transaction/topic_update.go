package transaction

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/domain/keys"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// TopicUpdateData updates an existing consensus topic. Nil fields are left
// untouched on the topic; a non-nil pointer to a zero value clears the field
// where the network allows clearing. The distinction rides on wrapper
// message presence, so an unset memo and an explicitly empty memo produce
// different bytes.
type TopicUpdateData struct {
	TopicID          entities.TopicID
	Memo             *string
	ExpirationTime   *time.Time
	AdminKey         *keys.Key
	SubmitKey        *keys.Key
	AutoRenewPeriod  *time.Duration
	AutoRenewAccount *entities.AccountID
}

// NewTopicUpdate starts a consensus topic update transaction.
func NewTopicUpdate(topicID entities.TopicID) *Transaction {
	return New(&TopicUpdateData{TopicID: topicID})
}

// SetMemo marks the memo for replacement, including with the empty string.
func (d *TopicUpdateData) SetMemo(memo string) *TopicUpdateData {
	d.Memo = &memo
	return d
}

func (d *TopicUpdateData) validate() error {
	if d.TopicID.IsZero() {
		return errors.New("topic update without a topic ID")
	}
	if d.Memo != nil && len(*d.Memo) > maxMemoBytes {
		return errors.Errorf("topic memo is %d bytes, the maximum is %d", len(*d.Memo), maxMemoBytes)
	}
	if d.AutoRenewPeriod != nil && *d.AutoRenewPeriod < 0 {
		return errors.New("negative auto-renew period")
	}
	return nil
}

func (d *TopicUpdateData) fieldNumber() protowire.Number {
	return topicUpdateField
}

// GrpcMethod implements Data.
func (d *TopicUpdateData) GrpcMethod() string {
	return "/proto.ConsensusService/updateTopic"
}

const (
	topicUpdateTopicIDField          = 1
	topicUpdateMemoField             = 2
	topicUpdateExpirationField       = 4
	topicUpdateAdminKeyField         = 6
	topicUpdateSubmitKeyField        = 7
	topicUpdateAutoRenewPeriodField  = 8
	topicUpdateAutoRenewAccountField = 9
)

func (d *TopicUpdateData) toWire(w *wire.Writer) {
	w.Message(topicUpdateTopicIDField, d.TopicID.ToWire)
	if d.Memo != nil {
		stringValueToWire(w, topicUpdateMemoField, *d.Memo)
	}
	if d.ExpirationTime != nil {
		w.Message(topicUpdateExpirationField, func(w *wire.Writer) {
			entities.TimestampToWire(w, *d.ExpirationTime)
		})
	}
	if d.AdminKey != nil {
		w.Message(topicUpdateAdminKeyField, d.AdminKey.ToWire)
	}
	if d.SubmitKey != nil {
		w.Message(topicUpdateSubmitKeyField, d.SubmitKey.ToWire)
	}
	if d.AutoRenewPeriod != nil {
		w.Message(topicUpdateAutoRenewPeriodField, func(w *wire.Writer) {
			entities.DurationToWire(w, *d.AutoRenewPeriod)
		})
	}
	if d.AutoRenewAccount != nil {
		w.Message(topicUpdateAutoRenewAccountField, d.AutoRenewAccount.ToWire)
	}
}

func topicUpdateFromWire(r *wire.Reader) (*TopicUpdateData, error) {
	d := &TopicUpdateData{}
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case topicUpdateTopicIDField:
			err = r.Message(func(r *wire.Reader) error {
				d.TopicID, err = entities.TopicIDFromWire(r)
				return err
			})
		case topicUpdateMemoField:
			err = r.Message(func(r *wire.Reader) error {
				memo, memoErr := stringValueFromWire(r)
				d.Memo = &memo
				return memoErr
			})
		case topicUpdateExpirationField:
			err = r.Message(func(r *wire.Reader) error {
				t, tErr := entities.TimestampFromWire(r)
				d.ExpirationTime = &t
				return tErr
			})
		case topicUpdateAdminKeyField:
			err = r.Message(func(r *wire.Reader) error {
				key, keyErr := keys.KeyFromWire(r)
				d.AdminKey = &key
				return keyErr
			})
		case topicUpdateSubmitKeyField:
			err = r.Message(func(r *wire.Reader) error {
				key, keyErr := keys.KeyFromWire(r)
				d.SubmitKey = &key
				return keyErr
			})
		case topicUpdateAutoRenewPeriodField:
			err = r.Message(func(r *wire.Reader) error {
				period, periodErr := entities.DurationFromWire(r)
				d.AutoRenewPeriod = &period
				return periodErr
			})
		case topicUpdateAutoRenewAccountField:
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
