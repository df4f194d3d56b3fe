package entities

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
)

// TransactionID uniquely identifies a transaction family: the payer
// account plus the nanosecond-precision start of its validity window,
// with an optional nonce for chained transactions. The same ID is reused
// across every retry of one logical transaction so the network can detect
// duplicates; it must never be reused across logically distinct operations.
type TransactionID struct {
	PayerAccountID AccountID
	ValidStart     time.Time
	Nonce          int32
	Scheduled      bool
}

// GenerateTransactionID returns a fresh transaction ID for the given payer
// with the validity window starting now.
func GenerateTransactionID(payer AccountID) TransactionID {
	return TransactionID{PayerAccountID: payer, ValidStart: time.Now().UTC()}
}

// IsZero reports whether the ID is unset.
func (id TransactionID) IsZero() bool {
	return id.PayerAccountID.IsZero() && id.ValidStart.IsZero()
}

// Equal reports whether two IDs identify the same transaction family.
func (id TransactionID) Equal(other TransactionID) bool {
	return id.PayerAccountID == other.PayerAccountID &&
		id.ValidStart.Equal(other.ValidStart) &&
		id.Nonce == other.Nonce &&
		id.Scheduled == other.Scheduled
}

// String formats the ID as "payer@seconds.nanos".
func (id TransactionID) String() string {
	return fmt.Sprintf("%s@%d.%d", id.PayerAccountID, id.ValidStart.Unix(), id.ValidStart.Nanosecond())
}

// ToWire writes the TransactionID message body.
func (id TransactionID) ToWire(w *wire.Writer) {
	w.Message(transactionIDValidStartField, func(w *wire.Writer) {
		TimestampToWire(w, id.ValidStart)
	})
	w.Message(transactionIDAccountField, id.PayerAccountID.ToWire)
	w.Bool(transactionIDScheduledField, id.Scheduled)
	w.Int32(transactionIDNonceField, id.Nonce)
}

// TransactionIDFromWire decodes a TransactionID message body.
func TransactionIDFromWire(r *wire.Reader) (TransactionID, error) {
	var id TransactionID
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case transactionIDValidStartField:
			err = r.Message(func(r *wire.Reader) error {
				id.ValidStart, err = TimestampFromWire(r)
				return err
			})
		case transactionIDAccountField:
			err = r.Message(func(r *wire.Reader) error {
				id.PayerAccountID, err = AccountIDFromWire(r)
				return err
			})
		case transactionIDScheduledField:
			id.Scheduled, err = r.Bool()
		case transactionIDNonceField:
			id.Nonce, err = r.Int32()
		default:
			err = r.Skip()
		}
		if err != nil {
			return TransactionID{}, err
		}
	}
	return id, r.Err()
}

const (
	transactionIDValidStartField = 1
	transactionIDAccountField    = 2
	transactionIDScheduledField  = 3
	transactionIDNonceField      = 4
)

const (
	timestampSecondsField = 1
	timestampNanosField   = 2
	durationSecondsField  = 1
)

// TimestampToWire writes a Timestamp message body with nanosecond precision.
func TimestampToWire(w *wire.Writer, t time.Time) {
	w.Int64(timestampSecondsField, t.Unix())
	w.Int32(timestampNanosField, int32(t.Nanosecond()))
}

// TimestampFromWire decodes a Timestamp message body.
func TimestampFromWire(r *wire.Reader) (time.Time, error) {
	var seconds int64
	var nanos int32
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case timestampSecondsField:
			seconds, err = r.Int64()
		case timestampNanosField:
			nanos, err = r.Int32()
		default:
			err = r.Skip()
		}
		if err != nil {
			return time.Time{}, err
		}
	}
	if err := r.Err(); err != nil {
		return time.Time{}, err
	}
	return time.Unix(seconds, int64(nanos)).UTC(), nil
}

// DurationToWire writes a Duration message body (whole seconds).
func DurationToWire(w *wire.Writer, d time.Duration) {
	w.Int64(durationSecondsField, int64(d/time.Second))
}

// DurationFromWire decodes a Duration message body.
func DurationFromWire(r *wire.Reader) (time.Duration, error) {
	var seconds int64
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case durationSecondsField:
			seconds, err = r.Int64()
		default:
			err = r.Skip()
		}
		if err != nil {
			return 0, err
		}
	}
	if err := r.Err(); err != nil {
		return 0, err
	}
	if seconds < 0 {
		return 0, errors.Wrap(wire.ErrMalformedEncoding, "negative duration")
	}
	return time.Duration(seconds) * time.Second, nil
}
