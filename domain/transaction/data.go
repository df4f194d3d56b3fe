// Package transaction assembles, freezes, signs and serializes transactions.
// A transaction is frozen against an explicit set of candidate nodes: the
// node account ID is part of the signed body, so one serialized body is kept
// per candidate node and signatures are produced per body. Failing over to
// another node at submission time therefore never requires re-signing.
package transaction

import (
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// Data is the operation-specific payload of a transaction body. Each
// implementation owns one variant of the body's data oneof and knows the
// fully-qualified gRPC method that submits it.
type Data interface {
	// fieldNumber is the data variant's field number inside the
	// transaction body (fixed external contract).
	fieldNumber() protowire.Number
	toWire(w *wire.Writer)
	validate() error

	// GrpcMethod returns the full method name used to submit this
	// transaction, e.g. "/proto.CryptoService/cryptoTransfer".
	GrpcMethod() string
}

// Data variant field numbers inside the transaction body.
const (
	cryptoTransferField = 14
	topicCreateField    = 24
	topicUpdateField    = 25
	nodeCreateField     = 54
	nodeUpdateField     = 55
	nodeDeleteField     = 56
)

// Well-known wrapper messages carry explicit presence for scalar fields:
// the wrapper message being present means "set", even to the zero value.
const wrapperValueField = 1

func stringValueToWire(w *wire.Writer, num protowire.Number, v string) {
	w.Message(num, func(w *wire.Writer) {
		w.String(wrapperValueField, v)
	})
}

func bytesValueToWire(w *wire.Writer, num protowire.Number, v []byte) {
	w.Message(num, func(w *wire.Writer) {
		w.Bytes(wrapperValueField, v)
	})
}

func boolValueToWire(w *wire.Writer, num protowire.Number, v bool) {
	w.Message(num, func(w *wire.Writer) {
		w.Bool(wrapperValueField, v)
	})
}

func stringValueFromWire(r *wire.Reader) (string, error) {
	var v string
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case wrapperValueField:
			v, err = r.String()
		default:
			err = r.Skip()
		}
		if err != nil {
			return "", err
		}
	}
	return v, r.Err()
}

func bytesValueFromWire(r *wire.Reader) ([]byte, error) {
	var v []byte
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case wrapperValueField:
			v, err = r.Bytes()
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	if v == nil {
		v = []byte{}
	}
	return v, r.Err()
}

func boolValueFromWire(r *wire.Reader) (bool, error) {
	var v bool
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case wrapperValueField:
			v, err = r.Bool()
		default:
			err = r.Skip()
		}
		if err != nil {
			return false, err
		}
	}
	return v, r.Err()
}
