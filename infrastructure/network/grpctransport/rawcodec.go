package grpctransport

import (
	"github.com/pkg/errors"
)

// rawMessage is a pre-serialized request or response. Bodies are serialized
// and signed before a node is chosen, so the transport must never touch the
// bytes; this codec moves them through grpc untouched.
type rawMessage []byte

type rawCodec struct{}

func (rawCodec) Marshal(v interface{}) ([]byte, error) {
	msg, ok := v.(*rawMessage)
	if !ok {
		return nil, errors.Errorf("raw codec cannot marshal %T", v)
	}
	return *msg, nil
}

func (rawCodec) Unmarshal(data []byte, v interface{}) error {
	msg, ok := v.(*rawMessage)
	if !ok {
		return errors.Errorf("raw codec cannot unmarshal into %T", v)
	}
	*msg = append((*msg)[:0], data...)
	return nil
}

func (rawCodec) Name() string {
	return "proto" // wire-compatible: the payloads are valid protobuf bytes
}
