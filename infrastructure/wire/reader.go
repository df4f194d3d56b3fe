package wire

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformedEncoding is returned when bytes do not match the expected
// message schema. Decoding errors are never retried.
var ErrMalformedEncoding = errors.New("malformed wire encoding")

// Reader walks the fields of an encoded message. Usage:
//
//	r := wire.NewReader(buf)
//	for r.Next() {
//		switch r.FieldNumber() {
//		...
//		default:
//			err = r.Skip()
//		}
//	}
//	if err := r.Err(); err != nil { ... }
type Reader struct {
	buf []byte
	num protowire.Number
	typ protowire.Type
	err error
}

// NewReader returns a Reader over an encoded message.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Next advances to the next field. It returns false at the end of the
// message or on a malformed tag; check Err afterwards.
func (r *Reader) Next() bool {
	if r.err != nil || len(r.buf) == 0 {
		return false
	}
	num, typ, n := protowire.ConsumeTag(r.buf)
	if n < 0 {
		r.err = errors.Wrap(ErrMalformedEncoding, "invalid field tag")
		return false
	}
	r.buf = r.buf[n:]
	r.num, r.typ = num, typ
	return true
}

// Err returns the first decoding error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// FieldNumber returns the field number of the current field.
func (r *Reader) FieldNumber() protowire.Number {
	return r.num
}

func (r *Reader) fail(format string, args ...interface{}) error {
	err := errors.Wrapf(ErrMalformedEncoding, format, args...)
	r.err = err
	return err
}

// Uint64 consumes the current field as a varint.
func (r *Reader) Uint64() (uint64, error) {
	if r.typ != protowire.VarintType {
		return 0, r.fail("field %d: expected varint, got wire type %d", r.num, r.typ)
	}
	v, n := protowire.ConsumeVarint(r.buf)
	if n < 0 {
		return 0, r.fail("field %d: truncated varint", r.num)
	}
	r.buf = r.buf[n:]
	return v, nil
}

// Int64 consumes the current field as a signed varint (two's complement).
func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Int32 consumes the current field as a 32-bit signed varint.
func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint64()
	return int32(v), err
}

// Sint64 consumes the current field as a zigzag-encoded varint.
func (r *Reader) Sint64() (int64, error) {
	v, err := r.Uint64()
	return protowire.DecodeZigZag(v), err
}

// Bool consumes the current field as a varint-encoded bool.
func (r *Reader) Bool() (bool, error) {
	v, err := r.Uint64()
	return v != 0, err
}

// Bytes consumes the current length-delimited field, returning a copy.
func (r *Reader) Bytes() ([]byte, error) {
	if r.typ != protowire.BytesType {
		return nil, r.fail("field %d: expected length-delimited, got wire type %d", r.num, r.typ)
	}
	v, n := protowire.ConsumeBytes(r.buf)
	if n < 0 {
		return nil, r.fail("field %d: truncated length-delimited field", r.num)
	}
	r.buf = r.buf[n:]
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// String consumes the current length-delimited field as a string.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	return string(b), err
}

// Message consumes the current length-delimited field and decodes it with
// the given function.
func (r *Reader) Message(decode func(*Reader) error) error {
	b, err := r.Bytes()
	if err != nil {
		return err
	}
	nested := NewReader(b)
	if err := decode(nested); err != nil {
		r.err = err
		return err
	}
	if err := nested.Err(); err != nil {
		r.err = err
		return err
	}
	return nil
}

// Skip consumes and discards the current field.
func (r *Reader) Skip() error {
	n := protowire.ConsumeFieldValue(r.num, r.typ, r.buf)
	if n < 0 {
		return r.fail("field %d: truncated field value", r.num)
	}
	r.buf = r.buf[n:]
	return nil
}
