// Package wire implements the deterministic protobuf encoding the network
// expects. Encoders append fields in ascending field-number order and omit
// absent optional fields entirely, so identical inputs always produce
// byte-identical output. Signatures are computed over these bytes, which is
// why no part of the encoding may depend on map iteration order or on
// sentinel values for unset fields.
package wire

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Writer accumulates an encoded message. The zero value is ready to use.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Encoded returns the encoded message accumulated so far.
func (w *Writer) Encoded() []byte {
	return w.buf
}

// Len returns the current encoded length.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Uint64 appends a varint field, omitting it when v is zero.
func (w *Writer) Uint64(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	w.buf = protowire.AppendTag(w.buf, num, protowire.VarintType)
	w.buf = protowire.AppendVarint(w.buf, v)
}

// Int64 appends a varint field from a signed value (two's complement, like
// proto int64/int32), omitting it when v is zero.
func (w *Writer) Int64(num protowire.Number, v int64) {
	w.Uint64(num, uint64(v))
}

// Int32 appends a varint field from a 32-bit signed value, omitting zero.
func (w *Writer) Int32(num protowire.Number, v int32) {
	w.Uint64(num, uint64(int64(v)))
}

// Sint64 appends a zigzag-encoded varint field, omitting zero.
func (w *Writer) Sint64(num protowire.Number, v int64) {
	if v == 0 {
		return
	}
	w.buf = protowire.AppendTag(w.buf, num, protowire.VarintType)
	w.buf = protowire.AppendVarint(w.buf, protowire.EncodeZigZag(v))
}

// Bool appends a varint field, omitting it when v is false.
func (w *Writer) Bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	w.Uint64(num, 1)
}

// String appends a length-delimited field, omitting it when s is empty.
func (w *Writer) String(num protowire.Number, s string) {
	if s == "" {
		return
	}
	w.buf = protowire.AppendTag(w.buf, num, protowire.BytesType)
	w.buf = protowire.AppendString(w.buf, s)
}

// Bytes appends a length-delimited field, omitting it when b is empty.
func (w *Writer) Bytes(num protowire.Number, b []byte) {
	if len(b) == 0 {
		return
	}
	w.buf = protowire.AppendTag(w.buf, num, protowire.BytesType)
	w.buf = protowire.AppendBytes(w.buf, b)
}

// Message appends an embedded message field. The field is always written,
// even when the nested encoding is empty: message presence is how optional
// sub-records are expressed on the wire, so the caller decides presence by
// not calling Message at all.
func (w *Writer) Message(num protowire.Number, encode func(*Writer)) {
	nested := Writer{}
	encode(&nested)
	w.buf = protowire.AppendTag(w.buf, num, protowire.BytesType)
	w.buf = protowire.AppendBytes(w.buf, nested.buf)
}
