// Package query implements the read-side requests the engine issues: the
// receipt lookup that resolves a submitted transaction's consensus outcome,
// and the account balance probe. Both are answer-only queries: they carry
// no payment transaction and any candidate node may serve them, so the
// request bytes are node-independent.
package query

import (
	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// Query oneof field numbers and the shared header layout (fixed external
// contract). The Response oneof mirrors the Query numbers.
const (
	queryBalanceField = 7
	queryReceiptField = 14

	queryHeaderField          = 1
	responseHeaderField       = 1
	responseHeaderStatusField = 1
	responseHeaderCostField   = 3
)

// queryBase carries the candidate node set shared by every query type.
type queryBase struct {
	nodes []entities.AccountID
}

// SetNodeAccountIDs fixes the candidate nodes the query may be served by.
func (q *queryBase) SetNodeAccountIDs(nodes ...entities.AccountID) {
	q.nodes = append([]entities.AccountID(nil), nodes...)
}

// CandidateNodes returns the candidate node set.
func (q *queryBase) CandidateNodes() []entities.AccountID {
	return append([]entities.AccountID(nil), q.nodes...)
}

// wrapQuery writes the outer Query message: the variant under its oneof
// field, with an empty answer-only header in front of the variant's own
// fields.
func wrapQuery(variant protowire.Number, encode func(*wire.Writer)) []byte {
	w := wire.NewWriter()
	w.Message(variant, func(w *wire.Writer) {
		w.Message(queryHeaderField, func(*wire.Writer) {})
		encode(w)
	})
	return w.Encoded()
}

// unwrapResponse finds the expected variant inside an outer Response
// message and decodes it, returning the header's precheck status and cost
// alongside whatever the decode callback extracted.
func unwrapResponse(b []byte, variant protowire.Number, decode func(*wire.Reader) error) (entities.Status, entities.Hbar, error) {
	var status entities.Status
	var cost entities.Hbar
	found := false
	r := wire.NewReader(b)
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case variant:
			found = true
			err = r.Message(func(r *wire.Reader) error {
				for r.Next() {
					var inner error
					switch r.FieldNumber() {
					case responseHeaderField:
						inner = r.Message(func(r *wire.Reader) error {
							var headerErr error
							status, cost, headerErr = headerFromWire(r)
							return headerErr
						})
					default:
						if decode != nil {
							inner = decode(r)
						} else {
							inner = r.Skip()
						}
					}
					if inner != nil {
						return inner
					}
				}
				return r.Err()
			})
		default:
			err = r.Skip()
		}
		if err != nil {
			return 0, 0, err
		}
	}
	if err := r.Err(); err != nil {
		return 0, 0, err
	}
	if !found {
		return 0, 0, errors.Wrap(wire.ErrMalformedEncoding, "response has no matching query variant")
	}
	return status, cost, nil
}

func headerFromWire(r *wire.Reader) (entities.Status, entities.Hbar, error) {
	var status entities.Status
	var cost entities.Hbar
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case responseHeaderStatusField:
			var v uint64
			if v, err = r.Uint64(); err == nil {
				status = entities.Status(v)
			}
		case responseHeaderCostField:
			var v uint64
			if v, err = r.Uint64(); err == nil {
				cost = entities.HbarFromTinybars(int64(v))
			}
		default:
			err = r.Skip()
		}
		if err != nil {
			return 0, 0, err
		}
	}
	return status, cost, r.Err()
}
