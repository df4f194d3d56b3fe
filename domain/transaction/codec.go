package transaction

import (
	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/domain/keys"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
)

// Transaction body field numbers (fixed external contract). The data
// variant fields live in data.go next to the Data implementations.
const (
	bodyTransactionIDField = 1
	bodyNodeAccountField   = 2
	bodyFeeField           = 3
	bodyDurationField      = 4
	bodyMemoField          = 6
)

// Envelope field numbers: a SignedTransaction pairs the body bytes with the
// signature map, and the outer Transaction wraps its serialization.
const (
	signedTxBodyBytesField = 1
	signedTxSigMapField    = 2
	sigMapPairField        = 1
	sigPairPrefixField     = 1
	sigPairEd25519Field    = 3
	sigPairECDSAField      = 6
	txSignedBytesField     = 5
	txListEntryField       = 1
)

// TransactionResponse field numbers.
const (
	responsePrecheckField = 1
	responseCostField     = 2
)

// marshalBody serializes the transaction body against one candidate node.
// These are the canonical bytes signatures are computed over; the encoding
// is deterministic, so re-serializing an identical body yields identical
// bytes.
func marshalBody(body *Body, node entities.AccountID) []byte {
	w := wire.NewWriter()
	w.Message(bodyTransactionIDField, body.TransactionID.ToWire)
	w.Message(bodyNodeAccountField, node.ToWire)
	w.Uint64(bodyFeeField, uint64(body.MaxTransactionFee.Tinybars()))
	w.Message(bodyDurationField, func(w *wire.Writer) {
		entities.DurationToWire(w, body.ValidDuration)
	})
	w.String(bodyMemoField, body.Memo)
	w.Message(body.Data.fieldNumber(), body.Data.toWire)
	return w.Encoded()
}

// unmarshalBody decodes a transaction body, returning the body and the node
// account ID it was serialized against.
func unmarshalBody(b []byte) (Body, entities.AccountID, error) {
	var body Body
	var node entities.AccountID
	r := wire.NewReader(b)
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case bodyTransactionIDField:
			err = r.Message(func(r *wire.Reader) error {
				body.TransactionID, err = entities.TransactionIDFromWire(r)
				return err
			})
		case bodyNodeAccountField:
			err = r.Message(func(r *wire.Reader) error {
				node, err = entities.AccountIDFromWire(r)
				return err
			})
		case bodyFeeField:
			var fee uint64
			if fee, err = r.Uint64(); err == nil {
				body.MaxTransactionFee = entities.HbarFromTinybars(int64(fee))
			}
		case bodyDurationField:
			err = r.Message(func(r *wire.Reader) error {
				body.ValidDuration, err = entities.DurationFromWire(r)
				return err
			})
		case bodyMemoField:
			body.Memo, err = r.String()
		default:
			var decoded Data
			decoded, err = dataFromWire(r)
			if decoded != nil {
				if body.Data != nil {
					return Body{}, entities.AccountID{}, errors.Wrap(wire.ErrMalformedEncoding,
						"transaction body has more than one data variant")
				}
				body.Data = decoded
			}
		}
		if err != nil {
			return Body{}, entities.AccountID{}, err
		}
	}
	if err := r.Err(); err != nil {
		return Body{}, entities.AccountID{}, err
	}
	if body.Data == nil {
		return Body{}, entities.AccountID{}, errors.Wrap(wire.ErrMalformedEncoding,
			"transaction body has no data variant")
	}
	return body, node, nil
}

// dataFromWire decodes the current field as a data variant, or skips it when
// the field number is not a known variant.
func dataFromWire(r *wire.Reader) (Data, error) {
	var data Data
	var err error
	switch r.FieldNumber() {
	case cryptoTransferField:
		err = r.Message(func(r *wire.Reader) error {
			data, err = transferDataFromWire(r)
			return err
		})
	case topicCreateField:
		err = r.Message(func(r *wire.Reader) error {
			data, err = topicCreateFromWire(r)
			return err
		})
	case topicUpdateField:
		err = r.Message(func(r *wire.Reader) error {
			data, err = topicUpdateFromWire(r)
			return err
		})
	case nodeCreateField:
		err = r.Message(func(r *wire.Reader) error {
			data, err = nodeCreateFromWire(r)
			return err
		})
	case nodeUpdateField:
		err = r.Message(func(r *wire.Reader) error {
			data, err = nodeUpdateFromWire(r)
			return err
		})
	case nodeDeleteField:
		err = r.Message(func(r *wire.Reader) error {
			data, err = nodeDeleteFromWire(r)
			return err
		})
	default:
		return nil, r.Skip()
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// buildEnvelope wraps one node's body bytes and signatures into the outer
// Transaction message submitted on the wire. The signature map is written
// only once at least one signature exists, so an unsigned serialization is
// just the body.
func buildEnvelope(bodyBytes []byte, pairs []keys.SignaturePair) []byte {
	signed := wire.NewWriter()
	signed.Bytes(signedTxBodyBytesField, bodyBytes)
	if len(pairs) > 0 {
		signed.Message(signedTxSigMapField, func(w *wire.Writer) {
			for _, p := range pairs {
				pair := p
				w.Message(sigMapPairField, func(w *wire.Writer) {
					sigPairToWire(w, pair)
				})
			}
		})
	}
	envelope := wire.NewWriter()
	envelope.Bytes(txSignedBytesField, signed.Encoded())
	return envelope.Encoded()
}

func sigPairToWire(w *wire.Writer, pair keys.SignaturePair) {
	w.Bytes(sigPairPrefixField, pair.PublicKey.BytesRaw())
	if pair.PublicKey.IsEd25519() {
		w.Bytes(sigPairEd25519Field, pair.Signature)
	} else {
		w.Bytes(sigPairECDSAField, pair.Signature)
	}
}

// parseEnvelope decodes one outer Transaction message into body bytes and
// signature pairs.
func parseEnvelope(b []byte) (bodyBytes []byte, pairs []keys.SignaturePair, err error) {
	var signedBytes []byte
	r := wire.NewReader(b)
	for r.Next() {
		switch r.FieldNumber() {
		case txSignedBytesField:
			signedBytes, err = r.Bytes()
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if err = r.Err(); err != nil {
		return nil, nil, err
	}
	if signedBytes == nil {
		return nil, nil, errors.Wrap(wire.ErrMalformedEncoding, "transaction envelope has no signed bytes")
	}

	r = wire.NewReader(signedBytes)
	for r.Next() {
		switch r.FieldNumber() {
		case signedTxBodyBytesField:
			bodyBytes, err = r.Bytes()
		case signedTxSigMapField:
			err = r.Message(func(r *wire.Reader) error {
				pairs, err = sigMapFromWire(r)
				return err
			})
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if err = r.Err(); err != nil {
		return nil, nil, err
	}
	if bodyBytes == nil {
		return nil, nil, errors.Wrap(wire.ErrMalformedEncoding, "signed transaction has no body bytes")
	}
	return bodyBytes, pairs, nil
}

func sigMapFromWire(r *wire.Reader) ([]keys.SignaturePair, error) {
	var pairs []keys.SignaturePair
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case sigMapPairField:
			err = r.Message(func(r *wire.Reader) error {
				pair, pairErr := sigPairFromWire(r)
				pairs = append(pairs, pair)
				return pairErr
			})
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	return pairs, r.Err()
}

func sigPairFromWire(r *wire.Reader) (keys.SignaturePair, error) {
	var prefix, ed25519Sig, ecdsaSig []byte
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case sigPairPrefixField:
			prefix, err = r.Bytes()
		case sigPairEd25519Field:
			ed25519Sig, err = r.Bytes()
		case sigPairECDSAField:
			ecdsaSig, err = r.Bytes()
		default:
			err = r.Skip()
		}
		if err != nil {
			return keys.SignaturePair{}, err
		}
	}
	if err := r.Err(); err != nil {
		return keys.SignaturePair{}, err
	}
	switch {
	case ed25519Sig != nil:
		pub, err := keys.PublicKeyFromBytesEd25519(prefix)
		if err != nil {
			return keys.SignaturePair{}, err
		}
		return keys.SignaturePair{PublicKey: pub, Signature: ed25519Sig}, nil
	case ecdsaSig != nil:
		pub, err := keys.PublicKeyFromBytesECDSA(prefix)
		if err != nil {
			return keys.SignaturePair{}, err
		}
		return keys.SignaturePair{PublicKey: pub, Signature: ecdsaSig}, nil
	}
	return keys.SignaturePair{}, errors.Wrap(wire.ErrMalformedEncoding, "signature pair has no signature")
}

// precheckFromResponse decodes a TransactionResponse into the node-local
// precheck status and, for fee probes, the estimated cost.
func precheckFromResponse(b []byte) (entities.Status, entities.Hbar, error) {
	var status entities.Status
	var cost entities.Hbar
	r := wire.NewReader(b)
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case responsePrecheckField:
			var v uint64
			if v, err = r.Uint64(); err == nil {
				status = entities.Status(v)
			}
		case responseCostField:
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
