package query

import (
	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
)

// Receipt is the consensus-confirmed outcome of a transaction: the terminal
// status, plus whichever entity the operation created.
type Receipt struct {
	Status entities.Status
	// AccountID is set by account-creating operations.
	AccountID *entities.AccountID
	// TopicID is set by topic creation.
	TopicID *entities.TopicID
	// NodeID is set by node creation, zero otherwise.
	NodeID uint64
}

// ReceiptQuery looks up the receipt of a submitted transaction. Receipts
// are held by every node for a bounded window after consensus, so the query
// can be served by any candidate node.
type ReceiptQuery struct {
	queryBase
	TransactionID entities.TransactionID
}

// NewReceiptQuery builds a receipt lookup for one transaction family.
func NewReceiptQuery(id entities.TransactionID) *ReceiptQuery {
	return &ReceiptQuery{TransactionID: id}
}

// GrpcMethod returns the full gRPC method serving receipt lookups.
func (q *ReceiptQuery) GrpcMethod() string {
	return "/proto.CryptoService/getTransactionReceipts"
}

const (
	receiptQueryTxIDField = 2

	receiptResponseReceiptField = 2

	receiptStatusField  = 1
	receiptAccountField = 2
	receiptTopicField   = 6
	receiptNodeIDField  = 15
)

// RequestFor returns the serialized query. The bytes are identical for
// every node; the parameter exists so queries and transactions submit
// through the same dispatch path.
func (q *ReceiptQuery) RequestFor(entities.AccountID) ([]byte, error) {
	return wrapQuery(queryReceiptField, func(w *wire.Writer) {
		w.Message(receiptQueryTxIDField, q.TransactionID.ToWire)
	}), nil
}

// PrecheckStatus extracts the node-local precheck status from a raw
// response.
func (q *ReceiptQuery) PrecheckStatus(response []byte) (entities.Status, error) {
	status, _, err := unwrapResponse(response, queryReceiptField, nil)
	return status, err
}

// ReceiptFromResponse extracts the receipt from a raw response. Call it
// only after PrecheckStatus reported OK; a response without a receipt is
// malformed.
func ReceiptFromResponse(response []byte) (Receipt, error) {
	var receipt Receipt
	found := false
	_, _, err := unwrapResponse(response, queryReceiptField, func(r *wire.Reader) error {
		switch r.FieldNumber() {
		case receiptResponseReceiptField:
			found = true
			return r.Message(func(r *wire.Reader) error {
				var decodeErr error
				receipt, decodeErr = receiptFromWire(r)
				return decodeErr
			})
		default:
			return r.Skip()
		}
	})
	if err != nil {
		return Receipt{}, err
	}
	if !found {
		return Receipt{}, errors.Wrap(wire.ErrMalformedEncoding, "response carries no receipt")
	}
	return receipt, nil
}

func receiptFromWire(r *wire.Reader) (Receipt, error) {
	var receipt Receipt
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case receiptStatusField:
			var v uint64
			if v, err = r.Uint64(); err == nil {
				receipt.Status = entities.Status(v)
			}
		case receiptAccountField:
			err = r.Message(func(r *wire.Reader) error {
				account, accountErr := entities.AccountIDFromWire(r)
				receipt.AccountID = &account
				return accountErr
			})
		case receiptTopicField:
			err = r.Message(func(r *wire.Reader) error {
				topic, topicErr := entities.TopicIDFromWire(r)
				receipt.TopicID = &topic
				return topicErr
			})
		case receiptNodeIDField:
			receipt.NodeID, err = r.Uint64()
		default:
			err = r.Skip()
		}
		if err != nil {
			return Receipt{}, err
		}
	}
	return receipt, r.Err()
}
