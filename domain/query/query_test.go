package query

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
)

func TestBalanceQueryBytes(t *testing.T) {
	q := NewBalanceQuery(entities.NewAccountID(0, 0, 7))
	request, err := q.RequestFor(entities.NewAccountID(0, 0, 3))
	if err != nil {
		t.Fatalf("RequestFor: %+v", err)
	}
	// Query { cryptogetAccountBalance { header {} accountID { 7 } } }
	const expected = "3a060a0012021807"
	if hex.EncodeToString(request) != expected {
		t.Fatalf("request bytes changed:\nexpected %s\ngot      %s",
			expected, hex.EncodeToString(request))
	}
}

func TestQueryBytesAreNodeIndependent(t *testing.T) {
	q := NewReceiptQuery(entities.TransactionID{
		PayerAccountID: entities.NewAccountID(0, 0, 5006),
		ValidStart:     time.Unix(1554158542, 0).UTC(),
	})
	first, err := q.RequestFor(entities.NewAccountID(0, 0, 3))
	if err != nil {
		t.Fatalf("RequestFor: %+v", err)
	}
	second, err := q.RequestFor(entities.NewAccountID(0, 0, 4))
	if err != nil {
		t.Fatalf("RequestFor: %+v", err)
	}
	if hex.EncodeToString(first) != hex.EncodeToString(second) {
		t.Fatalf("query bytes depend on the node")
	}
}

func TestReceiptQueryRequestStructure(t *testing.T) {
	txID := entities.TransactionID{
		PayerAccountID: entities.NewAccountID(0, 0, 5006),
		ValidStart:     time.Unix(1554158542, 0).UTC(),
	}
	q := NewReceiptQuery(txID)
	request, err := q.RequestFor(entities.AccountID{})
	if err != nil {
		t.Fatalf("RequestFor: %+v", err)
	}

	var decoded entities.TransactionID
	sawHeader := false
	r := wire.NewReader(request)
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case queryReceiptField:
			err = r.Message(func(r *wire.Reader) error {
				for r.Next() {
					var inner error
					switch r.FieldNumber() {
					case queryHeaderField:
						sawHeader = true
						inner = r.Skip()
					case receiptQueryTxIDField:
						inner = r.Message(func(r *wire.Reader) error {
							var idErr error
							decoded, idErr = entities.TransactionIDFromWire(r)
							return idErr
						})
					default:
						inner = r.Skip()
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
			t.Fatalf("decoding request: %+v", err)
		}
	}
	if !sawHeader {
		t.Errorf("request carries no query header")
	}
	if !decoded.Equal(txID) {
		t.Errorf("transaction ID changed: expected %s, got %s", txID, decoded)
	}
}

func receiptResponse(precheck entities.Status, receipt *Receipt) []byte {
	w := wire.NewWriter()
	w.Message(queryReceiptField, func(w *wire.Writer) {
		w.Message(responseHeaderField, func(w *wire.Writer) {
			w.Uint64(responseHeaderStatusField, uint64(precheck))
		})
		if receipt != nil {
			w.Message(receiptResponseReceiptField, func(w *wire.Writer) {
				w.Uint64(receiptStatusField, uint64(receipt.Status))
				if receipt.TopicID != nil {
					w.Message(receiptTopicField, receipt.TopicID.ToWire)
				}
				w.Uint64(receiptNodeIDField, receipt.NodeID)
			})
		}
	})
	return w.Encoded()
}

func TestReceiptResponseDecoding(t *testing.T) {
	topic := entities.NewTopicID(0, 0, 1234)
	response := receiptResponse(entities.StatusOK, &Receipt{
		Status:  entities.StatusSuccess,
		TopicID: &topic,
		NodeID:  9,
	})

	q := NewReceiptQuery(entities.TransactionID{})
	precheck, err := q.PrecheckStatus(response)
	if err != nil {
		t.Fatalf("PrecheckStatus: %+v", err)
	}
	if precheck != entities.StatusOK {
		t.Fatalf("expected OK, got %s", precheck)
	}

	receipt, err := ReceiptFromResponse(response)
	if err != nil {
		t.Fatalf("ReceiptFromResponse: %+v", err)
	}
	if receipt.Status != entities.StatusSuccess {
		t.Errorf("expected SUCCESS, got %s", receipt.Status)
	}
	if receipt.TopicID == nil || *receipt.TopicID != topic {
		t.Errorf("expected topic %s, got %v", topic, receipt.TopicID)
	}
	if receipt.NodeID != 9 {
		t.Errorf("expected node ID 9, got %d", receipt.NodeID)
	}
}

func TestReceiptResponsePrecheckFailure(t *testing.T) {
	response := receiptResponse(entities.StatusBusy, nil)
	q := NewReceiptQuery(entities.TransactionID{})
	precheck, err := q.PrecheckStatus(response)
	if err != nil {
		t.Fatalf("PrecheckStatus: %+v", err)
	}
	if precheck != entities.StatusBusy {
		t.Fatalf("expected BUSY, got %s", precheck)
	}
	if _, err := ReceiptFromResponse(response); err == nil {
		t.Fatalf("expected an error for a response without a receipt")
	}
}

func TestReceiptResponseWrongVariant(t *testing.T) {
	// A balance response is not a receipt response.
	w := wire.NewWriter()
	w.Message(queryBalanceField, func(w *wire.Writer) {
		w.Message(responseHeaderField, func(*wire.Writer) {})
	})
	q := NewReceiptQuery(entities.TransactionID{})
	if _, err := q.PrecheckStatus(w.Encoded()); err == nil {
		t.Fatalf("expected an error for a mismatched response variant")
	}
}

func TestBalanceResponseDecoding(t *testing.T) {
	account := entities.NewAccountID(0, 0, 7)
	w := wire.NewWriter()
	w.Message(queryBalanceField, func(w *wire.Writer) {
		w.Message(responseHeaderField, func(*wire.Writer) {})
		w.Message(balanceResponseAccountField, account.ToWire)
		w.Uint64(balanceResponseBalanceField, 123_456_789)
	})

	q := NewBalanceQuery(account)
	precheck, err := q.PrecheckStatus(w.Encoded())
	if err != nil {
		t.Fatalf("PrecheckStatus: %+v", err)
	}
	if precheck != entities.StatusOK {
		t.Fatalf("expected OK, got %s", precheck)
	}

	balance, err := BalanceFromResponse(w.Encoded())
	if err != nil {
		t.Fatalf("BalanceFromResponse: %+v", err)
	}
	if balance.Tinybars() != 123_456_789 {
		t.Fatalf("expected 123456789 tinybars, got %d", balance.Tinybars())
	}
}

func TestCandidateNodes(t *testing.T) {
	q := NewBalanceQuery(entities.NewAccountID(0, 0, 7))
	if nodes := q.CandidateNodes(); len(nodes) != 0 {
		t.Fatalf("expected no candidates by default, got %v", nodes)
	}
	q.SetNodeAccountIDs(entities.NewAccountID(0, 0, 3), entities.NewAccountID(0, 0, 4))
	nodes := q.CandidateNodes()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(nodes))
	}
}
