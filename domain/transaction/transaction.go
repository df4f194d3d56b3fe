package transaction

import (
	"crypto/sha512"
	"time"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/domain/keys"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
)

// State is a transaction's position in the freeze/sign/seal lifecycle.
// Transitions only move forward, except that adding a signature to a sealed
// transaction drops it back to StateSigned so the envelopes are rebuilt.
type State int

const (
	// StateBuilding accepts mutations; nothing is serialized yet.
	StateBuilding State = iota
	// StateFrozen has one serialized body per candidate node; the bytes
	// signatures are computed over are now fixed.
	StateFrozen
	// StateSigned carries at least one signature per body.
	StateSigned
	// StateSealed has the submission envelopes built.
	StateSealed
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateFrozen:
		return "frozen"
	case StateSigned:
		return "signed"
	case StateSealed:
		return "sealed"
	}
	return "unknown"
}

// ErrTransactionFrozen is returned by mutators once a transaction is frozen.
var ErrTransactionFrozen = errors.New("transaction is frozen")

// maxMemoBytes caps the transaction memo, as enforced by the network.
const maxMemoBytes = 100

// Defaults applied by New. The fee is a maximum: the network charges the
// actual cost and the payer only needs this much available.
var (
	DefaultMaxTransactionFee = entities.NewHbar(2)
	DefaultValidDuration     = 120 * time.Second
)

// Body is everything that gets serialized into the signed transaction body,
// except the node account ID, which is supplied per candidate node at
// freeze time.
type Body struct {
	TransactionID     entities.TransactionID
	NodeAccountIDs    []entities.AccountID
	MaxTransactionFee entities.Hbar
	ValidDuration     time.Duration
	Memo              string
	Data              Data
}

// nodeChunk is one candidate node's serialization: the signed body bytes,
// the signatures over them, and the lazily built submission envelope.
type nodeChunk struct {
	node       entities.AccountID
	bodyBytes  []byte
	signatures []keys.SignaturePair
	envelope   []byte
}

// Transaction is one logical ledger operation, assembled mutable, then
// frozen against a set of candidate nodes and signed. Methods are not safe
// for concurrent use; freeze and sign a transaction before sharing it.
type Transaction struct {
	body   Body
	state  State
	chunks []nodeChunk
}

// New returns a transaction carrying the given operation payload, with the
// default fee limit and validity window.
func New(data Data) *Transaction {
	return &Transaction{
		body: Body{
			MaxTransactionFee: DefaultMaxTransactionFee,
			ValidDuration:     DefaultValidDuration,
			Data:              data,
		},
	}
}

// State returns the lifecycle state.
func (tx *Transaction) State() State {
	return tx.state
}

// TransactionID returns the transaction ID, zero until set or frozen.
func (tx *Transaction) TransactionID() entities.TransactionID {
	return tx.body.TransactionID
}

// Data returns the operation payload.
func (tx *Transaction) Data() Data {
	return tx.body.Data
}

// Memo returns the transaction memo.
func (tx *Transaction) Memo() string {
	return tx.body.Memo
}

// MaxTransactionFee returns the fee limit.
func (tx *Transaction) MaxTransactionFee() entities.Hbar {
	return tx.body.MaxTransactionFee
}

func (tx *Transaction) requireBuilding() error {
	if tx.state != StateBuilding {
		return errors.Wrapf(ErrTransactionFrozen, "cannot mutate a %s transaction", tx.state)
	}
	return nil
}

// SetTransactionID fixes the transaction ID instead of generating one at
// freeze time.
func (tx *Transaction) SetTransactionID(id entities.TransactionID) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.body.TransactionID = id
	return nil
}

// SetNodeAccountIDs fixes the candidate node set ahead of Freeze.
func (tx *Transaction) SetNodeAccountIDs(nodes ...entities.AccountID) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.body.NodeAccountIDs = append([]entities.AccountID(nil), nodes...)
	return nil
}

// SetMaxTransactionFee overrides the default fee limit.
func (tx *Transaction) SetMaxTransactionFee(fee entities.Hbar) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.body.MaxTransactionFee = fee
	return nil
}

// SetValidDuration overrides the default validity window.
func (tx *Transaction) SetValidDuration(d time.Duration) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.body.ValidDuration = d
	return nil
}

// SetMemo sets the transaction memo.
func (tx *Transaction) SetMemo(memo string) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.body.Memo = memo
	return nil
}

// Freeze fixes the transaction against its candidate nodes and serializes
// one body per node. Nodes given here replace any set earlier. After Freeze
// the signable bytes never change, so a signature stays valid no matter
// which candidate node the transaction is eventually submitted to.
func (tx *Transaction) Freeze(nodes ...entities.AccountID) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	if len(nodes) > 0 {
		tx.body.NodeAccountIDs = append([]entities.AccountID(nil), nodes...)
	}
	if len(tx.body.NodeAccountIDs) == 0 {
		return errors.New("cannot freeze without candidate nodes")
	}
	if tx.body.TransactionID.IsZero() {
		return errors.New("cannot freeze without a transaction ID")
	}
	if tx.body.Data == nil {
		return errors.New("cannot freeze without operation data")
	}
	if len(tx.body.Memo) > maxMemoBytes {
		return errors.Errorf("memo is %d bytes, the maximum is %d", len(tx.body.Memo), maxMemoBytes)
	}
	if tx.body.ValidDuration <= 0 {
		return errors.New("transaction validity window must be positive")
	}
	if err := tx.body.Data.validate(); err != nil {
		return err
	}

	tx.chunks = make([]nodeChunk, 0, len(tx.body.NodeAccountIDs))
	for _, node := range tx.body.NodeAccountIDs {
		tx.chunks = append(tx.chunks, nodeChunk{
			node:      node,
			bodyBytes: marshalBody(&tx.body, node),
		})
	}
	tx.state = StateFrozen
	return nil
}

// Sign signs every per-node body with the given private key. Signing twice
// with the same key is a no-op. Signing a sealed transaction invalidates
// the built envelopes; they are rebuilt on the next submission.
func (tx *Transaction) Sign(sk keys.PrivateKey) error {
	pub, err := sk.PublicKey()
	if err != nil {
		return err
	}
	return tx.SignWith(pub, sk.Sign)
}

// SignWith signs every per-node body with an external signing function, for
// key material held outside the process. The function must produce a
// signature verifiable by pub.
func (tx *Transaction) SignWith(pub keys.PublicKey, sign func([]byte) ([]byte, error)) error {
	if tx.state == StateBuilding {
		return errors.New("cannot sign before freezing")
	}
	if tx.signedBy(pub) {
		return nil
	}
	for i := range tx.chunks {
		sig, err := sign(tx.chunks[i].bodyBytes)
		if err != nil {
			return err
		}
		tx.chunks[i].signatures = append(tx.chunks[i].signatures,
			keys.SignaturePair{PublicKey: pub, Signature: sig})
		tx.chunks[i].envelope = nil
	}
	tx.state = StateSigned
	return nil
}

// SignWithKey resolves a structured key against a signer and attaches every
// signature needed to satisfy it.
func (tx *Transaction) SignWithKey(signer *keys.Signer, key keys.Key) error {
	if tx.state == StateBuilding {
		return errors.New("cannot sign before freezing")
	}
	for i := range tx.chunks {
		pairs, err := signer.SignaturesFor(key, tx.chunks[i].bodyBytes)
		if err != nil {
			return err
		}
		for _, pair := range pairs {
			tx.chunks[i].signatures = keys.DedupAppend(tx.chunks[i].signatures, pair)
		}
		tx.chunks[i].envelope = nil
	}
	tx.state = StateSigned
	return nil
}

// signedBy reports whether pub has already signed. All chunks carry the
// same signer set, so the first chunk answers for all.
func (tx *Transaction) signedBy(pub keys.PublicKey) bool {
	if len(tx.chunks) == 0 {
		return false
	}
	for _, pair := range tx.chunks[0].signatures {
		if pair.PublicKey.Equal(pub) {
			return true
		}
	}
	return false
}

// CandidateNodes returns the nodes the transaction was frozen against.
func (tx *Transaction) CandidateNodes() []entities.AccountID {
	return append([]entities.AccountID(nil), tx.body.NodeAccountIDs...)
}

// GrpcMethod returns the full gRPC method that submits this transaction.
func (tx *Transaction) GrpcMethod() string {
	return tx.body.Data.GrpcMethod()
}

// RequestFor returns the submission envelope for one candidate node,
// building and caching it on first use. The transaction must carry at
// least one signature.
func (tx *Transaction) RequestFor(node entities.AccountID) ([]byte, error) {
	if tx.state < StateSigned {
		return nil, errors.Errorf("cannot submit a %s transaction", tx.state)
	}
	chunk := tx.chunkFor(node)
	if chunk == nil {
		return nil, errors.Errorf("node %s is not a candidate for transaction %s",
			node, tx.body.TransactionID)
	}
	if chunk.envelope == nil {
		chunk.envelope = buildEnvelope(chunk.bodyBytes, chunk.signatures)
	}
	tx.state = StateSealed
	return chunk.envelope, nil
}

// PrecheckStatus extracts the node-local precheck status from a raw
// submission response.
func (tx *Transaction) PrecheckStatus(response []byte) (entities.Status, error) {
	status, _, err := precheckFromResponse(response)
	return status, err
}

// TransactionHash returns the SHA-384 hash of the envelope submitted to the
// given node, the handle mirror nodes index transactions by.
func (tx *Transaction) TransactionHash(node entities.AccountID) ([]byte, error) {
	envelope, err := tx.RequestFor(node)
	if err != nil {
		return nil, err
	}
	hash := sha512.Sum384(envelope)
	return hash[:], nil
}

func (tx *Transaction) chunkFor(node entities.AccountID) *nodeChunk {
	for i := range tx.chunks {
		if tx.chunks[i].node == node {
			return &tx.chunks[i]
		}
	}
	return nil
}

// SignaturesFor returns the signature pairs attached for one candidate
// node.
func (tx *Transaction) SignaturesFor(node entities.AccountID) ([]keys.SignaturePair, error) {
	chunk := tx.chunkFor(node)
	if chunk == nil {
		return nil, errors.Errorf("node %s is not a candidate for transaction %s",
			node, tx.body.TransactionID)
	}
	return append([]keys.SignaturePair(nil), chunk.signatures...), nil
}

// ToBytes serializes a frozen transaction, signatures included, for storage
// or transport to another signer. The result is a list with one envelope
// per candidate node.
func (tx *Transaction) ToBytes() ([]byte, error) {
	if tx.state == StateBuilding {
		return nil, errors.New("cannot serialize before freezing")
	}
	w := wire.NewWriter()
	for i := range tx.chunks {
		chunk := &tx.chunks[i]
		w.Bytes(txListEntryField, buildEnvelope(chunk.bodyBytes, chunk.signatures))
	}
	return w.Encoded(), nil
}

// FromBytes restores a transaction serialized with ToBytes. The restored
// transaction is frozen, keeps its original per-node bodies byte for byte,
// and accepts further signatures.
func FromBytes(b []byte) (*Transaction, error) {
	var envelopes [][]byte
	r := wire.NewReader(b)
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case txListEntryField:
			var envelope []byte
			if envelope, err = r.Bytes(); err == nil {
				envelopes = append(envelopes, envelope)
			}
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if len(envelopes) == 0 {
		return nil, errors.Wrap(wire.ErrMalformedEncoding, "transaction list is empty")
	}

	tx := &Transaction{state: StateFrozen}
	signed := false
	for i, envelope := range envelopes {
		bodyBytes, pairs, err := parseEnvelope(envelope)
		if err != nil {
			return nil, err
		}
		body, node, err := unmarshalBody(bodyBytes)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			tx.body = body
		} else if !body.TransactionID.Equal(tx.body.TransactionID) {
			return nil, errors.Wrap(wire.ErrMalformedEncoding,
				"transaction list mixes different transaction IDs")
		}
		tx.body.NodeAccountIDs = append(tx.body.NodeAccountIDs, node)
		tx.chunks = append(tx.chunks, nodeChunk{
			node:       node,
			bodyBytes:  bodyBytes,
			signatures: pairs,
		})
		if len(pairs) > 0 {
			signed = true
		}
	}
	if signed {
		tx.state = StateSigned
	}
	return tx, nil
}
