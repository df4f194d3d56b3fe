package transaction

import (
	"bytes"
	"encoding/hex"
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/domain/keys"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
)

func fixedSeed(b byte) []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = b
	}
	return seed
}

func countingSeed() []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return seed
}

func testTransactionID(t *testing.T) entities.TransactionID {
	t.Helper()
	return entities.TransactionID{
		PayerAccountID: entities.NewAccountID(0, 0, 5006),
		ValidStart:     time.Unix(1554158542, 0).UTC(),
	}
}

func testNodeCreate(t *testing.T) *Transaction {
	t.Helper()
	gossip, err := entities.NewIPEndpoint(net.ParseIP("127.0.0.1"), 1234)
	if err != nil {
		t.Fatalf("NewIPEndpoint: %+v", err)
	}
	adminPub, err := keys.PublicKeyFromBytesEd25519(countingSeed())
	if err != nil {
		t.Fatalf("PublicKeyFromBytesEd25519: %+v", err)
	}
	adminKey := keys.KeyFromPublicKey(adminPub)
	return New(&NodeCreateData{
		AccountID:           entities.NewAccountID(0, 0, 5006),
		Description:         "test description",
		GossipEndpoints:     []entities.ServiceEndpoint{gossip},
		GossipCACertificate: []byte{0x01, 0x02, 0x03, 0x04},
		GrpcCertificateHash: []byte{0x05, 0x06, 0x07, 0x08},
		AdminKey:            &adminKey,
	})
}

// The serialized body is a fixed external contract: signatures are computed
// over these exact bytes, so any encoding change invalidates every signature
// in the wild.
func TestNodeCreateBodyBytes(t *testing.T) {
	const expectedHex = "0a0d0a0608cea78ae5051203188e27" + // transactionID
		"12021803" + // node account 0.0.3
		"188084af5f" + // max fee, 2 hbar in tinybars
		"22020878" + // valid duration, 120s
		"b20352" + // node create data
		"0a03188e27" + // node account ID 0.0.5006
		"1210" + "74657374206465736372697074696f6e" + // description
		"1a090a047f00000110d209" + // gossip endpoint 127.0.0.1:1234
		"2a0401020304" + // gossip CA certificate
		"320405060708" + // grpc certificate hash
		"3a221220" + // admin key, ed25519
		"0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"

	tx := testNodeCreate(t)
	if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
		t.Fatalf("SetTransactionID: %+v", err)
	}
	if err := tx.Freeze(entities.NewAccountID(0, 0, 3)); err != nil {
		t.Fatalf("Freeze: %+v", err)
	}

	got := hex.EncodeToString(tx.chunks[0].bodyBytes)
	if got != expectedHex {
		t.Fatalf("body bytes changed:\nexpected %s\ngot      %s", expectedHex, got)
	}
}

func TestFreezeRejectsIncompleteTransactions(t *testing.T) {
	node := entities.NewAccountID(0, 0, 3)

	tx := testNodeCreate(t)
	if err := tx.Freeze(node); err == nil {
		t.Errorf("expected an error freezing without a transaction ID")
	}

	tx = testNodeCreate(t)
	if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
		t.Fatalf("SetTransactionID: %+v", err)
	}
	if err := tx.Freeze(); err == nil {
		t.Errorf("expected an error freezing without candidate nodes")
	}

	tx = NewTransfer()
	if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
		t.Fatalf("SetTransactionID: %+v", err)
	}
	if err := tx.Freeze(node); err == nil {
		t.Errorf("expected an error freezing a transfer without legs")
	}
}

func TestTransferMustBalance(t *testing.T) {
	node := entities.NewAccountID(0, 0, 3)
	sender := entities.NewAccountID(0, 0, 100)
	receiver := entities.NewAccountID(0, 0, 101)

	data := &TransferData{}
	data.AddTransfer(sender, entities.HbarFromTinybars(-500)).
		AddTransfer(receiver, entities.HbarFromTinybars(400))
	tx := New(data)
	if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
		t.Fatalf("SetTransactionID: %+v", err)
	}
	if err := tx.Freeze(node); err == nil {
		t.Fatalf("expected an error for unbalanced transfer legs")
	}

	data = &TransferData{}
	data.AddTransfer(sender, entities.HbarFromTinybars(-500)).
		AddTransfer(receiver, entities.HbarFromTinybars(500))
	tx = New(data)
	if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
		t.Fatalf("SetTransactionID: %+v", err)
	}
	if err := tx.Freeze(node); err != nil {
		t.Fatalf("Freeze: %+v", err)
	}
}

func TestMutationAfterFreeze(t *testing.T) {
	tx := testNodeCreate(t)
	if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
		t.Fatalf("SetTransactionID: %+v", err)
	}
	if err := tx.Freeze(entities.NewAccountID(0, 0, 3)); err != nil {
		t.Fatalf("Freeze: %+v", err)
	}

	if err := tx.SetMemo("too late"); !errors.Is(err, ErrTransactionFrozen) {
		t.Errorf("SetMemo: expected ErrTransactionFrozen, got %+v", err)
	}
	if err := tx.SetMaxTransactionFee(entities.NewHbar(5)); !errors.Is(err, ErrTransactionFrozen) {
		t.Errorf("SetMaxTransactionFee: expected ErrTransactionFrozen, got %+v", err)
	}
	if err := tx.SetValidDuration(time.Minute); !errors.Is(err, ErrTransactionFrozen) {
		t.Errorf("SetValidDuration: expected ErrTransactionFrozen, got %+v", err)
	}
	if err := tx.SetTransactionID(testTransactionID(t)); !errors.Is(err, ErrTransactionFrozen) {
		t.Errorf("SetTransactionID: expected ErrTransactionFrozen, got %+v", err)
	}
	if err := tx.Freeze(); !errors.Is(err, ErrTransactionFrozen) {
		t.Errorf("second Freeze: expected ErrTransactionFrozen, got %+v", err)
	}
}

func TestPerNodeBodiesAndSignatures(t *testing.T) {
	nodeA := entities.NewAccountID(0, 0, 3)
	nodeB := entities.NewAccountID(0, 0, 4)

	tx := testNodeCreate(t)
	if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
		t.Fatalf("SetTransactionID: %+v", err)
	}
	if err := tx.Freeze(nodeA, nodeB); err != nil {
		t.Fatalf("Freeze: %+v", err)
	}
	if bytes.Equal(tx.chunks[0].bodyBytes, tx.chunks[1].bodyBytes) {
		t.Fatalf("bodies for different nodes are identical")
	}

	sk, err := keys.PrivateKeyFromBytesEd25519(fixedSeed(0x01))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytesEd25519: %+v", err)
	}
	if err := tx.Sign(sk); err != nil {
		t.Fatalf("Sign: %+v", err)
	}

	// Each node's signature must cover that node's body and no other.
	for i, chunk := range tx.chunks {
		pairs, err := tx.SignaturesFor(chunk.node)
		if err != nil {
			t.Fatalf("SignaturesFor: %+v", err)
		}
		if len(pairs) != 1 {
			t.Fatalf("chunk %d: expected 1 signature, got %d", i, len(pairs))
		}
		if !pairs[0].PublicKey.Verify(chunk.bodyBytes, pairs[0].Signature) {
			t.Errorf("chunk %d: signature does not cover its own body", i)
		}
		other := tx.chunks[1-i]
		if pairs[0].PublicKey.Verify(other.bodyBytes, pairs[0].Signature) {
			t.Errorf("chunk %d: signature also covers another node's body", i)
		}
	}
}

func TestSignDeduplicates(t *testing.T) {
	tx := testNodeCreate(t)
	if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
		t.Fatalf("SetTransactionID: %+v", err)
	}
	if err := tx.Freeze(entities.NewAccountID(0, 0, 3)); err != nil {
		t.Fatalf("Freeze: %+v", err)
	}

	sk, err := keys.PrivateKeyFromBytesEd25519(fixedSeed(0x02))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytesEd25519: %+v", err)
	}
	if err := tx.Sign(sk); err != nil {
		t.Fatalf("first Sign: %+v", err)
	}
	if err := tx.Sign(sk); err != nil {
		t.Fatalf("second Sign: %+v", err)
	}
	pairs, err := tx.SignaturesFor(entities.NewAccountID(0, 0, 3))
	if err != nil {
		t.Fatalf("SignaturesFor: %+v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 signature after signing twice, got %d", len(pairs))
	}
}

func TestSignBeforeFreeze(t *testing.T) {
	tx := testNodeCreate(t)
	sk, err := keys.PrivateKeyFromBytesEd25519(fixedSeed(0x01))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytesEd25519: %+v", err)
	}
	if err := tx.Sign(sk); err == nil {
		t.Fatalf("expected an error signing an unfrozen transaction")
	}
}

func TestRequestForUnknownNode(t *testing.T) {
	tx := testNodeCreate(t)
	if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
		t.Fatalf("SetTransactionID: %+v", err)
	}
	if err := tx.Freeze(entities.NewAccountID(0, 0, 3)); err != nil {
		t.Fatalf("Freeze: %+v", err)
	}
	sk, _ := keys.PrivateKeyFromBytesEd25519(fixedSeed(0x01))
	if err := tx.Sign(sk); err != nil {
		t.Fatalf("Sign: %+v", err)
	}
	if _, err := tx.RequestFor(entities.NewAccountID(0, 0, 9)); err == nil {
		t.Fatalf("expected an error for a non-candidate node")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	nodeA := entities.NewAccountID(0, 0, 3)
	nodeB := entities.NewAccountID(0, 0, 4)

	tx := testNodeCreate(t)
	if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
		t.Fatalf("SetTransactionID: %+v", err)
	}
	if err := tx.SetMemo("round trip"); err != nil {
		t.Fatalf("SetMemo: %+v", err)
	}
	if err := tx.Freeze(nodeA, nodeB); err != nil {
		t.Fatalf("Freeze: %+v", err)
	}
	sk, err := keys.PrivateKeyFromBytesEd25519(fixedSeed(0x03))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytesEd25519: %+v", err)
	}
	if err := tx.Sign(sk); err != nil {
		t.Fatalf("Sign: %+v", err)
	}

	serialized, err := tx.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes: %+v", err)
	}
	restored, err := FromBytes(serialized)
	if err != nil {
		t.Fatalf("FromBytes: %+v", err)
	}

	if restored.State() != StateSigned {
		t.Errorf("expected the restored transaction to be signed, got %s", restored.State())
	}
	if !restored.TransactionID().Equal(tx.TransactionID()) {
		t.Errorf("transaction ID changed: %s vs %s", tx.TransactionID(), restored.TransactionID())
	}
	if restored.Memo() != "round trip" {
		t.Errorf("memo changed: %q", restored.Memo())
	}
	if len(restored.chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(restored.chunks))
	}
	for i := range tx.chunks {
		if !bytes.Equal(restored.chunks[i].bodyBytes, tx.chunks[i].bodyBytes) {
			t.Errorf("chunk %d: body bytes changed across the round trip", i)
		}
	}
	if _, ok := restored.Data().(*NodeCreateData); !ok {
		t.Errorf("expected NodeCreateData, got %T", restored.Data())
	}

	// A restored transaction accepts further signatures.
	skB, err := keys.PrivateKeyFromBytesEd25519(fixedSeed(0x04))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytesEd25519: %+v", err)
	}
	if err := restored.Sign(skB); err != nil {
		t.Fatalf("Sign after restore: %+v", err)
	}
	pairs, err := restored.SignaturesFor(nodeA)
	if err != nil {
		t.Fatalf("SignaturesFor: %+v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 signatures after the second signer, got %d", len(pairs))
	}
}

// A field explicitly set to its zero value must serialize differently from
// an unset field: clearing a node description is not the same as leaving it
// alone.
func TestUpdateWrapperPresence(t *testing.T) {
	node := entities.NewAccountID(0, 0, 3)

	freezeUpdate := func(data *NodeUpdateData) []byte {
		tx := New(data)
		if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
			t.Fatalf("SetTransactionID: %+v", err)
		}
		if err := tx.Freeze(node); err != nil {
			t.Fatalf("Freeze: %+v", err)
		}
		return tx.chunks[0].bodyBytes
	}

	unset := freezeUpdate(&NodeUpdateData{NodeID: 7})
	cleared := freezeUpdate((&NodeUpdateData{NodeID: 7}).SetDescription(""))
	if bytes.Equal(unset, cleared) {
		t.Fatalf("unset and cleared descriptions serialized identically")
	}
	if len(cleared) <= len(unset) {
		t.Fatalf("expected the cleared description to add wrapper bytes: %d vs %d",
			len(cleared), len(unset))
	}

	restored, err := FromBytes(mustToBytes(t, cleared))
	if err != nil {
		t.Fatalf("FromBytes: %+v", err)
	}
	data, ok := restored.Data().(*NodeUpdateData)
	if !ok {
		t.Fatalf("expected NodeUpdateData, got %T", restored.Data())
	}
	if data.Description == nil || *data.Description != "" {
		t.Fatalf("cleared description did not survive the round trip: %v", data.Description)
	}
}

// mustToBytes wraps raw body bytes in an unsigned envelope list.
func mustToBytes(t *testing.T, bodyBytes []byte) []byte {
	t.Helper()
	w := wire.NewWriter()
	w.Bytes(txListEntryField, buildEnvelope(bodyBytes, nil))
	return w.Encoded()
}

func TestTopicUpdateMemoPresence(t *testing.T) {
	node := entities.NewAccountID(0, 0, 3)
	topic := entities.NewTopicID(0, 0, 1234)

	freezeUpdate := func(data *TopicUpdateData) []byte {
		tx := New(data)
		if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
			t.Fatalf("SetTransactionID: %+v", err)
		}
		if err := tx.Freeze(node); err != nil {
			t.Fatalf("Freeze: %+v", err)
		}
		return tx.chunks[0].bodyBytes
	}

	unset := freezeUpdate(&TopicUpdateData{TopicID: topic})
	cleared := freezeUpdate((&TopicUpdateData{TopicID: topic}).SetMemo(""))
	set := freezeUpdate((&TopicUpdateData{TopicID: topic}).SetMemo("m"))

	if bytes.Equal(unset, cleared) {
		t.Errorf("unset and cleared memos serialized identically")
	}
	if bytes.Equal(cleared, set) {
		t.Errorf("cleared and set memos serialized identically")
	}
}

func TestPrecheckStatus(t *testing.T) {
	tx := testNodeCreate(t)

	w := wire.NewWriter()
	w.Uint64(responsePrecheckField, uint64(entities.StatusBusy))
	status, err := tx.PrecheckStatus(w.Encoded())
	if err != nil {
		t.Fatalf("PrecheckStatus: %+v", err)
	}
	if status != entities.StatusBusy {
		t.Fatalf("expected BUSY, got %s", status)
	}

	// An empty response is a successful precheck: OK is code zero.
	status, err = tx.PrecheckStatus(nil)
	if err != nil {
		t.Fatalf("PrecheckStatus: %+v", err)
	}
	if status != entities.StatusOK {
		t.Fatalf("expected OK, got %s", status)
	}
}

func TestTransactionHash(t *testing.T) {
	node := entities.NewAccountID(0, 0, 3)
	tx := testNodeCreate(t)
	if err := tx.SetTransactionID(testTransactionID(t)); err != nil {
		t.Fatalf("SetTransactionID: %+v", err)
	}
	if err := tx.Freeze(node); err != nil {
		t.Fatalf("Freeze: %+v", err)
	}
	sk, _ := keys.PrivateKeyFromBytesEd25519(fixedSeed(0x01))
	if err := tx.Sign(sk); err != nil {
		t.Fatalf("Sign: %+v", err)
	}

	hash, err := tx.TransactionHash(node)
	if err != nil {
		t.Fatalf("TransactionHash: %+v", err)
	}
	if len(hash) != 48 {
		t.Fatalf("expected a 48-byte SHA-384 hash, got %d bytes", len(hash))
	}
	again, err := tx.TransactionHash(node)
	if err != nil {
		t.Fatalf("TransactionHash: %+v", err)
	}
	if !bytes.Equal(hash, again) {
		t.Fatalf("transaction hash is not stable")
	}
}

func TestDefaults(t *testing.T) {
	tx := NewTransfer()
	if tx.MaxTransactionFee() != entities.NewHbar(2) {
		t.Errorf("expected a 2 hbar default fee, got %s", tx.MaxTransactionFee())
	}
	if tx.body.ValidDuration != 120*time.Second {
		t.Errorf("expected a 120s default validity window, got %s", tx.body.ValidDuration)
	}
	if tx.State() != StateBuilding {
		t.Errorf("expected a new transaction to be building, got %s", tx.State())
	}
}
