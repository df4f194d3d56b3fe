package transaction

import (
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// NodeDeleteData removes a node from the address book by its numeric ID.
type NodeDeleteData struct {
	NodeID uint64
}

// NewNodeDelete starts an address book node deletion transaction.
func NewNodeDelete(nodeID uint64) *Transaction {
	return New(&NodeDeleteData{NodeID: nodeID})
}

func (d *NodeDeleteData) validate() error {
	return nil
}

func (d *NodeDeleteData) fieldNumber() protowire.Number {
	return nodeDeleteField
}

// GrpcMethod implements Data.
func (d *NodeDeleteData) GrpcMethod() string {
	return "/proto.AddressBookService/deleteNode"
}

const nodeDeleteNodeIDField = 1

func (d *NodeDeleteData) toWire(w *wire.Writer) {
	w.Uint64(nodeDeleteNodeIDField, d.NodeID)
}

func nodeDeleteFromWire(r *wire.Reader) (*NodeDeleteData, error) {
	d := &NodeDeleteData{}
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case nodeDeleteNodeIDField:
			d.NodeID, err = r.Uint64()
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	return d, r.Err()
}
