package transaction

import (
	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/domain/keys"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// NodeUpdateData changes an existing address book entry, addressed by its
// numeric node ID. Nil fields are left untouched; wrapper messages carry the
// set-to-zero cases (clearing the description, re-enabling rewards). The
// endpoint lists replace wholesale when non-empty.
type NodeUpdateData struct {
	NodeID              uint64
	AccountID           *entities.AccountID
	Description         *string
	GossipEndpoints     []entities.ServiceEndpoint
	ServiceEndpoints    []entities.ServiceEndpoint
	GossipCACertificate []byte
	GrpcCertificateHash []byte
	AdminKey            *keys.Key
	DeclineReward       *bool
	GrpcProxyEndpoint   *entities.ServiceEndpoint
}

// NewNodeUpdate starts an address book node update transaction.
func NewNodeUpdate(nodeID uint64) *Transaction {
	return New(&NodeUpdateData{NodeID: nodeID})
}

// SetDescription marks the description for replacement, including with the
// empty string.
func (d *NodeUpdateData) SetDescription(description string) *NodeUpdateData {
	d.Description = &description
	return d
}

// SetDeclineReward marks the reward preference for replacement.
func (d *NodeUpdateData) SetDeclineReward(decline bool) *NodeUpdateData {
	d.DeclineReward = &decline
	return d
}

func (d *NodeUpdateData) validate() error {
	if d.Description != nil && len(*d.Description) > maxNodeDescriptionBytes {
		return errors.Errorf("node description is %d bytes, the maximum is %d",
			len(*d.Description), maxNodeDescriptionBytes)
	}
	return nil
}

func (d *NodeUpdateData) fieldNumber() protowire.Number {
	return nodeUpdateField
}

// GrpcMethod implements Data.
func (d *NodeUpdateData) GrpcMethod() string {
	return "/proto.AddressBookService/updateNode"
}

const (
	nodeUpdateNodeIDField        = 1
	nodeUpdateAccountField       = 2
	nodeUpdateDescriptionField   = 3
	nodeUpdateGossipField        = 4
	nodeUpdateServiceField       = 5
	nodeUpdateCACertField        = 6
	nodeUpdateCertHashField      = 7
	nodeUpdateAdminKeyField      = 8
	nodeUpdateDeclineRewardField = 9
	nodeUpdateProxyField         = 10
)

func (d *NodeUpdateData) toWire(w *wire.Writer) {
	w.Uint64(nodeUpdateNodeIDField, d.NodeID)
	if d.AccountID != nil {
		w.Message(nodeUpdateAccountField, d.AccountID.ToWire)
	}
	if d.Description != nil {
		stringValueToWire(w, nodeUpdateDescriptionField, *d.Description)
	}
	for _, e := range d.GossipEndpoints {
		w.Message(nodeUpdateGossipField, e.ToWire)
	}
	for _, e := range d.ServiceEndpoints {
		w.Message(nodeUpdateServiceField, e.ToWire)
	}
	if d.GossipCACertificate != nil {
		bytesValueToWire(w, nodeUpdateCACertField, d.GossipCACertificate)
	}
	if d.GrpcCertificateHash != nil {
		bytesValueToWire(w, nodeUpdateCertHashField, d.GrpcCertificateHash)
	}
	if d.AdminKey != nil {
		w.Message(nodeUpdateAdminKeyField, d.AdminKey.ToWire)
	}
	if d.DeclineReward != nil {
		boolValueToWire(w, nodeUpdateDeclineRewardField, *d.DeclineReward)
	}
	if d.GrpcProxyEndpoint != nil {
		w.Message(nodeUpdateProxyField, d.GrpcProxyEndpoint.ToWire)
	}
}

func nodeUpdateFromWire(r *wire.Reader) (*NodeUpdateData, error) {
	d := &NodeUpdateData{}
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case nodeUpdateNodeIDField:
			d.NodeID, err = r.Uint64()
		case nodeUpdateAccountField:
			err = r.Message(func(r *wire.Reader) error {
				account, accountErr := entities.AccountIDFromWire(r)
				d.AccountID = &account
				return accountErr
			})
		case nodeUpdateDescriptionField:
			err = r.Message(func(r *wire.Reader) error {
				description, descriptionErr := stringValueFromWire(r)
				d.Description = &description
				return descriptionErr
			})
		case nodeUpdateGossipField:
			err = r.Message(func(r *wire.Reader) error {
				e, eErr := entities.ServiceEndpointFromWire(r)
				d.GossipEndpoints = append(d.GossipEndpoints, e)
				return eErr
			})
		case nodeUpdateServiceField:
			err = r.Message(func(r *wire.Reader) error {
				e, eErr := entities.ServiceEndpointFromWire(r)
				d.ServiceEndpoints = append(d.ServiceEndpoints, e)
				return eErr
			})
		case nodeUpdateCACertField:
			err = r.Message(func(r *wire.Reader) error {
				d.GossipCACertificate, err = bytesValueFromWire(r)
				return err
			})
		case nodeUpdateCertHashField:
			err = r.Message(func(r *wire.Reader) error {
				d.GrpcCertificateHash, err = bytesValueFromWire(r)
				return err
			})
		case nodeUpdateAdminKeyField:
			err = r.Message(func(r *wire.Reader) error {
				key, keyErr := keys.KeyFromWire(r)
				d.AdminKey = &key
				return keyErr
			})
		case nodeUpdateDeclineRewardField:
			err = r.Message(func(r *wire.Reader) error {
				decline, declineErr := boolValueFromWire(r)
				d.DeclineReward = &decline
				return declineErr
			})
		case nodeUpdateProxyField:
			err = r.Message(func(r *wire.Reader) error {
				e, eErr := entities.ServiceEndpointFromWire(r)
				d.GrpcProxyEndpoint = &e
				return eErr
			})
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	return d, r.Err()
}
