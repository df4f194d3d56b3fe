package transaction

import (
	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/domain/keys"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// maxNodeDescriptionBytes caps a node's human-readable description.
const maxNodeDescriptionBytes = 100

// NodeCreateData registers a new consensus node in the address book.
type NodeCreateData struct {
	AccountID           entities.AccountID
	Description         string
	GossipEndpoints     []entities.ServiceEndpoint
	ServiceEndpoints    []entities.ServiceEndpoint
	GossipCACertificate []byte
	GrpcCertificateHash []byte
	AdminKey            *keys.Key
	DeclineReward       bool
	GrpcProxyEndpoint   *entities.ServiceEndpoint
}

// NewNodeCreate starts an address book node creation transaction.
func NewNodeCreate() *Transaction {
	return New(&NodeCreateData{})
}

func (d *NodeCreateData) validate() error {
	if d.AccountID.IsZero() {
		return errors.New("node create without a node account ID")
	}
	if len(d.Description) > maxNodeDescriptionBytes {
		return errors.Errorf("node description is %d bytes, the maximum is %d",
			len(d.Description), maxNodeDescriptionBytes)
	}
	if len(d.GossipEndpoints) == 0 {
		return errors.New("node create without gossip endpoints")
	}
	if len(d.GossipCACertificate) == 0 {
		return errors.New("node create without a gossip CA certificate")
	}
	if d.AdminKey == nil {
		return errors.New("node create without an admin key")
	}
	return nil
}

func (d *NodeCreateData) fieldNumber() protowire.Number {
	return nodeCreateField
}

// GrpcMethod implements Data.
func (d *NodeCreateData) GrpcMethod() string {
	return "/proto.AddressBookService/createNode"
}

const (
	nodeCreateAccountField       = 1
	nodeCreateDescriptionField   = 2
	nodeCreateGossipField        = 3
	nodeCreateServiceField       = 4
	nodeCreateCACertField        = 5
	nodeCreateCertHashField      = 6
	nodeCreateAdminKeyField      = 7
	nodeCreateDeclineRewardField = 8
	nodeCreateProxyField         = 9
)

func (d *NodeCreateData) toWire(w *wire.Writer) {
	w.Message(nodeCreateAccountField, d.AccountID.ToWire)
	w.String(nodeCreateDescriptionField, d.Description)
	for _, e := range d.GossipEndpoints {
		w.Message(nodeCreateGossipField, e.ToWire)
	}
	for _, e := range d.ServiceEndpoints {
		w.Message(nodeCreateServiceField, e.ToWire)
	}
	w.Bytes(nodeCreateCACertField, d.GossipCACertificate)
	w.Bytes(nodeCreateCertHashField, d.GrpcCertificateHash)
	if d.AdminKey != nil {
		w.Message(nodeCreateAdminKeyField, d.AdminKey.ToWire)
	}
	w.Bool(nodeCreateDeclineRewardField, d.DeclineReward)
	if d.GrpcProxyEndpoint != nil {
		w.Message(nodeCreateProxyField, d.GrpcProxyEndpoint.ToWire)
	}
}

func nodeCreateFromWire(r *wire.Reader) (*NodeCreateData, error) {
	d := &NodeCreateData{}
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case nodeCreateAccountField:
			err = r.Message(func(r *wire.Reader) error {
				d.AccountID, err = entities.AccountIDFromWire(r)
				return err
			})
		case nodeCreateDescriptionField:
			d.Description, err = r.String()
		case nodeCreateGossipField:
			err = r.Message(func(r *wire.Reader) error {
				e, eErr := entities.ServiceEndpointFromWire(r)
				d.GossipEndpoints = append(d.GossipEndpoints, e)
				return eErr
			})
		case nodeCreateServiceField:
			err = r.Message(func(r *wire.Reader) error {
				e, eErr := entities.ServiceEndpointFromWire(r)
				d.ServiceEndpoints = append(d.ServiceEndpoints, e)
				return eErr
			})
		case nodeCreateCACertField:
			d.GossipCACertificate, err = r.Bytes()
		case nodeCreateCertHashField:
			d.GrpcCertificateHash, err = r.Bytes()
		case nodeCreateAdminKeyField:
			err = r.Message(func(r *wire.Reader) error {
				key, keyErr := keys.KeyFromWire(r)
				d.AdminKey = &key
				return keyErr
			})
		case nodeCreateDeclineRewardField:
			d.DeclineReward, err = r.Bool()
		case nodeCreateProxyField:
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
