package entities

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
)

// ServiceEndpoint describes how to reach a node for one protocol: either a
// raw IPv4 address or a domain name, plus a port. Exactly one of IPAddressV4
// and DomainName is set.
type ServiceEndpoint struct {
	IPAddressV4 net.IP // 4-byte form, nil when DomainName is used
	DomainName  string
	Port        int32
}

// NewIPEndpoint returns an endpoint for a raw IPv4 address.
func NewIPEndpoint(ip net.IP, port int32) (ServiceEndpoint, error) {
	ipv4 := ip.To4()
	if ipv4 == nil {
		return ServiceEndpoint{}, errors.Errorf("endpoint address %s is not IPv4", ip)
	}
	return ServiceEndpoint{IPAddressV4: ipv4, Port: port}, nil
}

// NewDomainEndpoint returns an endpoint for a domain name.
func NewDomainEndpoint(domain string, port int32) ServiceEndpoint {
	return ServiceEndpoint{DomainName: domain, Port: port}
}

// Equal reports whether two endpoints reach the same host and port.
func (e ServiceEndpoint) Equal(other ServiceEndpoint) bool {
	return e.IPAddressV4.Equal(other.IPAddressV4) &&
		e.DomainName == other.DomainName &&
		e.Port == other.Port
}

// Address formats the endpoint as a dialable "host:port" string.
func (e ServiceEndpoint) Address() string {
	host := e.DomainName
	if len(e.IPAddressV4) != 0 {
		host = e.IPAddressV4.String()
	}
	return fmt.Sprintf("%s:%d", host, e.Port)
}

// ToWire writes the ServiceEndpoint message body.
func (e ServiceEndpoint) ToWire(w *wire.Writer) {
	w.Bytes(endpointIPField, e.IPAddressV4)
	w.Int32(endpointPortField, e.Port)
	w.String(endpointDomainField, e.DomainName)
}

// ServiceEndpointFromWire decodes a ServiceEndpoint message body.
func ServiceEndpointFromWire(r *wire.Reader) (ServiceEndpoint, error) {
	var e ServiceEndpoint
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case endpointIPField:
			var b []byte
			b, err = r.Bytes()
			if err == nil {
				if len(b) != net.IPv4len {
					return ServiceEndpoint{}, errors.Wrapf(wire.ErrMalformedEncoding,
						"endpoint IPv4 address has %d bytes", len(b))
				}
				e.IPAddressV4 = net.IP(b)
			}
		case endpointPortField:
			e.Port, err = r.Int32()
		case endpointDomainField:
			e.DomainName, err = r.String()
		default:
			err = r.Skip()
		}
		if err != nil {
			return ServiceEndpoint{}, err
		}
	}
	return e, r.Err()
}

const (
	endpointIPField     = 1
	endpointPortField   = 2
	endpointDomainField = 3
)
