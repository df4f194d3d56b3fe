// Package grpctransport carries pre-serialized request bytes to consensus
// nodes over gRPC. Requests are signed before they reach this package, so
// the transport treats every payload as opaque bytes and a connection pool
// keeps one connection per node account ID.
package grpctransport

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/btcsuite/go-socks/socks"
	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/infrastructure/network/nodemanager"
	"google.golang.org/grpc"
)

const dialTimeout = 20 * time.Second

// Transport is one node's gRPC connection.
type Transport struct {
	address string
	conn    *grpc.ClientConn
}

// Connect dials a node endpoint, blocking until the connection is ready or
// the dial timeout expires. A non-empty proxyAddress routes the connection
// through a SOCKS5 proxy.
func Connect(address string, proxyAddress string) (*Transport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	opts := []grpc.DialOption{
		grpc.WithInsecure(),
		grpc.WithBlock(),
	}
	if proxyAddress != "" {
		proxy := &socks.Proxy{Addr: proxyAddress}
		opts = append(opts, grpc.WithContextDialer(
			func(_ context.Context, target string) (net.Conn, error) {
				return proxy.Dial("tcp", target)
			}))
	}

	conn, err := grpc.DialContext(ctx, address, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "error connecting to %s", address)
	}
	log.Debugf("Connected to %s", address)
	return &Transport{address: address, conn: conn}, nil
}

// Address returns the endpoint this transport is connected to.
func (t *Transport) Address() string {
	return t.address
}

// Invoke performs one unary call, passing the request bytes through
// untouched and returning the raw response bytes.
func (t *Transport) Invoke(ctx context.Context, method string, request []byte) ([]byte, error) {
	req := rawMessage(request)
	var resp rawMessage
	err := t.conn.Invoke(ctx, method, &req, &resp, grpc.ForceCodec(rawCodec{}))
	if err != nil {
		return nil, errors.Wrapf(err, "error invoking %s on %s", method, t.address)
	}
	return resp, nil
}

// Close tears down the connection.
func (t *Transport) Close() error {
	return t.conn.Close()
}

// Pool lazily opens and caches one Transport per node account ID, resolving
// endpoints through the node registry.
type Pool struct {
	registry     *nodemanager.Manager
	proxyAddress string

	mtx   sync.Mutex
	conns map[entities.AccountID]*Transport
}

// NewPool returns an empty pool over the given registry.
func NewPool(registry *nodemanager.Manager, proxyAddress string) *Pool {
	return &Pool{
		registry:     registry,
		proxyAddress: proxyAddress,
		conns:        make(map[entities.AccountID]*Transport),
	}
}

// TransportFor returns the pooled connection for a node, dialing on first
// use.
func (p *Pool) TransportFor(node entities.AccountID) (*Transport, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if t, ok := p.conns[node]; ok {
		return t, nil
	}
	endpoint, ok := p.registry.Endpoint(node)
	if !ok {
		return nil, errors.Errorf("node %s is not in the registry", node)
	}
	t, err := Connect(endpoint.Address(), p.proxyAddress)
	if err != nil {
		return nil, err
	}
	p.conns[node] = t
	return t, nil
}

// Forget drops a node's pooled connection, closing it. The next
// TransportFor redials.
func (p *Pool) Forget(node entities.AccountID) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if t, ok := p.conns[node]; ok {
		delete(p.conns, node)
		if err := t.Close(); err != nil {
			log.Warnf("Error closing connection to %s: %s", t.address, err)
		}
	}
}

// Close closes every pooled connection.
func (p *Pool) Close() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	for node, t := range p.conns {
		if err := t.Close(); err != nil {
			log.Warnf("Error closing connection to %s: %s", t.address, err)
		}
		delete(p.conns, node)
	}
}
