// Package execution submits requests to consensus nodes with retry,
// failover and backoff, and resolves submitted transactions to their
// consensus outcome. It is deliberately ignorant of request contents:
// everything it submits was serialized and signed upstream, and it only
// interprets the precheck status of responses.
package execution

import (
	"context"

	"github.com/tr11/hiero-sdk-go/domain/entities"
)

// Task is one submittable request: a frozen transaction or a query. A task
// knows which nodes may serve it and how to produce the exact bytes for
// each, so the dispatcher can fail over between candidates without
// re-serializing or re-signing anything.
type Task interface {
	// CandidateNodes returns the nodes this task may be submitted to.
	// Nil means any node in the registry.
	CandidateNodes() []entities.AccountID

	// GrpcMethod returns the full gRPC method that serves this task.
	GrpcMethod() string

	// RequestFor returns the request bytes for one candidate node.
	RequestFor(node entities.AccountID) ([]byte, error)

	// PrecheckStatus extracts the node-local precheck status from a raw
	// response.
	PrecheckStatus(response []byte) (entities.Status, error)
}

// Transport performs unary calls against one node.
type Transport interface {
	Invoke(ctx context.Context, method string, request []byte) ([]byte, error)
}

// TransportPool resolves node account IDs to transports.
type TransportPool interface {
	TransportFor(node entities.AccountID) (Transport, error)
}
