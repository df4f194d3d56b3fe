// Package client ties the engine together behind one facade: it holds the
// operator identity, the node registry and the connection pool, and drives
// a transaction from assembly through submission to its receipt.
package client

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/domain/keys"
	"github.com/tr11/hiero-sdk-go/domain/query"
	"github.com/tr11/hiero-sdk-go/domain/transaction"
	"github.com/tr11/hiero-sdk-go/execution"
	"github.com/tr11/hiero-sdk-go/infrastructure/network/grpctransport"
	"github.com/tr11/hiero-sdk-go/infrastructure/network/nodemanager"
)

// candidateCount is how many nodes a transaction is frozen against when the
// caller leaves the choice to the client. More candidates mean more
// failover room at the cost of serializing and signing more bodies.
const candidateCount = 3

// Operator is the account that pays for and signs transactions by default.
type Operator struct {
	AccountID  entities.AccountID
	PrivateKey keys.PrivateKey
}

// Client is the entry point of the SDK. Safe for concurrent use once
// configured; configuration itself is not synchronized.
type Client struct {
	operator   *Operator
	registry   *nodemanager.Manager
	pool       *grpctransport.Pool
	transports execution.TransportPool
	policy     execution.Policy
}

// New returns a client over the given node set. An empty proxyAddress
// connects directly.
func New(nodes []nodemanager.Node, proxyAddress string) *Client {
	registry := nodemanager.New()
	for _, node := range nodes {
		registry.AddNode(node)
	}
	pool := grpctransport.NewPool(registry, proxyAddress)
	return &Client{
		registry:   registry,
		pool:       pool,
		transports: grpcPoolAdapter{pool},
		policy:     execution.DefaultPolicy(),
	}
}

// SetOperator sets the account used to pay for and sign transactions that
// reach Execute unsigned.
func (c *Client) SetOperator(account entities.AccountID, key keys.PrivateKey) {
	c.operator = &Operator{AccountID: account, PrivateKey: key}
}

// SetPolicy overrides the default retry policy.
func (c *Client) SetPolicy(policy execution.Policy) {
	c.policy = policy
}

// Registry exposes the node registry, for refreshes and health inspection.
func (c *Client) Registry() *nodemanager.Manager {
	return c.registry
}

// Close tears down all pooled connections.
func (c *Client) Close() {
	c.pool.Close()
}

// Submission is a successfully submitted transaction: everything needed to
// resolve its outcome later.
type Submission struct {
	TransactionID entities.TransactionID
	// Node is the node that accepted the submission. Receipt polling
	// starts here but may be served by any node.
	Node entities.AccountID
	// Hash is the SHA-384 hash of the submitted envelope, the handle
	// mirror nodes index the transaction by.
	Hash []byte
	// Candidates are the nodes the transaction was frozen against.
	Candidates []entities.AccountID
}

// Execute submits a transaction. A still-building transaction is completed
// first: the operator becomes the payer, candidate nodes are picked from
// the registry, and the operator signs. A transaction frozen and signed by
// the caller is submitted exactly as given.
func (c *Client) Execute(ctx context.Context, tx *transaction.Transaction) (*Submission, error) {
	if tx.State() == transaction.StateBuilding {
		if err := c.prepare(tx); err != nil {
			return nil, err
		}
	}
	if c.operator != nil {
		// Idempotent: signing twice with the same key is a no-op.
		if err := tx.Sign(c.operator.PrivateKey); err != nil {
			return nil, err
		}
	}

	res, err := execution.Execute(ctx, tx, c.registry, c.transports, c.policy)
	if err != nil {
		return nil, err
	}
	hash, err := tx.TransactionHash(res.Node)
	if err != nil {
		return nil, err
	}
	log.Debugf("Transaction %s accepted by node %s after %d attempts",
		tx.TransactionID(), res.Node, res.Attempts)
	return &Submission{
		TransactionID: tx.TransactionID(),
		Node:          res.Node,
		Hash:          hash,
		Candidates:    tx.CandidateNodes(),
	}, nil
}

func (c *Client) prepare(tx *transaction.Transaction) error {
	if c.operator == nil {
		return errors.New("no operator configured: freeze and sign the transaction explicitly")
	}
	if tx.TransactionID().IsZero() {
		if err := tx.SetTransactionID(entities.GenerateTransactionID(c.operator.AccountID)); err != nil {
			return err
		}
	}
	nodes := tx.CandidateNodes()
	if len(nodes) == 0 {
		picked, err := c.pickCandidates()
		if err != nil {
			return err
		}
		nodes = picked
	}
	return tx.Freeze(nodes...)
}

// pickCandidates draws up to candidateCount distinct healthy nodes from the
// registry.
func (c *Client) pickCandidates() ([]entities.AccountID, error) {
	exclude := make(map[entities.AccountID]bool)
	var picked []entities.AccountID
	for len(picked) < candidateCount {
		node, err := c.registry.SelectAmong(nil, exclude)
		if err != nil {
			break
		}
		picked = append(picked, node)
		exclude[node] = true
	}
	if len(picked) == 0 {
		return nil, errors.Wrap(nodemanager.ErrNoUsableNodes, "picking candidate nodes")
	}
	return picked, nil
}

// GetReceipt polls for a submission's consensus outcome. The returned
// receipt carries the terminal status, success or failure; errors mean the
// outcome could not be resolved.
func (c *Client) GetReceipt(ctx context.Context, submission *Submission) (query.Receipt, error) {
	return execution.AwaitReceipt(ctx, submission.TransactionID, submission.Candidates,
		c.registry, c.transports, c.policy)
}

// AccountBalance reads an account's hbar balance from any node.
func (c *Client) AccountBalance(ctx context.Context, account entities.AccountID) (entities.Hbar, error) {
	q := query.NewBalanceQuery(account)
	res, err := execution.Execute(ctx, q, c.registry, c.transports, c.policy)
	if err != nil {
		return 0, err
	}
	return query.BalanceFromResponse(res.Response)
}

// grpcPoolAdapter narrows *grpctransport.Pool to the dispatcher's pool
// interface.
type grpcPoolAdapter struct {
	pool *grpctransport.Pool
}

func (a grpcPoolAdapter) TransportFor(node entities.AccountID) (execution.Transport, error) {
	t, err := a.pool.TransportFor(node)
	if err != nil {
		return nil, err
	}
	return t, nil
}
