package execution

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/infrastructure/network/nodemanager"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Result is a successful execution: the raw response and where it came
// from.
type Result struct {
	Response []byte
	Node     entities.AccountID
	Attempts int
}

// Execute submits a task until a node accepts it, the policy's attempt
// budget runs out, or the context is cancelled. Transient failures rotate
// to another candidate node after a jittered backoff; terminal precheck
// rejections return immediately as *PrecheckError.
func Execute(ctx context.Context, task Task, registry *nodemanager.Manager,
	pool TransportPool, policy Policy) (*Result, error) {

	candidates := task.CandidateNodes()
	tried := make(map[entities.AccountID]bool)

	var lastStatus entities.Status
	var lastNode entities.AccountID
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepBackoff(ctx, policy.backoffFor(attempt-1)); err != nil {
				return nil, err
			}
		}

		node, err := registry.SelectAmong(candidates, tried)
		if errors.Is(err, nodemanager.ErrNoUsableNodes) && len(tried) > 0 {
			// Every candidate has had a turn this round; start over.
			tried = make(map[entities.AccountID]bool)
			node, err = registry.SelectAmong(candidates, tried)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "selecting a node for %s", task.GrpcMethod())
		}
		lastNode = node

		request, err := task.RequestFor(node)
		if err != nil {
			return nil, err
		}

		transport, err := pool.TransportFor(node)
		if err != nil {
			log.Debugf("Attempt %d: no transport for node %s: %s", attempt, node, err)
			registry.RecordTransientFailure(node)
			tried[node] = true
			lastErr = err
			continue
		}

		response, err := transport.Invoke(ctx, task.GrpcMethod(), request)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(ctx.Err(), "execution cancelled")
			}
			if !transientInvokeError(err) {
				registry.RecordFatalFailure(node)
				return nil, err
			}
			log.Debugf("Attempt %d: %s failed on node %s: %s", attempt, task.GrpcMethod(), node, err)
			registry.RecordTransientFailure(node)
			tried[node] = true
			lastErr = err
			continue
		}

		precheck, err := task.PrecheckStatus(response)
		if err != nil {
			return nil, err
		}
		lastStatus, lastErr = precheck, nil

		switch {
		case precheck == entities.StatusOK:
			registry.RecordSuccess(node)
			return &Result{Response: response, Node: node, Attempts: attempt}, nil
		case retryableStatus(precheck):
			log.Debugf("Attempt %d: node %s answered %s, retrying", attempt, node, precheck)
			registry.RecordTransientFailure(node)
			tried[node] = true
		default:
			registry.RecordSuccess(node) // the node is fine, the request is not
			return nil, &PrecheckError{Status: precheck, Node: node}
		}
	}

	return nil, &MaxAttemptsError{
		Attempts:   policy.MaxAttempts,
		LastStatus: lastStatus,
		LastNode:   lastNode,
		LastErr:    lastErr,
	}
}

func sleepBackoff(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "execution cancelled")
	case <-timer.C:
		return nil
	}
}

// transientInvokeError reports whether a transport-level failure may
// succeed elsewhere: the node being unreachable or shedding load says
// nothing about the request.
func transientInvokeError(err error) bool {
	s, ok := status.FromError(errors.Cause(err))
	if !ok {
		// Not a grpc status: a dial or connection error, worth another node.
		return true
	}
	switch s.Code() {
	case codes.Unavailable, codes.ResourceExhausted, codes.Aborted:
		return true
	}
	return false
}
