package execution

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
)

// ErrReceiptUnknown is returned when the network no longer holds a receipt
// for a transaction: the outcome can no longer be determined, which is not
// the same as the transaction having failed.
var ErrReceiptUnknown = errors.New("transaction outcome unknown: receipt no longer held by the network")

// PrecheckError is a node's terminal rejection of a request. The request
// never reached consensus and retrying the same bytes cannot help.
type PrecheckError struct {
	Status entities.Status
	Node   entities.AccountID
}

func (e *PrecheckError) Error() string {
	return fmt.Sprintf("precheck failed with %s on node %s", e.Status, e.Node)
}

// MaxAttemptsError is returned when the retry budget runs out without a
// terminal answer. It carries the last attempt's state for diagnosis.
type MaxAttemptsError struct {
	Attempts   int
	LastStatus entities.Status
	LastNode   entities.AccountID
	LastErr    error
}

func (e *MaxAttemptsError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("gave up after %d attempts, last error on node %s: %s",
			e.Attempts, e.LastNode, e.LastErr)
	}
	return fmt.Sprintf("gave up after %d attempts, last status %s on node %s",
		e.Attempts, e.LastStatus, e.LastNode)
}

// Unwrap exposes the last transport error, if any.
func (e *MaxAttemptsError) Unwrap() error {
	return e.LastErr
}
