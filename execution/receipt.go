package execution

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/domain/query"
	"github.com/tr11/hiero-sdk-go/infrastructure/network/nodemanager"
)

// AwaitReceipt polls for a transaction's receipt until consensus produces a
// terminal status or the context is cancelled. A receipt still reporting
// UNKNOWN means the transaction is in flight and polling continues; a
// network that no longer holds the receipt yields ErrReceiptUnknown, since
// at that point the outcome genuinely cannot be determined.
//
// The returned receipt's status is the transaction's consensus verdict,
// success or failure alike; only resolution problems surface as errors.
func AwaitReceipt(ctx context.Context, txID entities.TransactionID,
	candidates []entities.AccountID, registry *nodemanager.Manager,
	pool TransportPool, policy Policy) (query.Receipt, error) {

	q := query.NewReceiptQuery(txID)
	if len(candidates) > 0 {
		q.SetNodeAccountIDs(candidates...)
	}

	backoff := policy.MinBackoff
	for poll := 1; ; poll++ {
		res, err := Execute(ctx, q, registry, pool, policy)
		if err != nil {
			var precheck *PrecheckError
			if errors.As(err, &precheck) {
				switch precheck.Status {
				case entities.StatusReceiptNotFound, entities.StatusRecordNotFound:
					return query.Receipt{}, errors.Wrapf(ErrReceiptUnknown,
						"transaction %s", txID)
				case entities.StatusUnknown:
					// The node has not seen the transaction reach
					// consensus yet; keep polling.
				default:
					return query.Receipt{}, err
				}
			} else {
				return query.Receipt{}, err
			}
		} else {
			receipt, err := query.ReceiptFromResponse(res.Response)
			if err != nil {
				return query.Receipt{}, err
			}
			switch receipt.Status {
			case entities.StatusUnknown:
				// Pending; keep polling.
			case entities.StatusReceiptNotFound:
				return query.Receipt{}, errors.Wrapf(ErrReceiptUnknown,
					"transaction %s", txID)
			default:
				return receipt, nil
			}
		}

		log.Debugf("Receipt for %s still pending after %d polls", txID, poll)
		if err := sleepBackoff(ctx, backoff); err != nil {
			return query.Receipt{}, err
		}
		backoff *= 2
		if backoff > policy.MaxBackoff {
			backoff = policy.MaxBackoff
		}
	}
}
