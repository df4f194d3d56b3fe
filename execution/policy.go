package execution

import (
	"math/rand"
	"time"

	"github.com/tr11/hiero-sdk-go/domain/entities"
)

// Policy bounds one execution: how often to retry and how long to wait
// between attempts.
type Policy struct {
	MaxAttempts int
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
}

// DefaultPolicy returns the standard retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 10,
		MinBackoff:  250 * time.Millisecond,
		MaxBackoff:  8 * time.Second,
	}
}

// backoffFor returns the wait before the given retry, exponential in the
// attempt number with full jitter. Jitter keeps a burst of concurrent
// executions from retrying in lockstep against the same node.
func (p Policy) backoffFor(attempt int) time.Duration {
	backoff := p.MinBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff >= p.MaxBackoff {
			backoff = p.MaxBackoff
			break
		}
	}
	if backoff <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(backoff))) + 1
}

// retryableStatus reports whether a precheck status is worth retrying,
// possibly against another node. Everything else is a terminal verdict on
// the request itself.
func retryableStatus(status entities.Status) bool {
	switch status {
	case entities.StatusBusy,
		entities.StatusPlatformNotActive,
		entities.StatusPlatformTransactionNotCreated:
		return true
	}
	return false
}
