package cosmosmanager

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
)

// RetryPolicy tunes the exponential backoff used for transient service errors.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	MaxRetries      int
}

// DefaultRetryPolicy is used by managers that are not given an explicit policy.
var DefaultRetryPolicy = RetryPolicy{
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
	MaxElapsedTime:  2 * time.Minute,
	MaxRetries:      8,
}

// retryable decides whether a failed attempt should be tried again.
type retryable func(err error) bool

// isBusy reports errors returned while an account is still being provisioned or updated.
func isBusy(err error) bool {
	code := StatusCode(err)
	return code == http.StatusConflict || code == http.StatusPreconditionFailed || code == http.StatusTooManyRequests
}

// isThrottled reports request rate errors.
func isThrottled(err error) bool {
	return StatusCode(err) == http.StatusTooManyRequests
}

// withRetry runs fn until it succeeds, returns an error that should not be retried,
// exhausts the policy, or ctx is done.
func withRetry(ctx context.Context, policy RetryPolicy, shouldRetry retryable, fn func() error) error {
	bc := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		bc.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		bc.MaxInterval = policy.MaxInterval
	}
	bc.MaxElapsedTime = policy.MaxElapsedTime
	bc.Reset()

	attempts := 0
	return backoff.Retry(func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		err := fn()
		if err == nil {
			return nil
		}
		attempts++
		if !shouldRetry(err) || (policy.MaxRetries > 0 && attempts >= policy.MaxRetries) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(bc, ctx))
}
