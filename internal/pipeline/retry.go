package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/dgallion1/examtex/internal/question"
	"github.com/sethvargo/go-retry"
)

const MaxRetries = 3

// IsRetryable checks if a store error is worth retrying.
func IsRetryable(err error) bool {
	var statusErr *question.StatusError
	return errors.As(err, &statusErr) && statusErr.Temporary()
}

// storeBackoff waits 1s, 2s, 4s with up to half a second of jitter.
func storeBackoff(base time.Duration) retry.Backoff {
	b := retry.NewExponential(base)
	b = retry.WithCappedDuration(30*time.Second, b)
	b = retry.WithJitter(base/2, b)
	return retry.WithMaxRetries(MaxRetries-1, b)
}

// withRetry runs f, retrying temporary store errors.
func withRetry(ctx context.Context, base time.Duration, f func(context.Context) error) error {
	return retry.Do(ctx, storeBackoff(base), func(ctx context.Context) error {
		err := f(ctx)
		if err != nil && IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
