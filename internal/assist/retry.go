package assist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sethvargo/go-retry"
)

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff is exponential with jitter, capped per wait.
type Backoff struct {
	Base       time.Duration
	Max        time.Duration
	Jitter     time.Duration
	MaxRetries uint64
}

// DefaultBackoff waits 1s, 2s, 4s (plus jitter) between attempts.
var DefaultBackoff = Backoff{
	Base:       time.Second,
	Max:        30 * time.Second,
	Jitter:     500 * time.Millisecond,
	MaxRetries: 3,
}

func (b Backoff) policy() retry.Backoff {
	p := retry.NewExponential(b.Base)
	if b.Max > 0 {
		p = retry.WithCappedDuration(b.Max, p)
	}
	if b.Jitter > 0 {
		p = retry.WithJitter(b.Jitter, p)
	}
	return retry.WithMaxRetries(b.MaxRetries, p)
}

// withRetry runs f until it succeeds, fails with a non-retryable error,
// or the backoff gives up. The last error is returned as is.
func withRetry[T any](ctx context.Context, b Backoff, f func(context.Context) (T, error)) (T, error) {
	return retry.DoValue(ctx, b.policy(), func(ctx context.Context) (T, error) {
		v, err := f(ctx)
		if err != nil && IsRetryable(err) {
			return v, retry.RetryableError(err)
		}
		return v, err
	})
}

// classify turns SDK errors for 429 and 5xx responses into RetryableError.
func classify(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("claude api: %w", err)
	}
	if apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500 {
		return &RetryableError{StatusCode: apiErr.StatusCode, Message: apiErr.RawJSON()}
	}
	return fmt.Errorf("claude api status %d: %s", apiErr.StatusCode, truncate(apiErr.RawJSON(), 200))
}
