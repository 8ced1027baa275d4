package retry

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/cardramp/ramp_sdk/pkg/errors"
	"go.uber.org/zap"
)

// Retrier executes operations with retry logic according to a Policy.
type Retrier struct {
	policy  Policy
	backoff *Backoff
	logger  *zap.Logger
}

func NewRetrier(policy Policy, logger *zap.Logger) *Retrier {
	if err := policy.Validate(); err != nil {
		panic(fmt.Sprintf("invalid retry policy: %v", err))
	}

	return &Retrier{
		policy:  policy,
		backoff: NewBackoff(policy),
		logger:  logger,
	}
}

// Do executes operation, retrying retryable failures until the policy's
// budget is spent or the context is cancelled.
func (r *Retrier) Do(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 0 {
				r.logger.Info("operation succeeded after retries",
					zap.Int("attempt", attempt),
					zap.Int("max_retries", r.policy.MaxRetries))
			}
			return nil
		}

		if !r.isRetryable(lastErr) {
			return lastErr
		}

		if attempt >= r.policy.MaxRetries {
			break
		}

		backoffDuration := r.backoff.Calculate(attempt + 1)
		r.logger.Debug("retrying operation",
			zap.Error(lastErr),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoffDuration))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoffDuration):
		}
	}

	return fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, lastErr)
}

func (r *Retrier) isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if r.policy.RetryableFunc != nil {
		return r.policy.RetryableFunc(err)
	}
	return apperrors.ShouldRetry(err)
}

// Do is a package-level helper for one-off retries.
func Do(ctx context.Context, policy Policy, logger *zap.Logger, operation func() error) error {
	return NewRetrier(policy, logger).Do(ctx, operation)
}
