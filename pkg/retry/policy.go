package retry

import (
	"errors"
	"fmt"
	"time"
)

// ErrMaxRetriesExceeded wraps the last error once the retry budget is spent.
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// Policy controls retry behavior.
type Policy struct {
	MaxRetries    int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	Multiplier    float64
	RetryableFunc func(error) bool // optional; defaults to apperrors.ShouldRetry
}

// DefaultPolicy is suitable for idempotent remote reads.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
	}
}

// Validate checks the policy for nonsensical values.
func (p Policy) Validate() error {
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries must be >= 0, got %d", p.MaxRetries)
	}
	if p.BaseDelay <= 0 {
		return fmt.Errorf("base delay must be positive, got %s", p.BaseDelay)
	}
	if p.MaxDelay < p.BaseDelay {
		return fmt.Errorf("max delay %s below base delay %s", p.MaxDelay, p.BaseDelay)
	}
	if p.Multiplier < 1.0 {
		return fmt.Errorf("multiplier must be >= 1.0, got %f", p.Multiplier)
	}
	return nil
}
