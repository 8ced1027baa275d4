package retry

import (
	"math"
	"math/rand"
	"time"
)

// Backoff computes exponential delays with jitter for a policy.
type Backoff struct {
	policy Policy
}

func NewBackoff(policy Policy) *Backoff {
	return &Backoff{policy: policy}
}

// Calculate returns the delay before the given attempt (1-based). Full
// jitter: a uniform draw from [0, exponential delay].
func (b *Backoff) Calculate(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(b.policy.BaseDelay) * math.Pow(b.policy.Multiplier, float64(attempt-1))
	if delay > float64(b.policy.MaxDelay) {
		delay = float64(b.policy.MaxDelay)
	}

	return time.Duration(rand.Int63n(int64(delay) + 1))
}
