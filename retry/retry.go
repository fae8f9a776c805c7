// Package retry provides retry with exponential backoff for transient
// errors, honoring server-suggested retry delays when present.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	ai "github.com/calebmweir/parley"
)

// Config holds retry configuration parameters.
type Config struct {
	// MaxAttempts is the maximum number of attempts (default: 4).
	// The initial request counts as attempt 1.
	MaxAttempts int

	// InitialDelay is the base delay before the first retry (default: 500ms).
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries (default: 30s).
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier (default: 2.0).
	Multiplier float64

	// Jitter adds randomness to prevent thundering herd (default: 0.1).
	// The delay is multiplied by (1 + random(-jitter, +jitter)).
	Jitter float64
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  4,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a configuration that disables retries (single attempt).
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay calculates the backoff delay for a given attempt number (0-indexed).
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	if c.Jitter > 0 {
		delay *= 1 + c.Jitter*(2*rand.Float64()-1)
	}
	return time.Duration(delay)
}

// Do executes fn until it succeeds, returns a non-transient error, or the
// attempt budget is spent. Between attempts it sleeps for the larger of
// the computed backoff and the server's suggested retry delay, respecting
// context cancellation during the wait.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !ai.IsTransient(err) {
			return zero, err
		}

		if attempt < cfg.MaxAttempts-1 {
			delay := cfg.Delay(attempt)
			if suggested := ai.RetryAfterOf(err); suggested > delay {
				delay = suggested
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}
