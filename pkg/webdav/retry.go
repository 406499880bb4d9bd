package webdav

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy - backoff settings for transient download failures. The zero
// value disables retrying.
type RetryPolicy struct {
	// MaxAttempts - total tries including the first; values below 1 mean one
	MaxAttempts int `yaml:"max_attempts"`

	// InitialDelay - wait before the second attempt, doubled each retry
	InitialDelay time.Duration `yaml:"initial_delay"`

	// MaxDelay - backoff ceiling
	MaxDelay time.Duration `yaml:"max_delay"`
}

// DefaultRetryPolicy retries transient failures twice with a short backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
	}
}

// do runs fn until it succeeds, the attempts are exhausted, or the context
// ends. Every failure is retried; the WebDAV client cannot distinguish
// transient network errors from permanent ones reliably, and the attempt cap
// bounds the damage.
func (p RetryPolicy) do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == attempts {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("cancelled during retry: %w", ctx.Err())
		}

		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	if attempts > 1 {
		return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
	}
	return lastErr
}
