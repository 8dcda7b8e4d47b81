package retry

import (
	"context"
	"fmt"
	"time"
)

// Config describes a bounded-attempt retry policy with capped exponential
// backoff. The first attempt runs immediately; waits double after each
// failure up to MaxDelay.
type Config struct {
	MaxAttempts int
	Delay       time.Duration
	MaxDelay    time.Duration
}

// WithRetry runs fn until it succeeds, attempts are exhausted, or ctx is
// cancelled.
func WithRetry(ctx context.Context, config Config, fn func() error) error {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	var lastErr error
	delay := config.Delay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := fn(); err != nil {
			lastErr = err

			if attempt == config.MaxAttempts {
				return fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, err)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}

			delay *= 2
			if config.MaxDelay > 0 && delay > config.MaxDelay {
				delay = config.MaxDelay
			}
			continue
		}
		return nil
	}

	return lastErr
}
