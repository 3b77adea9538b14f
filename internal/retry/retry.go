package retry

import (
	"context"
	"fmt"
	"time"
)

// Config controls retry behavior for outbound calls.
type Config struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool
}

// Default suits short HTTP calls against rate-limited APIs.
func Default() Config {
	return Config{MaxAttempts: 3, Delay: 500 * time.Millisecond, Backoff: true}
}

// WithRetry runs fn until it succeeds, attempts are exhausted, or the context
// ends. With Backoff the delay grows with the attempt number.
func WithRetry(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := fn(); err != nil {
			lastErr = err

			if attempt == cfg.MaxAttempts {
				return fmt.Errorf("failed after %d attempts: %w", cfg.MaxAttempts, err)
			}

			delay := cfg.Delay
			if cfg.Backoff {
				delay = time.Duration(attempt) * cfg.Delay
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
		return nil
	}

	return lastErr
}
