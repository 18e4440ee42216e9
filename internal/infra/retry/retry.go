package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cgund98/go-order-pipeline/internal/infra/logging"
)

// Config controls how Do retries a failing operation.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 1000 * time.Millisecond,
		Multiplier:   2.0,
	}
}

// Do runs fn up to cfg.MaxAttempts times, sleeping InitialDelay·Multiplier^(n-1)
// between attempts. Each call starts a fresh attempt counter. The last failure
// is never swallowed: on exhaustion it is returned wrapped with the attempt
// count, and the caller decides whether it is fatal to the enclosing batch.
// A context cancellation during backoff abandons the operation after the
// current attempt.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				logging.Logger.Info("Operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}

		logging.Logger.Warn("Operation failed, retrying",
			"error", err, "attempt", attempt, "maxAttempts", cfg.MaxAttempts, "nextRetryIn", delay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
	}

	return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
