package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finvia/account-status-service/internal/platform/logging"
)

// RetryConfig configures the retry policy.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, the first call included.
	MaxAttempts int

	// InterAttemptDelay is the fixed wait between attempts.
	InterAttemptDelay time.Duration
}

// Retrier re-issues a failing call a bounded number of times.
// Only failures classified as retryable (see IsRetryable) consume further
// attempts; everything else short-circuits after the first attempt. The
// inter-attempt wait suspends only the calling goroutine and honors
// context cancellation.
type Retrier struct {
	cfg    RetryConfig
	logger *slog.Logger

	// sleep waits for the delay or context cancellation. Overridable for testing.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrier creates a retrier with the given configuration.
func NewRetrier(cfg RetryConfig, logger *slog.Logger) *Retrier {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Retrier{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "clients.Retrier")),
		sleep:  sleepContext,
	}
}

// Execute invokes fn up to MaxAttempts times.
// A nil return resolves immediately. A non-retryable error is returned
// unchanged after the attempt that produced it. When attempts run out the
// last error is wrapped in ErrRetriesExhausted.
func (r *Retrier) Execute(ctx context.Context, fn func(context.Context) error) error {
	logger := logging.FromContext(ctx)

	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			logger.Debug("retrying call",
				slog.Int("attempt", attempt),
				slog.Duration("delay", r.cfg.InterAttemptDelay),
			)

			if err := r.sleep(ctx, r.cfg.InterAttemptDelay); err != nil {
				return err
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !IsRetryable(lastErr) {
			return lastErr
		}

		logger.Debug("call failed with retryable error",
			slog.Int("attempt", attempt),
			slog.Any("error", lastErr),
		)
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, r.cfg.MaxAttempts, lastErr)
}

// sleepContext waits for d or for ctx to be done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
