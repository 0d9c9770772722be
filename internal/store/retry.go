package store

import (
	"context"
	"time"

	"github.com/nvallee/timetracker/backend/pkg/logger"
)

const maxAttempts = 3

// sleep is swapped out in tests to avoid real backoff delays.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// withRetry runs op up to maxAttempts times with linear backoff (attempt x 1s
// between attempts). Non-retryable errors propagate immediately; on
// exhaustion the last backend error propagates unchanged, so callers see the
// same error kind the backend raised.
func withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}

		logger.Warn().
			Str("op", op).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Err(err).
			Msg("storage operation failed")

		if attempt < maxAttempts {
			if serr := sleep(ctx, time.Duration(attempt)*time.Second); serr != nil {
				return lastErr
			}
		}
	}
	return lastErr
}
