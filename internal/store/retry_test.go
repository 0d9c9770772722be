package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubSleep replaces the backoff timer for the duration of a test and
// records the delays requested.
func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	orig := sleep
	sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	t.Cleanup(func() { sleep = orig })
	return &delays
}

func TestWithRetry_SucceedsFirstAttempt(t *testing.T) {
	delays := stubSleep(t)
	calls := 0
	err := withRetry(context.Background(), "op", func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, expected 1", calls)
	}
	if len(*delays) != 0 {
		t.Errorf("should not sleep on success, slept %d times", len(*delays))
	}
}

func TestWithRetry_RecoversAfterTransient(t *testing.T) {
	stubSleep(t)
	calls := 0
	err := withRetry(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return Transient("flaky", nil)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, expected 3", calls)
	}
}

func TestWithRetry_ExhaustionReturnsLastError(t *testing.T) {
	delays := stubSleep(t)
	calls := 0
	last := Transient("still down", errors.New("dial tcp: refused"))
	err := withRetry(context.Background(), "op", func() error {
		calls++
		if calls < maxAttempts {
			return Transient("down", nil)
		}
		return last
	})
	if calls != maxAttempts {
		t.Fatalf("calls = %d, expected %d", calls, maxAttempts)
	}
	if !errors.Is(err, last) {
		t.Errorf("exhaustion should return the last error unchanged, got %v", err)
	}
	// Backoff is linear: attempt x 1s, no sleep after the final attempt.
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("slept %d times, expected %d", len(*delays), len(want))
	}
	for i, d := range want {
		if (*delays)[i] != d {
			t.Errorf("delay[%d] = %v, expected %v", i, (*delays)[i], d)
		}
	}
}

func TestWithRetry_NonRetryableStopsImmediately(t *testing.T) {
	stubSleep(t)
	for _, bad := range []error{NotFound("user"), PermissionDenied("nope"), Invalid("bad"), Fatal("creds", nil)} {
		calls := 0
		err := withRetry(context.Background(), "op", func() error {
			calls++
			return bad
		})
		if calls != 1 {
			t.Errorf("%v: calls = %d, expected 1", bad, calls)
		}
		if !errors.Is(err, bad) {
			t.Errorf("%v: error should propagate unchanged, got %v", bad, err)
		}
	}
}

func TestWithRetry_CancelledContextStopsBackoff(t *testing.T) {
	orig := sleep
	sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}
	t.Cleanup(func() { sleep = orig })

	calls := 0
	attemptErr := Transient("down", nil)
	err := withRetry(context.Background(), "op", func() error {
		calls++
		return attemptErr
	})
	if calls != 1 {
		t.Errorf("calls = %d, expected 1 when backoff is interrupted", calls)
	}
	if !errors.Is(err, attemptErr) {
		t.Errorf("should return the attempt error, got %v", err)
	}
}
