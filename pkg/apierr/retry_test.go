package apierr_test

// Coverage Notes:
// - Tests verify retry count, shouldRetry filtering, context cancellation, and config normalization.
// - Exact backoff timing is not tested (implementation detail), only observable behavior.
// - ShouldRetry is checked against every kind and failure tag.

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alnah/go-aliyun/pkg/apierr"
)

var fastRetry = apierr.RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}

// ---------------------------------------------------------------------------
// TestRetryWithBackoff - Generic retry utility
// ---------------------------------------------------------------------------

func TestRetryWithBackoff(t *testing.T) {
	t.Parallel()

	t.Run("success on first try returns immediately", func(t *testing.T) {
		t.Parallel()

		callCount := 0
		result, err := apierr.RetryWithBackoff(
			context.Background(),
			apierr.RetryConfig{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: time.Minute},
			func() (string, error) {
				callCount++
				return "immediate", nil
			},
			func(error) bool { return true },
		)

		if err != nil {
			t.Errorf("RetryWithBackoff() unexpected error: %v", err)
		}
		if result != "immediate" {
			t.Errorf("got %q, want %q", result, "immediate")
		}
		if callCount != 1 {
			t.Errorf("call count = %d, want 1", callCount)
		}
	})

	t.Run("rejection is returned without retry", func(t *testing.T) {
		t.Parallel()

		callCount := 0
		rejected := apierr.NewRejected(&apierr.Rejection{Code: "InvalidAccessKeyId.NotFound"})
		_, err := apierr.RetryWithBackoff(
			context.Background(),
			fastRetry,
			func() (string, error) {
				callCount++
				return "", rejected
			},
			apierr.ShouldRetry,
		)

		if !errors.Is(err, apierr.ErrRejected) {
			t.Errorf("error = %v, want ErrRejected", err)
		}
		if callCount != 1 {
			t.Errorf("call count = %d, want 1 (no retry)", callCount)
		}
	})

	t.Run("timeouts retried then succeeds", func(t *testing.T) {
		t.Parallel()

		callCount := 0
		result, err := apierr.RetryWithBackoff(
			context.Background(),
			fastRetry,
			func() (string, error) {
				callCount++
				if callCount < 3 {
					return "", apierr.NewRequestFailure(apierr.FailureTimeout, 0, "deadline", context.DeadlineExceeded)
				}
				return "success", nil
			},
			apierr.ShouldRetry,
		)

		if err != nil {
			t.Errorf("RetryWithBackoff() unexpected error: %v", err)
		}
		if result != "success" {
			t.Errorf("got %q, want %q", result, "success")
		}
		if callCount != 3 {
			t.Errorf("call count = %d, want 3", callCount)
		}
	})

	t.Run("max retries exceeded wraps last error", func(t *testing.T) {
		t.Parallel()

		callCount := 0
		_, err := apierr.RetryWithBackoff(
			context.Background(),
			apierr.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
			func() (string, error) {
				callCount++
				return "", apierr.NewRequestFailure(apierr.FailureConnect, 0, "dial", errors.New("refused"))
			},
			apierr.ShouldRetry,
		)

		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if callCount != 3 {
			t.Errorf("call count = %d, want 3 (1 initial + 2 retries)", callCount)
		}
		if !errors.Is(err, apierr.ErrConnect) {
			t.Errorf("error should wrap original: got %v", err)
		}
	})

	t.Run("already cancelled context returns immediately", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		callCount := 0
		_, err := apierr.RetryWithBackoff(
			ctx,
			apierr.RetryConfig{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: time.Minute},
			func() (string, error) {
				callCount++
				return "", errors.New("should retry")
			},
			func(error) bool { return true },
		)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		// First call happens, then context check on retry wait
		if callCount != 1 {
			t.Errorf("call count = %d, want 1", callCount)
		}
	})

	t.Run("negative MaxRetries normalized to 0", func(t *testing.T) {
		t.Parallel()

		callCount := 0
		_, err := apierr.RetryWithBackoff(
			context.Background(),
			apierr.RetryConfig{MaxRetries: -5, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
			func() (string, error) {
				callCount++
				return "", errors.New("always fails")
			},
			func(error) bool { return true },
		)

		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if callCount != 1 {
			t.Errorf("call count = %d, want 1", callCount)
		}
	})

	t.Run("zero delays normalized", func(t *testing.T) {
		t.Parallel()

		callCount := 0
		_, err := apierr.RetryWithBackoff(
			context.Background(),
			apierr.RetryConfig{MaxRetries: 1},
			func() (string, error) {
				callCount++
				if callCount < 2 {
					return "", errors.New("retry")
				}
				return "ok", nil
			},
			func(error) bool { return true },
		)

		if err != nil {
			t.Errorf("RetryWithBackoff() unexpected error: %v", err)
		}
		if callCount != 2 {
			t.Errorf("call count = %d, want 2", callCount)
		}
	})
}

// ---------------------------------------------------------------------------
// TestDefaultRetryConfig
// ---------------------------------------------------------------------------

func TestDefaultRetryConfig(t *testing.T) {
	t.Parallel()

	cfg := apierr.DefaultRetryConfig(4)
	if cfg.MaxRetries != 4 {
		t.Errorf("MaxRetries = %d, want 4", cfg.MaxRetries)
	}
	if cfg.BaseDelay <= 0 || cfg.MaxDelay < cfg.BaseDelay {
		t.Errorf("delays = %v/%v, want 0 < base <= max", cfg.BaseDelay, cfg.MaxDelay)
	}
}

// ---------------------------------------------------------------------------
// TestShouldRetry - retry policy over the taxonomy
// ---------------------------------------------------------------------------

func TestShouldRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", apierr.NewRequestFailure(apierr.FailureTimeout, 0, "", nil), true},
		{"connect", apierr.NewRequestFailure(apierr.FailureConnect, 0, "", nil), true},
		{"status 503", apierr.NewRequestFailure(apierr.FailureStatus, 503, "", nil), true},
		{"status 500", apierr.NewRequestFailure(apierr.FailureStatus, 500, "", nil), true},
		{"status 404", apierr.NewRequestFailure(apierr.FailureStatus, 404, "", nil), false},
		{"rejected", apierr.NewRejected(&apierr.Rejection{Code: "Throttling"}), false},
		{"internal", apierr.NewInternal("decode", errors.New("bad json")), false},
		{"wrapped timeout", fmt.Errorf("call: %w", apierr.NewRequestFailure(apierr.FailureTimeout, 0, "", nil)), true},
		{"cancelled", apierr.NewInternal("cancelled", context.Canceled), false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := apierr.ShouldRetry(tt.err); got != tt.want {
				t.Errorf("ShouldRetry(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
