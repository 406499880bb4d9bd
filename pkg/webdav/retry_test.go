package webdav

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyEventualSuccess(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond}

	calls := 0
	err := policy.do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryPolicyExhaustion(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 2, InitialDelay: time.Millisecond}

	calls := 0
	err := policy.do(context.Background(), func() error {
		calls++
		return errors.New("timeout")
	})
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRetryPolicyZeroValueRunsOnce(t *testing.T) {
	calls := 0
	err := RetryPolicy{}.do(context.Background(), func() error {
		calls++
		return errors.New("boom")
	})
	if err == nil || calls != 1 {
		t.Errorf("err = %v, calls = %d, want single failing attempt", err, calls)
	}
}

func TestRetryPolicyHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := RetryPolicy{MaxAttempts: 5, InitialDelay: time.Minute}
	err := policy.do(ctx, func() error { return errors.New("down") })
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context cancellation", err)
	}
}
