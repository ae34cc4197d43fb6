package service

import (
	"errors"
	"testing"
	"time"

	appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
)

func TestRetryPolicyStopsOnSuccess(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}

	calls := 0
	err := p.Do(func() error {
		calls++
		if calls < 2 {
			return appErrors.NewDispatch("flaky", true, nil)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestRetryPolicyDoesNotRetryTerminalErrors(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}

	calls := 0
	err := p.Do(func() error {
		calls++
		return appErrors.NewDispatch("bad request", false, nil)
	})
	if err == nil {
		t.Fatal("expected the terminal error back")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryPolicyExhaustsAttempts(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}

	calls := 0
	err := p.Do(func() error {
		calls++
		return appErrors.NewDispatch("still down", true, nil)
	})
	if err == nil {
		t.Fatal("expected the last error back")
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryPolicyCustomClassifier(t *testing.T) {
	sentinel := errors.New("transient")
	p := RetryPolicy{
		MaxAttempts: 2,
		Backoff:     time.Millisecond,
		Classify:    func(err error) bool { return errors.Is(err, sentinel) },
	}

	calls := 0
	err := p.Do(func() error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel back, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}
