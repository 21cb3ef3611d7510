package resilience

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/xfer/errors"
)

func transient() error {
	return &errors.AppError{Code: errors.ErrCodeTransfer, Status: 28, Message: "Timeout was reached", Retryable: true}
}

func permanent() error {
	return &errors.AppError{Code: errors.ErrCodeTransfer, Status: 3, Message: "URL using bad/illegal format or missing URL"}
}

func fastConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, BackoffFactor: 2.0}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	callCount := 0
	result, err := Retry(context.Background(), DefaultRetryConfig(), func() (string, error) {
		callCount++
		return "success", nil
	})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %s", result)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	callCount := 0
	result, err := Retry(context.Background(), fastConfig(), func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", transient()
		}
		return "success", nil
	})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %s", result)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetry_ExceedsMaxAttempts(t *testing.T) {
	callCount := 0
	_, err := Retry(context.Background(), fastConfig(), func() (string, error) {
		callCount++
		return "", transient()
	})
	if !errors.IsRetryable(err) {
		t.Errorf("expected the last transient failure, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetry_PermanentFailureNotRetried(t *testing.T) {
	callCount := 0
	err := RetryFunc(context.Background(), fastConfig(), func() error {
		callCount++
		return permanent()
	})
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	if !errors.HasCode(err, errors.ErrCodeTransfer) {
		t.Errorf("expected transfer failure, got %v", err)
	}
}

func TestRetry_PlainErrorsNotRetried(t *testing.T) {
	callCount := 0
	_ = RetryFunc(context.Background(), fastConfig(), func() error {
		callCount++
		return stderrors.New("plain")
	})
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetry_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxAttempts: 10, InitialBackoff: 50 * time.Millisecond, BackoffFactor: 1.0}

	callCount := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := Retry(ctx, cfg, func() (string, error) {
		callCount++
		return "", transient()
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if callCount >= 10 {
		t.Errorf("expected fewer than 10 calls, got %d", callCount)
	}
}

func TestRetry_CustomRetryIf(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryIf = func(err error) bool { return true }

	callCount := 0
	_ = RetryFunc(context.Background(), cfg, func() error {
		callCount++
		return permanent()
	})
	if callCount != 3 {
		t.Errorf("expected 3 calls with a permissive RetryIf, got %d", callCount)
	}
}

func TestRetry_OnRetryCallback(t *testing.T) {
	var retries []int
	var mu sync.Mutex

	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		mu.Lock()
		retries = append(retries, attempt)
		mu.Unlock()
	}

	_ = RetryFunc(context.Background(), cfg, transient)

	mu.Lock()
	defer mu.Unlock()
	if len(retries) != 2 {
		t.Fatalf("expected 2 OnRetry calls, got %d", len(retries))
	}
	if retries[0] != 1 || retries[1] != 2 {
		t.Errorf("expected attempts [1, 2], got %v", retries)
	}
}

func TestTransferRetryConfig(t *testing.T) {
	cfg := TransferRetryConfig(4)
	if cfg.MaxAttempts != 4 {
		t.Errorf("expected 4 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != time.Second {
		t.Errorf("expected 1s initial backoff, got %v", cfg.InitialBackoff)
	}
	if cfg.RetryIf == nil || !cfg.RetryIf(transient()) || cfg.RetryIf(permanent()) {
		t.Error("expected RetryIf to follow the retryable flag")
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     1 * time.Second,
		BackoffFactor:  2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, 1 * time.Second},
		{6, 1 * time.Second},
	}
	for _, tt := range tests {
		if got := calculateBackoff(tt.attempt, cfg); got != tt.expected {
			t.Errorf("attempt %d: expected %v, got %v", tt.attempt, tt.expected, got)
		}
	}
}
