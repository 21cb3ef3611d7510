package resilience

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"
)

func TestThrottle_NilNeverBlocks(t *testing.T) {
	th := NewThrottle(ThrottleConfig{Name: "off"})
	if th != nil {
		t.Fatal("expected nil throttle for a zero rate")
	}
	if err := th.WaitN(context.Background(), 1<<20); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if th.Rate() != 0 {
		t.Errorf("expected rate 0, got %d", th.Rate())
	}
	r := bytes.NewReader([]byte("abc"))
	if th.Reader(context.Background(), r) != io.Reader(r) {
		t.Error("expected the reader to pass through unchanged")
	}
}

func TestThrottle_BurstPassesImmediately(t *testing.T) {
	th := NewThrottle(ThrottleConfig{Name: "recv", BytesPerSecond: 1000})
	start := time.Now()
	if err := th.WaitN(context.Background(), 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected burst to pass immediately, took %v", elapsed)
	}
}

func TestThrottle_WaitsForDebt(t *testing.T) {
	var waited time.Duration
	th := NewThrottle(ThrottleConfig{
		Name:           "recv",
		BytesPerSecond: 1000,
		Burst:          100,
		OnLimit:        func(_ string, d time.Duration) { waited = d },
	})

	start := time.Now()
	if err := th.WaitN(context.Background(), 150); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elapsed := time.Since(start)
	if elapsed < 30*time.Millisecond {
		t.Errorf("expected to wait about 50ms, took %v", elapsed)
	}
	if waited <= 0 {
		t.Error("expected OnLimit to report the wait")
	}
}

func TestThrottle_WaitRespectsContext(t *testing.T) {
	th := NewThrottle(ThrottleConfig{BytesPerSecond: 10, Burst: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := th.WaitN(ctx, 100); err == nil {
		t.Error("expected context error")
	}
}

func TestThrottle_Reader(t *testing.T) {
	th := NewThrottle(ThrottleConfig{BytesPerSecond: 4000, Burst: 100})
	src := bytes.Repeat([]byte("x"), 300)

	start := time.Now()
	got, err := io.ReadAll(th.Reader(context.Background(), bytes.NewReader(src)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Error("expected all bytes to pass through")
	}
	// 200 bytes beyond the burst at 4000 B/s is about 50ms.
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Errorf("expected throttling, took %v", elapsed)
	}
}
