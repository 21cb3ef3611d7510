package resilience

import (
	"context"
	"io"
	"sync"
	"time"
)

// ThrottleConfig configures a byte-rate throttle.
type ThrottleConfig struct {
	// Name identifies this throttle for logging.
	Name string
	// BytesPerSecond is the sustained transfer rate.
	BytesPerSecond int64
	// Burst is the number of bytes that may pass at once. Defaults to one
	// second worth of bytes.
	Burst int64
	// OnLimit is called when a caller has to wait.
	OnLimit func(name string, wait time.Duration)
}

// Throttle is a token bucket measured in bytes. It caps the speed of a
// transfer direction.
type Throttle struct {
	config ThrottleConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewThrottle creates a throttle. It returns nil when BytesPerSecond is not
// positive; a nil *Throttle never blocks.
func NewThrottle(config ThrottleConfig) *Throttle {
	if config.BytesPerSecond <= 0 {
		return nil
	}
	if config.Burst <= 0 {
		config.Burst = config.BytesPerSecond
	}
	return &Throttle{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// WaitN blocks until n bytes may pass or ctx is done.
func (t *Throttle) WaitN(ctx context.Context, n int) error {
	if t == nil || n <= 0 {
		return nil
	}

	wait := t.reserveN(n)
	if wait <= 0 {
		return nil
	}
	if t.config.OnLimit != nil {
		t.config.OnLimit(t.config.Name, wait)
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Reader returns r throttled to the configured rate.
func (t *Throttle) Reader(ctx context.Context, r io.Reader) io.Reader {
	if t == nil {
		return r
	}
	return &throttledReader{ctx: ctx, r: r, t: t}
}

// Rate returns the configured bytes per second, or 0 for a nil throttle.
func (t *Throttle) Rate() int64 {
	if t == nil {
		return 0
	}
	return t.config.BytesPerSecond
}

// refill adds tokens based on time elapsed.
func (t *Throttle) refill() {
	now := time.Now()
	elapsed := now.Sub(t.lastRefill).Seconds()
	t.lastRefill = now

	t.tokens += elapsed * float64(t.config.BytesPerSecond)
	if t.tokens > float64(t.config.Burst) {
		t.tokens = float64(t.config.Burst)
	}
}

// reserveN takes n tokens, going into debt if needed, and returns how long
// the caller has to wait for the debt to be repaid.
func (t *Throttle) reserveN(n int) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill()
	t.tokens -= float64(n)
	if t.tokens >= 0 {
		return 0
	}
	return time.Duration(-t.tokens / float64(t.config.BytesPerSecond) * float64(time.Second))
}

type throttledReader struct {
	ctx context.Context
	r   io.Reader
	t   *Throttle
}

func (tr *throttledReader) Read(p []byte) (int, error) {
	if burst := int(tr.t.config.Burst); len(p) > burst {
		p = p[:burst]
	}
	n, err := tr.r.Read(p)
	if n > 0 {
		if werr := tr.t.WaitN(tr.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
