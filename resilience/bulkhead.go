package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Common bulkhead errors.
var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name identifies this bulkhead for logging.
	Name string
	// MaxConcurrent is the maximum number of concurrent calls.
	MaxConcurrent int
	// MaxWait bounds the wait for a slot. Zero waits until the context is
	// done; a negative value fails immediately when the bulkhead is full.
	MaxWait time.Duration
	// OnReject is called when a request is rejected.
	OnReject func(name string)
}

// Bulkhead limits concurrent access to a resource, such as the connections
// to one host.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}
	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Execute runs fn while holding a slot.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()
	return fn()
}

// Acquire takes a slot. Every successful Acquire must be paired with Release.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	err := b.acquire(ctx)
	if err != nil && b.config.OnReject != nil {
		b.config.OnReject(b.config.Name)
	}
	return err
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	default:
	}

	if b.config.MaxWait < 0 {
		return ErrBulkheadFull
	}

	var timeout <-chan time.Time
	if b.config.MaxWait > 0 {
		timer := time.NewTimer(b.config.MaxWait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case b.sem <- struct{}{}:
		return nil
	case <-timeout:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot.
func (b *Bulkhead) Release() {
	<-b.sem
}

// InUse returns the number of slots currently in use.
func (b *Bulkhead) InUse() int {
	return len(b.sem)
}

// MaxConcurrent returns the maximum concurrent calls allowed.
func (b *Bulkhead) MaxConcurrent() int {
	return b.config.MaxConcurrent
}

// KeyedBulkhead keeps one bulkhead per key, created on first use.
type KeyedBulkhead struct {
	config BulkheadConfig

	mu    sync.Mutex
	heads map[string]*Bulkhead
}

// NewKeyedBulkhead creates a keyed bulkhead. Each key gets its own
// MaxConcurrent slots.
func NewKeyedBulkhead(config BulkheadConfig) *KeyedBulkhead {
	return &KeyedBulkhead{config: config, heads: make(map[string]*Bulkhead)}
}

// For returns the bulkhead of key.
func (k *KeyedBulkhead) For(key string) *Bulkhead {
	k.mu.Lock()
	defer k.mu.Unlock()
	b, ok := k.heads[key]
	if !ok {
		cfg := k.config
		cfg.Name = k.config.Name + ":" + key
		b = NewBulkhead(cfg)
		k.heads[key] = b
	}
	return b
}
