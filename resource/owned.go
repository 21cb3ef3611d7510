package resource

import "sync"

// Owned owns one raw native resource.
type Owned[R comparable] struct {
	mu      sync.Mutex
	raw     R
	release func(R)
}

// Acquire takes ownership of raw, which must be a live resource or the zero
// value. release is called exactly once for a non-zero raw value. A nil
// release leaves releasing to the caller, who gives the value up with Take.
func Acquire[R comparable](raw R, release func(R)) *Owned[R] {
	return &Owned[R]{raw: raw, release: release}
}

// Get returns the held raw value without affecting ownership.
func (o *Owned[R]) Get() R {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.raw
}

// Empty reports whether the owner holds nothing.
func (o *Owned[R]) Empty() bool {
	var zero R
	return o.Get() == zero
}

// Move transfers the held resource to a new owner and leaves o empty.
func (o *Owned[R]) Move() *Owned[R] {
	return Acquire(o.Take(), o.release)
}

// Take relinquishes ownership of the held resource without releasing it.
func (o *Owned[R]) Take() R {
	o.mu.Lock()
	defer o.mu.Unlock()
	var zero R
	raw := o.raw
	o.raw = zero
	return raw
}

// Swap takes ownership of raw and returns the previously held value without
// releasing it.
func (o *Owned[R]) Swap(raw R) R {
	o.mu.Lock()
	defer o.mu.Unlock()
	old := o.raw
	o.raw = raw
	return old
}

// Reset releases the held resource, if any, then takes ownership of raw.
// Resetting to the value already held is a no-op.
func (o *Owned[R]) Reset(raw R) {
	o.mu.Lock()
	old := o.raw
	o.raw = raw
	o.mu.Unlock()

	var zero R
	if old != zero && old != raw && o.release != nil {
		o.release(old)
	}
}

// Close releases the held resource. Closing an empty owner does nothing.
func (o *Owned[R]) Close() error {
	raw := o.Take()
	var zero R
	if raw != zero && o.release != nil {
		o.release(raw)
	}
	return nil
}
