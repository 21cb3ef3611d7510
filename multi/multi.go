// Package multi runs several transfer handles concurrently.
//
// A Multi owns a native multi handle. Added handles stay owned by the
// caller; Perform drives every added transfer that has not finished yet and
// returns once all of them completed. Per-transfer results are read with
// Messages.
package multi

import (
	"slices"
	"time"

	"github.com/kbukum/xfer/easy"
	"github.com/kbukum/xfer/errors"
	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/resource"
	"github.com/kbukum/xfer/status"
)

// Setting is a multi handle option taking an integer.
type Setting native.MultiOption

// Multi settings.
const (
	// MaxTotalConnections caps the transfers in flight. 0 means no limit.
	MaxTotalConnections = Setting(native.MultiOptMaxTotalConnections)
	// MaxHostConnections caps the transfers in flight per host.
	MaxHostConnections = Setting(native.MultiOptMaxHostConnections)
	// MaxConnects sizes the connection cache.
	MaxConnects          = Setting(native.MultiOptMaxConnects)
	Pipelining           = Setting(native.MultiOptPipelining)
	MaxConcurrentStreams = Setting(native.MultiOptMaxConcurrentStreams)
)

// Result is the outcome of one transfer.
type Result struct {
	Handle *easy.Handle
	Err    error
}

// Multi owns a native multi handle.
type Multi struct {
	lib     native.Library
	own     *resource.Owned[native.Multi]
	log     *logger.Logger
	handles []*easy.Handle
}

// Option configures a Multi.
type Option func(*Multi)

// WithLibrary backs the multi with lib. Added handles must use the same
// library.
func WithLibrary(lib native.Library) Option {
	return func(m *Multi) { m.lib = lib }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(m *Multi) { m.log = l }
}

// New allocates a multi handle.
func New(opts ...Option) (*Multi, error) {
	m := &Multi{}
	for _, o := range opts {
		o(m)
	}
	if m.lib == nil {
		lib, err := native.Default()
		if err != nil {
			return nil, err
		}
		m.lib = lib
	}
	if m.log == nil {
		m.log = logger.Get(logger.ComponentMulti)
	}
	raw := m.lib.MultiInit()
	if raw == 0 {
		return nil, errors.OutOfMemory("multi handle")
	}
	m.own = resource.Acquire(raw, func(r native.Multi) { m.lib.MultiCleanup(r) })
	return m, nil
}

func (m *Multi) raw() (native.Multi, error) {
	raw := m.own.Get()
	if raw == 0 {
		return 0, errors.Released("multi handle")
	}
	return raw, nil
}

// Set sets an integer option.
func (m *Multi) Set(s Setting, v int64) error {
	raw, err := m.raw()
	if err != nil {
		return err
	}
	return status.Check(m.lib.MultiSetopt(raw, native.MultiOption(s), v))
}

// Add adds h. A handle can belong to one multi at a time, and cannot be
// performed on its own while added.
func (m *Multi) Add(h *easy.Handle) error {
	raw, err := m.raw()
	if err != nil {
		return err
	}
	if h.Library() != m.lib {
		return errors.InvalidInput("handle", "backed by a different native library")
	}
	if err := status.Check(m.lib.MultiAddHandle(raw, h.Raw())); err != nil {
		return err
	}
	m.handles = append(m.handles, h)
	return nil
}

// Remove takes h out of the multi and discards its pending result.
func (m *Multi) Remove(h *easy.Handle) error {
	raw, err := m.raw()
	if err != nil {
		return err
	}
	if err := status.Check(m.lib.MultiRemoveHandle(raw, h.Raw())); err != nil {
		return err
	}
	m.handles = slices.DeleteFunc(m.handles, func(x *easy.Handle) bool { return x == h })
	return nil
}

// Len returns the number of added handles.
func (m *Multi) Len() int { return len(m.handles) }

// Perform runs the pending transfers and blocks until they all completed.
// A failing transfer does not fail Perform; read its result with Messages.
func (m *Multi) Perform() error {
	raw, err := m.raw()
	if err != nil {
		return err
	}
	start := time.Now()
	if err := status.Check(m.lib.MultiPerform(raw)); err != nil {
		return err
	}
	m.log.Debug("multi perform done", logger.Fields(
		"transfers", len(m.handles),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return nil
}

// Messages drains the results of completed transfers in completion order.
func (m *Multi) Messages() []Result {
	raw := m.own.Get()
	if raw == 0 {
		return nil
	}
	var out []Result
	for {
		msg, ok := m.lib.MultiInfoRead(raw)
		if !ok {
			return out
		}
		h := m.handle(msg.Handle)
		if h == nil {
			continue
		}
		err := status.Check(msg.Result)
		h.Complete(msg.Result, time.Time{})
		out = append(out, Result{Handle: h, Err: err})
	}
}

func (m *Multi) handle(raw native.Handle) *easy.Handle {
	for _, h := range m.handles {
		if h.Raw() == raw {
			return h
		}
	}
	return nil
}

// Close releases the multi handle. Added handles are detached and stay
// usable.
func (m *Multi) Close() error {
	raw := m.own.Get()
	if raw == 0 {
		return nil
	}
	for _, h := range m.handles {
		_ = m.lib.MultiRemoveHandle(raw, h.Raw())
	}
	if err := status.Check(m.lib.MultiCleanup(raw)); err != nil {
		return err
	}
	m.own.Take()
	m.handles = nil
	return nil
}
