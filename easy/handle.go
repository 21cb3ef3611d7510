package easy

import (
	"maps"

	"github.com/google/uuid"

	"github.com/kbukum/xfer/errors"
	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/resource"
	"github.com/kbukum/xfer/slist"
)

// Handle owns a native transfer handle.
type Handle struct {
	cfg config
	lib native.Library
	own *resource.Owned[native.Handle]
	id  string
	log *logger.Logger

	// lists borrowed through SetList
	lists map[opt.List]*slist.List
}

// Option configures a Handle.
type Option func(*config)

type config struct {
	lib       native.Library
	log       *logger.Logger
	observers []Observer
}

// WithLibrary backs the handle with lib instead of the default library.
func WithLibrary(lib native.Library) Option {
	return func(c *config) { c.lib = lib }
}

// WithLogger sets the logger for handle lifecycle and perform results.
func WithLogger(l *logger.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithObserver registers o to be notified after every Perform.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observers = append(c.observers, o) }
}

// New allocates a handle with default settings. It returns OUT_OF_MEMORY
// when the native layer cannot allocate one.
func New(opts ...Option) (*Handle, error) {
	var c config
	for _, o := range opts {
		o(&c)
	}
	if c.lib == nil {
		lib, err := native.Default()
		if err != nil {
			return nil, err
		}
		c.lib = lib
	}
	if c.log == nil {
		c.log = logger.Get(logger.ComponentEasy)
	}
	raw := c.lib.EasyInit()
	if raw == 0 {
		return nil, errors.OutOfMemory("easy handle")
	}
	return c.wrap(raw), nil
}

func (c config) wrap(raw native.Handle) *Handle {
	id := uuid.NewString()
	h := &Handle{
		cfg: c,
		lib: c.lib,
		own: resource.Acquire(raw, c.lib.EasyCleanup),
		id:  id,
		log: c.log.WithHandle(id),
	}
	h.log.Debug("handle created", logger.Fields(logger.FieldLibrary, c.lib.Name()))
	return h
}

// ID returns the handle's correlation id.
func (h *Handle) ID() string { return h.id }

// Library returns the native library backing the handle.
func (h *Handle) Library() native.Library { return h.lib }

// Raw returns the native handle, or 0 after Close. The Handle keeps
// ownership.
func (h *Handle) Raw() native.Handle { return h.own.Get() }

func (h *Handle) raw() (native.Handle, error) {
	raw := h.own.Get()
	if raw == 0 {
		return 0, errors.Released("easy handle").WithDetail(logger.FieldHandle, h.id)
	}
	return raw, nil
}

// Reset restores every option to its default. Connections, caches and
// cookies are kept. Resetting a closed handle does nothing.
func (h *Handle) Reset() {
	if raw := h.own.Get(); raw != 0 {
		h.lib.EasyReset(raw)
		h.lists = nil
	}
}

// Duplicate returns a new handle with the same options. The copy has fresh
// transfer info and is released independently.
func (h *Handle) Duplicate() (*Handle, error) {
	raw, err := h.raw()
	if err != nil {
		return nil, err
	}
	dup := h.lib.EasyDuphandle(raw)
	if dup == 0 {
		return nil, errors.OutOfMemory("easy handle duplicate").WithDetail(logger.FieldHandle, h.id)
	}
	d := h.cfg.wrap(dup)
	d.lists = maps.Clone(h.lists)
	d.log.Debug("handle duplicated", logger.Fields("source", h.id))
	return d, nil
}

// Close releases the native handle. Closing twice is a no-op.
func (h *Handle) Close() error {
	if h.own.Empty() {
		return nil
	}
	h.log.Debug("handle released")
	h.lists = nil
	return h.own.Close()
}
