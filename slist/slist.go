package slist

import (
	"iter"
	"sync/atomic"

	"github.com/kbukum/xfer/errors"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/resource"
)

// List owns a native string list.
type List struct {
	lib native.Library
	own *resource.Owned[native.List]
	gen atomic.Uint64
}

// Option configures a List.
type Option func(*config)

type config struct {
	lib native.Library
}

// WithLibrary backs the list with lib instead of the default library.
func WithLibrary(lib native.Library) Option {
	return func(c *config) { c.lib = lib }
}

// New returns an empty list.
func New(opts ...Option) (*List, error) {
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
	return From(c.lib, 0), nil
}

// From adopts raw, a chain allocated by lib. The returned list releases it.
func From(lib native.Library, raw native.List) *List {
	return &List{lib: lib, own: resource.Acquire(raw, lib.SlistFreeAll)}
}

// Of returns a list holding values in order.
func Of(values ...string) (*List, error) {
	l, err := New()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if err := l.Append(v); err != nil {
			l.Close()
			return nil, err
		}
	}
	return l, nil
}

// Append adds value at the end of the list. When the native layer cannot
// allocate the node it returns OUT_OF_MEMORY and the list is unchanged.
func (l *List) Append(value string) error {
	head := l.lib.SlistAppend(l.own.Get(), value)
	if head == 0 {
		return errors.OutOfMemory("string list node").WithDetail("value", value)
	}
	l.gen.Add(1)
	// The new head owns the whole chain, old nodes included.
	l.own.Swap(head)
	return nil
}

// All returns the node payloads in order. The sequence can be ranged over
// any number of times until the list is appended to or closed.
func (l *List) All() iter.Seq[[]byte] {
	gen := l.gen.Load()
	return func(yield func([]byte) bool) {
		for node := l.node(gen, l.own.Get()); node != 0; node = l.node(gen, l.lib.SlistNext(node)) {
			if !yield(l.lib.SlistData(node)) {
				return
			}
		}
	}
}

func (l *List) node(gen uint64, node native.List) native.List {
	if l.gen.Load() != gen {
		panic("slist: iterator used after the list was modified or closed")
	}
	return node
}

// Strings copies the payloads into a slice.
func (l *List) Strings() []string {
	var out []string
	for v := range l.All() {
		out = append(out, string(v))
	}
	return out
}

// Len counts the nodes.
func (l *List) Len() int {
	n := 0
	for range l.All() {
		n++
	}
	return n
}

// Library returns the library that allocated the list.
func (l *List) Library() native.Library { return l.lib }

// Raw returns the head node for passing to the native layer. The list keeps
// ownership.
func (l *List) Raw() native.List { return l.own.Get() }

// Empty reports whether the list has no nodes.
func (l *List) Empty() bool { return l.own.Empty() }

// Close releases the whole chain in one native call. Closing twice is a
// no-op.
func (l *List) Close() error {
	l.gen.Add(1)
	return l.own.Close()
}
