package engine

import (
	"sync"
)

// Kind tags the resource stored in a table slot.
type Kind uint8

// Resource kinds.
const (
	KindEasy Kind = iota + 1
	KindNode
	KindMulti
	KindShare
	KindURL
	kindCount
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEasy:
		return "easy"
	case KindNode:
		return "slist node"
	case KindMulti:
		return "multi"
	case KindShare:
		return "share"
	case KindURL:
		return "url"
	default:
		return "unknown"
	}
}

type slot struct {
	kind  Kind
	value any
}

// table maps opaque handles to engine objects. Handle 0 is never issued;
// released handles are reused.
type table struct {
	mu    sync.Mutex
	slots []slot
	free  []uintptr
	live  [kindCount]int
	allow func(Kind) bool
}

func newTable(allow func(Kind) bool) *table {
	return &table{
		slots: make([]slot, 0, 64),
		free:  make([]uintptr, 0, 16),
		allow: allow,
	}
}

// alloc stores v and returns its handle, or 0 when allocation is refused.
func (t *table) alloc(kind Kind, v any) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.allow != nil && !t.allow(kind) {
		return 0
	}

	s := slot{kind: kind, value: v}
	t.live[kind]++

	if n := len(t.free); n > 0 {
		h := t.free[n-1]
		t.free = t.free[:n-1]
		t.slots[h-1] = s
		return h
	}

	t.slots = append(t.slots, s)
	return uintptr(len(t.slots))
}

func (t *table) get(h uintptr, kind Kind) (any, bool) {
	if h == 0 {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if int(h) > len(t.slots) {
		return nil, false
	}
	s := t.slots[h-1]
	if s.value == nil || s.kind != kind {
		return nil, false
	}
	return s.value, true
}

// drop removes h and returns the stored value.
func (t *table) drop(h uintptr, kind Kind) (any, bool) {
	if h == 0 {
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if int(h) > len(t.slots) {
		return nil, false
	}
	s := &t.slots[h-1]
	if s.value == nil || s.kind != kind {
		return nil, false
	}
	v := s.value
	*s = slot{}
	t.live[kind]--
	t.free = append(t.free, h)
	return v, true
}

func (t *table) count(kind Kind) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live[kind]
}

func lookup[T any](t *table, h uintptr, kind Kind) (T, bool) {
	v, ok := t.get(h, kind)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}
