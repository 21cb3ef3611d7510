package slist

import (
	"slices"
	"testing"

	"github.com/kbukum/xfer/errors"
	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native/engine"
)

func newTestList(t *testing.T, opts ...engine.Option) (*List, *engine.Engine) {
	t.Helper()
	lib := engine.New(append([]engine.Option{engine.WithLogger(logger.Nop())}, opts...)...)
	l, err := New(WithLibrary(lib))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return l, lib
}

func TestList_AppendThenIterate(t *testing.T) {
	l, lib := newTestList(t)
	defer l.Close()

	want := []string{"one", "two", "three"}
	for _, v := range want {
		if err := l.Append(v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := l.Strings(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if l.Len() != 3 {
		t.Errorf("expected 3 nodes, got %d", l.Len())
	}
	if got := lib.Stats().Nodes; got != 3 {
		t.Errorf("expected 3 live nodes, got %d", got)
	}
}

func TestList_EmptyIteratesNothing(t *testing.T) {
	l, _ := newTestList(t)
	defer l.Close()

	for range l.All() {
		t.Fatal("expected no elements")
	}
	if !l.Empty() {
		t.Error("expected empty list")
	}
}

func TestList_IterationIsRestartable(t *testing.T) {
	l, _ := newTestList(t)
	defer l.Close()
	l.Append("a")
	l.Append("b")

	seq := l.All()
	var first, second []string
	for v := range seq {
		first = append(first, string(v))
	}
	for v := range seq {
		second = append(second, string(v))
	}
	if !slices.Equal(first, second) {
		t.Errorf("expected identical passes, got %v and %v", first, second)
	}
}

func TestList_FailedAppendKeepsChain(t *testing.T) {
	allocs := 0
	l, lib := newTestList(t, engine.WithAllocHook(func(engine.Kind) bool {
		allocs++
		return allocs <= 2
	}))
	defer l.Close()

	l.Append("kept-1")
	l.Append("kept-2")
	err := l.Append("lost")
	if !errors.HasCode(err, errors.ErrCodeOutOfMemory) {
		t.Fatalf("expected OUT_OF_MEMORY, got %v", err)
	}
	if got := l.Strings(); !slices.Equal(got, []string{"kept-1", "kept-2"}) {
		t.Errorf("expected previous chain intact, got %v", got)
	}

	l.Close()
	if got := lib.Stats().Nodes; got != 0 {
		t.Errorf("expected all nodes released, got %d", got)
	}
}

func TestList_FailedFirstAppend(t *testing.T) {
	l, _ := newTestList(t, engine.WithAllocHook(func(engine.Kind) bool { return false }))
	defer l.Close()

	if err := l.Append("x"); !errors.HasCode(err, errors.ErrCodeOutOfMemory) {
		t.Fatalf("expected OUT_OF_MEMORY, got %v", err)
	}
	if !l.Empty() {
		t.Error("expected list to stay empty")
	}
}

func TestList_CloseTwiceReleasesOnce(t *testing.T) {
	l, lib := newTestList(t)
	l.Append("a")
	l.Append("b")

	if err := l.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("unexpected error on second close: %v", err)
	}
	if got := lib.Stats().Nodes; got != 0 {
		t.Errorf("expected no live nodes, got %d", got)
	}
}

func TestList_IteratorInvalidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*List)
	}{
		{"append", func(l *List) { l.Append("c") }},
		{"close", func(l *List) { l.Close() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestList(t)
			defer l.Close()
			l.Append("a")
			l.Append("b")

			seq := l.All()
			tt.mutate(l)

			defer func() {
				if recover() == nil {
					t.Error("expected panic from a stale iterator")
				}
			}()
			for range seq {
			}
		})
	}
}

func TestList_FromAdoptsChain(t *testing.T) {
	lib := engine.New(engine.WithLogger(logger.Nop()))
	raw := lib.SlistAppend(0, "adopted")
	l := From(lib, raw)

	if got := l.Strings(); !slices.Equal(got, []string{"adopted"}) {
		t.Errorf("expected adopted chain, got %v", got)
	}
	if l.Raw() != raw {
		t.Errorf("expected raw head %d, got %d", raw, l.Raw())
	}
	l.Close()
	if got := lib.Stats().Nodes; got != 0 {
		t.Errorf("expected chain released, got %d nodes", got)
	}
}

func TestOf(t *testing.T) {
	l, err := Of("x", "y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer l.Close()
	if got := l.Strings(); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("expected [x y], got %v", got)
	}
}
