package engine

import (
	"testing"

	"github.com/kbukum/xfer/native"
)

func TestSlist_AppendAndWalk(t *testing.T) {
	e := newTestEngine()
	var head native.List
	for _, s := range []string{"a", "b", "c"} {
		next := e.SlistAppend(head, s)
		if next == 0 {
			t.Fatalf("append %q failed", s)
		}
		head = next
	}
	defer e.SlistFreeAll(head)

	got := e.strings(head)
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("expected [a b c], got %v", got)
	}
	if n := e.Stats().Nodes; n != 3 {
		t.Errorf("expected 3 nodes, got %d", n)
	}
}

func TestSlist_FailedAppendKeepsChain(t *testing.T) {
	left := 2
	e := newTestEngine(WithAllocHook(func(k Kind) bool {
		if k != KindNode {
			return true
		}
		left--
		return left >= 0
	}))
	head := e.SlistAppend(0, "a")
	head = e.SlistAppend(head, "b")
	if got := e.SlistAppend(head, "c"); got != 0 {
		t.Fatalf("expected failed append, got %d", got)
	}
	if got := e.strings(head); len(got) != 2 {
		t.Errorf("expected chain intact, got %v", got)
	}
	e.SlistFreeAll(head)
	if n := e.Stats().Nodes; n != 0 {
		t.Errorf("expected all nodes freed, got %d", n)
	}
}

func TestSlist_NewListRollsBack(t *testing.T) {
	left := 1
	e := newTestEngine(WithAllocHook(func(Kind) bool {
		left--
		return left >= 0
	}))
	if _, ok := e.newList([]string{"a", "b"}); ok {
		t.Fatal("expected failure")
	}
	if n := e.Stats().Nodes; n != 0 {
		t.Errorf("expected rollback to free nodes, got %d", n)
	}
}
