package engine

import (
	"github.com/kbukum/xfer/native"
)

type node struct {
	data []byte
	next uintptr
}

func (e *Engine) node(l native.List) (*node, bool) {
	return lookup[*node](e.objects, uintptr(l), KindNode)
}

// SlistAppend appends text to the end of list and returns its head.
func (e *Engine) SlistAppend(list native.List, text string) native.List {
	var tail *node
	if list != 0 {
		n, ok := e.node(list)
		if !ok {
			return 0
		}
		for n.next != 0 {
			if n, ok = e.node(native.List(n.next)); !ok {
				return 0
			}
		}
		tail = n
	}

	h := e.objects.alloc(KindNode, &node{data: []byte(text)})
	if h == 0 {
		return 0
	}
	if tail == nil {
		return native.List(h)
	}
	tail.next = h
	return list
}

// SlistFreeAll releases every node of list.
func (e *Engine) SlistFreeAll(list native.List) {
	for h := uintptr(list); h != 0; {
		v, ok := e.objects.drop(h, KindNode)
		if !ok {
			return
		}
		h = v.(*node).next
	}
}

// SlistNext returns the node after n, or 0 at the end.
func (e *Engine) SlistNext(n native.List) native.List {
	nd, ok := e.node(n)
	if !ok {
		return 0
	}
	return native.List(nd.next)
}

// SlistData returns the payload of n. The slice aliases the node.
func (e *Engine) SlistData(n native.List) []byte {
	nd, ok := e.node(n)
	if !ok {
		return nil
	}
	return nd.data
}

// strings copies the payloads of list.
func (e *Engine) strings(list native.List) []string {
	var out []string
	for n := list; n != 0; n = e.SlistNext(n) {
		out = append(out, string(e.SlistData(n)))
	}
	return out
}

// newList builds a list from values. It returns false when allocation failed,
// in which case nothing is left allocated.
func (e *Engine) newList(values []string) (native.List, bool) {
	var head native.List
	for _, v := range values {
		next := e.SlistAppend(head, v)
		if next == 0 {
			e.SlistFreeAll(head)
			return 0, false
		}
		head = next
	}
	return head, true
}
