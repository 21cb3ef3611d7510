package engine

import (
	"context"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/resilience"
	"github.com/kbukum/xfer/status"
)

// multiState drives several easy handles at once.
type multiState struct {
	handles []native.Handle
	done    map[native.Handle]bool
	opts    map[native.MultiOption]int64
	pool    *connPool
	running atomic.Bool

	mu       sync.Mutex
	messages []native.Message
}

func (e *Engine) multiState(m native.Multi) (*multiState, bool) {
	return lookup[*multiState](e.objects, uintptr(m), KindMulti)
}

// MultiInit allocates an empty multi handle.
func (e *Engine) MultiInit() native.Multi {
	return native.Multi(e.objects.alloc(KindMulti, &multiState{
		done: make(map[native.Handle]bool),
		opts: make(map[native.MultiOption]int64),
		pool: newConnPool(),
	}))
}

// MultiCleanup releases m. Handles still added are detached and stay valid.
func (e *Engine) MultiCleanup(m native.Multi) status.MultiCode {
	ms, ok := e.multiState(m)
	if !ok {
		return status.MultiBadHandle
	}
	if ms.running.Load() {
		return status.MultiRecursiveAPICall
	}
	for _, h := range ms.handles {
		if ez, ok := e.easy(h); ok {
			ez.multi = 0
			ez.shared = nil
		}
	}
	ms.pool.close()
	e.objects.drop(uintptr(m), KindMulti)
	return status.MultiOK
}

// MultiAddHandle adds h to m. A handle can be in one multi at a time.
func (e *Engine) MultiAddHandle(m native.Multi, h native.Handle) status.MultiCode {
	ms, ok := e.multiState(m)
	if !ok {
		return status.MultiBadHandle
	}
	ez, ok := e.easy(h)
	if !ok {
		return status.MultiBadEasyHandle
	}
	if ez.multi != 0 {
		return status.MultiAddedAlready
	}
	if ms.running.Load() {
		return status.MultiRecursiveAPICall
	}
	ez.multi = m
	ez.shared = ms.pool
	ms.handles = append(ms.handles, h)
	return status.MultiOK
}

// MultiRemoveHandle takes h out of m and drops its pending message.
// Removing a handle that is in no multi is not an error.
func (e *Engine) MultiRemoveHandle(m native.Multi, h native.Handle) status.MultiCode {
	ms, ok := e.multiState(m)
	if !ok {
		return status.MultiBadHandle
	}
	ez, ok := e.easy(h)
	if !ok {
		return status.MultiBadEasyHandle
	}
	if ez.multi == 0 {
		return status.MultiOK
	}
	if ez.multi != m {
		return status.MultiBadEasyHandle
	}
	if ms.running.Load() {
		return status.MultiRecursiveAPICall
	}
	ez.multi = 0
	ez.shared = nil
	ms.handles = slices.DeleteFunc(ms.handles, func(x native.Handle) bool { return x == h })
	delete(ms.done, h)

	ms.mu.Lock()
	ms.messages = slices.DeleteFunc(ms.messages, func(msg native.Message) bool { return msg.Handle == h })
	ms.mu.Unlock()
	return status.MultiOK
}

// MultiSetopt sets a multi option.
func (e *Engine) MultiSetopt(m native.Multi, o native.MultiOption, value int64) status.MultiCode {
	ms, ok := e.multiState(m)
	if !ok {
		return status.MultiBadHandle
	}
	switch o {
	case native.MultiOptPipelining, native.MultiOptMaxConnects, native.MultiOptMaxHostConnections,
		native.MultiOptMaxTotalConnections, native.MultiOptMaxConcurrentStreams:
	default:
		return status.MultiUnknownOption
	}
	if value < 0 {
		return status.MultiBadFunctionArg
	}
	ms.opts[o] = value
	return status.MultiOK
}

// MultiPerform runs every added transfer that has not completed yet and
// blocks until all are done. MAX_TOTAL_CONNECTIONS caps the transfers in
// flight and MAX_HOST_CONNECTIONS the ones per host.
func (e *Engine) MultiPerform(m native.Multi) status.MultiCode {
	ms, ok := e.multiState(m)
	if !ok {
		return status.MultiBadHandle
	}
	if !ms.running.CompareAndSwap(false, true) {
		return status.MultiRecursiveAPICall
	}
	defer ms.running.Store(false)

	var hosts *resilience.KeyedBulkhead
	if n := ms.opts[native.MultiOptMaxHostConnections]; n > 0 {
		hosts = resilience.NewKeyedBulkhead(resilience.BulkheadConfig{
			Name:          "multi-host",
			MaxConcurrent: int(n),
		})
	}

	ctx := context.Background()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(-1)
	if n := ms.opts[native.MultiOptMaxTotalConnections]; n > 0 {
		g.SetLimit(int(n))
	}

	for _, h := range ms.handles {
		if ms.done[h] {
			continue
		}
		ez, ok := e.easy(h)
		if !ok {
			continue
		}
		ms.done[h] = true
		g.Go(func() error {
			if hosts != nil {
				slot := hosts.For(hostOf(ez.opts.str(opt.URL)))
				if err := slot.Acquire(gctx); err != nil {
					ms.post(native.Message{Handle: h, Result: status.OperationTimedout})
					return nil
				}
				defer slot.Release()
			}
			ms.post(native.Message{Handle: h, Result: ez.perform(e, ctx)})
			return nil
		})
	}
	_ = g.Wait()
	return status.MultiOK
}

func (ms *multiState) post(msg native.Message) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.messages = append(ms.messages, msg)
}

// MultiInfoRead pops the oldest completion message.
func (e *Engine) MultiInfoRead(m native.Multi) (native.Message, bool) {
	ms, ok := e.multiState(m)
	if !ok {
		return native.Message{}, false
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if len(ms.messages) == 0 {
		return native.Message{}, false
	}
	msg := ms.messages[0]
	ms.messages = ms.messages[1:]
	return msg, true
}

func hostOf(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return strings.ToLower(u.Host)
}
