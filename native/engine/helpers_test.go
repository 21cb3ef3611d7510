package engine

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/opt"
	"github.com/kbukum/xfer/status"
)

func newTestEngine(opts ...Option) *Engine {
	base := []Option{
		WithStdout(io.Discard),
		WithStderr(io.Discard),
		WithLogger(logger.Nop()),
	}
	return New(append(base, opts...)...)
}

// sink collects body data written by a transfer.
type sink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *sink) write(p []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, _ := s.buf.Write(p)
	return n
}

func (s *sink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func mustInit(t *testing.T, e *Engine) native.Handle {
	t.Helper()
	h := e.EasyInit()
	if h == 0 {
		t.Fatal("expected a handle")
	}
	t.Cleanup(func() { e.EasyCleanup(h) })
	return h
}

func setopt(t *testing.T, e *Engine, h native.Handle, o native.Option, v any) {
	t.Helper()
	if code := e.EasySetopt(h, o, v); code != status.OK {
		t.Fatalf("setopt %d: expected OK, got %s", o, code)
	}
}

func setURL(t *testing.T, e *Engine, h native.Handle, url string) {
	t.Helper()
	setopt(t, e, h, native.Option(opt.URL), url)
}

func setWriter(t *testing.T, e *Engine, h native.Handle) *sink {
	t.Helper()
	s := &sink{}
	setopt(t, e, h, native.Option(opt.WriteFunction), native.WriteFunc(s.write))
	return s
}

func getLong(t *testing.T, e *Engine, h native.Handle, i native.Info) int64 {
	t.Helper()
	var v int64
	if code := e.EasyGetinfo(h, i, &v); code != status.OK {
		t.Fatalf("getinfo %#x: expected OK, got %s", i, code)
	}
	return v
}

func getString(t *testing.T, e *Engine, h native.Handle, i native.Info) string {
	t.Helper()
	var v string
	if code := e.EasyGetinfo(h, i, &v); code != status.OK {
		t.Fatalf("getinfo %#x: expected OK, got %s", i, code)
	}
	return v
}
