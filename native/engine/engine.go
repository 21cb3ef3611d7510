package engine

import (
	"io"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/status"
	"github.com/kbukum/xfer/version"
)

// Name is the name the engine registers under.
const Name = "engine"

func init() {
	native.Register(Name, New())
}

// Option configures an Engine.
type Option func(*Engine)

// WithStdout sets where response bodies go when a handle has no write callback.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.stdout = w }
}

// WithStdin sets where upload data comes from when a handle has no read callback.
func WithStdin(r io.Reader) Option {
	return func(e *Engine) { e.stdin = r }
}

// WithStderr sets where verbose output goes when a handle has no debug callback.
func WithStderr(w io.Writer) Option {
	return func(e *Engine) { e.stderr = w }
}

// WithLogger sets the logger used for verbose transfers.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithAllocHook installs fn to decide whether each allocation succeeds.
// Refused allocations report the empty handle, as an exhausted native
// allocator would.
func WithAllocHook(fn func(Kind) bool) Option {
	return func(e *Engine) { e.allow = fn }
}

// Engine is a pure-Go implementation of native.Library over net/http.
type Engine struct {
	stdout io.Writer
	stdin  io.Reader
	stderr io.Writer
	log    *logger.Logger
	allow  func(Kind) bool

	objects *table
	inits   atomic.Int64
}

var _ native.Library = (*Engine)(nil)

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		stdout: os.Stdout,
		stdin:  os.Stdin,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.objects = newTable(e.allow)
	return e
}

// logger returns the engine's logger. Without WithLogger it is looked up
// per handle, so the registered engine follows later logger.Init calls.
func (e *Engine) logger() *logger.Logger {
	if e.log != nil {
		return e.log
	}
	return logger.Get(logger.ComponentEngine)
}

// Name returns the registered name.
func (e *Engine) Name() string { return Name }

// Version returns the engine version string.
func (e *Engine) Version() string {
	return "xfer-engine/" + version.Version + " " + runtime.Version()
}

// GlobalInit counts initializations. The engine has no global state to set up.
func (e *Engine) GlobalInit(flags proto.GlobalFlags) status.Code {
	e.inits.Add(1)
	return status.OK
}

// GlobalCleanup balances one GlobalInit.
func (e *Engine) GlobalCleanup() {
	if e.inits.Load() > 0 {
		e.inits.Add(-1)
	}
}

// Stats reports the number of live engine objects.
type Stats struct {
	Easy   int
	Nodes  int
	Multi  int
	Share  int
	URL    int
	Global int
}

// Stats returns the number of live objects of each kind.
func (e *Engine) Stats() Stats {
	return Stats{
		Easy:   e.objects.count(KindEasy),
		Nodes:  e.objects.count(KindNode),
		Multi:  e.objects.count(KindMulti),
		Share:  e.objects.count(KindShare),
		URL:    e.objects.count(KindURL),
		Global: int(e.inits.Load()),
	}
}
