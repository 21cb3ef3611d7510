// Package xfer is the entry point of a typed, ownership-safe facade over a
// libcurl-style transfer library.
//
// The facade lives in sub-packages: easy (transfer handles), multi
// (concurrent transfers), share (shared caches), urlapi (URL handles) and
// slist (string lists). Configure and query identifiers are in opt and
// info; native result codes translate to failures in status.
//
// Global state is set up once per process with Init:
//
//	g, err := xfer.Init(proto.GlobalDefault)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer g.Close()
//
// Importing native/engine registers the pure-Go library; building with
// -tags libcurl adds the cgo binding and makes it the default.
package xfer

import (
	"sync"

	_ "github.com/kbukum/xfer/native/engine"

	"github.com/kbukum/xfer/logger"
	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/proto"
	"github.com/kbukum/xfer/status"
)

// Global owns one global initialization of a native library.
type Global struct {
	lib  native.Library
	once sync.Once
}

// Option configures Init.
type Option func(*Global)

// WithLibrary initializes lib instead of the default library.
func WithLibrary(lib native.Library) Option {
	return func(g *Global) { g.lib = lib }
}

// Init performs global initialization with flags. Each successful Init must
// be balanced by Close.
func Init(flags proto.GlobalFlags, opts ...Option) (*Global, error) {
	g := &Global{}
	for _, o := range opts {
		o(g)
	}
	if g.lib == nil {
		lib, err := native.Default()
		if err != nil {
			return nil, err
		}
		g.lib = lib
	}
	if err := status.Check(g.lib.GlobalInit(flags)); err != nil {
		return nil, err
	}
	logger.Get(logger.ComponentXfer).Debug("global init", logger.Fields(
		logger.FieldLibrary, g.lib.Name(),
		"flags", int64(flags),
	))
	return g, nil
}

// Library returns the initialized library.
func (g *Global) Library() native.Library { return g.lib }

// Close undoes Init. Closing twice is a no-op.
func (g *Global) Close() error {
	g.once.Do(g.lib.GlobalCleanup)
	return nil
}

// Version returns the version string of the default library, or "" when
// none is registered.
func Version() string {
	lib, err := native.Default()
	if err != nil {
		return ""
	}
	return lib.Version()
}
