package testutil

import (
	"context"
	"testing"
)

// CleanupFunc stops a fixture started by Setup.
type CleanupFunc func() error

// Setup starts f and returns the function that stops it.
func Setup(ctx context.Context, f Fixture) (CleanupFunc, error) {
	if err := f.Start(ctx); err != nil {
		return nil, err
	}
	return func() error { return f.Stop(ctx) }, nil
}

// THelper ties fixtures to a test's lifetime.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps t.
func T(t testing.TB) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// Setup starts f and stops it when the test ends. It fails the test if f
// does not start.
func (h *THelper) Setup(f Fixture) {
	h.t.Helper()
	cleanup, err := Setup(h.ctx, f)
	if err != nil {
		h.t.Fatalf("failed to start fixture %s: %v", f.Name(), err)
	}
	h.t.Cleanup(func() {
		if err := cleanup(); err != nil {
			h.t.Errorf("failed to stop fixture %s: %v", f.Name(), err)
		}
	})
}

// HTTPBin starts an HTTPBin fixture for the test.
func (h *THelper) HTTPBin() *HTTPBin {
	h.t.Helper()
	bin := NewHTTPBin()
	h.Setup(bin)
	return bin
}
