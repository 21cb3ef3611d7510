package engine

import (
	"io"
	"testing"

	"github.com/kbukum/xfer/logger"
)

func TestEngine_LoggerFollowsComponentOverride(t *testing.T) {
	e := New(WithStdout(io.Discard), WithStderr(io.Discard))

	l := logger.Nop()
	logger.Register(logger.ComponentEngine, l)
	t.Cleanup(func() { logger.Register(logger.ComponentEngine, nil) })

	if e.logger() != l {
		t.Error("expected an engine created earlier to pick up the override")
	}

	own := logger.Nop()
	if got := New(WithLogger(own)).logger(); got != own {
		t.Error("expected WithLogger to take precedence")
	}
}
