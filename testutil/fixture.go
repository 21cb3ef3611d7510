package testutil

import "context"

// Fixture is a test dependency with a start/stop lifecycle.
type Fixture interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	// Reset returns the fixture to its just-started state.
	Reset(ctx context.Context) error
}
