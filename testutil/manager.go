package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Manager runs several fixtures together. Fixtures start in the order they
// were added and stop in reverse.
type Manager struct {
	ctx      context.Context
	mu       sync.RWMutex
	fixtures []Fixture
}

// NewManager creates a manager using ctx for every lifecycle call.
func NewManager(ctx context.Context) *Manager {
	return &Manager{ctx: ctx}
}

// Add registers f.
func (m *Manager) Add(f Fixture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixtures = append(m.fixtures, f)
}

// Get returns the fixture named name, or nil.
func (m *Manager) Get(name string) Fixture {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.fixtures {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// StartAll starts every fixture, stopping at the first failure.
func (m *Manager) StartAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.fixtures {
		if err := f.Start(m.ctx); err != nil {
			return fmt.Errorf("failed to start fixture %s: %w", f.Name(), err)
		}
	}
	return nil
}

// StopAll stops every fixture and joins the failures.
func (m *Manager) StopAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var errs []error
	for i := len(m.fixtures) - 1; i >= 0; i-- {
		f := m.fixtures[i]
		if err := f.Stop(m.ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop fixture %s: %w", f.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// ResetAll resets every fixture.
func (m *Manager) ResetAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.fixtures {
		if err := f.Reset(m.ctx); err != nil {
			return fmt.Errorf("failed to reset fixture %s: %w", f.Name(), err)
		}
	}
	return nil
}
