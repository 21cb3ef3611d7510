package logger

import (
	"slices"
	"sync"
)

// Components of the transfer stack that log through Get.
const (
	ComponentXfer   = "xfer"
	ComponentEasy   = "easy"
	ComponentMulti  = "multi"
	ComponentEngine = "engine"
	ComponentConfig = "config"
	ComponentCLI    = "cli"
)

// overrides holds loggers registered for a component. A component without
// an override logs through the global logger.
var overrides = struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// Register routes a component's logs to l, for example to raise the engine
// to debug while the rest stays at info. A nil l removes the override.
func Register(component string, l *Logger) {
	overrides.mu.Lock()
	defer overrides.mu.Unlock()
	if l == nil {
		delete(overrides.loggers, component)
		return
	}
	overrides.loggers[component] = l
}

// Get returns the logger of a component: its override, or the current
// global logger tagged with the component name. Handles resolve it when
// they are created, so Init before creating handles.
func Get(component string) *Logger {
	overrides.mu.RLock()
	l, ok := overrides.loggers[component]
	overrides.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(component)
}

// Overridden returns the sorted components that have a registered logger.
func Overridden() []string {
	overrides.mu.RLock()
	defer overrides.mu.RUnlock()
	names := make([]string, 0, len(overrides.loggers))
	for name := range overrides.loggers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
