package native

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/xfer/errors"
)

var (
	mu          sync.RWMutex
	libraries   = make(map[string]Library)
	defaultName string
)

// Register makes a library available by name. The first registered library
// becomes the default. Register panics if lib is nil or name is taken.
func Register(name string, lib Library) {
	mu.Lock()
	defer mu.Unlock()
	if lib == nil {
		panic("native: Register library is nil")
	}
	if _, dup := libraries[name]; dup {
		panic("native: Register called twice for library " + name)
	}
	libraries[name] = lib
	if defaultName == "" {
		defaultName = name
	}
}

// SetDefault selects the library returned by Default.
func SetDefault(name string) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := libraries[name]; !ok {
		return errors.Library(fmt.Sprintf("native library %q not registered", name))
	}
	defaultName = name
	return nil
}

// Lookup returns the library registered under name.
func Lookup(name string) (Library, error) {
	mu.RLock()
	defer mu.RUnlock()
	lib, ok := libraries[name]
	if !ok {
		return nil, errors.Library(fmt.Sprintf("native library %q not registered", name)).
			WithDetail("available", names())
	}
	return lib, nil
}

// Default returns the default library.
func Default() (Library, error) {
	mu.RLock()
	defer mu.RUnlock()
	if defaultName == "" {
		return nil, errors.Library("no native library registered")
	}
	return libraries[defaultName], nil
}

// Libraries returns the sorted names of all registered libraries.
func Libraries() []string {
	mu.RLock()
	defer mu.RUnlock()
	return names()
}

func names() []string {
	out := make([]string, 0, len(libraries))
	for name := range libraries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
