package backend

import (
	"fmt"
	"sort"
	"sync"
)

// Engine name constants.
const (
	// EngineSim is the in-memory deterministic engine.
	EngineSim = "sim"
	// EngineCDP is the Chromium engine driven over the DevTools protocol.
	EngineCDP = "cdp"
)

// defaultPriority orders Default's preference: a real renderer when its
// package is linked in, the in-memory engine otherwise.
var defaultPriority = []string{EngineCDP, EngineSim}

// Factory constructs a rendering engine.
type Factory func() (Engine, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register makes an engine constructor available under name. Engine
// packages call it from init; a duplicate name is a wiring bug and panics.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := factories[name]; dup {
		panic("backend: duplicate engine registration: " + name)
	}
	factories[name] = factory
}

// New constructs the named engine.
func New(name string) (Engine, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("backend: unknown engine %q (registered: %v)", name, Names())
	}
	engine, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend: construct %q: %w", name, err)
	}
	return engine, nil
}

// Default constructs the most capable registered engine.
func Default() (Engine, error) {
	registryMu.RLock()
	var name string
	for _, candidate := range defaultPriority {
		if _, ok := factories[candidate]; ok {
			name = candidate
			break
		}
	}
	registryMu.RUnlock()
	if name == "" {
		return nil, fmt.Errorf("backend: no engines registered")
	}
	return New(name)
}

// Names lists registered engine names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
