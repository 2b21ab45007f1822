package auth

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry holds the strategies built at startup and the one installed
// for the auth middleware. NullAuth is always present.
type Registry struct {
	mu        sync.RWMutex
	byName    map[string]Strategy
	installed Strategy
}

func NewRegistry() *Registry {
	none := NullAuth{}
	return &Registry{byName: map[string]Strategy{none.Name(): none}, installed: none}
}

// Register adds s, replacing any strategy of the same name.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[s.Name()] = s
}

func (r *Registry) Get(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[name]
	return s, ok
}

// Install makes the named strategy the default. The previous default
// stays installed when name is unknown.
func (r *Registry) Install(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("auth: strategy %q not registered", name)
	}
	r.installed = s
	return nil
}

func (r *Registry) Default() Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.installed
}

// Session returns the default strategy if it manages sessions.
func (r *Registry) Session() (SessionStrategy, bool) {
	s, ok := r.Default().(SessionStrategy)
	return s, ok
}

// Names lists registered strategies in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.byName))
}
