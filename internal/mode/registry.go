package mode

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrModeNotFound is returned when a mode name is not registered.
var ErrModeNotFound = errors.New("mode not found")

// Factory creates a mode instance for a configuration.
type Factory func(cfg Config) (Mode, error)

// Registry maps mode names and aliases to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	aliases   map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		aliases:   make(map[string]string),
	}
}

// Register adds a factory under name. Aliases such as MIME types resolve to
// the same factory. Registering an existing name replaces it.
func (r *Registry) Register(name string, f Factory, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = normalizeName(name)
	r.factories[name] = f
	for _, a := range aliases {
		r.aliases[normalizeName(a)] = name
	}
}

// Lookup returns the factory registered for name or alias.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = normalizeName(name)
	if f, ok := r.factories[name]; ok {
		return f, true
	}
	if target, ok := r.aliases[name]; ok {
		f, ok := r.factories[target]
		return f, ok
	}
	return nil, false
}

// New creates the mode registered under name.
func (r *Registry) New(name string, cfg Config) (Mode, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModeNotFound, name)
	}
	m, err := f(cfg.WithDefaults())
	if err != nil {
		return nil, fmt.Errorf("create mode %q: %w", name, err)
	}
	return m, nil
}

// Names returns the registered mode names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
