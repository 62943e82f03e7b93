package recipe

import (
	"sort"
	"sync"

	"github.com/crucible-build/crucible/pkg/errors"
	"github.com/crucible-build/crucible/pkg/version"
)

type registryEntry struct {
	factory  Factory
	versions []string
}

// Registry manages registered recipe factories with thread-safe
// operations.
type Registry struct {
	entries map[string]registryEntry

	mu sync.RWMutex
}

// NewRegistry creates an empty Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]registryEntry),
	}
}

// Register registers a recipe factory under its name along with the
// versions it carries source archives for. Registering an existing name
// replaces the previous entry.
func (r *Registry) Register(name string, versions []string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = registryEntry{factory: f, versions: versions}
}

// Lookup retrieves a factory by recipe name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.factory, ok
}

// Versions returns the versions registered for a recipe, newest last.
func (r *Registry) Versions(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil
	}
	return append([]string(nil), e.versions...)
}

// Resolve instantiates the named recipe at the given version.
func (r *Registry) Resolve(name string, v version.Version) (Definition, error) {
	f, ok := r.Lookup(name)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeNotFound,
			"recipe %q is not registered (known recipes: %v)", name, r.Names())
	}
	return f(v)
}

// Names returns all registered recipe names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered recipes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IsEmpty returns true if no recipes are registered.
func (r *Registry) IsEmpty() bool {
	return r.Count() == 0
}
