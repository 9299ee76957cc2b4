package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/modelo/pkg/attribute"
)

// ErrNotFound is returned when no function is registered under a name.
var ErrNotFound = errors.New("function not found")

// Registry manages the named getter, setter, deleter and factory functions
// that declaration files refer to.
type Registry struct {
	mu        sync.RWMutex
	getters   map[string]attribute.GetFunc
	setters   map[string]attribute.SetFunc
	deleters  map[string]attribute.DeleteFunc
	factories map[string]attribute.Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		getters:   make(map[string]attribute.GetFunc),
		setters:   make(map[string]attribute.SetFunc),
		deleters:  make(map[string]attribute.DeleteFunc),
		factories: make(map[string]attribute.Factory),
	}
}

// RegisterGetter adds a getter. An existing one with the same name is
// overwritten.
func (r *Registry) RegisterGetter(name string, fn attribute.GetFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getters[name] = fn
}

// RegisterSetter adds a setter, overwriting any with the same name.
func (r *Registry) RegisterSetter(name string, fn attribute.SetFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setters[name] = fn
}

// RegisterDeleter adds a deleter, overwriting any with the same name.
func (r *Registry) RegisterDeleter(name string, fn attribute.DeleteFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleters[name] = fn
}

// RegisterFactory adds a value factory, overwriting any with the same name.
func (r *Registry) RegisterFactory(name string, fn attribute.Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = fn
}

// Getter looks up a getter by name.
func (r *Registry) Getter(name string) (attribute.GetFunc, error) {
	return lookup(r, r.getters, attribute.KindGetter.String(), name)
}

// Setter looks up a setter by name.
func (r *Registry) Setter(name string) (attribute.SetFunc, error) {
	return lookup(r, r.setters, attribute.KindSetter.String(), name)
}

// Deleter looks up a deleter by name.
func (r *Registry) Deleter(name string) (attribute.DeleteFunc, error) {
	return lookup(r, r.deleters, attribute.KindDeleter.String(), name)
}

// Factory looks up a value factory by name.
func (r *Registry) Factory(name string) (attribute.Factory, error) {
	return lookup(r, r.factories, "factory", name)
}

// Names returns every registered name, sorted, grouped by kind.
func (r *Registry) Names() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return map[string][]string{
		attribute.KindGetter.String():  slices.Sorted(maps.Keys(r.getters)),
		attribute.KindSetter.String():  slices.Sorted(maps.Keys(r.setters)),
		attribute.KindDeleter.String(): slices.Sorted(maps.Keys(r.deleters)),
		"factory":                      slices.Sorted(maps.Keys(r.factories)),
	}
}

func lookup[F any](r *Registry, m map[string]F, kind, name string) (F, error) {
	r.mu.RLock()
	fn, ok := m[name]
	r.mu.RUnlock()
	if !ok {
		var zero F
		return zero, fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
	}
	return fn, nil
}
