package effectchain

import (
	"errors"
	"fmt"
	"slices"
)

// Factory builds one Runtime instance for a stage.
type Factory func(ctx Context) (Runtime, error)

// Registry maps stage kinds to their factories.
type Registry struct {
	factories map[string]Factory
}

var errDuplicateKind = errors.New("duplicate stage kind")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given stage kind.
func (r *Registry) Register(kind string, factory Factory) error {
	if kind == "" {
		return errors.New("empty stage kind")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %s", errDuplicateKind, kind)
	}

	r.factories[kind] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind string, factory Factory) {
	err := r.Register(kind, factory)
	if err != nil {
		panic("effectchain registry: " + err.Error())
	}
}

// Lookup returns the factory for the given stage kind, or nil.
func (r *Registry) Lookup(kind string) Factory {
	return r.factories[kind]
}

// Kinds returns the registered stage kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}

	slices.Sort(kinds)

	return kinds
}
