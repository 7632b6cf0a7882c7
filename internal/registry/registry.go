package registry

import (
	"sort"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered transports for a single application
// instance.
type Registry struct {
	TransportRegistry map[string]*RegisteredTransport
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		TransportRegistry: make(map[string]*RegisteredTransport),
	}
}

// Schemes returns the registered URL schemes in sorted order.
func (r *Registry) Schemes() []string {
	out := make([]string, 0, len(r.TransportRegistry))
	for scheme := range r.TransportRegistry {
		out = append(out, scheme)
	}
	sort.Strings(out)
	return out
}
