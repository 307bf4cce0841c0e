package model

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry indexes types by label.
type Registry struct {
	types map[string]*Type
	mu    sync.RWMutex
}

// NewRegistry creates a registry holding types.
func NewRegistry(types ...*Type) (*Registry, error) {
	r := &Registry{types: make(map[string]*Type, len(types))}
	for _, t := range types {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds t.
func (r *Registry) Register(t *Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[t.Label()]; ok {
		return fmt.Errorf("%w: %s", ErrTypeRegistered, t.Label())
	}
	r.types[t.Label()] = t
	return nil
}

// Lookup returns the type labelled label ("app.name").
func (r *Registry) Lookup(label string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[label]
	return t, ok
}

// Types returns registered types sorted by label.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Type) int { return strings.Compare(a.Label(), b.Label()) })
	return out
}
