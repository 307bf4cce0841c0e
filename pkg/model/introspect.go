package model

import (
	"errors"
	"fmt"
)

// ErrIntrospection is recorded in Graph.Failures when a category could not be
// read.
var ErrIntrospection = errors.New("model: introspection failed")

// Graph lists the traversable members of a type.
type Graph struct {
	Children   []*Relation
	ManyToMany []*Relation
	Generic    []*Relation
	OneToOne   []*Relation
	Localized  []Descriptor

	// Failures holds one error per category that degraded to empty.
	Failures []error
}

// Introspect returns the relations and installed descriptors of an *Instance
// or a *Type. It never fails: a category that cannot be read is left empty
// and the cause is recorded in Failures.
func Introspect(v any) Graph {
	var g Graph

	t, err := typeOf(v)
	if err != nil {
		g.Failures = append(g.Failures, err)
		return g
	}

	g.Children = collect(&g, "reverse foreign keys", func() []*Relation { return t.RelationsOf(ReverseForeignKey) })
	g.ManyToMany = collect(&g, "many to many", func() []*Relation { return t.RelationsOf(ManyToMany) })
	g.Generic = collect(&g, "generic relations", func() []*Relation { return t.RelationsOf(Generic) })
	g.OneToOne = collect(&g, "one to one", func() []*Relation { return t.RelationsOf(OneToOne) })
	g.Localized = collect(&g, "localized descriptors", func() []Descriptor {
		var out []Descriptor
		for _, d := range t.Descriptors() {
			if t.IsLocalized(d.Name()) {
				out = append(out, d)
			}
		}
		return out
	})

	return g
}

func typeOf(v any) (*Type, error) {
	switch x := v.(type) {
	case *Instance:
		if x == nil || x.Type == nil {
			return nil, fmt.Errorf("%w: %w", ErrIntrospection, ErrNilType)
		}
		return x.Type, nil
	case *Type:
		if x == nil {
			return nil, fmt.Errorf("%w: %w", ErrIntrospection, ErrNilType)
		}
		return x, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value %T", ErrIntrospection, v)
	}
}

func collect[T any](g *Graph, category string, fn func() []T) (out []T) {
	defer func() {
		if r := recover(); r != nil {
			g.Failures = append(g.Failures, fmt.Errorf("%w: %s: %v", ErrIntrospection, category, r))
			out = nil
		}
	}()
	return fn()
}
