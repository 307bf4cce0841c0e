package model

import (
	"context"
	"fmt"
)

// RelationKind identifies how a relation is traversed.
type RelationKind int

const (
	// ReverseForeignKey lists the instances whose foreign key points to the
	// owner (one-to-many children).
	ReverseForeignKey RelationKind = iota + 1
	// ManyToMany is a forward many-to-many relation.
	ManyToMany
	// Generic lists polymorphic children addressed by type label and id.
	Generic
	// OneToOne is reported by introspection but not followed.
	OneToOne
)

func (k RelationKind) String() string {
	switch k {
	case ReverseForeignKey:
		return "reverse_fk"
	case ManyToMany:
		return "many_to_many"
	case Generic:
		return "generic"
	case OneToOne:
		return "one_to_one"
	default:
		return fmt.Sprintf("relation(%d)", int(k))
	}
}

// Fetcher loads the instances related to inst.
type Fetcher interface {
	Related(ctx context.Context, inst *Instance) ([]*Instance, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, inst *Instance) ([]*Instance, error)

func (fn FetcherFunc) Related(ctx context.Context, inst *Instance) ([]*Instance, error) {
	return fn(ctx, inst)
}

// Relation declares a navigable relation of a Type.
type Relation struct {
	Fetch Fetcher

	Name string

	// Target is the label of the related type.
	Target string

	Kind RelationKind

	// SkipSerialize excludes the relation from serialization. Generic
	// relations are always serialized.
	SkipSerialize bool
}

// Serialized reports whether the relation is included in serialized output.
func (r *Relation) Serialized() bool {
	return r.Kind == Generic || !r.SkipSerialize
}

// RelatedInstances returns the instances related to inst.
func (r *Relation) RelatedInstances(ctx context.Context, inst *Instance) ([]*Instance, error) {
	if r.Fetch == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoFetcher, r.Name)
	}
	return r.Fetch.Related(ctx, inst)
}
