package model

import (
	"context"
	"fmt"
	"maps"
)

// Instance is one record of a Type. Values are keyed by storage field name.
type Instance struct {
	Type   *Type
	PK     any
	values map[string]any
}

// NewInstance creates an instance with field defaults applied.
func NewInstance(t *Type, pk any) *Instance {
	inst := &Instance{Type: t, PK: pk, values: make(map[string]any)}
	if t == nil {
		return inst
	}
	for _, f := range t.Fields() {
		if f.HasDefault {
			inst.values[f.Name] = f.Default
		}
	}
	return inst
}

// Attr returns the raw value of a storage field.
func (i *Instance) Attr(name string) any {
	return i.values[name]
}

// HasAttr reports whether the type declares a storage field called name.
func (i *Instance) HasAttr(name string) bool {
	if i.Type == nil {
		return false
	}
	_, ok := i.Type.Field(name)
	return ok
}

// SetAttr writes the raw value of a storage field.
func (i *Instance) SetAttr(name string, v any) error {
	if i.Type == nil {
		return ErrNilType
	}
	if _, ok := i.Type.Field(name); !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, i.Type.Label(), name)
	}
	i.values[name] = v
	return nil
}

// Get reads name through its descriptor when one is installed, otherwise it
// returns the raw storage value.
func (i *Instance) Get(ctx context.Context, name string) (any, error) {
	if i.Type == nil {
		return nil, ErrNilType
	}
	if d, ok := i.Type.Descriptor(name); ok {
		return d.Value(ctx, i), nil
	}
	if _, ok := i.Type.Field(name); !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, i.Type.Label(), name)
	}
	return i.values[name], nil
}

// Set writes name through its descriptor when one is installed.
func (i *Instance) Set(ctx context.Context, name string, v any) error {
	if i.Type == nil {
		return ErrNilType
	}
	if d, ok := i.Type.Descriptor(name); ok {
		return d.Set(ctx, i, v)
	}
	return i.SetAttr(name, v)
}

// Values returns a copy of the raw storage values.
func (i *Instance) Values() map[string]any {
	return maps.Clone(i.values)
}

// Validate checks every storage value against its field constraints.
func (i *Instance) Validate() error {
	if i.Type == nil {
		return ErrNilType
	}
	for _, f := range i.Type.Fields() {
		if err := f.Validate(i.values[f.Name]); err != nil {
			return err
		}
	}
	return nil
}

// Label returns the type label of the instance, or "" without a type.
func (i *Instance) Label() string {
	if i.Type == nil {
		return ""
	}
	return i.Type.Label()
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s(%v)", i.Label(), i.PK)
}
