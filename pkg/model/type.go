package model

import (
	"fmt"
	"slices"
)

// Type describes an entity type. Fields, relations and descriptors are
// declared before the type is used; afterwards it is read-only.
type Type struct {
	index     map[string]*Field
	app       string
	name      string
	attrs     []Attribute
	relations []*Relation
	localized []string
}

// NewType creates a Type labelled app.name with the given storage fields in
// declaration order.
func NewType(app, name string, fields ...*Field) (*Type, error) {
	if app == "" || name == "" {
		return nil, ErrEmptyName
	}
	t := &Type{
		app:   app,
		name:  name,
		index: make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		if err := t.AddField(f); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustType is like NewType but panics on error. Intended for package level
// type declarations.
func MustType(app, name string, fields ...*Field) *Type {
	t, err := NewType(app, name, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Type) App() string  { return t.app }
func (t *Type) Name() string { return t.name }

// Label returns the fully qualified type name, "app.name".
func (t *Type) Label() string {
	return t.app + "." + t.name
}

func (t *Type) String() string { return t.Label() }

// AddField appends a storage field.
func (t *Type) AddField(f *Field) error {
	if f == nil || f.Name == "" {
		return ErrEmptyName
	}
	if t.has(f.Name) {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateField, t.Label(), f.Name)
	}
	t.index[f.Name] = f
	t.attrs = append(t.attrs, Attribute{Field: f})
	return nil
}

// Field returns the storage field called name.
func (t *Type) Field(name string) (*Field, bool) {
	f, ok := t.index[name]
	return f, ok
}

// Fields returns the storage fields in declaration order.
func (t *Type) Fields() []*Field {
	out := make([]*Field, 0, len(t.index))
	for _, a := range t.attrs {
		if a.Field != nil {
			out = append(out, a.Field)
		}
	}
	return out
}

// Attributes returns storage fields and descriptors in declaration order.
// A descriptor occupies the position of the field it replaced.
func (t *Type) Attributes() []Attribute {
	return slices.Clone(t.attrs)
}

// Descriptor returns the descriptor installed under name.
func (t *Type) Descriptor(name string) (Descriptor, bool) {
	for _, a := range t.attrs {
		if a.Descriptor != nil && a.Descriptor.Name() == name {
			return a.Descriptor, true
		}
	}
	return nil, false
}

// Descriptors returns installed descriptors in declaration order.
func (t *Type) Descriptors() []Descriptor {
	var out []Descriptor
	for _, a := range t.attrs {
		if a.Descriptor != nil {
			out = append(out, a.Descriptor)
		}
	}
	return out
}

// ReplaceField removes the storage field name, installs d at its position
// and appends slots as new storage fields.
func (t *Type) ReplaceField(name string, d Descriptor, slots ...*Field) error {
	pos := slices.IndexFunc(t.attrs, func(a Attribute) bool {
		return a.Field != nil && a.Field.Name == name
	})
	if pos < 0 {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, t.Label(), name)
	}
	for _, s := range slots {
		if s.Name != name && t.has(s.Name) {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateField, t.Label(), s.Name)
		}
	}

	delete(t.index, name)
	t.attrs[pos] = Attribute{Descriptor: d}
	for _, s := range slots {
		t.index[s.Name] = s
		t.attrs = append(t.attrs, Attribute{Field: s})
	}
	return nil
}

// MarkLocalized records canonical names of localized fields.
func (t *Type) MarkLocalized(names ...string) {
	for _, n := range names {
		if !slices.Contains(t.localized, n) {
			t.localized = append(t.localized, n)
		}
	}
}

// LocalizedFields returns the canonical names of localized fields.
func (t *Type) LocalizedFields() []string {
	return slices.Clone(t.localized)
}

// IsLocalized reports whether name is a localized field.
func (t *Type) IsLocalized(name string) bool {
	return slices.Contains(t.localized, name)
}

// AddRelation declares a relation.
func (t *Type) AddRelation(r *Relation) error {
	if r == nil || r.Name == "" {
		return ErrEmptyName
	}
	if slices.ContainsFunc(t.relations, func(x *Relation) bool { return x.Name == r.Name }) {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateRelation, t.Label(), r.Name)
	}
	t.relations = append(t.relations, r)
	return nil
}

// Relation returns the relation called name.
func (t *Type) Relation(name string) (*Relation, bool) {
	i := slices.IndexFunc(t.relations, func(x *Relation) bool { return x.Name == name })
	if i < 0 {
		return nil, false
	}
	return t.relations[i], true
}

// Relations returns relations in declaration order.
func (t *Type) Relations() []*Relation {
	return slices.Clone(t.relations)
}

// RelationsOf returns relations of kind k in declaration order.
func (t *Type) RelationsOf(k RelationKind) []*Relation {
	var out []*Relation
	for _, r := range t.relations {
		if r.Kind == k {
			out = append(out, r)
		}
	}
	return out
}

func (t *Type) has(name string) bool {
	if _, ok := t.index[name]; ok {
		return true
	}
	_, ok := t.Descriptor(name)
	return ok
}
