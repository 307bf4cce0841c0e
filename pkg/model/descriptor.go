package model

import "context"

// Descriptor is a computed attribute installed on a Type in place of a
// storage field. Reads and writes go through the descriptor, which decides
// which storage slots are involved.
type Descriptor interface {
	Name() string
	DeclaredType() Kind

	// Field returns the definition the descriptor was built from. Extra
	// attributes and custom serializers are read from it.
	Field() *Field

	Value(ctx context.Context, inst *Instance) any
	Set(ctx context.Context, inst *Instance, v any) error
}

// Attribute is one own attribute of a Type in declaration order: either a
// storage field or a descriptor.
type Attribute struct {
	Field      *Field
	Descriptor Descriptor
}

// Name returns the attribute name.
func (a Attribute) Name() string {
	if a.Descriptor != nil {
		return a.Descriptor.Name()
	}
	return a.Field.Name
}

// Definition returns the field definition behind the attribute.
func (a Attribute) Definition() *Field {
	if a.Descriptor != nil {
		return a.Descriptor.Field()
	}
	return a.Field
}
