package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrymomot/lingua/pkg/model"
)

// Field serializer names accepted in FieldDef.Serializer.
const (
	SerializerRichText = "richtext"
	SerializerMarkdown = "markdown"
	SerializerXML      = "xml"
	SerializerInclude  = "include"
	SerializerRemote   = "remote"
	SerializerStored   = "stored"
)

// Relation kinds accepted in RelationDef.Kind.
const (
	RelationReverseFK  = "reverse_fk"
	RelationManyToMany = "many_to_many"
	RelationGeneric    = "generic"
)

var kinds = []model.Kind{
	model.CharField,
	model.TextField,
	model.IntegerField,
	model.FloatField,
	model.BooleanField,
	model.DateField,
	model.DateTimeField,
	model.ForeignKey,
}

// TypeDef declares a content type.
type TypeDef struct {
	App       string        `yaml:"app"`
	Name      string        `yaml:"name"`
	Fields    []FieldDef    `yaml:"fields"`
	Localized []string      `yaml:"localized"`
	Relations []RelationDef `yaml:"relations"`
}

// FieldDef declares a storage field.
type FieldDef struct {
	Default    any               `yaml:"default"`
	Attrs      map[string]string `yaml:"attrs"`
	Name       string            `yaml:"name"`
	Kind       string            `yaml:"kind"`
	To         string            `yaml:"to"`
	Serializer string            `yaml:"serializer"`
	Fallbacks  []string          `yaml:"fallbacks"`
	MaxLength  int               `yaml:"max_length"`
	Required   bool              `yaml:"required"`
	Skip       bool              `yaml:"skip_serialize"`
}

// RelationDef declares a relation followed by the serializer.
//
// For reverse_fk, Field is the foreign key field of Target pointing back.
// For generic, TypeField and IDField address the owner on Target.
// For many_to_many, Field names the join table when stored in PostgreSQL.
type RelationDef struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Target    string `yaml:"target"`
	Field     string `yaml:"field"`
	TypeField string `yaml:"type_field"`
	IDField   string `yaml:"id_field"`
	Skip      bool   `yaml:"skip_serialize"`
}

// Label returns "app.name".
func (t TypeDef) Label() string {
	return t.App + "." + t.Name
}

// ModelKind returns the model kind of the field. An empty kind is CharField.
func (f FieldDef) ModelKind() (model.Kind, error) {
	if f.Kind == "" {
		return model.CharField, nil
	}
	k := model.Kind(f.Kind)
	if !slices.Contains(kinds, k) {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, f.Kind)
	}
	return k, nil
}

// Field converts the declaration into a model field without its custom
// serializer.
func (f FieldDef) Field() (*model.Field, error) {
	k, err := f.ModelKind()
	if err != nil {
		return nil, err
	}
	return &model.Field{
		Name:          f.Name,
		Kind:          k,
		To:            f.To,
		MaxLength:     f.MaxLength,
		Required:      f.Required,
		Default:       f.Default,
		HasDefault:    f.Default != nil,
		ExtraAttrs:    f.Attrs,
		Fallbacks:     f.Fallbacks,
		SkipSerialize: f.Skip,
	}, nil
}

// RelationKind maps the declared kind to the model relation kind.
func (r RelationDef) RelationKind() (model.RelationKind, error) {
	switch r.Kind {
	case RelationReverseFK:
		return model.ReverseForeignKey, nil
	case RelationManyToMany:
		return model.ManyToMany, nil
	case RelationGeneric:
		return model.Generic, nil
	default:
		return 0, fmt.Errorf("config: unknown relation kind %q", r.Kind)
	}
}

func (t TypeDef) validate(labels map[string]bool) error {
	var errs []error
	if t.App == "" || t.Name == "" {
		errs = append(errs, fmt.Errorf("types: app and name are required (%q)", t.Label()))
	}

	names := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("types.%s: field without name", t.Label()))
			continue
		}
		names[f.Name] = true
		if _, err := f.ModelKind(); err != nil {
			errs = append(errs, fmt.Errorf("types.%s.%s: %w", t.Label(), f.Name, err))
		}
		switch f.Serializer {
		case "", SerializerRichText, SerializerMarkdown, SerializerXML, SerializerInclude, SerializerRemote, SerializerStored:
		default:
			errs = append(errs, fmt.Errorf("types.%s.%s: unknown serializer %q", t.Label(), f.Name, f.Serializer))
		}
	}
	for _, name := range t.Localized {
		if !names[name] {
			errs = append(errs, fmt.Errorf("types.%s: localized field %q is not declared", t.Label(), name))
		}
	}
	for _, r := range t.Relations {
		if _, err := r.RelationKind(); err != nil {
			errs = append(errs, fmt.Errorf("types.%s.%s: %w", t.Label(), r.Name, err))
		}
		if !labels[r.Target] {
			errs = append(errs, fmt.Errorf("%w: types.%s.%s: %s", ErrUnknownTarget, t.Label(), r.Name, r.Target))
		}
	}
	return errors.Join(errs...)
}
