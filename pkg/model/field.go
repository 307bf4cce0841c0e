package model

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/dmitrymomot/lingua/pkg/xmlutil"
)

// Kind is the declared type of a field as it appears in serialized output.
type Kind string

const (
	CharField     Kind = "CharField"
	TextField     Kind = "TextField"
	IntegerField  Kind = "IntegerField"
	FloatField    Kind = "FloatField"
	BooleanField  Kind = "BooleanField"
	DateField     Kind = "DateField"
	DateTimeField Kind = "DateTimeField"
	ForeignKey    Kind = "ForeignKey"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// FieldSerializer replaces the default text output of a field. It receives
// the writer positioned inside the field element.
type FieldSerializer interface {
	SerializeField(ctx context.Context, inst *Instance, f *Field, w xmlutil.Writer) error
}

// FieldSerializerFunc adapts a function to FieldSerializer.
type FieldSerializerFunc func(ctx context.Context, inst *Instance, f *Field, w xmlutil.Writer) error

func (fn FieldSerializerFunc) SerializeField(ctx context.Context, inst *Instance, f *Field, w xmlutil.Writer) error {
	return fn(ctx, inst, f, w)
}

// Field is one storage attribute of a Type.
type Field struct {
	Default any

	// ExtraAttrs are merged into the serialized field element. A non-nil map,
	// even an empty one, also switches the element name to dotted form.
	ExtraAttrs map[string]string

	Serializer FieldSerializer

	// Fallbacks overrides the site fallback languages for a localized field.
	Fallbacks []string

	Name        string
	VerboseName string
	Kind        Kind

	// To is the target type label of a ForeignKey field.
	To string

	// Origin and Language are set on per-language slots created by
	// localization.
	Origin   string
	Language string

	MaxLength int

	HasDefault bool
	Required   bool
	Nullable   bool
	Unique     bool

	// SkipSerialize drops the field from every serialization.
	SkipSerialize bool

	// ExcludeFromXML drops the field from hierarchical XML only.
	ExcludeFromXML bool
}

// Clone returns a deep copy of f.
func (f *Field) Clone() *Field {
	c := *f
	if f.ExtraAttrs != nil {
		c.ExtraAttrs = maps.Clone(f.ExtraAttrs)
	}
	c.Fallbacks = slices.Clone(f.Fallbacks)
	return &c
}

// DeclaredType returns the kind used in serialized output.
func (f *Field) DeclaredType() Kind {
	if f.Kind == "" {
		return CharField
	}
	return f.Kind
}

// Parse converts text, such as a catalog translation, into a value of the
// field's kind.
func (f *Field) Parse(s string) (any, error) {
	switch f.DeclaredType() {
	case IntegerField:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Name, err)
		}
		return n, nil
	case FloatField:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Name, err)
		}
		return n, nil
	case BooleanField:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Name, err)
		}
		return b, nil
	case DateField:
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Name, err)
		}
		return d, nil
	case DateTimeField:
		d, err := time.Parse(dateTimeLayout, s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, f.Name, err)
		}
		return d, nil
	default:
		return s, nil
	}
}

// Format renders v as the text content of the field element.
func (f *Field) Format(v any) string {
	return FormatValue(f.DeclaredType(), v)
}

// FormatValue renders v for a field of kind k.
func FormatValue(k Kind, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case time.Time:
		if k == DateField {
			return x.Format(dateLayout)
		}
		return x.Format(dateTimeLayout)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Validate checks v against the field's constraints.
func (f *Field) Validate(v any) error {
	if IsEmpty(v) {
		if f.Required {
			return fmt.Errorf("%w: %s", ErrRequired, f.Name)
		}
		return nil
	}
	if f.MaxLength > 0 {
		if s, ok := v.(string); ok && utf8.RuneCountInString(s) > f.MaxLength {
			return fmt.Errorf("%w: %s (%d)", ErrTooLong, f.Name, f.MaxLength)
		}
	}
	return nil
}

// IsEmpty reports whether v is nil or the empty string.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
