package xmltree

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/lingua/pkg/logger"
	"github.com/dmitrymomot/lingua/pkg/model"
	"github.com/dmitrymomot/lingua/pkg/xmlutil"
)

// DefaultRootElement names the document element.
const DefaultRootElement = "collection"

// Serializer turns instances into a nested XML document. It is immutable
// after New and safe for concurrent use; all per-call state lives in the
// call.
type Serializer struct {
	log           *slog.Logger
	fields        []string
	root          string
	indent        string
	maxDepth      int
	localizedOnly bool
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Serializer) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMaxDepth sets how deep many-to-many relations may nest.
// Default: 250
func WithMaxDepth(n int) Option {
	return func(s *Serializer) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

// WithFields limits own fields and many-to-many relations to names.
// Reverse and generic relations are always followed.
func WithFields(names ...string) Option {
	return func(s *Serializer) {
		s.fields = slices.Clone(names)
	}
}

// WithIndent pretty prints the document.
func WithIndent(indent string) Option {
	return func(s *Serializer) {
		s.indent = indent
	}
}

// WithRootElement renames the document element.
// Default: "collection"
func WithRootElement(name string) Option {
	return func(s *Serializer) {
		if name != "" {
			s.root = name
		}
	}
}

// WithLocalizedOnly emits localized fields and many-to-many relations only
// and does not follow reverse or generic relations. Used to extract
// translatable content.
func WithLocalizedOnly() Option {
	return func(s *Serializer) {
		s.localizedOnly = true
	}
}

// New creates a Serializer.
func New(opts ...Option) *Serializer {
	s := &Serializer{
		log:      logger.NewNope(),
		root:     DefaultRootElement,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// call is the state shared by one top-level serialization and all of its
// nested traversals.
type call struct {
	w     xmlutil.Writer
	guard *RecursionGuard
}

// Serialize returns the XML document for insts. Nothing is returned on
// error, so a partial document is never mistaken for a complete one.
func (s *Serializer) Serialize(ctx context.Context, insts []*model.Instance) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.serialize(ctx, &buf, insts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the XML document for insts to w. The document is built in
// memory first; w receives nothing when serialization fails.
func (s *Serializer) Encode(ctx context.Context, w io.Writer, insts []*model.Instance) error {
	data, err := s.Serialize(ctx, insts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// SerializeInto writes the object elements of insts into an open writer
// without a document or root element. It starts a fresh recursion guard.
func (s *Serializer) SerializeInto(ctx context.Context, w xmlutil.Writer, insts []*model.Instance) error {
	c := &call{w: w, guard: NewRecursionGuard(s.maxDepth)}
	return s.objects(ctx, c, insts)
}

func (s *Serializer) serialize(ctx context.Context, out io.Writer, insts []*model.Instance) error {
	if logger.SerializationID(ctx) == "" {
		ctx = logger.WithSerializationID(ctx, uuid.NewString())
	}
	start := time.Now()

	p := xmlutil.NewPrinter(out, xmlutil.WithIndent(s.indent))
	c := &call{w: p, guard: NewRecursionGuard(s.maxDepth)}

	if err := p.StartDocument(); err != nil {
		return err
	}
	if err := p.StartElement(s.root, xmlutil.Attr{Name: "version", Value: "1.0"}); err != nil {
		return err
	}
	if err := s.objects(ctx, c, insts); err != nil {
		return err
	}
	if err := p.EndElement(s.root); err != nil {
		return err
	}
	if err := p.EndDocument(); err != nil {
		return err
	}

	s.log.DebugContext(ctx, "serialized instances",
		slog.Int("count", len(insts)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *Serializer) objects(ctx context.Context, c *call, insts []*model.Instance) error {
	for _, inst := range insts {
		if err := s.object(ctx, c, inst); err != nil {
			return err
		}
	}
	return nil
}

func (s *Serializer) object(ctx context.Context, c *call, inst *model.Instance) error {
	if inst == nil || inst.Type == nil {
		return ErrNilInstance
	}

	attrs := []xmlutil.Attr{
		{Name: "pk", Value: model.FormatValue(model.CharField, inst.PK)},
		{Name: "model", Value: inst.Type.Label()},
	}
	if err := c.w.StartElement("object", attrs...); err != nil {
		return err
	}

	for _, a := range inst.Type.Attributes() {
		if !s.includeAttribute(inst.Type, a) {
			continue
		}
		if err := s.field(ctx, c, inst, a); err != nil {
			return err
		}
	}

	g := model.Introspect(inst)
	for _, err := range g.Failures {
		s.log.WarnContext(ctx, "introspection degraded",
			slog.String("instance", inst.String()),
			slog.Any("error", err),
		)
	}

	if !s.localizedOnly {
		for _, rel := range g.Children {
			if !rel.Serialized() {
				continue
			}
			if err := s.related(ctx, c, inst, rel); err != nil {
				return err
			}
		}
		for _, rel := range g.Generic {
			if err := s.related(ctx, c, inst, rel); err != nil {
				return err
			}
		}
	}

	for _, rel := range g.ManyToMany {
		if !rel.Serialized() || !s.selected(rel.Name) {
			continue
		}
		if err := s.manyToMany(ctx, c, inst, rel); err != nil {
			return err
		}
	}

	return c.w.EndElement("object")
}

func (s *Serializer) includeAttribute(t *model.Type, a model.Attribute) bool {
	def := a.Definition()
	if def == nil || def.SkipSerialize {
		return false
	}
	if a.Field != nil && a.Field.ExcludeFromXML {
		return false
	}
	if s.localizedOnly && (a.Descriptor == nil || !t.IsLocalized(a.Name())) {
		return false
	}
	return s.selected(a.Name())
}

func (s *Serializer) selected(name string) bool {
	return s.fields == nil || slices.Contains(s.fields, name)
}

func (s *Serializer) field(ctx context.Context, c *call, inst *model.Instance, a model.Attribute) error {
	def := a.Definition()
	name := a.Name()

	var v any
	if a.Descriptor != nil {
		v = a.Descriptor.Value(ctx, inst)
	} else {
		v = inst.Attr(name)
	}

	attrs := fieldAttrs(name, def)
	if def.DeclaredType() == model.ForeignKey {
		attrs = append(attrs,
			xmlutil.Attr{Name: "rel", Value: "ManyToOneRel"},
			xmlutil.Attr{Name: "to", Value: def.To},
		)
		if related, ok := v.(*model.Instance); ok {
			if related == nil {
				v = nil
			} else {
				v = related.PK
			}
		}
	}

	if err := c.w.StartElement("field", attrs...); err != nil {
		return err
	}
	switch {
	case def.Serializer != nil:
		if err := def.Serializer.SerializeField(ctx, inst, def, c.w); err != nil {
			return fmt.Errorf("xmltree: %s.%s: %w", inst.Type.Label(), name, err)
		}
	case v == nil:
		if err := c.w.AddEmptyElement("None"); err != nil {
			return err
		}
	default:
		if err := c.w.Characters(def.Format(v)); err != nil {
			return err
		}
	}
	return c.w.EndElement("field")
}

// fieldAttrs returns name and type followed by the extra attributes of def
// in key order. Fields with extra attributes use dotted names.
func fieldAttrs(name string, def *model.Field) []xmlutil.Attr {
	if def.ExtraAttrs != nil {
		name = dotted(name)
	}
	attrs := []xmlutil.Attr{
		{Name: "name", Value: name},
		{Name: "type", Value: string(def.DeclaredType())},
	}
	for _, k := range slices.Sorted(maps.Keys(def.ExtraAttrs)) {
		switch k {
		case "name":
			// the dotted field name always wins
		case "type":
			attrs[1].Value = def.ExtraAttrs[k]
		default:
			attrs = append(attrs, xmlutil.Attr{Name: k, Value: def.ExtraAttrs[k]})
		}
	}
	return attrs
}

func dotted(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c == '_' {
			b[i] = '.'
		}
	}
	return string(b)
}

func (s *Serializer) related(ctx context.Context, c *call, inst *model.Instance, rel *model.Relation) error {
	related, err := rel.RelatedInstances(ctx, inst)
	if err != nil {
		return fmt.Errorf("%w: %s.%s: %w", ErrRelation, inst.Type.Label(), rel.Name, err)
	}
	return s.objects(ctx, c, related)
}

func (s *Serializer) manyToMany(ctx context.Context, c *call, inst *model.Instance, rel *model.Relation) error {
	kind := model.ManyToMany
	if !c.guard.Enter(kind) {
		depth := c.guard.Depth(kind) - 1
		c.guard.Reset(kind)
		return &RecursionLimitError{
			Relation: rel.Name,
			From:     inst.Type.Label(),
			To:       rel.Target,
			Depth:    depth,
		}
	}

	err := s.manyToManyField(ctx, c, inst, rel)
	if err != nil {
		c.guard.Reset(kind)
		return err
	}
	c.guard.Leave(kind)
	return nil
}

func (s *Serializer) manyToManyField(ctx context.Context, c *call, inst *model.Instance, rel *model.Relation) error {
	related, err := rel.RelatedInstances(ctx, inst)
	if err != nil {
		return fmt.Errorf("%w: %s.%s: %w", ErrRelation, inst.Type.Label(), rel.Name, err)
	}

	err = c.w.StartElement("field",
		xmlutil.Attr{Name: "name", Value: rel.Name},
		xmlutil.Attr{Name: "rel", Value: "ManyToManyRel"},
		xmlutil.Attr{Name: "to", Value: rel.Target},
	)
	if err != nil {
		return err
	}
	if err := s.objects(ctx, c, related); err != nil {
		return err
	}
	return c.w.EndElement("field")
}

// IsRecursionLimit reports whether err was caused by the recursion guard.
func IsRecursionLimit(err error) bool {
	return errors.Is(err, ErrRecursionLimit)
}

// Chain concatenates instance lists so several query results can be
// serialized as one document.
func Chain(lists ...[]*model.Instance) []*model.Instance {
	return slices.Concat(lists...)
}
