package l10n

import (
	"context"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/lingua/pkg/catalog"
	"github.com/dmitrymomot/lingua/pkg/langcode"
	"github.com/dmitrymomot/lingua/pkg/logger"
	"github.com/dmitrymomot/lingua/pkg/model"
)

// Localizer turns plain fields of a type into localized fields.
type Localizer struct {
	resolver *langcode.Resolver
	catalog  catalog.Gateway
	log      *slog.Logger
}

// Option configures a Localizer.
type Option func(*Localizer)

// WithLogger sets the logger used by the localizer and its descriptors.
func WithLogger(log *slog.Logger) Option {
	return func(l *Localizer) {
		if log != nil {
			l.log = log
		}
	}
}

// WithCatalog sets the gateway used to translate message ids. Without it
// every lookup returns the message id.
func WithCatalog(g catalog.Gateway) Option {
	return func(l *Localizer) {
		if g != nil {
			l.catalog = g
		}
	}
}

// NewLocalizer creates a Localizer for the languages of resolver.
func NewLocalizer(resolver *langcode.Resolver, opts ...Option) (*Localizer, error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	l := &Localizer{
		resolver: resolver,
		catalog:  catalog.GatewayFunc(func(msgid, _ string) string { return msgid }),
		log:      logger.NewNope(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Resolver returns the language configuration of the localizer.
func (l *Localizer) Resolver() *langcode.Resolver { return l.resolver }

// Localize replaces each named storage field of t with one nullable slot per
// language and installs a Descriptor under the original name. Fields that
// are already localized are left alone, so calling Localize again is a
// no-op. All names are checked before t is modified.
func (l *Localizer) Localize(t *model.Type, fields ...string) error {
	if t == nil {
		return &ConfigError{Type: "<nil>", Err: ErrNilType}
	}

	var pending []*model.Field
	for _, name := range fields {
		if t.IsLocalized(name) || slices.ContainsFunc(pending, func(f *model.Field) bool { return f.Name == name }) {
			continue
		}
		f, ok := t.Field(name)
		if !ok {
			return &ConfigError{Type: t.Label(), Field: name, Err: ErrUnknownField}
		}
		if f.DeclaredType() == model.ForeignKey {
			return &ConfigError{Type: t.Label(), Field: name, Err: ErrNotLocalizable}
		}
		for _, lang := range l.resolver.AllLanguages() {
			slot := langcode.RealFieldName(name, lang)
			_, isField := t.Field(slot)
			_, isDescriptor := t.Descriptor(slot)
			if isField || isDescriptor {
				return &ConfigError{Type: t.Label(), Field: slot, Err: ErrSlotConflict}
			}
		}
		pending = append(pending, f)
	}

	for _, f := range pending {
		d := &Descriptor{
			field:    f.Clone(),
			resolver: l.resolver,
			catalog:  l.catalog,
			log:      l.log,
		}
		if err := t.ReplaceField(f.Name, d, l.slots(f)...); err != nil {
			return &ConfigError{Type: t.Label(), Field: f.Name, Err: err}
		}
		t.MarkLocalized(f.Name)

		l.log.Debug("localized field",
			slog.String("type", t.Label()),
			slog.String("field", f.Name),
			slog.Any("languages", l.resolver.AllLanguages()),
		)
	}
	return nil
}

func (l *Localizer) slots(f *model.Field) []*model.Field {
	verbose := f.VerboseName
	if verbose == "" {
		verbose = f.Name
	}
	msgid := l.resolver.MsgidLanguage()

	langs := l.resolver.AllLanguages()
	out := make([]*model.Field, 0, len(langs))
	for _, lang := range langs {
		s := f.Clone()
		s.Name = langcode.RealFieldName(f.Name, lang)
		s.VerboseName = verbose + " (" + lang + ")"
		s.Origin = f.Name
		s.Language = lang
		s.Nullable = true
		s.Required = f.Required && lang == msgid
		s.ExcludeFromXML = true
		s.Serializer = nil
		s.Fallbacks = nil
		// A default in every language would shadow the catalog.
		if lang != msgid {
			s.HasDefault = false
			s.Default = nil
		}
		out = append(out, s)
	}
	return out
}

// Lookup returns the localized descriptor installed on t under name.
func Lookup(t *model.Type, name string) (*Descriptor, bool) {
	if t == nil {
		return nil, false
	}
	d, ok := t.Descriptor(name)
	if !ok {
		return nil, false
	}
	ld, ok := d.(*Descriptor)
	return ld, ok
}

// Resolve reads every localized field of inst in the language active in ctx.
func Resolve(ctx context.Context, inst *model.Instance) map[string]Resolution {
	out := make(map[string]Resolution)
	if inst == nil || inst.Type == nil {
		return out
	}
	for _, name := range inst.Type.LocalizedFields() {
		if d, ok := Lookup(inst.Type, name); ok {
			out[name] = d.Resolve(ctx, inst)
		}
	}
	return out
}
