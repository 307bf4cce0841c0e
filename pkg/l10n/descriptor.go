package l10n

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/lingua/pkg/catalog"
	"github.com/dmitrymomot/lingua/pkg/langcode"
	"github.com/dmitrymomot/lingua/pkg/model"
)

// Descriptor is installed on a type in place of a localized field. It reads
// and writes the per-language storage slots of the field and consults the
// catalog when the active language has no stored value.
type Descriptor struct {
	field    *model.Field
	resolver *langcode.Resolver
	catalog  catalog.Gateway
	log      *slog.Logger
}

var _ model.Descriptor = (*Descriptor)(nil)

func (d *Descriptor) Name() string { return d.field.Name }

func (d *Descriptor) DeclaredType() model.Kind { return d.field.DeclaredType() }

// Field returns the definition of the field before localization.
func (d *Descriptor) Field() *model.Field { return d.field }

// Slot returns the storage slot name for lang.
func (d *Descriptor) Slot(lang string) string {
	return langcode.RealFieldName(d.field.Name, lang)
}

// Fallbacks returns the fallback languages used while lang is active. A
// field level list overrides the site configuration.
func (d *Descriptor) Fallbacks(lang string) []string {
	if d.field.Fallbacks != nil {
		return slices.Clone(d.field.Fallbacks)
	}
	return d.resolver.Fallbacks(lang)
}

// Value returns the resolved value in the language active in ctx.
func (d *Descriptor) Value(ctx context.Context, inst *model.Instance) any {
	return d.Resolve(ctx, inst).Value
}

// Resolve reads the field in the language active in ctx.
func (d *Descriptor) Resolve(ctx context.Context, inst *model.Instance) Resolution {
	return d.ResolveIn(inst, d.resolver.Active(ctx))
}

// ResolveIn reads the field as if lang were active.
//
// The stored slot of lang always wins. Without one, the message id (the
// value stored in the message id language, or the first fallback language
// holding a value) is looked up in the catalog of lang. When lang has no
// translation the stored slots and catalogs of the fallback languages are
// searched in order. A valid message id without any translation is returned
// as is.
func (d *Descriptor) ResolveIn(inst *model.Instance, lang string) Resolution {
	fallbacks := d.Fallbacks(lang)

	p := &Provenance{
		Stored: inst.Attr(d.Slot(lang)),
		Msgid:  d.firstStored(inst, append([]string{d.resolver.MsgidLanguage()}, fallbacks...)),
	}

	if !valid(p.Msgid) {
		if valid(p.Stored) {
			return Resolution{Value: p.Stored}
		}
		if len(fallbacks) == 0 {
			return Resolution{Value: p.Msgid}
		}
		p.Fallback = d.firstStored(inst, append([]string{lang}, fallbacks...))
		if !valid(p.Fallback) {
			return Resolution{Value: p.Msgid}
		}
	} else {
		var found bool
		p.Msg, found = d.lookup(p.Msgid, lang)
		if !found && len(fallbacks) > 0 {
			p.Fallback = d.firstStored(inst, append([]string{lang}, fallbacks...))
			if !valid(p.Fallback) || equalValues(p.Fallback, p.Msgid) {
				p.Fallback = nil
				for _, fb := range fallbacks {
					if msg, ok := d.lookup(p.Msgid, fb); ok {
						p.Fallback = msg
						break
					}
				}
			}
		}
	}

	switch {
	case valid(p.Stored):
		p.Origin = OriginDatabase
		p.FromDatabase = true
		return decorate(p.Stored, p)
	case valid(p.Msg) && !equalValues(p.Msg, p.Msgid):
		p.Origin = OriginCatalog
		return decorate(p.Msg, p)
	case valid(p.Fallback):
		p.Origin = OriginFallback
		return decorate(p.Fallback, p)
	case valid(p.Msg):
		p.Origin = OriginMessageID
		return decorate(p.Msg, p)
	default:
		// A translation that parses to an empty value.
		return Resolution{}
	}
}

// Set writes v to the slot of the language active in ctx.
func (d *Descriptor) Set(ctx context.Context, inst *model.Instance, v any) error {
	return d.SetIn(inst, d.resolver.Active(ctx), v)
}

// SetIn writes v to the slot of lang. When the type has no slot for the
// exact code, the primary subtag and then the default language are tried.
func (d *Descriptor) SetIn(inst *model.Instance, lang string, v any) error {
	if r, ok := v.(Resolution); ok {
		v = r.Value
	}
	for _, code := range d.resolver.WriteOrder(lang) {
		if slot := d.Slot(code); inst.HasAttr(slot) {
			return inst.SetAttr(slot, v)
		}
	}
	return fmt.Errorf("%w: %s.%s (%s)", ErrNoSlot, inst.Label(), d.field.Name, lang)
}

// Stored returns the raw slot values by language code.
func (d *Descriptor) Stored(inst *model.Instance) map[string]any {
	out := make(map[string]any)
	for _, lang := range d.resolver.AllLanguages() {
		out[lang] = inst.Attr(d.Slot(lang))
	}
	return out
}

func (d *Descriptor) firstStored(inst *model.Instance, langs []string) any {
	for _, lang := range langs {
		if v := inst.Attr(d.Slot(lang)); valid(v) {
			return v
		}
	}
	return nil
}

// lookup translates msgid in lang. It reports false when the catalog
// returned the message id unchanged or a value the field cannot hold.
func (d *Descriptor) lookup(msgid any, lang string) (any, bool) {
	key := d.field.Format(msgid)
	if !catalog.Translatable(key) {
		return msgid, false
	}
	msg := d.catalog.Lookup(key, lang)
	if msg == key {
		return msgid, false
	}
	v, err := d.field.Parse(msg)
	if err != nil {
		d.log.Warn("discarding catalog translation",
			slog.String("field", d.field.Name),
			slog.String("language", lang),
			slog.String("msgid", key),
			slog.Any("error", err),
		)
		return msgid, false
	}
	return v, true
}
