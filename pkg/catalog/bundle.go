package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/lingua/pkg/langcode"
)

// Bundle adapts a go-i18n bundle to Gateway. Message ids are the go-i18n
// message ids. Translations served from a language other than the requested
// one (go-i18n falls back to the bundle default) count as misses.
type Bundle struct {
	bundle     *i18n.Bundle
	localizers sync.Map
}

// NewBundle wraps b.
func NewBundle(b *i18n.Bundle) *Bundle {
	return &Bundle{bundle: b}
}

// LoadBundle creates a go-i18n bundle from message files in fsys. Files are
// named {domain}.{lang}.{toml|yaml|json}, as go-i18n expects.
func LoadBundle(fsys fs.FS, defaultLang string) (*Bundle, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmptyLanguage, err)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch path.Ext(p) {
		case ".toml", ".yaml", ".json":
		default:
			return nil
		}
		if _, err := b.LoadMessageFileFS(fsys, p); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidFile, p, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewBundle(b), nil
}

// Lookup returns the go-i18n translation of msgid in lang.
func (b *Bundle) Lookup(msgid, lang string) string {
	if !Translatable(msgid) {
		return msgid
	}
	msg, tag, err := b.localizer(lang).LocalizeWithTag(&i18n.LocalizeConfig{MessageID: msgid})
	if err != nil || msg == "" {
		return msgid
	}
	if base, _ := tag.Base(); base.String() != langcode.Base(lang) {
		return msgid
	}
	return msg
}

func (b *Bundle) localizer(lang string) *i18n.Localizer {
	if l, ok := b.localizers.Load(lang); ok {
		return l.(*i18n.Localizer)
	}
	l, _ := b.localizers.LoadOrStore(lang, i18n.NewLocalizer(b.bundle, lang))
	return l.(*i18n.Localizer)
}
