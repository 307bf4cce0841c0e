package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrymomot/lingua/pkg/langcode"
)

// Gateway looks up message ids in a language's catalog.
//
// Lookup returns the translation of msgid in lang, or msgid unchanged when
// there is none. Implementations must not consult the catalog for an empty
// msgid and must be safe for concurrent reads.
type Gateway interface {
	Lookup(msgid, lang string) string
}

// GatewayFunc adapts a function to Gateway. Empty message ids are returned
// without calling fn.
type GatewayFunc func(msgid, lang string) string

func (fn GatewayFunc) Lookup(msgid, lang string) string {
	if !Translatable(msgid) {
		return msgid
	}
	return fn(msgid, lang)
}

// Translatable reports whether msgid may be passed to a catalog.
func Translatable(msgid string) bool {
	return msgid != ""
}

// Entry is one translated message.
type Entry struct {
	Language string `json:"language"`
	Msgid    string `json:"msgid"`
	Msgstr   string `json:"msgstr"`
}

// Catalog is an in-memory translation catalog. It is immutable after New and
// safe for concurrent use.
type Catalog struct {
	// Flattened messages for O(1) lookups.
	// Key format: "lang:msgid"
	messages map[string]string

	missing func(lang, msgid string)

	languages []string
}

// Option configures a Catalog during construction.
type Option func(*Catalog) error

// New creates a Catalog from options.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{messages: make(map[string]string)}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	slices.Sort(c.languages)
	return c, nil
}

// WithMessages adds translations for lang. Nested maps are flattened with
// dots; empty translations are ignored.
func WithMessages(lang string, messages map[string]any) Option {
	return func(c *Catalog) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		for msgid, msgstr := range flatten(messages, "") {
			c.add(lang, msgid, msgstr)
		}
		return nil
	}
}

// WithEntries adds translations from a list of entries.
func WithEntries(entries ...Entry) Option {
	return func(c *Catalog) error {
		for _, e := range entries {
			if e.Language == "" {
				return ErrEmptyLanguage
			}
			c.add(e.Language, e.Msgid, e.Msgstr)
		}
		return nil
	}
}

// WithMissingHandler registers a function called on every lookup miss.
// Useful for detecting untranslated content.
func WithMissingHandler(fn func(lang, msgid string)) Option {
	return func(c *Catalog) error {
		c.missing = fn
		return nil
	}
}

// Lookup returns the translation of msgid in lang, trying the exact language
// and then its primary subtag. A miss returns msgid unchanged.
func (c *Catalog) Lookup(msgid, lang string) string {
	if !Translatable(msgid) {
		return msgid
	}
	if msg, ok := c.messages[buildKey(lang, msgid)]; ok {
		return msg
	}
	if base := langcode.Base(lang); base != lang {
		if msg, ok := c.messages[buildKey(base, msgid)]; ok {
			return msg
		}
	}
	if c.missing != nil {
		c.missing(lang, msgid)
	}
	return msgid
}

// Has reports whether lang has an exact translation of msgid.
func (c *Catalog) Has(msgid, lang string) bool {
	_, ok := c.messages[buildKey(lang, msgid)]
	return ok
}

// Languages returns the languages holding at least one message.
func (c *Catalog) Languages() []string {
	return slices.Clone(c.languages)
}

// Len returns the number of messages across all languages.
func (c *Catalog) Len() int {
	return len(c.messages)
}

// Entries returns all messages sorted by language and msgid.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.messages))
	for key, msgstr := range c.messages {
		lang, msgid, _ := strings.Cut(key, ":")
		out = append(out, Entry{Language: lang, Msgid: msgid, Msgstr: msgstr})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if n := strings.Compare(a.Language, b.Language); n != 0 {
			return n
		}
		return strings.Compare(a.Msgid, b.Msgid)
	})
	return out
}

func (c *Catalog) add(lang, msgid, msgstr string) {
	if !Translatable(msgid) || msgstr == "" {
		return
	}
	c.messages[buildKey(lang, msgid)] = msgstr
	if !slices.Contains(c.languages, lang) {
		c.languages = append(c.languages, lang)
	}
}

func buildKey(lang, msgid string) string {
	return lang + ":" + msgid
}

func flatten(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flatten(v, fullKey))
		case map[string]string:
			for subKey, subVal := range v {
				result[fullKey+"."+subKey] = subVal
			}
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}

	return result
}
