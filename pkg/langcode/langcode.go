package langcode

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Config describes the languages of a site.
type Config struct {
	// Fallbacks maps a language code (or primary subtag) to the languages
	// consulted when a value is missing in that language. A nil map disables
	// fallback searches entirely.
	Fallbacks map[string][]string `yaml:"fallback_languages"`

	// DefaultLanguage is the display language used when nothing else matches.
	// Defaults to the first entry of Languages.
	DefaultLanguage string `yaml:"default_language"`

	// MsgidLanguage is the language whose stored value is used as the catalog
	// message id. Defaults to DefaultLanguage.
	MsgidLanguage string `yaml:"msgid_language"`

	Languages []string `yaml:"languages"`

	// ShortCodes renders URL prefixes with the primary subtag only.
	ShortCodes bool `yaml:"use_short_language_codes"`

	// MasterSite marks the site that owns the translation catalogs.
	MasterSite bool `yaml:"master_site"`
}

// Resolver answers language questions for one site configuration.
// It is immutable after New.
type Resolver struct {
	fallbacks map[string][]string
	strip     *regexp.Regexp
	matcher   language.Matcher
	def       string
	msgid     string
	languages []string
	all       []string
	short     bool
	master    bool
}

// New validates cfg and builds a Resolver.
func New(cfg Config) (*Resolver, error) {
	if len(cfg.Languages) == 0 {
		return nil, ErrNoLanguages
	}

	langs := make([]string, 0, len(cfg.Languages))
	tags := make([]language.Tag, 0, len(cfg.Languages))
	for _, code := range cfg.Languages {
		tag, err := parse(code)
		if err != nil {
			return nil, err
		}
		if slices.Contains(langs, code) {
			continue
		}
		langs = append(langs, code)
		tags = append(tags, tag)
	}

	r := &Resolver{
		languages: langs,
		def:       cfg.DefaultLanguage,
		msgid:     cfg.MsgidLanguage,
		short:     cfg.ShortCodes,
		master:    cfg.MasterSite,
	}

	if r.def == "" {
		r.def = langs[0]
	}
	if !slices.Contains(langs, r.def) {
		return nil, fmt.Errorf("%w: default language %q", ErrUnknownLanguage, r.def)
	}
	if r.msgid == "" {
		r.msgid = r.def
	}
	if _, err := parse(r.msgid); err != nil {
		return nil, err
	}

	if cfg.Fallbacks != nil {
		r.fallbacks = make(map[string][]string, len(cfg.Fallbacks))
		for code, list := range cfg.Fallbacks {
			if code == "" {
				return nil, fmt.Errorf("%w: empty language key", ErrInvalidFallbacks)
			}
			for _, fb := range list {
				if _, err := parse(fb); err != nil {
					return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFallbacks, code, err)
				}
			}
			r.fallbacks[code] = slices.Clone(list)
		}
	}

	r.all = slices.Clone(langs)
	if !slices.Contains(r.all, r.msgid) {
		r.all = slices.Insert(r.all, 0, r.msgid)
	}

	// Default language first so the matcher prefers it on ties.
	defIdx := slices.Index(langs, r.def)
	ordered := append([]language.Tag{tags[defIdx]}, slices.Delete(slices.Clone(tags), defIdx, defIdx+1)...)
	r.matcher = language.NewMatcher(ordered)

	r.strip = regexp.MustCompile(`/(?:` + r.Disjunction() + `)/`)

	return r, nil
}

// RealFieldName returns the storage slot name of field in lang.
func RealFieldName(field, lang string) string {
	return field + "_" + lang
}

// Base strips everything after the primary subtag ("en-us" -> "en").
func Base(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return lang[:i]
	}
	return lang
}

// Languages returns the configured site languages in configuration order.
func (r *Resolver) Languages() []string {
	return slices.Clone(r.languages)
}

// AllLanguages returns every language that needs a storage slot: the site
// languages plus the message id language, which is placed first when it is
// not one of the site languages.
func (r *Resolver) AllLanguages() []string {
	return slices.Clone(r.all)
}

func (r *Resolver) DefaultLanguage() string { return r.def }

func (r *Resolver) MsgidLanguage() string { return r.msgid }

func (r *Resolver) IsMasterSite() bool { return r.master }

// HasFallbacks reports whether a fallback map is configured at all.
func (r *Resolver) HasFallbacks() bool {
	return r.fallbacks != nil
}

// Fallbacks returns the fallback languages of lang, looked up by exact code
// and then by primary subtag. Returns nil when none are configured.
func (r *Resolver) Fallbacks(lang string) []string {
	if list := r.fallbacks[lang]; len(list) > 0 {
		return slices.Clone(list)
	}
	if list := r.fallbacks[Base(lang)]; len(list) > 0 {
		return slices.Clone(list)
	}
	return nil
}

// WriteOrder lists the languages whose slot receives a write made while lang
// is active: the exact code, its primary subtag, then the default language.
func (r *Resolver) WriteOrder(lang string) []string {
	order := make([]string, 0, 3)
	for _, code := range []string{lang, Base(lang), r.def} {
		if code != "" && !slices.Contains(order, code) {
			order = append(order, code)
		}
	}
	return order
}

// IsConfigured reports whether lang is one of AllLanguages.
func (r *Resolver) IsConfigured(lang string) bool {
	return slices.Contains(r.all, lang)
}

// ShortCodes returns the distinct primary subtags of the site languages.
func (r *Resolver) ShortCodes() []string {
	out := make([]string, 0, len(r.languages))
	for _, code := range r.languages {
		if b := Base(code); !slices.Contains(out, b) {
			out = append(out, b)
		}
	}
	return out
}

// Shorthand returns the URL form of lang.
func (r *Resolver) Shorthand(lang string) string {
	if r.short {
		return Base(lang)
	}
	return lang
}

// CodeFromShorthand returns the first site language whose primary subtag is
// short, or the default language.
func (r *Resolver) CodeFromShorthand(short string) string {
	for _, code := range r.languages {
		if code == short || Base(code) == short {
			return code
		}
	}
	return r.def
}

// Disjunction returns a regexp alternation of the URL forms of all site
// languages, longest first so "en-us" is preferred over "en".
func (r *Resolver) Disjunction() string {
	codes := make([]string, 0, len(r.languages))
	for _, code := range r.languages {
		if s := regexp.QuoteMeta(r.Shorthand(code)); !slices.Contains(codes, s) {
			codes = append(codes, s)
		}
	}
	slices.SortStableFunc(codes, func(a, b string) int { return len(b) - len(a) })
	return strings.Join(codes, "|")
}

// StripLanguageCode removes the first language segment from url.
func (r *Resolver) StripLanguageCode(url string) string {
	loc := r.strip.FindStringIndex(url)
	if loc == nil {
		return url
	}
	return url[:loc[0]] + "/" + url[loc[1]:]
}

// FixLanguageCode replaces the language segment of url with lang. A site with
// a single language that is not the master site carries no prefix at all.
func (r *Resolver) FixLanguageCode(url, lang string) string {
	stripped := r.StripLanguageCode(url)
	if !r.master && len(r.languages) == 1 {
		return stripped
	}
	return "/" + r.Shorthand(lang) + stripped
}

// LocalizeFieldNames maps each name in fields that appears in localized to
// its storage slot in lang.
func LocalizeFieldNames(fields, localized []string, lang string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		if slices.Contains(localized, f) {
			out[i] = RealFieldName(f, lang)
		} else {
			out[i] = f
		}
	}
	return out
}

// Match picks the site language that best serves an Accept-Language header.
// Returns the default language when nothing matches or the header is invalid.
func (r *Resolver) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return r.def
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return r.def
	}
	_, idx, conf := r.matcher.Match(tags...)
	if conf == language.No {
		return r.def
	}
	return r.matcherLanguage(idx)
}

func (r *Resolver) matcherLanguage(idx int) string {
	defIdx := slices.Index(r.languages, r.def)
	if idx == 0 {
		return r.def
	}
	// Matcher order is the default language followed by the remaining languages.
	if idx <= defIdx {
		return r.languages[idx-1]
	}
	return r.languages[idx]
}

func parse(code string) (language.Tag, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q: %w", ErrInvalidLanguage, code, err)
	}
	return tag, nil
}
