package middlewares

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/lingua/pkg/langcode"
)

// DefaultLocaleCookie is the cookie consulted when a request carries no
// language prefix.
const DefaultLocaleCookie = "lingua_language"

// LocaleSource extracts a language code from a request.
// It returns false when the request says nothing about the language.
type LocaleSource func(r *http.Request) (string, bool)

// LocaleConfig configures the Locale middleware.
type LocaleConfig struct {
	Sources     []LocaleSource
	sourcesSet  bool
	StripPrefix bool
	SetCookie   string
}

// LocaleOption configures LocaleConfig.
type LocaleOption func(*LocaleConfig)

// WithLocaleSources replaces the default extractor chain.
func WithLocaleSources(sources ...LocaleSource) LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.Sources = sources
		cfg.sourcesSet = true
	}
}

// WithLocaleStripPrefix removes the language segment from the request path
// before calling the next handler.
func WithLocaleStripPrefix() LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.StripPrefix = true
	}
}

// WithLocaleCookie makes the middleware remember the resolved language in
// the named cookie.
func WithLocaleCookie(name string) LocaleOption {
	return func(cfg *LocaleConfig) {
		cfg.SetCookie = name
	}
}

// FromPathPrefix returns a LocaleSource reading the first path segment.
// Both full codes and short codes are recognized.
func FromPathPrefix(resolver *langcode.Resolver) LocaleSource {
	return func(r *http.Request) (string, bool) {
		return pathLanguage(resolver, r.URL.Path)
	}
}

// FromCookie returns a LocaleSource reading a configured language from the
// named cookie.
func FromCookie(resolver *langcode.Resolver, name string) LocaleSource {
	return func(r *http.Request) (string, bool) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", false
		}
		if !resolver.IsConfigured(c.Value) {
			return "", false
		}
		return c.Value, true
	}
}

// FromAcceptLanguage returns a LocaleSource matching the Accept-Language
// header against the site languages.
func FromAcceptLanguage(resolver *langcode.Resolver) LocaleSource {
	return func(r *http.Request) (string, bool) {
		header := r.Header.Get("Accept-Language")
		if header == "" {
			return "", false
		}
		return resolver.Match(header), true
	}
}

// Locale returns middleware that resolves the request language and stores
// it in the request context with langcode.WithContext.
// The default chain is path prefix, cookie, Accept-Language, then the
// default language. The response gets a Content-Language header unless the
// handler sets one.
func Locale(resolver *langcode.Resolver, opts ...LocaleOption) func(http.Handler) http.Handler {
	cfg := &LocaleConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.sourcesSet {
		cfg.Sources = []LocaleSource{
			FromPathPrefix(resolver),
			FromCookie(resolver, DefaultLocaleCookie),
			FromAcceptLanguage(resolver),
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := resolver.DefaultLanguage()
			for _, src := range cfg.Sources {
				if v, ok := src(r); ok && v != "" {
					lang = v
					break
				}
			}

			if cfg.StripPrefix {
				if _, ok := pathLanguage(resolver, r.URL.Path); ok {
					r = stripPath(r)
				}
			}

			if cfg.SetCookie != "" {
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.SetCookie,
					Value:    lang,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			if w.Header().Get("Content-Language") == "" {
				w.Header().Set("Content-Language", lang)
			}

			next.ServeHTTP(w, r.WithContext(langcode.WithContext(r.Context(), lang)))
		})
	}
}

// GetLanguage returns the language resolved by Locale, or "".
func GetLanguage(r *http.Request) string {
	return langcode.FromContext(r.Context())
}

func pathLanguage(resolver *langcode.Resolver, path string) (string, bool) {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if seg == "" {
		return "", false
	}
	for _, code := range resolver.Languages() {
		if seg == code || seg == resolver.Shorthand(code) {
			return code, true
		}
	}
	return "", false
}

// stripPath drops the first path segment, keeping "/de" as "/".
func stripPath(r *http.Request) *http.Request {
	_, rest, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	r2 := r.Clone(r.Context())
	r2.URL.Path = "/" + rest
	r2.URL.RawPath = ""
	return r2
}
