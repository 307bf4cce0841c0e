package langcode

import "context"

type contextKey struct{}

// WithContext returns a copy of ctx carrying lang as the active language.
func WithContext(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKey{}, lang)
}

// FromContext returns the active language stored in ctx, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	lang, _ := ctx.Value(contextKey{}).(string)
	return lang
}

// Active returns the language stored in ctx, or the default language.
func (r *Resolver) Active(ctx context.Context) string {
	if lang := FromContext(ctx); lang != "" {
		return lang
	}
	return r.def
}
