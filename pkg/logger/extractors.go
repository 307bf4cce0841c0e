package logger

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/lingua/pkg/langcode"
)

type serializationIDKey struct{}

// WithSerializationID returns a copy of ctx tagged with the id of the
// serialization it belongs to.
func WithSerializationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, serializationIDKey{}, id)
}

// SerializationID returns the serialization id stored in ctx, or "".
func SerializationID(ctx context.Context) string {
	id, _ := ctx.Value(serializationIDKey{}).(string)
	return id
}

// LanguageExtractor adds the active language of ctx as "language".
func LanguageExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if lang := langcode.FromContext(ctx); lang != "" {
			return slog.String("language", lang), true
		}
		return slog.Attr{}, false
	}
}

// SerializationIDExtractor adds the serialization id of ctx as
// "serialization_id".
func SerializationIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := SerializationID(ctx); id != "" {
			return slog.String("serialization_id", id), true
		}
		return slog.Attr{}, false
	}
}

// DefaultExtractors returns the extractors used by the lingua command.
func DefaultExtractors() []ContextExtractor {
	return []ContextExtractor{LanguageExtractor(), SerializationIDExtractor()}
}
