// Package logger provides structured logging with context extraction and Sentry integration.
//
// This package extends the standard library's log/slog with two capabilities:
// automatic context-based attribute injection and optional Sentry error reporting.
// Library types in lingua accept a *slog.Logger and default to [NewNope]; the
// lingua command builds its logger here.
//
// # Basic Usage
//
//	log := logger.New(logger.DefaultExtractors()...)
//
//	ctx := langcode.WithContext(context.Background(), "de")
//	log.InfoContext(ctx, "rendered page", slog.String("stylesheet", "page.xsl"))
//	// Output: {"level":"INFO","msg":"rendered page","stylesheet":"page.xsl","language":"de"}
//
// # Context Extractors
//
// A ContextExtractor is a function that extracts a log attribute from context:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Extractors are called on every log call. Two are provided:
//   - [LanguageExtractor] adds the active language set with langcode.WithContext
//   - [SerializationIDExtractor] adds the id the XML serializer attaches to
//     every top-level serialization with [WithSerializationID]
//
// # Sentry Integration
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:      os.Getenv("SENTRY_DSN"),
//		MinLevel: slog.LevelWarn,
//	}, logger.DefaultExtractors()...)
//
// If the DSN is empty, or Sentry fails to initialize, the logger falls back to
// local JSON output only.
//
// # Custom Handlers
//
// [ContextHandler] adds the extractors to any slog.Handler:
//
//	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
//	log := slog.New(logger.NewContextHandler(h, logger.DefaultExtractors()...))
package logger
