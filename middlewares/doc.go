// Package middlewares provides net/http middleware for the lingua server.
//
// All middlewares have the shape func(http.Handler) http.Handler and plug
// into chi or any other router:
//
//	r := chi.NewRouter()
//	r.Use(
//	    middlewares.RequestID(),
//	    middlewares.Recover(middlewares.WithRecoverLogger(log)),
//	    middlewares.Timeout(10*time.Second),
//	    middlewares.Locale(resolver, middlewares.WithLocaleStripPrefix()),
//	)
//
// # Locale
//
// Locale picks the request language from the URL prefix ("/de/..." or the
// short form "/en/..."), then the lingua_language cookie, then the
// Accept-Language header, then the site default. The language is stored with
// langcode.WithContext, so localized fields read in the handler resolve in
// that language without further plumbing.
//
// # Request ID
//
// RequestID reuses an upstream X-Request-ID or generates a UUID. Pair it with
// RequestIDExtractor to get request_id on every log record.
//
// # Recover and Timeout
//
// Recover logs a panic with its stack and answers 500. Timeout bounds the
// request context; a handler that gives up without writing gets a 504.
//
// # CORS
//
// CORS allows other origins to fetch the XML feeds. Only safe methods are
// allowed by default.
package middlewares
