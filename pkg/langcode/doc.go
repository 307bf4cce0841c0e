// Package langcode resolves language codes for localized fields.
//
// A [Resolver] is built once from a [Config] and answers every question the
// rest of the module asks about languages: which storage slot holds a field
// in a language, which languages to try when a value is missing, how language
// codes appear in URLs, and which configured language best matches a client.
//
// All methods are pure functions of the configuration, so a Resolver is safe
// for concurrent use.
//
// # Storage slots
//
// A localized field "title" is stored once per language. The slot name is the
// canonical field name joined with the language code:
//
//	langcode.RealFieldName("title", "en-us") // "title_en-us"
//
// # Fallbacks
//
// Fallback sequences are looked up by exact language code first and by the
// primary subtag second:
//
//	r, _ := langcode.New(langcode.Config{
//		Languages: []string{"en", "de", "de-at"},
//		Fallbacks: map[string][]string{"de": {"en"}},
//	})
//	r.Fallbacks("de-at") // ["en"]
//
// # URLs
//
// [Resolver.StripLanguageCode] and [Resolver.FixLanguageCode] rewrite the
// language prefix of a path. With Config.ShortCodes enabled, prefixes use the
// primary subtag ("/en/") instead of the full code ("/en-us/").
package langcode
