// Package catalog provides translation catalogs keyed by message id.
//
// A message id is the text stored in the message id language of a localized
// field. Looking it up in another language's catalog yields the translation,
// or the message id itself when there is none:
//
//	c, err := catalog.New(
//		catalog.WithMessages("de", map[string]any{"Hello": "Hallo"}),
//	)
//	c.Lookup("Hello", "de")    // "Hallo"
//	c.Lookup("Hello", "de-at") // "Hallo", via the primary subtag
//	c.Lookup("Hello", "fr")    // "Hello"
//	c.Lookup("", "de")         // "", empty ids never reach the catalog
//
// # Sources
//
// Catalogs are built from maps, from JSON, YAML, TOML or gettext PO files in
// an fs.FS ({lang}/{domain}.ext or {locale}/LC_MESSAGES/{domain}.po), from
// the catalog_messages PostgreSQL table ([LoadPostgres]) or from Redis hashes
// shared between processes ([LoadRedis], [PublishRedis]). A go-i18n bundle can
// serve as a gateway through [Bundle].
//
// # Concurrency
//
// A [Catalog] is immutable. [Live] swaps whole catalogs atomically, so
// readers never wait for a reload and may observe the previous catalog
// while a new one is being built.
//
// # Writing catalogs
//
// [Writer] appends the message ids of saved instances to per-language PO
// files. Each file is protected by an exclusive file lock; when the lock
// cannot be acquired within the configured wait, Write fails with
// [ErrLockTimeout] instead of blocking.
package catalog
