// Package lingua serves multilingual content as XML and renders it with XSLT.
//
// A site declares content types in YAML. Fields listed as localized get one
// storage slot per language; reading such a field in a language without a
// stored value looks the message id (the value of the message id language)
// up in the translation catalog, then walks the configured fallback
// languages. Instances are serialized into a nested XML collection that
// follows reverse foreign keys, many-to-many and generic relations, and the
// document can be transformed with an XSLT stylesheet.
//
// # Quick Start
//
//	site, err := lingua.Open(ctx, "site.yaml",
//	    lingua.WithLogger(logger.New(logger.DefaultExtractors()...)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := site.Serve(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Site file
//
//	languages: [en, de, fr]
//	msgid_language: en
//	fallback_languages:
//	  fr: [en]
//	master_site: true
//	auto_catalog: true
//	locale_dir: locale
//	stylesheet_dirs: [xslt]
//	fixtures: fixtures.yaml
//	types:
//	  - app: news
//	    name: article
//	    localized: [title]
//	    fields:
//	      - {name: title, max_length: 200}
//	      - {name: body, kind: TextField, serializer: richtext}
//	    relations:
//	      - {name: paragraphs, kind: reverse_fk, target: news.paragraph, field: article}
//
// DATABASE_CONN_URL, REDIS_URL and SENTRY_DSN override the matching keys.
//
// # Packages
//
// The building blocks live under pkg/ and can be used on their own:
//
//   - langcode: language codes, fallbacks, URL prefixes, Accept-Language
//   - catalog: translation catalogs, PO files, PostgreSQL and Redis sources
//   - model and l10n: types, instances and localized field descriptors
//   - xmltree: the recursive XML serializer and custom field serializers
//   - xslt and draft: rendering, draft overlays and unpublished filtering
//   - store: in-memory and PostgreSQL instance stores
//
// The middlewares package resolves the request language for net/http
// handlers, and cmd/lingua wraps everything in a command line tool.
package lingua
