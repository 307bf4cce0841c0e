// Package internal composes a lingua site from its configuration.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/lingua" instead, which re-exports the public API.
//
// # Site
//
// New turns a config.Site into a running Site:
//
//   - the language resolver and the translation catalog, merged from the PO
//     files of the locale directory, the catalog_messages table and the
//     Redis catalog hashes and served through catalog.Live
//   - one model.Type per declared type, with custom field serializers and
//     localized fields installed by l10n.Localizer
//   - the instance store: PostgreSQL when database_url is set, otherwise an
//     in-memory store filled from the fixtures file
//   - relations bound to fetchers of that store
//   - the XML serializer and the XSLT renderer with its render cache
//   - save hooks writing PO catalogs (master site with auto_catalog only),
//     reloading the catalog and invalidating rendered documents
//
//	cfg, err := config.Load("site.yaml")
//	if err != nil {
//	    return err
//	}
//	site, err := internal.New(ctx, cfg, internal.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	defer site.Close(ctx)
//
// # Fixtures
//
// Fixture files are YAML (or JSON) lists of records:
//
//	# fixtures.yaml
//	- model: news.article
//	  pk: 1
//	  fields:
//	    title: Hello world
//	    title_de: Hallo Welt
//	  links:
//	    tags: [1, 2]
//	- model: news.article
//	  pk: 1
//	  revision: r42
//	  fields:
//	    title: Hello draft
//
// Records with a revision become draft snapshots for RenderDraft.
//
// # HTTP
//
// Handler exposes the serialized and rendered documents; Serve runs it with
// graceful shutdown on SIGINT and SIGTERM:
//
//	GET /health/live
//	GET /health/ready
//	GET [/{lang}]/xml/{type}[/{pk}]
//	GET [/{lang}]/render/{stylesheet}/{type}/{pk}
package internal
