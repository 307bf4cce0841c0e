// Package config loads the YAML definition of a site.
//
// A site file lists the languages, the directories holding catalogs,
// stylesheets and include files, the backing services and the content
// types with their localized fields and relations:
//
//	languages: [en, de, fr]
//	msgid_language: en
//	fallback_languages:
//	  de: [en]
//	locale_dir: locale
//	stylesheet_dirs: [xslt]
//	types:
//	  - app: news
//	    name: article
//	    localized: [title, body]
//	    fields:
//	      - {name: title, max_length: 200, required: true}
//	      - {name: body, kind: TextField, serializer: richtext}
//
// DATABASE_CONN_URL, REDIS_URL, SENTRY_DSN and the LINGUA_* variables
// override the file. An optional .env file is loaded first.
package config
