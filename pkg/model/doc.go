// Package model describes entity types, their fields and relations, and the
// instances built from them.
//
// Types are declared once at startup: storage fields in order, relations
// registered explicitly, and descriptors installed by transforms such as field
// localization. After definition a Type is read-only and may be shared by
// goroutines. Instances hold raw slot values and are not safe for concurrent
// mutation.
//
// Relations are navigational only. Each [Relation] carries a [Fetcher] that
// returns the related instances in their natural query order; the package
// never loads data on its own.
package model
