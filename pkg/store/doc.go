// Package store loads and saves model instances and provides the relation
// fetchers the serializer follows.
//
// [Memory] keeps everything in memory and suits tests, fixtures and small
// sites defined in YAML. [Postgres] maps each registered type to a table
// whose columns are named after the storage fields, including the
// per-language slots created by localization.
//
// Both stores run save hooks after an instance has been stored, which is
// how translation catalogs are kept in sync with edited content:
//
//	w := catalog.NewWriter("locale", resolver)
//	s := store.NewMemory(store.WithSaveHook(w.HandleSave))
package store
