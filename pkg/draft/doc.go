// Package draft previews unpublished content.
//
// A [Source] returns the snapshot of the objects saved in a revision.
// [InsertDraft] serializes each snapshot object and swaps it into an
// already serialized document, locating the object elements by their pk
// and model attributes. [FilterUnpublished] drops objects whose published
// field is False before a document is rendered for the public site.
package draft
