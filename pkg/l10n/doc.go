// Package l10n implements localized fields.
//
// [Localizer.Localize] replaces a storage field of a model.Type with one
// storage slot per site language (named field_lang) and installs a
// [Descriptor] under the original name. Reading the descriptor resolves a
// value for the language active in the context:
//
//  1. the stored slot of the active language wins whenever it holds a value;
//  2. otherwise the message id, the value stored in the message id language,
//     is translated with the catalog of the active language;
//  3. when that catalog has no translation, the stored slots and then the
//     catalogs of the fallback languages are searched in order;
//  4. a message id without any translation is returned unchanged.
//
// The returned [Resolution] carries the winning value and a [Provenance]
// describing every candidate, so editors can tell stored values from catalog
// ones. Booleans and nil values never carry provenance.
//
// Writes go to the slot of the active language:
//
//	ctx := langcode.WithContext(ctx, "de")
//	_ = article.Set(ctx, "title", "Hallo")   // writes title_de
//	v, _ := article.Get(ctx, "title")        // "Hallo"
//
// [CopyLanguage] and [ResetLanguage] plan bulk edits of the slots of one
// language; [Apply] performs them.
package l10n
