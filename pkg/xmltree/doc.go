// Package xmltree serializes model instances into one nested XML document
// that XSLT stylesheets render.
//
// Every instance becomes an object element holding its own fields in
// declaration order, followed by the objects reachable through reverse
// foreign keys and generic relations, nested inside their parent. Forward
// many-to-many relations are wrapped in a field element with
// rel="ManyToManyRel":
//
//	<?xml version="1.0" encoding="utf-8"?><collection version="1.0">
//	  <object pk="1" model="news.article">
//	    <field name="title" type="CharField">Hello</field>
//	    <object pk="7" model="news.paragraph">...</object>
//	  </object>
//	</collection>
//
// Localized fields are written once under their plain name with the value
// for the active language. The per-language storage slots behind them are
// left out.
//
// Many-to-many cycles are cut by a [RecursionGuard] that belongs to a single
// serialization, so concurrent calls never share depth counters. Passing
// the ceiling aborts with a [*RecursionLimitError] and no partial document.
//
// Fields may replace their text output with a model.FieldSerializer.
// [RichText], [Markdown] and [RawXML] embed markup; [IncludeFile],
// [RemoteInclude] and [StoredInclude] embed external XML documents and
// fall back to [NotFoundDocument] when the source cannot be read.
package xmltree
