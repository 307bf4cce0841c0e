// Package xmlutil writes XML as a stream of element events.
//
// [Writer] is the small interface the serializer and custom field
// serializers emit into. [Printer] implements it on top of an io.Writer and
// escapes character data, while [CopyFragment] replays an already
// well-formed fragment into any Writer without escaping its markup.
//
// HTML entities that are not part of XML (&nbsp;, &eacute;) are resolved to
// their characters before parsing; unknown entities become "?".
package xmlutil
