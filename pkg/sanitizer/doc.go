// Package sanitizer cleans user supplied HTML with bluemonday policies and
// re-renders it as well-formed markup that can be embedded in XML.
//
//	clean := sanitizer.SanitizeRichText(input)
//	markup, err := sanitizer.XHTML(clean)
package sanitizer
