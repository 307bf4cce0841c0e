package sanitizer

import (
	"bytes"
	"errors"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrMarkup is returned when a fragment cannot be parsed as HTML.
var ErrMarkup = errors.New("sanitizer: failed to parse markup")

var (
	strictPolicy   *bluemonday.Policy
	safePolicy     *bluemonday.Policy
	richTextPolicy *bluemonday.Policy
	initOnce       sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// StrictPolicy strips ALL HTML, returns plain text
		strictPolicy = bluemonday.StrictPolicy()

		// SafePolicy allows basic formatting for user-generated content
		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)

		// RichTextPolicy is what editors may store in rich text fields that
		// are rendered by stylesheets.
		richTextPolicy = bluemonday.NewPolicy()
		richTextPolicy.AllowStandardURLs()
		richTextPolicy.AllowElements(
			"p", "br", "span", "div",
			"strong", "b", "em", "i", "u", "sub", "sup",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"ul", "ol", "li",
			"blockquote", "code", "pre",
		)
		richTextPolicy.AllowAttrs("href", "title").OnElements("a")
		richTextPolicy.AllowAttrs("target").Matching(bluemonday.Paragraph).OnElements("a")
		richTextPolicy.AllowAttrs("class").Globally()
	})
}

// StripHTML removes all markup and returns the text content.
func StripHTML(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// SanitizeHTML allows safe formatting tags (p, a, strong, em, lists, code).
// Use for user-generated content that needs basic HTML formatting.
// Strips all dangerous elements and attributes including scripts, event handlers,
// and javascript: URLs.
func SanitizeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}

// SanitizeRichText applies the rich text policy: formatting, headings,
// lists, links and class attributes.
func SanitizeRichText(s string) string {
	initPolicies()
	return richTextPolicy.Sanitize(s)
}

// SanitizeHTMLCustom applies a custom bluemonday policy.
// Returns input unchanged if policy is nil.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}

// XHTML re-renders an HTML fragment as well-formed markup: void elements
// are self-closed, unclosed elements are closed and attribute values are
// quoted.
func XHTML(s string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", errors.Join(ErrMarkup, err)
	}

	var b bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return "", errors.Join(ErrMarkup, err)
		}
	}
	return b.String(), nil
}
