package xmlutil

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var entityPattern = regexp.MustCompile(`&([^;&\s<>]+);`)

var xmlEntities = map[string]bool{"amp": true, "lt": true, "gt": true, "quot": true, "apos": true}

// ResolveEntities replaces HTML named entities with their characters so the
// result can be parsed as XML. The five XML entities and numeric references
// are kept. Unknown entities become "?".
func ResolveEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := m[1 : len(m)-1]
		if xmlEntities[name] || strings.HasPrefix(name, "#") {
			return m
		}
		if r, ok := xml.HTMLEntity[name]; ok {
			return escapeString(r)
		}
		return "?"
	})
}

// IsValid reports whether s is a well-formed XML fragment once HTML entities
// are resolved. A fragment may hold several top-level elements.
func IsValid(s string) bool {
	d := xml.NewDecoder(strings.NewReader("<fragment>" + ResolveEntities(s) + "</fragment>"))
	for {
		if _, err := d.Token(); err != nil {
			return errors.Is(err, io.EOF)
		}
	}
}

// CopyFragment parses fragment and replays its elements and character data
// into w. Markup is copied as markup, not escaped text. Comments, processing
// instructions and directives are dropped. Namespace prefixes are kept as
// written.
func CopyFragment(w Writer, fragment string) error {
	if !IsValid(fragment) {
		return ErrMalformedFragment
	}

	d := xml.NewDecoder(strings.NewReader(ResolveEntities(fragment)))
	var stack []string
	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errors.Join(ErrMalformedFragment, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := qualified(t.Name)
			attrs := make([]Attr, 0, len(t.Attr))
			for _, a := range t.Attr {
				attrs = append(attrs, Attr{Name: qualified(a.Name), Value: a.Value})
			}
			if err := w.StartElement(name, attrs...); err != nil {
				return err
			}
			stack = append(stack, name)
		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 || stack[len(stack)-1] != name {
				return fmt.Errorf("%w: unexpected </%s>", ErrMalformedFragment, name)
			}
			stack = stack[:len(stack)-1]
			if err := w.EndElement(name); err != nil {
				return err
			}
		case xml.CharData:
			if err := w.Characters(string(t)); err != nil {
				return err
			}
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("%w: <%s> not closed", ErrMalformedFragment, stack[len(stack)-1])
	}
	return nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func escapeString(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
