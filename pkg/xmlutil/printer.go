package xmlutil

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const header = `<?xml version="1.0" encoding="utf-8"?>`

type frame struct {
	name     string
	children bool
}

// Printer writes XML events to an io.Writer. It is not safe for concurrent use.
type Printer struct {
	w       io.Writer
	indent  string
	stack   []frame
	started bool
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithIndent pretty prints nested elements using indent per level.
func WithIndent(indent string) PrinterOption {
	return func(p *Printer) {
		p.indent = indent
	}
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, opts ...PrinterOption) *Printer {
	p := &Printer{w: w}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StartDocument writes the XML declaration. Only the first call has effect.
func (p *Printer) StartDocument() error {
	if p.started {
		return nil
	}
	p.started = true
	_, err := io.WriteString(p.w, header)
	return err
}

// EndDocument finishes the document. All elements must be closed.
func (p *Printer) EndDocument() error {
	if len(p.stack) > 0 {
		return fmt.Errorf("%w: <%s>", ErrDocumentNotFinished, p.stack[len(p.stack)-1].name)
	}
	_, err := io.WriteString(p.w, "\n")
	return err
}

// Depth returns the number of open elements.
func (p *Printer) Depth() int {
	return len(p.stack)
}

func (p *Printer) StartElement(name string, attrs ...Attr) error {
	if err := p.open(name, attrs); err != nil {
		return err
	}
	if _, err := io.WriteString(p.w, ">"); err != nil {
		return err
	}
	p.stack = append(p.stack, frame{name: name})
	return nil
}

func (p *Printer) AddEmptyElement(name string, attrs ...Attr) error {
	if err := p.open(name, attrs); err != nil {
		return err
	}
	_, err := io.WriteString(p.w, "/>")
	return err
}

func (p *Printer) Characters(text string) error {
	if text == "" {
		return nil
	}
	return xml.EscapeText(p.w, []byte(text))
}

func (p *Printer) EndElement(name string) error {
	if len(p.stack) == 0 {
		return fmt.Errorf("%w: </%s> without open element", ErrUnbalanced, name)
	}
	top := p.stack[len(p.stack)-1]
	if top.name != name {
		return fmt.Errorf("%w: </%s> closes <%s>", ErrUnbalanced, name, top.name)
	}
	p.stack = p.stack[:len(p.stack)-1]

	if top.children {
		if err := p.newline(len(p.stack)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(p.w, "</%s>", name)
	return err
}

func (p *Printer) open(name string, attrs []Attr) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if len(p.stack) > 0 {
		p.stack[len(p.stack)-1].children = true
	}
	if p.started || len(p.stack) > 0 {
		if err := p.newline(len(p.stack)); err != nil {
			return err
		}
	}

	var b bytes.Buffer
	b.WriteByte('<')
	b.WriteString(name)
	for _, a := range attrs {
		if !validName(a.Name) {
			return fmt.Errorf("%w: attribute %q", ErrInvalidName, a.Name)
		}
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		if err := xml.EscapeText(&b, []byte(a.Value)); err != nil {
			return err
		}
		b.WriteByte('"')
	}
	_, err := p.w.Write(b.Bytes())
	return err
}

func (p *Printer) newline(depth int) error {
	if p.indent == "" {
		return nil
	}
	_, err := io.WriteString(p.w, "\n"+strings.Repeat(p.indent, depth))
	return err
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == ':' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f:
		case i > 0 && (r == '-' || r == '.' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}
