package catalog

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// POEntry is one message of a gettext PO file. TranslatorComments hold the
// "# " lines, Comments the extracted "#." lines and Previous the "#|" lines
// without their marker.
type POEntry struct {
	TranslatorComments []string
	Comments           []string
	References         []string
	Flags              []string
	Previous           []string
	Context            string
	Msgid              string
	MsgidPlural        string
	Msgstr             string
	MsgstrPlural       []string // msgstr[1], msgstr[2], ...

	// raw is the entry as read; written back unchanged until Merge edits it.
	raw   []string
	extra []string
}

// Fuzzy reports whether the entry carries the fuzzy flag.
func (e POEntry) Fuzzy() bool {
	return slices.Contains(e.Flags, "fuzzy")
}

// POFile is a parsed PO file. The header entry (empty msgid) is kept apart.
// Entries read by ParsePO are written back line for line unless Merge
// changes them; obsolete entries are carried over as read.
type POFile struct {
	Header   string
	Entries  []POEntry
	Obsolete [][]string

	headerRaw  []string
	headerRead string
}

// Find returns the entry with msgid and context.
func (p *POFile) Find(msgid, context string) (*POEntry, bool) {
	for i := range p.Entries {
		if p.Entries[i].Msgid == msgid && p.Entries[i].Context == context {
			return &p.Entries[i], true
		}
	}
	return nil, false
}

// Merge adds entries that are not present yet and appends new references to
// existing ones. Returns the number of added entries.
func (p *POFile) Merge(entries ...POEntry) int {
	added := 0
	for _, e := range entries {
		if e.Msgid == "" {
			continue
		}
		if cur, ok := p.Find(e.Msgid, e.Context); ok {
			for _, ref := range e.References {
				if !slices.Contains(cur.References, ref) {
					cur.References = append(cur.References, ref)
					cur.raw = nil
				}
			}
			continue
		}
		e.raw = nil
		p.Entries = append(p.Entries, e)
		added++
	}
	return added
}

type poField int

const (
	poNone poField = iota
	poContext
	poMsgid
	poMsgidPlural
	poMsgstr
)

// ParsePO reads a PO file. Entries are separated by blank lines or by a new
// comment, msgctxt or msgid after a msgstr.
func ParsePO(r io.Reader) (*POFile, error) {
	var (
		file   POFile
		block  []string
		start  int
		inStr  bool
		lineNo int
	)

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		err := file.addBlock(block, start)
		block, inStr = nil, false
		return err
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if inStr && !strings.HasPrefix(line, `"`) && !strings.HasPrefix(line, "msgstr") {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		if len(block) == 0 {
			start = lineNo
		}
		block = append(block, line)
		if strings.HasPrefix(line, "msgstr") {
			inStr = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return &file, nil
}

func (p *POFile) addBlock(lines []string, lineNo int) error {
	if commentsOnly(lines) {
		p.Obsolete = append(p.Obsolete, lines)
		return nil
	}
	e, err := parseEntry(lines, lineNo)
	if err != nil {
		return err
	}
	if e.Msgid == "" && e.Context == "" {
		p.Header, p.headerRead, p.headerRaw = e.Msgstr, e.Msgstr, lines
		return nil
	}
	p.Entries = append(p.Entries, e)
	return nil
}

func commentsOnly(lines []string) bool {
	for _, l := range lines {
		if !strings.HasPrefix(l, "#") {
			return false
		}
	}
	return true
}

func parseEntry(lines []string, lineNo int) (POEntry, error) {
	e := POEntry{raw: lines}
	field, plural := poNone, 0

	for i, line := range lines {
		n := lineNo + i
		switch {
		case strings.HasPrefix(line, "#:"):
			e.References = append(e.References, strings.Fields(line[2:])...)
		case strings.HasPrefix(line, "#,"):
			for f := range strings.SplitSeq(line[2:], ",") {
				if f = strings.TrimSpace(f); f != "" {
					e.Flags = append(e.Flags, f)
				}
			}
		case strings.HasPrefix(line, "#."):
			e.Comments = append(e.Comments, strings.TrimSpace(line[2:]))
		case strings.HasPrefix(line, "#|"):
			e.Previous = append(e.Previous, strings.TrimSpace(line[2:]))
		case line == "#" || strings.HasPrefix(line, "# "):
			e.TranslatorComments = append(e.TranslatorComments, strings.TrimPrefix(line[1:], " "))
		case strings.HasPrefix(line, "#"):
			e.extra = append(e.extra, line)
		case strings.HasPrefix(line, `"`):
			s, err := strconv.Unquote(line)
			if err != nil {
				return e, fmt.Errorf("%w: line %d: %w", ErrInvalidPO, n, err)
			}
			switch field {
			case poContext:
				e.Context += s
			case poMsgid:
				e.Msgid += s
			case poMsgidPlural:
				e.MsgidPlural += s
			case poMsgstr:
				if plural == 0 {
					e.Msgstr += s
				} else {
					e.MsgstrPlural[plural-1] += s
				}
			default:
				return e, fmt.Errorf("%w: line %d: unexpected string", ErrInvalidPO, n)
			}
		default:
			keyword, rest, _ := strings.Cut(line, " ")
			s, err := strconv.Unquote(strings.TrimSpace(rest))
			if err != nil {
				return e, fmt.Errorf("%w: line %d: %w", ErrInvalidPO, n, err)
			}
			switch keyword {
			case "msgctxt":
				field, e.Context = poContext, s
			case "msgid":
				field, e.Msgid = poMsgid, s
			case "msgid_plural":
				field, e.MsgidPlural = poMsgidPlural, s
			case "msgstr":
				field, plural, e.Msgstr = poMsgstr, 0, s
			default:
				idx, ok := pluralIndex(keyword)
				if !ok {
					return e, fmt.Errorf("%w: line %d: unknown keyword %q", ErrInvalidPO, n, keyword)
				}
				field, plural = poMsgstr, idx
				if idx == 0 {
					e.Msgstr = s
					continue
				}
				for len(e.MsgstrPlural) < idx {
					e.MsgstrPlural = append(e.MsgstrPlural, "")
				}
				e.MsgstrPlural[idx-1] = s
			}
		}
	}
	return e, nil
}

// pluralIndex parses "msgstr[N]".
func pluralIndex(keyword string) (int, bool) {
	s, ok := strings.CutPrefix(keyword, "msgstr[")
	if !ok {
		return 0, false
	}
	s, ok = strings.CutSuffix(s, "]")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// WriteTo writes the file in PO format.
func (p *POFile) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	if p.headerRaw != nil && p.Header == p.headerRead {
		writeLines(&b, p.headerRaw)
	} else {
		b.WriteString("msgid \"\"\n")
		writePOString(&b, "msgstr", p.Header)
	}

	for _, e := range p.Entries {
		b.WriteByte('\n')
		if e.raw != nil {
			writeLines(&b, e.raw)
			continue
		}
		e.render(&b)
	}
	for _, lines := range p.Obsolete {
		b.WriteByte('\n')
		writeLines(&b, lines)
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func (e *POEntry) render(b *strings.Builder) {
	for _, c := range e.TranslatorComments {
		if c == "" {
			b.WriteString("#\n")
			continue
		}
		b.WriteString("# " + c + "\n")
	}
	for _, c := range e.Comments {
		b.WriteString("#. " + c + "\n")
	}
	if len(e.References) > 0 {
		b.WriteString("#: " + strings.Join(e.References, " ") + "\n")
	}
	writeLines(b, e.extra)
	if len(e.Flags) > 0 {
		b.WriteString("#, " + strings.Join(e.Flags, ", ") + "\n")
	}
	for _, prev := range e.Previous {
		b.WriteString("#| " + prev + "\n")
	}
	if e.Context != "" {
		writePOString(b, "msgctxt", e.Context)
	}
	writePOString(b, "msgid", e.Msgid)
	if e.MsgidPlural == "" && len(e.MsgstrPlural) == 0 {
		writePOString(b, "msgstr", e.Msgstr)
		return
	}
	writePOString(b, "msgid_plural", e.MsgidPlural)
	writePOString(b, "msgstr[0]", e.Msgstr)
	for i, s := range e.MsgstrPlural {
		writePOString(b, "msgstr["+strconv.Itoa(i+1)+"]", s)
	}
}

func writeLines(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

// writePOString writes keyword and s, splitting multi-line values after each
// newline as gettext tools do.
func writePOString(b *strings.Builder, keyword, s string) {
	if !strings.Contains(s, "\n") || s == "\n" {
		fmt.Fprintf(b, "%s %s\n", keyword, quotePO(s))
		return
	}
	fmt.Fprintf(b, "%s \"\"\n", keyword)
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			b.WriteString(quotePO(s) + "\n")
			break
		}
		b.WriteString(quotePO(s[:i+1]) + "\n")
		s = s[i+1:]
	}
}

func quotePO(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return `"` + r.Replace(s) + `"`
}
