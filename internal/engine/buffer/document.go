package buffer

import (
	"strings"
)

// Document is a non-empty ordered sequence of lines.
//
// Document is not safe for concurrent use; callers serialize access.
type Document struct {
	lines []*Line
}

// NewDocument creates a document holding text.
func NewDocument(text string) *Document {
	d := &Document{}
	d.lines = newLines(SplitLines(text))
	return d
}

// SplitLines splits text on "\r\n", "\n" or a lone "\r".
// The result always has at least one element.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func newLines(texts []string) []*Line {
	lines := make([]*Line, len(texts))
	for i, t := range texts {
		lines[i] = NewLine(t)
	}
	return lines
}

// SetValue replaces the whole content of the document.
func (d *Document) SetValue(text string) Change {
	last := len(d.lines) - 1
	return d.Replace(Pos{}, Pos{Line: last, Ch: d.lines[last].Len()}, SplitLines(text))
}

// Value returns the document text joined with "\n".
func (d *Document) Value() string {
	return strings.Join(d.Texts(0, len(d.lines)), "\n")
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns line n, or nil when n is out of range.
func (d *Document) Line(n int) *Line {
	if n < 0 || n >= len(d.lines) {
		return nil
	}
	return d.lines[n]
}

// LineText returns the text of line n, or "" when n is out of range.
func (d *Document) LineText(n int) string {
	if l := d.Line(n); l != nil {
		return l.text
	}
	return ""
}

// Texts returns the text of lines [from, to), clipped to the document.
func (d *Document) Texts(from, to int) []string {
	from = max(from, 0)
	to = min(to, len(d.lines))
	if from >= to {
		return nil
	}
	out := make([]string, 0, to-from)
	for _, l := range d.lines[from:to] {
		out = append(out, l.text)
	}
	return out
}

// ClipLine clamps n to a valid line index.
func (d *Document) ClipLine(n int) int {
	return max(0, min(n, len(d.lines)-1))
}

// ClipPos clamps p to a valid position.
func (d *Document) ClipPos(p Pos) Pos {
	if p.Line < 0 {
		return Pos{}
	}
	if last := len(d.lines) - 1; p.Line > last {
		return Pos{Line: last, Ch: d.lines[last].Len()}
	}
	return Pos{Line: p.Line, Ch: max(0, min(p.Ch, d.lines[p.Line].Len()))}
}

// EndPos returns the position after the last character.
func (d *Document) EndPos() Pos {
	last := len(d.lines) - 1
	return Pos{Line: last, Ch: d.lines[last].Len()}
}

// Range returns the text between two positions as lines.
func (d *Document) Range(from, to Pos) []string {
	from, to = d.ClipPos(from), d.ClipPos(to)
	from, to = MinPos(from, to), MaxPos(from, to)
	if from.Line == to.Line {
		return []string{d.lines[from.Line].text[from.Ch:to.Ch]}
	}
	out := []string{d.lines[from.Line].text[from.Ch:]}
	out = append(out, d.Texts(from.Line+1, to.Line)...)
	return append(out, d.lines[to.Line].text[:to.Ch])
}

// Replace replaces the text between from and to with lines. Positions are
// clamped and ordered. An empty lines slice deletes the range.
func (d *Document) Replace(from, to Pos, lines []string) Change {
	from, to = d.ClipPos(from), d.ClipPos(to)
	from, to = MinPos(from, to), MaxPos(from, to)
	if len(lines) == 0 {
		lines = []string{""}
	}

	ch := Change{
		From:     from,
		To:       to,
		Text:     append([]string(nil), lines...),
		Old:      d.Range(from, to),
		FromLine: from.Line,
		ToLine:   to.Line + 1,
		Delta:    len(lines) - (to.Line - from.Line + 1),
	}

	first := d.lines[from.Line]
	last := d.lines[to.Line]
	nl := len(lines)

	switch {
	case from.Line == to.Line && nl == 1:
		first.Replace(from.Ch, to.Ch, lines[0])

	case from.Line == to.Line:
		tail := first.Split(to.Ch, lines[nl-1])
		// The suffix and its marks moved to tail; cut them before appending
		// so they are not kept twice.
		first.Replace(from.Ch, LineEnd, "")
		first.Append(NewLine(lines[0]))
		added := append(newLines(lines[1:nl-1]), tail)
		d.splice(from.Line+1, 0, added)

	case nl == 1:
		first.Replace(from.Ch, LineEnd, lines[0])
		last.Replace(0, to.Ch, "")
		first.Append(last)
		d.splice(from.Line+1, to.Line-from.Line, nil)

	default:
		first.Replace(from.Ch, LineEnd, lines[0])
		last.Replace(0, to.Ch, lines[nl-1])
		d.splice(from.Line+1, to.Line-from.Line-1, newLines(lines[1:nl-1]))
	}
	return ch
}

// splice removes del lines at index at and inserts ins there.
func (d *Document) splice(at, del int, ins []*Line) {
	tail := append([]*Line(nil), d.lines[at+del:]...)
	d.lines = append(append(d.lines[:at], ins...), tail...)
}
