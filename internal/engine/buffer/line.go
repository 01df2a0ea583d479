package buffer

import (
	"strings"

	"github.com/dshills/textcore/internal/mode"
)

// StyleRun is a span of line text sharing one highlight style.
// Stale runs hold text that has not been tokenized since it was edited.
type StyleRun struct {
	Text  string
	Style string
	Stale bool
}

func (r StyleRun) sameKey(o StyleRun) bool {
	return r.Style == o.Style && r.Stale == o.Stale
}

// Line is one row of a Document: its text, style runs, marks and the cached
// tokenizer state after the line.
//
// The concatenated text of the runs always equals the line text, and no two
// adjacent runs share the same style and staleness.
type Line struct {
	text  string
	runs  []StyleRun
	marks []Mark
	state mode.State
}

// NewLine creates a line whose text is entirely stale.
func NewLine(text string) *Line {
	l := &Line{text: text}
	if text != "" {
		l.runs = []StyleRun{{Text: text, Stale: true}}
	}
	return l
}

// Text returns the line's text.
func (l *Line) Text() string { return l.text }

// Len returns the byte length of the line's text.
func (l *Line) Len() int { return len(l.text) }

// Runs returns a copy of the line's style runs.
func (l *Line) Runs() []StyleRun {
	return append([]StyleRun(nil), l.runs...)
}

// State returns the cached tokenizer state after this line, or nil when the
// line is stale.
func (l *Line) State() mode.State { return l.state }

// SetState caches the tokenizer state after this line.
func (l *Line) SetState(st mode.State) { l.state = st }

// ClearState marks the cached state stale.
func (l *Line) ClearState() { l.state = nil }

// HasStaleRuns reports whether any run awaits tokenization.
func (l *Line) HasStaleRuns() bool {
	for _, r := range l.runs {
		if r.Stale {
			return true
		}
	}
	return false
}

// Indentation returns the display width of the line's leading white space.
func (l *Line) Indentation(tabSize int) int {
	return mode.Indentation(l.text, tabSize)
}

// Replace replaces text[from:to] with text. A negative to means the end of
// the line. Runs outside the edit are kept, the inserted text becomes one
// stale run, the cached state is cleared and marks are shifted.
func (l *Line) Replace(from, to int, text string) {
	from, to = l.clip(from, to)

	runs := copyRuns(nil, l.runs, 0, from)
	if text != "" {
		runs = appendRun(runs, StyleRun{Text: text, Stale: true})
	}
	runs = copyRuns(runs, l.runs, to, len(l.text))
	l.runs = runs

	l.text = l.text[:from] + text + l.text[to:]
	l.state = nil
	l.fixMarks(from, to, len(text))
}

// Split returns a new line holding prefix followed by text[pos:]. The new
// line carries the style runs and marks of the suffix. The receiver is not
// modified.
func (l *Line) Split(pos int, prefix string) *Line {
	pos, _ = l.clip(pos, pos)

	nl := &Line{text: prefix + l.text[pos:]}
	if prefix != "" {
		nl.runs = appendRun(nil, StyleRun{Text: prefix, Stale: true})
	}
	nl.runs = copyRuns(nl.runs, l.runs, pos, len(l.text))

	shift := len(prefix) - pos
	for _, m := range l.marks {
		end := m.To
		if end != LineEnd && end <= pos {
			continue
		}
		from := max(m.From, pos) + shift
		if end != LineEnd {
			end += shift
		}
		if end == LineEnd || from < end {
			nl.marks = append(nl.marks, Mark{From: from, To: end, Style: m.Style})
		}
	}
	sortMarks(nl.marks)
	return nl
}

// Append joins other onto the end of the line, carrying its runs and marks.
func (l *Line) Append(other *Line) {
	base := len(l.text)
	for i, m := range l.marks {
		if m.To == LineEnd {
			l.marks[i].To = base
		}
	}
	for _, r := range other.runs {
		l.runs = appendRun(l.runs, r)
	}
	for _, m := range other.marks {
		nm := Mark{From: m.From + base, To: m.To, Style: m.Style}
		if m.To != LineEnd {
			nm.To = m.To + base
		}
		l.marks = append(l.marks, nm)
	}
	l.text += other.text
	l.state = nil
	l.dropEmptyMarks()
	sortMarks(l.marks)
}

// Highlight re-tokenizes the line with m starting from st, which is advanced
// to the state after the line. It reports whether the runs changed and
// whether the mode failed to advance the stream at some point. A token that
// does not advance is forced forward by one character.
func (l *Line) Highlight(m mode.Mode, st mode.State, tabSize int) (changed, stalled bool) {
	s := mode.NewStream(l.text, tabSize)
	var runs []StyleRun
	for !s.EOL() {
		style := m.Token(s, st, s.Start() == 0)
		if s.Pos() <= s.Start() {
			stalled = true
			s.Next()
		}
		runs = appendRun(runs, StyleRun{Text: s.Current(), Style: style})
		s.Catchup()
	}

	changed = len(runs) != len(l.runs)
	if !changed {
		for i := range runs {
			if runs[i] != l.runs[i] {
				changed = true
				break
			}
		}
	}
	l.runs = runs
	return changed, stalled
}

func (l *Line) clip(from, to int) (int, int) {
	n := len(l.text)
	if to < 0 || to > n {
		to = n
	}
	if from < 0 {
		from = 0
	}
	if from > to {
		from = to
	}
	return from, to
}

// appendRun appends r to runs, merging it into the last run when their keys
// match. Empty runs are dropped.
func appendRun(runs []StyleRun, r StyleRun) []StyleRun {
	if r.Text == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].sameKey(r) {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}

// copyRuns appends the parts of src that overlap [from, to) to dst.
func copyRuns(dst, src []StyleRun, from, to int) []StyleRun {
	pos := 0
	for _, r := range src {
		end := pos + len(r.Text)
		if end > from && pos < to {
			lo := max(from, pos) - pos
			hi := min(to, end) - pos
			dst = appendRun(dst, StyleRun{Text: r.Text[lo:hi], Style: r.Style, Stale: r.Stale})
		}
		if end >= to {
			break
		}
		pos = end
	}
	return dst
}

func runsText(runs []StyleRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
