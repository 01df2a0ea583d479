package input

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// Target is the editor a Translator reads from and writes to.
type Target interface {
	LineCount() int
	LineText(n int) string
	Selection() buffer.Range
	// Replace applies an edit and returns the end of the inserted text. An
	// error means the edit was not applied.
	Replace(text string, from, to buffer.Pos) (buffer.Pos, error)
	SetSelection(from, to buffer.Pos)
	SetRange(r buffer.Range)
}

// Sample is what the input proxy currently holds. Start and End are byte
// offsets of its selection within Text. Shift reports whether the selection
// is being extended.
type Sample struct {
	Text       string
	Start, End int
	Shift      bool
}

// Snapshot is the window of document text handed to the proxy.
type Snapshot struct {
	Text       string
	Start, End int

	// FromLine and ToLine bound the window's lines [FromLine, ToLine).
	FromLine, ToLine int
}

// ResultKind tells what a Read did.
type ResultKind int

const (
	// Unchanged means the sample matched the snapshot.
	Unchanged ResultKind = iota
	// Moved means only the selection changed.
	Moved
	// Changed means text was replaced.
	Changed
	// Rejected means the target refused the edit and the snapshot was
	// prepared again from the document.
	Rejected
)

func (k ResultKind) String() string {
	switch k {
	case Moved:
		return "moved"
	case Changed:
		return "changed"
	case Rejected:
		return "rejected"
	default:
		return "unchanged"
	}
}

// Result describes the outcome of a Read.
type Result struct {
	Kind ResultKind

	// From and To bound the replaced text in pre-edit coordinates and Text
	// is what replaced it. Set only when Kind is Changed.
	From, To buffer.Pos
	Text     string

	Selection buffer.Range

	// Err is the target's error when Kind is Rejected.
	Err error
}

// Translator converts proxy samples into edits on a Target.
type Translator struct {
	target   Target
	strategy SelectionStrategy
	context  int
	sep      string

	editing  Snapshot
	prepared bool
}

// Option configures a Translator.
type Option func(*Translator)

// WithStrategy sets the selection strategy. The default is ExactSelection.
func WithStrategy(s SelectionStrategy) Option {
	return func(t *Translator) {
		if s != nil {
			t.strategy = s
		}
	}
}

// WithContext sets how many lines around the selection the window holds.
func WithContext(lines int) Option {
	return func(t *Translator) {
		if lines >= 0 {
			t.context = lines
		}
	}
}

// WithSeparator sets the line separator used in the window text.
func WithSeparator(sep string) Option {
	return func(t *Translator) {
		if sep == "\n" || sep == "\r\n" {
			t.sep = sep
		}
	}
}

// New creates a translator for target.
func New(target Target, opts ...Option) *Translator {
	t := &Translator{
		target:   target,
		strategy: ExactSelection{},
		context:  1,
		sep:      "\n",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Strategy returns the selection strategy.
func (t *Translator) Strategy() SelectionStrategy { return t.strategy }

// Prepare captures the lines around the selection for the proxy.
func (t *Translator) Prepare() Snapshot {
	sel := t.target.Selection()
	from := max(0, sel.From.Line-t.context)
	to := min(t.target.LineCount(), sel.To.Line+t.context+1)

	lines := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		lines = append(lines, t.target.LineText(i))
	}
	start := t.offset(lines, sel.From.Line-from, sel.From.Ch)
	end := t.offset(lines, sel.To.Line-from, sel.To.Ch)
	start, end = t.strategy.Publish(sel, start, end)

	t.editing = Snapshot{
		Text:     strings.Join(lines, t.sep),
		Start:    start,
		End:      end,
		FromLine: from,
		ToLine:   to,
	}
	t.prepared = true
	return t.editing
}

// Snapshot returns the last prepared or read window.
func (t *Translator) Snapshot() (Snapshot, bool) { return t.editing, t.prepared }

// Read applies the difference between s and the current snapshot.
func (t *Translator) Read(s Sample) Result {
	if !t.prepared {
		return Result{Selection: t.target.Selection()}
	}
	prev := t.editing
	s.Start = clamp(s.Start, len(s.Text))
	s.End = clamp(s.End, len(s.Text))
	if s.End < s.Start {
		s.Start, s.End = s.End, s.Start
	}

	changed := s.Text != prev.Text
	if !changed && s.Start == prev.Start && s.End == prev.End && !s.Shift {
		return Result{Selection: t.target.Selection()}
	}

	from := posAt(s.Text, s.Start, prev.FromLine)
	to := posAt(s.Text, s.End, prev.FromLine)
	res := Result{Kind: Moved}

	if changed {
		t.strategy.Reset()
		p, oldEnd, newEnd := diff(prev.Text, s.Text)
		res.Kind = Changed
		res.From = posAt(prev.Text, p, prev.FromLine)
		res.To = posAt(prev.Text, oldEnd, prev.FromLine)
		res.Text = s.Text[p:newEnd]
		if _, err := t.target.Replace(res.Text, res.From, res.To); err != nil {
			t.Prepare()
			return Result{Kind: Rejected, Selection: t.target.Selection(), Err: err}
		}
		t.target.SetSelection(from, to)
	} else {
		t.strategy.Apply(t.target, from, to, s)
	}
	res.Selection = t.target.Selection()

	t.editing = Snapshot{
		Text:     s.Text,
		Start:    s.Start,
		End:      s.End,
		FromLine: prev.FromLine,
		ToLine:   prev.FromLine + strings.Count(s.Text, "\n") + 1,
	}
	return res
}

// offset returns the byte offset of (line, ch) within lines joined by the
// separator.
func (t *Translator) offset(lines []string, line, ch int) int {
	n := 0
	for i := 0; i < line && i < len(lines); i++ {
		n += len(lines[i]) + len(t.sep)
	}
	return n + ch
}

// posAt maps a byte offset in text to a document position, counting lines
// from startLine. "\r\n" counts as one line break.
func posAt(text string, n, startLine int) buffer.Pos {
	line, lineStart := startLine, 0
	for {
		i := strings.IndexByte(text[lineStart:], '\n')
		if i < 0 {
			break
		}
		nl := lineStart + i
		if nl >= n {
			break
		}
		line++
		lineStart = nl + 1
	}
	lineEnd := len(text)
	if i := strings.IndexByte(text[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
		if lineEnd > lineStart && text[lineEnd-1] == '\r' {
			lineEnd--
		}
	}
	return buffer.Pos{Line: line, Ch: max(0, min(n, lineEnd)-lineStart)}
}

// diff returns the common prefix length p of a and b and the ends of the
// differing spans a[p:aEnd] and b[p:bEnd]. Boundaries fall on runes.
func diff(a, b string) (p, aEnd, bEnd int) {
	n := min(len(a), len(b))
	for p < n && a[p] == b[p] {
		p++
	}
	for p > 0 && p < len(a) && !utf8.RuneStart(a[p]) {
		p--
	}
	q := 0
	for q < n-p && a[len(a)-1-q] == b[len(b)-1-q] {
		q++
	}
	for q > 0 && !utf8.RuneStart(a[len(a)-q]) {
		q--
	}
	return p, len(a) - q, len(b) - q
}

func clamp(n, limit int) int {
	return max(0, min(n, limit))
}
