package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/dshills/textcore/internal/engine/buffer"
)

const reset = "\x1b[0m"

// LineNumberMode defines how line numbers are displayed.
type LineNumberMode uint8

const (
	// LineNumberNone hides the gutter.
	LineNumberNone LineNumberMode = iota

	// LineNumberAbsolute shows absolute line numbers (1, 2, 3, ...).
	LineNumberAbsolute

	// LineNumberRelative shows the distance from the current line.
	LineNumberRelative
)

// SpanSource provides render spans per line. *engine.Engine implements it.
type SpanSource interface {
	LineCount() int
	Spans(n int) []buffer.Span
}

// Writer writes styled lines to a terminal.
type Writer struct {
	w       io.Writer
	theme   *Theme
	color   bool
	numbers LineNumberMode
	width   int
	current int
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithTheme sets the theme. The default is DefaultTheme().
func WithTheme(t *Theme) WriterOption {
	return func(w *Writer) {
		if t != nil {
			w.theme = t
		}
	}
}

// WithColor enables escape sequences. Without it only text is written.
func WithColor(on bool) WriterOption {
	return func(w *Writer) {
		w.color = on
	}
}

// WithLineNumbers adds a gutter wide enough for lineCount lines.
func WithLineNumbers(mode LineNumberMode, lineCount int) WriterOption {
	return func(w *Writer) {
		w.numbers = mode
		w.width = len(strconv.Itoa(max(lineCount, 1)))
	}
}

// NewWriter creates a writer to out.
func NewWriter(out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{
		w:     out,
		theme: DefaultTheme(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetCurrentLine sets the line relative numbers are counted from.
func (w *Writer) SetCurrentLine(n int) { w.current = n }

// FormatLine returns line n rendered from its spans, without a newline.
func (w *Writer) FormatLine(n int, spans []buffer.Span) string {
	var b strings.Builder
	if w.numbers != LineNumberNone {
		w.gutter(&b, n)
	}
	for _, s := range spans {
		if !w.color {
			b.WriteString(s.Text)
			continue
		}
		esc := w.theme.Span(s).escape()
		if esc == "" {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(esc)
		b.WriteString(s.Text)
		b.WriteString(reset)
	}
	return b.String()
}

func (w *Writer) gutter(b *strings.Builder, n int) {
	num := n + 1
	if w.numbers == LineNumberRelative && n != w.current {
		num = n - w.current
		if num < 0 {
			num = -num
		}
	}
	s := strconv.Itoa(num)
	if pad := w.width - len(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	if w.color {
		s = Style{Attributes: AttrDim}.escape() + s + reset
	}
	b.WriteString(s)
	b.WriteString(" ")
}

// Line writes line n followed by a newline.
func (w *Writer) Line(n int, spans []buffer.Span) error {
	_, err := io.WriteString(w.w, w.FormatLine(n, spans)+"\n")
	return err
}

// Lines writes lines [from, to) of src, clipped to its line count.
func (w *Writer) Lines(src SpanSource, from, to int) error {
	to = min(to, src.LineCount())
	for n := max(from, 0); n < to; n++ {
		if err := w.Line(n, src.Spans(n)); err != nil {
			return err
		}
	}
	return nil
}
