package buffer

import "sort"

// Span is a render segment of a line: a piece of one style run with uniform
// selection and mark coverage.
type Span struct {
	Text     string
	Style    string
	Stale    bool
	Selected bool
	Marks    []string
}

// Spans splits the line's style runs at selection and mark boundaries.
// selFrom < 0 means nothing on the line is selected; selTo == LineEnd means
// the selection continues past the end of the line.
func (l *Line) Spans(selFrom, selTo int) []Span {
	n := len(l.text)
	if selTo == LineEnd || selTo > n {
		selTo = n
	}
	hasSel := selFrom >= 0 && selFrom < selTo

	cuts := make([]int, 0, 2+2*len(l.marks))
	if hasSel {
		cuts = append(cuts, selFrom, selTo)
	}
	for _, m := range l.marks {
		cuts = append(cuts, m.From, m.end(n))
	}
	sort.Ints(cuts)

	var spans []Span
	pos := 0
	ci := 0
	for _, r := range l.runs {
		end := pos + len(r.Text)
		start := pos
		for ci < len(cuts) && cuts[ci] <= start {
			ci++
		}
		// Emit the run piecewise: each pass cuts at most one boundary off the
		// front, yielding the piece before it and leaving the rest.
		for start < end {
			stop := end
			if ci < len(cuts) && cuts[ci] < end {
				stop = cuts[ci]
				ci++
			}
			if stop > start {
				spans = append(spans, l.span(r, start, stop, hasSel, selFrom, selTo))
			}
			start = stop
		}
		pos = end
	}
	return spans
}

func (l *Line) span(r StyleRun, from, to int, hasSel bool, selFrom, selTo int) Span {
	sp := Span{
		Text:     l.text[from:to],
		Style:    r.Style,
		Stale:    r.Stale,
		Selected: hasSel && from >= selFrom && to <= selTo,
	}
	for i := len(l.marks) - 1; i >= 0; i-- {
		m := l.marks[i]
		if m.From <= from && m.end(len(l.text)) >= to {
			sp.Marks = append(sp.Marks, m.Style)
		}
	}
	return sp
}
