package buffer

import "sort"

// LineEnd as a Mark.To value means the mark extends to the end of the line.
const LineEnd = -1

// Mark is a styled interval on one line, independent of tokenizer styles.
type Mark struct {
	From  int
	To    int
	Style string
}

// end resolves LineEnd against a line length.
func (m Mark) end(lineLen int) int {
	if m.To == LineEnd {
		return lineLen
	}
	return m.To
}

// Marks returns a copy of the line's marks, sorted by From descending.
func (l *Line) Marks() []Mark {
	return append([]Mark(nil), l.marks...)
}

// AddMark adds a mark over [from, to). A negative to means the end of the
// line. Empty marks are ignored.
func (l *Line) AddMark(from, to int, style string) {
	if to != LineEnd && from >= to {
		return
	}
	if from < 0 {
		from = 0
	}
	l.marks = append(l.marks, Mark{From: from, To: to, Style: style})
	sortMarks(l.marks)
}

// RemoveMark removes [from, to) from every mark with the given style, or from
// every mark when style is empty. A negative to means the end of the line.
// Marks inside the range are deleted, marks covering it are split in two,
// and marks overlapping one edge are truncated.
func (l *Line) RemoveMark(from, to int, style string) {
	if to == LineEnd {
		to = len(l.text)
	}
	var added []Mark
	for i := range l.marks {
		m := &l.marks[i]
		if style != "" && m.Style != style {
			continue
		}
		mEnd := m.end(len(l.text))
		if mEnd <= from || m.From >= to {
			continue
		}
		switch {
		case m.From >= from && mEnd <= to:
			m.To = m.From
		case m.From < from && mEnd > to:
			added = append(added, Mark{From: to, To: m.To, Style: m.Style})
			m.To = from
		case m.From < from:
			m.To = from
		default:
			m.From = to
		}
	}
	l.marks = append(l.marks, added...)
	l.dropEmptyMarks()
	sortMarks(l.marks)
}

// fixMarks adjusts marks after text[from:to] was replaced by n bytes.
func (l *Line) fixMarks(from, to, n int) {
	if len(l.marks) == 0 {
		return
	}
	diff := n - (to - from)
	threshold := min(to, to+diff)
	fix := func(off int) int {
		if off < threshold {
			return off
		}
		return max(off+diff, from)
	}

	kept := l.marks[:0]
	for _, m := range l.marks {
		if m.From >= len(l.text) {
			continue
		}
		m.From = fix(m.From)
		if m.To != LineEnd {
			m.To = fix(m.To)
			if m.From >= m.To {
				continue
			}
		}
		kept = append(kept, m)
	}
	l.marks = kept
	sortMarks(l.marks)
}

func (l *Line) dropEmptyMarks() {
	kept := l.marks[:0]
	for _, m := range l.marks {
		if m.To == LineEnd || m.From < m.To {
			kept = append(kept, m)
		}
	}
	l.marks = kept
}

func sortMarks(marks []Mark) {
	sort.SliceStable(marks, func(i, j int) bool {
		return marks[i].From > marks[j].From
	})
}
