package buffer

// Change describes one structural edit of a Document.
//
// From and To are the replaced range in pre-edit coordinates. Text holds the
// inserted lines and Old the removed ones; both have at least one element.
// FromLine and ToLine bound the affected pre-edit lines [FromLine, ToLine)
// and Delta is the change in line count.
type Change struct {
	From     Pos
	To       Pos
	Text     []string
	Old      []string
	FromLine int
	ToLine   int
	Delta    int
}

// End returns the position just after the inserted text.
func (c Change) End() Pos {
	last := c.Text[len(c.Text)-1]
	if len(c.Text) == 1 {
		return Pos{Line: c.From.Line, Ch: c.From.Ch + len(last)}
	}
	return Pos{Line: c.From.Line + len(c.Text) - 1, Ch: len(last)}
}

// LastLine returns the index of the last line touched, in post-edit
// coordinates.
func (c Change) LastLine() int {
	return c.From.Line + len(c.Text) - 1
}

// IsNoop reports whether the change left the text unchanged.
func (c Change) IsNoop() bool {
	if len(c.Text) != len(c.Old) {
		return false
	}
	for i := range c.Text {
		if c.Text[i] != c.Old[i] {
			return false
		}
	}
	return true
}
