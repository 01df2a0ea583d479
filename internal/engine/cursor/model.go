package cursor

import "github.com/dshills/textcore/internal/engine/buffer"

// Model holds the document selection.
//
// The selection is a range with From <= To and an inversion flag telling
// which end is the head. An optional shift anchor makes Set extend the
// selection to include the anchor instead of replacing it.
//
// Model is not synchronized; the engine serializes access.
type Model struct {
	sel      buffer.Range
	anchor   buffer.Pos
	shifting bool
	onChange func(buffer.Range)
}

// Option configures a Model.
type Option func(*Model)

// WithOnChange registers a callback run after every selection change.
func WithOnChange(fn func(buffer.Range)) Option {
	return func(m *Model) {
		m.onChange = fn
	}
}

// New creates a model with a caret at the start of the document.
func New(opts ...Option) *Model {
	m := &Model{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Selection returns the current selection.
func (m *Model) Selection() buffer.Range { return m.sel }

// Head returns the active end of the selection.
func (m *Model) Head() buffer.Pos { return m.sel.Head() }

// Anchor returns the fixed end of the selection.
func (m *Model) Anchor() buffer.Pos { return m.sel.Anchor() }

// SetShiftAnchor makes subsequent Set calls extend the selection to include p.
func (m *Model) SetShiftAnchor(p buffer.Pos) {
	m.anchor = p
	m.shifting = true
}

// ClearShiftAnchor stops extending the selection.
func (m *Model) ClearShiftAnchor() { m.shifting = false }

// ShiftAnchor returns the shift anchor, if one is active.
func (m *Model) ShiftAnchor() (buffer.Pos, bool) { return m.anchor, m.shifting }

// Set selects the text between from and to, in either order. It reports
// whether the selection changed.
//
// When a shift anchor is active the range is widened to include it.
// Inversion follows the end that moved: keeping To and moving From makes
// From the head, keeping From and moving To makes To the head. A collapsed
// selection is never inverted.
func (m *Model) Set(from, to buffer.Pos) bool {
	if to.Before(from) {
		from, to = to, from
	}
	if m.shifting {
		if m.anchor.Before(from) {
			from = m.anchor
		} else if to.Before(m.anchor) {
			to = m.anchor
		}
	}

	old := m.sel
	if from == old.From && to == old.To {
		return false
	}

	inverted := old.Inverted
	switch {
	case from == to:
		inverted = false
	case to == old.To:
		inverted = true
	case from == old.From:
		inverted = false
	case from == old.To:
		inverted = false
	case to == old.From:
		inverted = true
	}
	return m.SetRange(buffer.Range{From: from, To: to, Inverted: inverted})
}

// SetCaret collapses the selection to p.
func (m *Model) SetCaret(p buffer.Pos) bool {
	return m.Set(p, p)
}

// SetRange replaces the selection with r exactly. Unordered ranges are
// swapped and their inversion flipped. It reports whether the selection
// changed.
func (m *Model) SetRange(r buffer.Range) bool {
	if r.To.Before(r.From) {
		r.From, r.To = r.To, r.From
		r.Inverted = !r.Inverted
	}
	if r.IsEmpty() {
		r.Inverted = false
	}
	if r.Equal(m.sel) {
		return false
	}
	m.sel = r
	if m.onChange != nil {
		m.onChange(r)
	}
	return true
}

// Map moves both ends of the selection through fn, keeping the head.
func (m *Model) Map(fn func(buffer.Pos) buffer.Pos) bool {
	r := m.sel
	from, to := fn(r.From), fn(r.To)
	return m.SetRange(buffer.Range{From: from, To: to, Inverted: r.Inverted})
}

// Transform updates the selection after a document change.
func (m *Model) Transform(c buffer.Change) bool {
	return m.Map(func(p buffer.Pos) buffer.Pos { return TransformPos(p, c) })
}
