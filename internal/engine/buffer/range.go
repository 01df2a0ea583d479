package buffer

import "fmt"

// Range is an ordered pair of positions with From <= To.
// Inverted records that the active end (the head) is From rather than To.
type Range struct {
	From     Pos
	To       Pos
	Inverted bool
}

// NewRange creates a range from two positions in any order.
// The range is inverted when a comes after b, so that b stays the head.
func NewRange(a, b Pos) Range {
	if b.Before(a) {
		return Range{From: b, To: a, Inverted: true}
	}
	return Range{From: a, To: b}
}

// Caret returns a collapsed range at p.
func Caret(p Pos) Range {
	return Range{From: p, To: p}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	if r.Inverted {
		return fmt.Sprintf("[%s<-%s)", r.From, r.To)
	}
	return fmt.Sprintf("[%s->%s)", r.From, r.To)
}

// IsEmpty returns true if the range is collapsed.
func (r Range) IsEmpty() bool {
	return r.From == r.To
}

// Head returns the active end of the range.
func (r Range) Head() Pos {
	if r.Inverted {
		return r.From
	}
	return r.To
}

// Anchor returns the fixed end of the range.
func (r Range) Anchor() Pos {
	if r.Inverted {
		return r.To
	}
	return r.From
}

// Contains returns true if p lies in [From, To).
func (r Range) Contains(p Pos) bool {
	return !p.Before(r.From) && p.Before(r.To)
}

// Equal reports whether both ranges cover the same positions with the same head.
func (r Range) Equal(other Range) bool {
	return r.From == other.From && r.To == other.To && r.Inverted == other.Inverted
}
