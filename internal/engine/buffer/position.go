package buffer

import "fmt"

// Pos is a line and column position in a Document.
// Both fields are 0-indexed. Ch is a byte offset into the line's text.
type Pos struct {
	Line int
	Ch   int
}

// String returns a human-readable representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Ch)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Pos) Compare(other Pos) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Ch < other.Ch {
		return -1
	}
	if p.Ch > other.Ch {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Pos) Before(other Pos) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Pos) After(other Pos) bool {
	return p.Compare(other) > 0
}

// MinPos returns the earlier of two positions.
func MinPos(a, b Pos) Pos {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxPos returns the later of two positions.
func MaxPos(a, b Pos) Pos {
	if b.After(a) {
		return b
	}
	return a
}
