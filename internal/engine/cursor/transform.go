package cursor

import "github.com/dshills/textcore/internal/engine/buffer"

// TransformPos updates a position after a change.
//
// Transformation rules:
//   - Before the replaced range: unchanged
//   - Inside or at the edges of the replaced range: moved to the end of the
//     inserted text
//   - After the replaced range: shifted by the change
func TransformPos(p buffer.Pos, c buffer.Change) buffer.Pos {
	if p.Before(c.From) {
		return p
	}
	if !c.To.Before(p) {
		return c.End()
	}
	return shiftAfter(p, c)
}

func shiftAfter(p buffer.Pos, c buffer.Change) buffer.Pos {
	line := p.Line + c.Delta
	ch := p.Ch
	if p.Line == c.To.Line {
		end := c.End()
		ch = end.Ch + (p.Ch - c.To.Ch)
	}
	return buffer.Pos{Line: line, Ch: ch}
}
