package cursor

import (
	"testing"

	"github.com/dshills/textcore/internal/engine/buffer"
)

func pos(line, ch int) buffer.Pos { return buffer.Pos{Line: line, Ch: ch} }

func TestSetOrdersAndInverts(t *testing.T) {
	tests := []struct {
		name         string
		start        buffer.Range
		from, to     buffer.Pos
		want         buffer.Range
		wantInverted bool
	}{
		{"extend right from caret", buffer.Caret(pos(0, 5)), pos(0, 5), pos(0, 9), buffer.Range{From: pos(0, 5), To: pos(0, 9)}, false},
		{"extend left from caret", buffer.Caret(pos(0, 5)), pos(0, 2), pos(0, 5), buffer.Range{From: pos(0, 2), To: pos(0, 5)}, true},
		{"swapped arguments", buffer.Caret(pos(0, 5)), pos(0, 5), pos(0, 2), buffer.Range{From: pos(0, 2), To: pos(0, 5)}, true},
		{"collapse clears inversion", buffer.Range{From: pos(0, 2), To: pos(0, 5), Inverted: true}, pos(1, 0), pos(1, 0), buffer.Caret(pos(1, 0)), false},
		{"cross over anchor", buffer.Range{From: pos(0, 2), To: pos(0, 5), Inverted: true}, pos(0, 5), pos(0, 8), buffer.Range{From: pos(0, 5), To: pos(0, 8)}, false},
		{"both ends moved keeps flag", buffer.Range{From: pos(0, 2), To: pos(0, 5), Inverted: true}, pos(3, 0), pos(4, 0), buffer.Range{From: pos(3, 0), To: pos(4, 0)}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.SetRange(tt.start)
			if !m.Set(tt.from, tt.to) {
				t.Fatal("Set reported no change")
			}
			got := m.Selection()
			if got.From != tt.want.From || got.To != tt.want.To {
				t.Errorf("selection = %v, want %v", got, tt.want)
			}
			if got.Inverted != tt.wantInverted {
				t.Errorf("inverted = %v, want %v", got.Inverted, tt.wantInverted)
			}
		})
	}
}

func TestSetUnchangedIsNoop(t *testing.T) {
	calls := 0
	m := New(WithOnChange(func(buffer.Range) { calls++ }))
	m.Set(pos(0, 1), pos(0, 3))
	if m.Set(pos(0, 3), pos(0, 1)) {
		t.Error("unchanged selection reported change")
	}
	if calls != 1 {
		t.Errorf("onChange calls = %d, want 1", calls)
	}
}

func TestShiftAnchor(t *testing.T) {
	m := New()
	m.SetCaret(pos(1, 4))
	m.SetShiftAnchor(pos(1, 4))

	m.SetCaret(pos(3, 0))
	if got := m.Selection(); got.From != pos(1, 4) || got.To != pos(3, 0) || got.Inverted {
		t.Errorf("forward extend = %v", got)
	}
	if m.Head() != pos(3, 0) || m.Anchor() != pos(1, 4) {
		t.Errorf("head/anchor = %v/%v", m.Head(), m.Anchor())
	}

	m.SetCaret(pos(0, 2))
	if got := m.Selection(); got.From != pos(0, 2) || got.To != pos(1, 4) || !got.Inverted {
		t.Errorf("backward extend = %v", got)
	}

	m.ClearShiftAnchor()
	if _, ok := m.ShiftAnchor(); ok {
		t.Error("anchor still active")
	}
	m.SetCaret(pos(5, 5))
	if got := m.Selection(); !got.IsEmpty() {
		t.Errorf("caret after clearing anchor = %v", got)
	}
}

func TestSetRangeKeepsHead(t *testing.T) {
	m := New()
	m.SetRange(buffer.Range{From: pos(2, 0), To: pos(1, 0)})
	got := m.Selection()
	if got.From != pos(1, 0) || !got.Inverted {
		t.Errorf("selection = %v", got)
	}
}

func TestTransformPos(t *testing.T) {
	// "abc\ndef" with "b" (0:1-0:2) replaced by "X\nYY".
	c := buffer.Change{
		From: pos(0, 1), To: pos(0, 2),
		Text: []string{"X", "YY"}, Old: []string{"b"},
		FromLine: 0, ToLine: 1, Delta: 1,
	}
	tests := []struct {
		in, want buffer.Pos
	}{
		{pos(0, 0), pos(0, 0)},
		{pos(0, 1), pos(1, 2)},
		{pos(0, 2), pos(1, 2)},
		{pos(0, 3), pos(1, 3)},
		{pos(1, 2), pos(2, 2)},
	}
	for _, tt := range tests {
		if got := TransformPos(tt.in, c); got != tt.want {
			t.Errorf("TransformPos(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModelTransform(t *testing.T) {
	insert := buffer.Change{
		From: pos(0, 3), To: pos(0, 3),
		Text: []string{"xx"}, Old: []string{""},
		FromLine: 0, ToLine: 1,
	}

	m := New()
	m.SetRange(buffer.Range{From: pos(0, 3), To: pos(0, 6)})
	if !m.Transform(insert) {
		t.Fatal("Transform() = false, want true")
	}
	got := m.Selection()
	if got.From != pos(0, 5) || got.To != pos(0, 8) || got.Inverted {
		t.Errorf("range = %v", got)
	}

	m.SetCaret(pos(0, 3))
	m.Transform(insert)
	if got := m.Selection(); !got.IsEmpty() || got.From != pos(0, 5) {
		t.Errorf("caret = %v", got)
	}

	m.SetCaret(pos(0, 1))
	if m.Transform(insert) {
		t.Error("Transform() before the caret reported a change")
	}
}
