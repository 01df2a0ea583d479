package input

import "github.com/dshills/textcore/internal/engine/buffer"

// SelectionStrategy decides how the selection is shown to the proxy and how
// a proxy selection maps back onto the document.
type SelectionStrategy interface {
	// Publish returns the proxy selection offsets for sel, given the offsets
	// of its ends within the window.
	Publish(sel buffer.Range, start, end int) (int, int)

	// Apply sets the target selection from a proxy selection that moved
	// without a text change.
	Apply(t Target, from, to buffer.Pos, s Sample)

	// Reset drops any state after the text changed.
	Reset()
}

// ExactSelection mirrors both ends of the selection in the proxy.
type ExactSelection struct{}

func (ExactSelection) Publish(_ buffer.Range, start, end int) (int, int) { return start, end }

func (ExactSelection) Apply(t Target, from, to buffer.Pos, _ Sample) { t.SetSelection(from, to) }

func (ExactSelection) Reset() {}

// ReducedSelection shows only the selection head to the proxy, for proxies
// that cannot hold a range. The other end is kept as an anchor and the
// range is rebuilt from the proxy caret while shift is held.
type ReducedSelection struct {
	anchor buffer.Pos
	active bool
}

// NewReducedSelection returns a ReducedSelection strategy.
func NewReducedSelection() *ReducedSelection { return &ReducedSelection{} }

// Anchor returns the fixed end of the reduced selection.
func (r *ReducedSelection) Anchor() (buffer.Pos, bool) { return r.anchor, r.active }

func (r *ReducedSelection) Publish(sel buffer.Range, start, end int) (int, int) {
	if sel.IsEmpty() {
		r.active = false
		return start, end
	}
	r.anchor, r.active = sel.Anchor(), true
	if sel.Inverted {
		return start, start
	}
	return end, end
}

func (r *ReducedSelection) Apply(t Target, from, to buffer.Pos, s Sample) {
	head := to
	if from != to {
		// The proxy made a range of its own; take it as is.
		r.active = false
		t.SetSelection(from, to)
		return
	}
	if !s.Shift {
		r.active = false
		t.SetSelection(head, head)
		return
	}
	if !r.active {
		r.anchor, r.active = t.Selection().Anchor(), true
	}
	t.SetRange(buffer.NewRange(r.anchor, head))
}

func (r *ReducedSelection) Reset() { r.active = false }
