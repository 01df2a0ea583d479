package render

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/event"
	"github.com/dshills/textcore/internal/event/events"
	"github.com/dshills/textcore/internal/event/topic"
)

// DefaultMaxRegions is the number of separate dirty regions beyond which a
// Tracker asks for a full redraw.
const DefaultMaxRegions = 32

// Region is a half-open range of lines [Start, End).
type Region struct {
	Start, End int
}

// IsEmpty reports whether the region holds no lines.
func (r Region) IsEmpty() bool { return r.End <= r.Start }

// Contains reports whether line lies in the region.
func (r Region) Contains(line int) bool { return line >= r.Start && line < r.End }

// Merge combines two overlapping or adjacent regions.
func (r Region) Merge(o Region) (Region, bool) {
	if o.Start > r.End || r.Start > o.End {
		return r, false
	}
	return Region{Start: min(r.Start, o.Start), End: max(r.End, o.End)}, true
}

// Dirty is what a Tracker collected since the last Take.
type Dirty struct {
	// Regions are sorted and disjoint, in current line numbers.
	Regions []Region

	// Full asks for a redraw of everything.
	Full bool

	// MovedFrom is the first line that moved because lines were inserted
	// or removed above it, or -1. Renderers that draw by screen position
	// redraw from there on.
	MovedFrom int
}

// Tracker collects the lines of one document that need redrawing. It is
// fed by engine events through Attach, or by calling its methods directly.
type Tracker struct {
	mu sync.Mutex

	docID      string
	regions    []Region
	full       bool
	movedFrom  int
	maxRegions int
	selection  buffer.Range
	subs       []*event.Subscription
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMaxRegions sets how many regions are kept before a full redraw.
func WithMaxRegions(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.maxRegions = n
		}
	}
}

// NewTracker creates a tracker for the document with the given ID.
func NewTracker(docID string, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		docID:      docID,
		movedFrom:  -1,
		maxRegions: DefaultMaxRegions,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Attach subscribes to the document's events on bus.
func (t *Tracker) Attach(bus *event.Bus) error {
	handlers := []struct {
		topic topic.Topic
		h     event.Handler
	}{
		{events.TopicLinesChanged, event.Typed(func(_ context.Context, ev event.Event[events.LinesChanged]) error {
			if ev.Payload.DocumentID == t.docID {
				t.LinesChanged(ev.Payload)
			}
			return nil
		})},
		{events.TopicHighlightUpdated, event.Typed(func(_ context.Context, ev event.Event[events.HighlightUpdated]) error {
			if ev.Payload.DocumentID == t.docID {
				t.MarkLines(ev.Payload.FromLine, ev.Payload.ToLine)
			}
			return nil
		})},
		{events.TopicSelectionChanged, event.Typed(func(_ context.Context, ev event.Event[events.SelectionChanged]) error {
			if ev.Payload.DocumentID == t.docID {
				t.SelectionChanged(ev.Payload.Selection)
			}
			return nil
		})},
		{events.TopicModeChanged, event.Typed(func(_ context.Context, ev event.Event[events.ModeChanged]) error {
			if ev.Payload.DocumentID == t.docID {
				t.MarkFull()
			}
			return nil
		})},
	}

	for _, h := range handlers {
		sub, err := bus.Subscribe(h.topic, h.h)
		if err != nil {
			t.Detach(bus)
			return fmt.Errorf("subscribing to %s: %w", h.topic, err)
		}
		t.mu.Lock()
		t.subs = append(t.subs, sub)
		t.mu.Unlock()
	}
	return nil
}

// Detach removes the subscriptions made by Attach.
func (t *Tracker) Detach(bus *event.Bus) {
	t.mu.Lock()
	subs := t.subs
	t.subs = nil
	t.mu.Unlock()

	for _, sub := range subs {
		_ = bus.Unsubscribe(sub)
	}
}

// LinesChanged records a document change. Regions after the change are
// shifted; regions overlapping it are absorbed.
func (t *Tracker) LinesChanged(c events.LinesChanged) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.full {
		return
	}

	post := Region{Start: c.FromLine, End: c.ToLine + c.Delta}
	kept := t.regions[:0]
	for _, r := range t.regions {
		switch {
		case r.End <= c.FromLine:
			kept = append(kept, r)
		case r.Start >= c.ToLine:
			kept = append(kept, Region{Start: r.Start + c.Delta, End: r.End + c.Delta})
		default:
			end := post.End
			if r.End > c.ToLine {
				end = max(end, r.End+c.Delta)
			}
			post = Region{Start: min(post.Start, r.Start), End: end}
		}
	}
	t.regions = kept

	if c.Delta != 0 {
		moved := c.ToLine + c.Delta
		if m := t.movedFrom; m >= 0 {
			if m >= c.ToLine {
				m += c.Delta
			}
			moved = min(moved, max(m, c.FromLine))
		}
		t.movedFrom = moved
	}
	t.add(post)
}

// SelectionChanged marks the lines of the old and new selection.
func (t *Tracker) SelectionChanged(r buffer.Range) {
	t.mu.Lock()
	defer t.mu.Unlock()

	old := t.selection
	t.selection = r
	t.add(Region{Start: old.From.Line, End: old.To.Line + 1})
	t.add(Region{Start: r.From.Line, End: r.To.Line + 1})
}

// MarkLines marks lines [from, to) dirty.
func (t *Tracker) MarkLines(from, to int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.add(Region{Start: from, End: to})
}

// MarkFull asks for a full redraw.
func (t *Tracker) MarkFull() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.full = true
	t.regions = nil
}

// IsDirty reports whether line needs redrawing.
func (t *Tracker) IsDirty(line int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.full || (t.movedFrom >= 0 && line >= t.movedFrom) {
		return true
	}
	for _, r := range t.regions {
		if r.Contains(line) {
			return true
		}
	}
	return false
}

// Take returns the collected state and resets the tracker.
func (t *Tracker) Take() Dirty {
	t.mu.Lock()
	defer t.mu.Unlock()

	d := Dirty{Regions: t.regions, Full: t.full, MovedFrom: t.movedFrom}
	t.regions = nil
	t.full = false
	t.movedFrom = -1
	return d
}

// add inserts r keeping regions sorted and merged.
func (t *Tracker) add(r Region) {
	r.Start = max(r.Start, 0)
	if r.IsEmpty() || t.full {
		return
	}

	out := make([]Region, 0, len(t.regions)+1)
	i := 0
	for ; i < len(t.regions) && t.regions[i].End < r.Start; i++ {
		out = append(out, t.regions[i])
	}
	for ; i < len(t.regions); i++ {
		m, ok := r.Merge(t.regions[i])
		if !ok {
			break
		}
		r = m
	}
	out = append(out, r)
	t.regions = append(out, t.regions[i:]...)

	if len(t.regions) > t.maxRegions {
		t.full = true
		t.regions = nil
	}
}
