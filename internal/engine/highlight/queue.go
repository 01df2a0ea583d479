package highlight

import (
	"slices"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// WorkQueue is a LIFO set of line indices awaiting highlighting.
type WorkQueue struct {
	items []int
}

// Push puts n on top of the queue, moving it there if already queued.
func (q *WorkQueue) Push(n int) {
	if i := slices.Index(q.items, n); i >= 0 {
		q.items = slices.Delete(q.items, i, i+1)
	}
	q.items = append(q.items, n)
}

// Pop removes and returns the top of the queue.
func (q *WorkQueue) Pop() (int, bool) {
	n := len(q.items)
	if n == 0 {
		return 0, false
	}
	top := q.items[n-1]
	q.items = q.items[:n-1]
	return top, true
}

// Len returns the number of queued lines.
func (q *WorkQueue) Len() int { return len(q.items) }

// Contains reports whether n is queued.
func (q *WorkQueue) Contains(n int) bool { return slices.Contains(q.items, n) }

// Items returns the queued lines, bottom first.
func (q *WorkQueue) Items() []int { return slices.Clone(q.items) }

// Clear empties the queue.
func (q *WorkQueue) Clear() { q.items = q.items[:0] }

// Shift renumbers queued lines after a change. Lines before the change keep
// their index, lines inside the replaced range are dropped and lines after it
// move by the change's delta.
func (q *WorkQueue) Shift(c buffer.Change) {
	kept := q.items[:0]
	for _, n := range q.items {
		switch {
		case n < c.FromLine:
			kept = append(kept, n)
		case n < c.ToLine:
		default:
			kept = append(kept, n+c.Delta)
		}
	}
	q.items = kept
}
