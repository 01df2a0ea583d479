// Package history provides undo/redo functionality for the editor engine.
//
// History is line based. Every change is recorded as a Record: the range of
// lines it produced (Start, Added) and the lines it replaced (Old). Undoing a
// record captures the current lines in its range, puts Old back, and pushes
// the captured lines onto the redo stack as the inverse record. Redo is the
// same operation with the stacks swapped.
//
// # Coalescing
//
// Typing produces many tiny edits. A change that arrives within the coalesce
// window (400ms by default) of the previous one, and whose line span touches
// or overlaps the previous record, is merged into that record:
//
//	log := history.New()
//	log.AddChange(0, 1, []string{""}, nil, nil)    // type "a"
//	log.AddChange(0, 1, []string{"a"}, nil, nil)   // type "b" 50ms later
//	done, _ := log.Size()                          // done == 1
//
// The merged record restores the text from before the first edit.
//
// # Caret Placement
//
// After undo or redo the caret goes to the last restored line, just past the
// text that differs from what was removed. When the record carries the
// selection from before the change, that selection is returned as well.
//
// # Depth
//
// The undo stack is bounded; the oldest records are dropped first.
package history
