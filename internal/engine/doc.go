// Package engine is the editing core of one document.
//
// An Engine ties together the sub-packages:
//
//   - buffer: lines with style runs, marks and cached tokenizer states
//   - cursor: the selection and shift anchor
//   - history: line-based undo and redo with edit coalescing
//   - highlight: the incremental, time-budgeted highlighter
//   - search: literal and regular expression search cursors
//   - input: translation of hidden input proxy contents into edits
//
// # Thread Safety
//
// All Engine methods are safe for concurrent use. A single mutex serializes
// them; tokenizing happens on the calling goroutine inside Tick,
// HighlightRange, StateBefore and IndentLine.
//
// # Highlighting
//
// Edits queue the first touched line. Without a deferral the host calls
// Tick until it returns false:
//
//	e, _ := engine.New(engine.WithContent(src), engine.WithMode("javascript"))
//	for e.Tick() {
//	}
//
// With WithDeferral the engine resumes unfinished work by itself through
// the supplied function, for example one built on time.AfterFunc.
//
// # Events
//
// With WithBus every mutation publishes one events.LinesChanged, and
// highlighting, selection and mode changes publish their own events.
// Events are published after the engine lock is released.
package engine
