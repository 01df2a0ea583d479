// Package input turns snapshots from a flat-text input proxy into minimal
// document edits.
//
// The host publishes a window of lines around the selection to the proxy
// (Prepare) and later reads back what the proxy holds (Read). The difference
// between the two texts becomes a single replacement covering only the
// changed span; a selection-only difference becomes a selection move.
// When the target refuses an edit the window is prepared again, so the next
// Read diffs against the document rather than the refused text.
//
// How the document selection is shown to the proxy, and reconstructed from
// it, is a SelectionStrategy: ExactSelection passes both ends through while
// ReducedSelection shows a single caret and rebuilds the range from an
// anchor and the shift state.
package input
