// Package highlight keeps style runs current as a document is edited.
//
// A Scheduler holds a LIFO queue of lines whose runs or cached tokenizer
// state may be out of date. Each Tick pops a line, finds the nearest cached
// state within the lookback window and re-tokenizes forward until the state
// after a line matches what was cached before, or the time budget runs out.
// Work left over is resumed through a host-supplied defer function.
//
// StateBefore answers "what is the tokenizer state before line n" for
// indentation without unbounded work; HighlightRange forces a range to be
// current, typically the visible lines.
package highlight
