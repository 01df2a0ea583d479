// Package buffer provides the line-oriented document model of the editor
// engine: lines with style runs and marks, and the structural edits that keep
// them consistent.
//
// The buffer package provides:
//
//   - Pos and Range coordinates (line, byte column) with a total order
//   - Line, holding text, StyleRuns, Marks and a cached tokenizer state
//   - Document, a non-empty sequence of lines supporting range replace
//   - Change records describing each edit for downstream consumers
//
// Basic usage:
//
//	doc := buffer.NewDocument("abc\ndef")
//	ch := doc.Replace(buffer.Pos{Line: 0, Ch: 1}, buffer.Pos{Line: 0, Ch: 2}, []string{"XY"})
//	// doc.Value() == "aXYc\ndef"
//	// ch.FromLine == 0, ch.ToLine == 1, ch.Delta == 0
//
// Style runs:
//
// Every line's text is covered by style runs whose concatenation equals the
// text. Edited text is inserted as a single stale run; runs outside the edit
// keep their styles. Line.Highlight replaces the runs with fresh tokens from a
// mode. Adjacent runs with the same style and staleness are always merged.
//
// Marks:
//
// Marks are styled intervals kept sorted by start offset, descending. Edits
// shift marks that lie after the edit, and marks that become empty are
// deleted rather than left dangling.
//
// Thread Safety:
//
// Document and Line are not synchronized. The engine serializes all access.
package buffer
