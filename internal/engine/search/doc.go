// Package search walks a document for occurrences of a literal string or a
// regular expression.
//
// A Cursor remembers the last occurrence it found. FindNext and FindPrevious
// continue from there, moving line by line until a match or a document
// boundary. On failure the cursor parks at the boundary so a search in the
// opposite direction covers the whole document.
//
// Literal queries may span lines: each interior line must equal its
// fragment and the outer fragments must touch the matched lines' edges.
// Regular expressions are matched within a single line.
package search
