// Package cursor provides selection management for text editing.
//
// Selection Model:
//
// A selection is a buffer.Range: From <= To plus an Inverted flag recording
// which end is the head (where the caret is drawn and where extension
// happens). Model keeps the current selection and applies the rules for
// updating it:
//
//   - Set orders its arguments, so callers may pass ends in any order
//   - an active shift anchor widens the new range to include the anchor
//   - the head follows the end that moved; collapsed selections are never
//     inverted
//   - setting an unchanged selection is a no-op and does not notify
//
// Transformation:
//
// TransformPos moves a position through a buffer.Change so that a selection
// stays attached to the same text after an edit elsewhere. Model.Transform
// applies it to both ends of the selection.
//
// Basic usage:
//
//	m := cursor.New(cursor.WithOnChange(func(r buffer.Range) { fmt.Println(r) }))
//	m.SetCaret(buffer.Pos{Line: 0, Ch: 4})
//	m.SetShiftAnchor(m.Head())
//	m.Set(buffer.Pos{Line: 2, Ch: 0}, buffer.Pos{Line: 2, Ch: 0}) // extends from (0:4)
package cursor
