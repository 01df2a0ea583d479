// Package mode defines the pluggable tokenizer contract used to highlight and
// indent lines of a document.
//
// A Mode turns the text of one line into a sequence of styled tokens. It is
// driven through a Stream, a cursor over the line's text, and carries its
// parsing context from line to line in a State value:
//
//	st := m.StartState()
//	for _, text := range lines {
//	    s := mode.NewStream(text, 4)
//	    for !s.EOL() {
//	        style := m.Token(s, st, s.SOL())
//	        fmt.Println(s.Current(), style)
//	        s.Catchup()
//	    }
//	}
//
// # State
//
// Highlighting forks state per line, so every State must be copyable without
// aliasing: Copy returns a value that shares nothing mutable with the
// original. States that can cheaply decide equality implement Comparer; the
// highlight scheduler uses it to stop re-tokenizing once a line's end state
// is unchanged. Other states are compared structurally.
//
// # Contract
//
// Token must advance the stream by at least one character on every call.
// Callers guard against violations, but a mode that relies on the guard
// produces one-character tokens and is considered broken.
//
// Indent returns the column a line starting with textAfter should be indented
// to, or Pass when the mode has no opinion (for example inside a comment).
//
// # Registry
//
// Modes are created by name through a Registry. Looking up an unknown name
// yields ErrModeNotFound, which editor construction reports as a
// configuration error.
package mode
