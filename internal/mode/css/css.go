// Package css implements a highlighting mode for CSS style sheets.
//
// The mode keeps a flat state: whether the reader is inside a declaration
// block, inside a property value, inside an at-rule prelude or inside a media
// block. That is enough to tell selectors from property names and values and
// to indent by block depth.
package css

import (
	"strings"
	"unicode"

	"github.com/dshills/textcore/internal/mode"
)

// Name is the registered mode name.
const Name = "css"

// State is the CSS tokenizer state.
type State struct {
	inComment bool
	inBraces  bool
	inRule    bool
	inDecl    bool
	inMedia   bool
	media     bool
}

// Copy returns a copy of the state.
func (s *State) Copy() mode.State {
	c := *s
	return &c
}

// Equal reports whether other is the same state.
func (s *State) Equal(other mode.State) bool {
	o, ok := other.(*State)
	return ok && *s == *o
}

// Mode highlights and indents CSS.
type Mode struct {
	indentUnit int
	baseColumn int
}

// New is a mode.Factory. The "baseColumn" option offsets all indentation.
func New(cfg mode.Config) (mode.Mode, error) {
	cfg = cfg.WithDefaults()
	return &Mode{indentUnit: cfg.IndentUnit, baseColumn: cfg.Int("baseColumn", 0)}, nil
}

func (m *Mode) Name() string { return Name }

func (m *Mode) StartState() mode.State { return &State{} }

func isIdent(r rune) bool {
	return r == '-' || r == '_' || r == '\\' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isUnit(r rune) bool {
	return r == '.' || r == '%' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (m *Mode) Token(s *mode.Stream, st mode.State, _ bool) string {
	cs := st.(*State)
	if cs.inComment {
		return readComment(s, cs)
	}
	if s.EatSpace() {
		return ""
	}

	ch := s.Next()
	switch {
	case ch == '/' && s.Eat('*'):
		cs.inComment = true
		return readComment(s, cs)

	case ch == '"' || ch == '\'':
		readString(s, ch)
		return "string"

	case ch == '@':
		s.EatWhileFunc(isIdent)
		if strings.EqualFold(s.Current(), "@media") {
			cs.media = true
		}
		cs.inDecl = true
		return "meta"

	case ch == '!' && cs.inRule:
		s.EatSpace()
		s.EatWhileFunc(isIdent)
		return "keyword"

	case ch == '{':
		if cs.inDecl && cs.media {
			cs.inMedia = true
		} else {
			cs.inBraces = true
		}
		cs.inDecl, cs.media, cs.inRule = false, false, false
		return ""

	case ch == '}':
		switch {
		case cs.inBraces:
			cs.inBraces = false
		case cs.inMedia:
			cs.inMedia = false
		}
		cs.inRule, cs.inDecl = false, false
		return ""

	case ch == ';':
		cs.inRule, cs.inDecl, cs.media = false, false, false
		return ""

	case ch == ':':
		if cs.inBraces && !cs.inRule {
			cs.inRule = true
			return ""
		}
		s.EatWhileFunc(isIdent)
		if cs.inBraces || cs.inDecl {
			return ""
		}
		return "tag"

	case ch == '#':
		s.EatWhileFunc(isIdent)
		if cs.inRule {
			return "atom"
		}
		return "tag"

	case unicode.IsDigit(ch), ch == '.' && unicode.IsDigit(s.Peek()), ch == '-' && unicode.IsDigit(s.Peek()):
		s.EatWhileFunc(isUnit)
		return "number"

	case ch == '.' && !cs.inBraces:
		s.EatWhileFunc(isIdent)
		return "tag"

	case strings.ContainsRune(",>+~*=|/", ch):
		return "operator"

	case strings.ContainsRune("()[]", ch):
		return ""

	case isIdent(ch):
		s.EatWhileFunc(isIdent)
		switch {
		case cs.inRule:
			return "variable"
		case cs.inBraces:
			return "property"
		case cs.inDecl:
			return "variable"
		}
		return "tag"
	}
	return ""
}

func readComment(s *mode.Stream, cs *State) string {
	maybeEnd := false
	for {
		r := s.Next()
		if r == mode.EOF {
			break
		}
		if r == '/' && maybeEnd {
			cs.inComment = false
			break
		}
		maybeEnd = r == '*'
	}
	return "comment"
}

func readString(s *mode.Stream, quote rune) {
	escaped := false
	for {
		r := s.Next()
		if r == mode.EOF || (r == quote && !escaped) {
			return
		}
		escaped = !escaped && r == '\\'
	}
}

func (m *Mode) Indent(st mode.State, textAfter string) int {
	cs := st.(*State)
	if cs.inComment {
		return mode.Pass
	}
	n := 0
	if cs.inMedia {
		n++
	}
	if cs.inBraces {
		n++
		if cs.inRule {
			n++
		}
	}
	if strings.HasPrefix(textAfter, "}") {
		switch {
		case cs.inBraces:
			n = 0
			if cs.inMedia {
				n = 1
			}
		case cs.inMedia:
			n = 0
		}
	}
	return m.baseColumn + n*m.indentUnit
}
