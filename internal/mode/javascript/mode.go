package javascript

import (
	"regexp"
	"slices"
	"strings"

	"github.com/dshills/textcore/internal/mode"
)

// Name is the registered mode name.
const Name = "javascript"

type alignState uint8

const (
	alignUnset alignState = iota
	alignTrue
	alignFalse
)

// lexical is one open construct on the indentation stack.
type lexical struct {
	indented int
	column   int
	typ      string
	align    alignState
	info     string
}

// varList is an immutable list of bound names.
type varList struct {
	name string
	next *varList
}

func (v *varList) contains(name string) bool {
	for ; v != nil; v = v.next {
		if v.name == name {
			return true
		}
	}
	return false
}

func (v *varList) equal(o *varList) bool {
	for v != nil && o != nil {
		if v == o {
			return true
		}
		if v.name != o.name {
			return false
		}
		v, o = v.next, o.next
	}
	return v == o
}

// scope is an immutable function scope: the variables bound outside it.
type scope struct {
	prev *scope
	vars *varList
}

func (s *scope) equal(o *scope) bool {
	for s != nil && o != nil {
		if s == o {
			return true
		}
		if !s.vars.equal(o.vars) {
			return false
		}
		s, o = s.prev, o.prev
	}
	return s == o
}

var defaultVars = &varList{name: "this", next: &varList{name: "arguments"}}

// State is the tokenizer and parser state between tokens.
type State struct {
	tokenize  tokenizer
	quote     rune
	reAllowed bool
	indented  int
	cc        []rule
	lexical   []lexical
	vars      *varList
	context   *scope
}

// Copy returns an independent copy of the state. Variable lists and scopes
// are immutable and shared.
func (s *State) Copy() mode.State {
	c := *s
	c.cc = slices.Clone(s.cc)
	c.lexical = slices.Clone(s.lexical)
	return &c
}

// Equal reports whether other is an equivalent state.
func (s *State) Equal(other mode.State) bool {
	o, ok := other.(*State)
	if !ok {
		return false
	}
	return s.tokenize == o.tokenize &&
		s.quote == o.quote &&
		s.reAllowed == o.reAllowed &&
		s.indented == o.indented &&
		slices.Equal(s.cc, o.cc) &&
		slices.Equal(s.lexical, o.lexical) &&
		s.vars.equal(o.vars) &&
		s.context.equal(o.context)
}

func (s *State) top() *lexical {
	return &s.lexical[len(s.lexical)-1]
}

func (s *State) inScope(name string) bool {
	return s.vars.contains(name)
}

// Mode highlights and indents JavaScript.
type Mode struct {
	indentUnit int
	baseColumn int
	json       bool
}

// New is a mode.Factory. Recognized options: "json" (bool) and
// "baseColumn" (int).
func New(cfg mode.Config) (mode.Mode, error) {
	cfg = cfg.WithDefaults()
	m := &Mode{
		indentUnit: cfg.IndentUnit,
		baseColumn: cfg.Int("baseColumn", 0),
	}
	if v, ok := cfg.Options["json"].(bool); ok {
		m.json = v
	}
	return m, nil
}

// NewJSON is a mode.Factory for JSON documents.
func NewJSON(cfg mode.Config) (mode.Mode, error) {
	opts := make(map[string]any, len(cfg.Options)+1)
	for k, v := range cfg.Options {
		opts[k] = v
	}
	opts["json"] = true
	cfg.Options = opts
	return New(cfg)
}

func (m *Mode) Name() string {
	if m.json {
		return "json"
	}
	return Name
}

func (m *Mode) StartState() mode.State {
	return &State{
		tokenize:  tokBase,
		reAllowed: true,
		lexical: []lexical{{
			indented: m.baseColumn - m.indentUnit,
			typ:      "block",
			align:    alignFalse,
		}},
	}
}

func (m *Mode) Token(s *mode.Stream, st mode.State, atLineStart bool) string {
	js := st.(*State)
	if atLineStart {
		if top := js.top(); top.align == alignUnset {
			top.align = alignFalse
		}
		js.indented = s.Indentation()
	}
	if s.EatSpace() {
		return ""
	}
	tok, style := readToken(s, js)
	if tok.typ == "comment" {
		return style
	}
	js.reAllowed = tok.typ == "operator" || tok.typ == "keyword c" ||
		(len(tok.typ) == 1 && strings.Contains("[{}(,;:", tok.typ))
	return parse(js, s, tok, style, m.json)
}

var reCaseLabel = regexp.MustCompile(`^(?:case|default)\b`)

func (m *Mode) Indent(st mode.State, textAfter string) int {
	js := st.(*State)
	if js.tokenize != tokBase {
		return mode.Pass
	}
	var first string
	if textAfter != "" {
		first = textAfter[:1]
	}
	lex := js.lexical[len(js.lexical)-1]
	closing := first != "" && first == lex.typ

	switch {
	case lex.typ == "vardef":
		return lex.indented + 4
	case lex.typ == "form" && first == "{":
		return lex.indented
	case lex.typ == "stat" || lex.typ == "form":
		return lex.indented + m.indentUnit
	case lex.info == "switch" && !closing:
		if reCaseLabel.MatchString(textAfter) {
			return lex.indented + m.indentUnit
		}
		return lex.indented + 2*m.indentUnit
	case lex.align == alignTrue:
		if closing {
			return lex.column
		}
		return lex.column + 1
	case closing:
		return lex.indented
	}
	return lex.indented + m.indentUnit
}
