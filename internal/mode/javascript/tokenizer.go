package javascript

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dshills/textcore/internal/mode"
)

// tokenizer selects how the next token is read.
type tokenizer uint8

const (
	tokBase tokenizer = iota
	tokString
	tokComment
)

// token is what the tokenizer tells the parser about the text it consumed.
type token struct {
	typ     string
	content string
}

type keyword struct {
	typ   string
	style string
}

var keywords = map[string]keyword{
	"if": {"keyword a", "keyword"}, "while": {"keyword a", "keyword"}, "with": {"keyword a", "keyword"},
	"else": {"keyword b", "keyword"}, "do": {"keyword b", "keyword"}, "try": {"keyword b", "keyword"},
	"finally": {"keyword b", "keyword"},
	"return": {"keyword c", "keyword"}, "break": {"keyword c", "keyword"}, "continue": {"keyword c", "keyword"},
	"new": {"keyword c", "keyword"}, "delete": {"keyword c", "keyword"}, "throw": {"keyword c", "keyword"},
	"var": {"var", "keyword"}, "let": {"var", "keyword"}, "const": {"var", "keyword"},
	"function": {"function", "keyword"}, "catch": {"catch", "keyword"},
	"for": {"for", "keyword"}, "switch": {"switch", "keyword"},
	"case": {"case", "keyword"}, "default": {"default", "keyword"},
	"in": {"operator", "operator"}, "typeof": {"operator", "operator"}, "instanceof": {"operator", "operator"},
	"true": {"atom", "atom"}, "false": {"atom", "atom"}, "null": {"atom", "atom"},
	"undefined": {"atom", "atom"}, "NaN": {"atom", "atom"}, "Infinity": {"atom", "atom"},
}

const (
	operatorChars = "+-*&%=<>!?|^~"
	punctuation   = "[]{}(),;:."
)

var (
	reNumber = regexp.MustCompile(`^\d*(?:\.\d*)?(?:[eE][+\-]?\d+)?`)
	reHex    = regexp.MustCompile(`^[0-9a-fA-F]+`)
)

func isWordChar(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isOperatorChar(r rune) bool {
	return r != mode.EOF && strings.ContainsRune(operatorChars, r)
}

// readToken reads one token with the tokenizer selected in st.
func readToken(s *mode.Stream, st *State) (token, string) {
	switch st.tokenize {
	case tokString:
		return readString(s, st)
	case tokComment:
		return readComment(s, st)
	}

	ch := s.Next()
	switch {
	case ch == '"' || ch == '\'':
		st.tokenize = tokString
		st.quote = ch
		return readString(s, st)
	case strings.ContainsRune(punctuation, ch):
		return token{typ: string(ch)}, ""
	case ch == '0' && s.EatAny("xX"):
		s.MatchRegexp(reHex, true)
		return token{typ: "number"}, "number"
	case unicode.IsDigit(ch):
		s.MatchRegexp(reNumber, true)
		return token{typ: "number"}, "number"
	case ch == '/':
		switch {
		case s.Eat('*'):
			st.tokenize = tokComment
			return readComment(s, st)
		case s.Eat('/'):
			s.SkipToEnd()
			return token{typ: "comment"}, "comment"
		case st.reAllowed:
			nextUntilUnescaped(s, '/')
			s.EatWhile("gimsuy")
			return token{typ: "regexp"}, "string-2"
		}
		s.EatWhileFunc(isOperatorChar)
		return token{typ: "operator", content: s.Current()}, "operator"
	case isOperatorChar(ch):
		s.EatWhileFunc(isOperatorChar)
		return token{typ: "operator", content: s.Current()}, "operator"
	}

	s.EatWhileFunc(isWordChar)
	word := s.Current()
	if kw, ok := keywords[word]; ok {
		return token{typ: kw.typ, content: word}, kw.style
	}
	return token{typ: "variable", content: word}, "variable"
}

// nextUntilUnescaped consumes up to and including an unescaped end rune.
// It reports whether the line ended inside an escape.
func nextUntilUnescaped(s *mode.Stream, end rune) bool {
	escaped := false
	for {
		r := s.Next()
		if r == mode.EOF {
			return escaped
		}
		if r == end && !escaped {
			return false
		}
		escaped = !escaped && r == '\\'
	}
}

func readString(s *mode.Stream, st *State) (token, string) {
	if !nextUntilUnescaped(s, st.quote) {
		st.tokenize = tokBase
	}
	return token{typ: "string"}, "string"
}

func readComment(s *mode.Stream, st *State) (token, string) {
	maybeEnd := false
	for {
		r := s.Next()
		if r == mode.EOF {
			break
		}
		if r == '/' && maybeEnd {
			st.tokenize = tokBase
			break
		}
		maybeEnd = r == '*'
	}
	return token{typ: "comment"}, "comment"
}
