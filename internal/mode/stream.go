package mode

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EOF is returned by Peek and Next at the end of the line.
const EOF rune = -1

// Stream reads one line of text on behalf of a Mode.
//
// Offsets are byte offsets into the line. Start marks the beginning of the
// token being read and Pos the current read position; Current returns the
// text between them.
type Stream struct {
	text    string
	pos     int
	start   int
	tabSize int
}

// NewStream creates a stream over text with the given tab width.
func NewStream(text string, tabSize int) *Stream {
	if tabSize <= 0 {
		tabSize = DefaultConfig().TabSize
	}
	return &Stream{text: text, tabSize: tabSize}
}

// String returns the full line text.
func (s *Stream) String() string { return s.text }

// Pos returns the read position.
func (s *Stream) Pos() int { return s.pos }

// Start returns the offset where the current token began.
func (s *Stream) Start() int { return s.start }

// Catchup moves the token start to the read position.
func (s *Stream) Catchup() { s.start = s.pos }

// SOL reports whether the read position is at the start of the line.
func (s *Stream) SOL() bool { return s.pos == 0 }

// EOL reports whether the read position is at the end of the line.
func (s *Stream) EOL() bool { return s.pos >= len(s.text) }

// Peek returns the next rune without consuming it.
func (s *Stream) Peek() rune {
	if s.pos >= len(s.text) {
		return EOF
	}
	r, _ := utf8.DecodeRuneInString(s.text[s.pos:])
	return r
}

// Next consumes and returns the next rune.
func (s *Stream) Next() rune {
	if s.pos >= len(s.text) {
		return EOF
	}
	r, size := utf8.DecodeRuneInString(s.text[s.pos:])
	s.pos += size
	return r
}

// Eat consumes the next rune if it equals r.
func (s *Stream) Eat(r rune) bool {
	if s.Peek() == r && r != EOF {
		s.Next()
		return true
	}
	return false
}

// EatAny consumes the next rune if it is one of chars.
func (s *Stream) EatAny(chars string) bool {
	r := s.Peek()
	if r != EOF && strings.ContainsRune(chars, r) {
		s.Next()
		return true
	}
	return false
}

// EatFunc consumes the next rune if fn accepts it.
func (s *Stream) EatFunc(fn func(rune) bool) bool {
	r := s.Peek()
	if r != EOF && fn(r) {
		s.Next()
		return true
	}
	return false
}

// EatWhile consumes runes while they are one of chars and reports whether
// anything was consumed.
func (s *Stream) EatWhile(chars string) bool {
	start := s.pos
	for s.EatAny(chars) {
	}
	return s.pos > start
}

// EatWhileFunc consumes runes while fn accepts them and reports whether
// anything was consumed.
func (s *Stream) EatWhileFunc(fn func(rune) bool) bool {
	start := s.pos
	for s.EatFunc(fn) {
	}
	return s.pos > start
}

// EatSpace consumes white space.
func (s *Stream) EatSpace() bool {
	return s.EatWhileFunc(unicode.IsSpace)
}

// SkipToEnd moves the read position to the end of the line.
func (s *Stream) SkipToEnd() { s.pos = len(s.text) }

// SkipTo moves the read position to the next occurrence of r, leaving it
// unconsumed. It reports false and does not move when r does not occur.
func (s *Stream) SkipTo(r rune) bool {
	i := strings.IndexRune(s.text[s.pos:], r)
	if i < 0 {
		return false
	}
	s.pos += i
	return true
}

// BackUp moves the read position back by n bytes, not before the token start.
func (s *Stream) BackUp(n int) {
	s.pos -= n
	if s.pos < s.start {
		s.pos = s.start
	}
}

// Advance moves the read position forward by n bytes, clamped to the line
// end and snapped to a rune boundary.
func (s *Stream) Advance(n int) {
	p := s.pos + n
	if p > len(s.text) {
		p = len(s.text)
	}
	for p < len(s.text) && !utf8.RuneStart(s.text[p]) {
		p++
	}
	if p > s.pos {
		s.pos = p
	}
}

// Match reports whether the text at the read position begins with str and
// consumes it when consume is set.
func (s *Stream) Match(str string, consume, caseFold bool) bool {
	rest := s.text[s.pos:]
	if len(rest) < len(str) {
		return false
	}
	head := rest[:len(str)]
	ok := head == str
	if !ok && caseFold {
		ok = strings.EqualFold(head, str)
	}
	if ok && consume {
		s.pos += len(str)
	}
	return ok
}

// MatchRegexp matches re at the read position. The match must begin exactly
// at the read position. It returns the submatches or nil.
func (s *Stream) MatchRegexp(re *regexp.Regexp, consume bool) []string {
	rest := s.text[s.pos:]
	loc := re.FindStringSubmatchIndex(rest)
	if loc == nil || loc[0] != 0 {
		return nil
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = rest[loc[2*i]:loc[2*i+1]]
		}
	}
	if consume {
		s.pos += loc[1]
	}
	return groups
}

// Current returns the text of the token being read.
func (s *Stream) Current() string { return s.text[s.start:s.pos] }

// Rest returns the unread part of the line.
func (s *Stream) Rest() string { return s.text[s.pos:] }

// Column returns the display column of the token start.
func (s *Stream) Column() int { return CountColumn(s.text, s.start, s.tabSize) }

// Indentation returns the display width of the line's leading white space.
func (s *Stream) Indentation() int { return Indentation(s.text, s.tabSize) }
