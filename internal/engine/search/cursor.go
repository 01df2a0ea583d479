package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// ErrInvalidPattern is returned when a regular expression fails to compile.
var ErrInvalidPattern = errors.New("invalid search pattern")

// Source provides the lines a Cursor searches.
type Source interface {
	LineCount() int
	LineText(n int) string
}

// Replacer applies the edit requested by Cursor.Replace and returns the
// position after the inserted text.
type Replacer interface {
	Replace(text string, from, to buffer.Pos) buffer.Pos
}

// Option configures a Cursor.
type Option func(*Cursor)

// WithCaseFold overrides the default case sensitivity of a literal query.
func WithCaseFold(fold bool) Option {
	return func(c *Cursor) {
		c.fold = fold
	}
}

// Compile compiles a regular expression for NewRegexp, optionally case
// insensitive.
func Compile(pattern string, fold bool) (*regexp.Regexp, error) {
	if fold {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return re, nil
}

type matcher func(reverse bool, pos buffer.Pos) (from, to buffer.Pos, groups []string, ok bool)

// Cursor finds successive occurrences of a query.
type Cursor struct {
	src     Source
	fold    bool
	matches matcher

	from, to buffer.Pos
	groups   []string
	at       bool
}

// NewString creates a cursor for a literal query starting at pos. Unless
// overridden, matching ignores case when the query has no upper-case
// letters.
func NewString(src Source, query string, pos buffer.Pos, opts ...Option) *Cursor {
	c := newCursor(src, pos)
	c.fold = cases.Lower(language.Und).String(query) == query
	for _, opt := range opts {
		opt(c)
	}

	target := strings.Split(query, "\n")
	switch {
	case query == "":
		c.matches = func(bool, buffer.Pos) (buffer.Pos, buffer.Pos, []string, bool) {
			return buffer.Pos{}, buffer.Pos{}, nil, false
		}
	case len(target) == 1:
		c.matches = c.lineMatcher(query)
	default:
		c.matches = c.multiLineMatcher(target)
	}
	return c
}

// NewRegexp creates a cursor for a regular expression starting at pos.
func NewRegexp(src Source, re *regexp.Regexp, pos buffer.Pos) *Cursor {
	c := newCursor(src, pos)
	c.matches = c.regexpMatcher(re)
	return c
}

func newCursor(src Source, pos buffer.Pos) *Cursor {
	c := &Cursor{src: src}
	pos = c.clip(pos)
	c.from, c.to = pos, pos
	return c
}

// FindNext moves to the next occurrence and reports whether one was found.
func (c *Cursor) FindNext() bool { return c.find(false) }

// FindPrevious moves to the previous occurrence and reports whether one was
// found.
func (c *Cursor) FindPrevious() bool { return c.find(true) }

// AtOccurrence reports whether the cursor is on a match.
func (c *Cursor) AtOccurrence() bool { return c.at }

// From returns the start of the current occurrence.
func (c *Cursor) From() (buffer.Pos, bool) { return c.from, c.at }

// To returns the end of the current occurrence.
func (c *Cursor) To() (buffer.Pos, bool) { return c.to, c.at }

// Match returns the capture groups of the current regular expression match,
// the whole match first. It is nil for literal queries.
func (c *Cursor) Match() []string {
	if !c.at {
		return nil
	}
	return c.groups
}

// Fold reports whether literal matching ignores case.
func (c *Cursor) Fold() bool { return c.fold }

// Replace replaces the current occurrence with text through r. For regular
// expression matches, \0 to \9 in text expand to capture groups and \\ to a
// backslash. The cursor continues after the inserted text and is no longer
// at an occurrence.
func (c *Cursor) Replace(r Replacer, text string) bool {
	if !c.at {
		return false
	}
	if c.groups != nil {
		text = expand(text, c.groups)
	}
	end := r.Replace(text, c.from, c.to)
	c.from, c.to = end, end
	c.at = false
	c.groups = nil
	return true
}

func (c *Cursor) find(reverse bool) bool {
	pos := c.to
	if reverse {
		pos = c.from
	}
	pos = c.clip(pos)

	// An empty occurrence would be found again at the same place.
	if c.at && c.from == c.to {
		var ok bool
		if pos, ok = c.step(pos, reverse); !ok {
			return c.fail(reverse)
		}
	}

	for {
		if from, to, groups, ok := c.matches(reverse, pos); ok {
			c.from, c.to, c.groups, c.at = from, to, groups, true
			return true
		}
		if reverse {
			if pos.Line == 0 {
				return c.fail(reverse)
			}
			pos = buffer.Pos{Line: pos.Line - 1, Ch: len(c.src.LineText(pos.Line - 1))}
		} else {
			if pos.Line >= c.src.LineCount()-1 {
				return c.fail(reverse)
			}
			pos = buffer.Pos{Line: pos.Line + 1}
		}
	}
}

// fail parks the cursor at the document start, or one past the last line
// after a forward search.
func (c *Cursor) fail(reverse bool) bool {
	line := c.src.LineCount()
	if reverse {
		line = 0
	}
	pos := buffer.Pos{Line: line}
	c.from, c.to = pos, pos
	c.at = false
	c.groups = nil
	return false
}

// step moves pos one character in the search direction.
func (c *Cursor) step(pos buffer.Pos, reverse bool) (buffer.Pos, bool) {
	text := c.src.LineText(pos.Line)
	if reverse {
		if pos.Ch > 0 {
			_, size := utf8.DecodeLastRuneInString(text[:pos.Ch])
			return buffer.Pos{Line: pos.Line, Ch: pos.Ch - size}, true
		}
		if pos.Line == 0 {
			return pos, false
		}
		return buffer.Pos{Line: pos.Line - 1, Ch: len(c.src.LineText(pos.Line - 1))}, true
	}
	if pos.Ch < len(text) {
		_, size := utf8.DecodeRuneInString(text[pos.Ch:])
		return buffer.Pos{Line: pos.Line, Ch: pos.Ch + size}, true
	}
	if pos.Line >= c.src.LineCount()-1 {
		return pos, false
	}
	return buffer.Pos{Line: pos.Line + 1}, true
}

func (c *Cursor) clip(p buffer.Pos) buffer.Pos {
	n := c.src.LineCount()
	if p.Line < 0 || n == 0 {
		return buffer.Pos{}
	}
	if p.Line >= n {
		return buffer.Pos{Line: n - 1, Ch: len(c.src.LineText(n - 1))}
	}
	return buffer.Pos{Line: p.Line, Ch: max(0, min(p.Ch, len(c.src.LineText(p.Line))))}
}

// lineMatcher finds query within one line: forward at the first index at or
// after pos.Ch, reverse at the last index whose match ends at or before it.
func (c *Cursor) lineMatcher(query string) matcher {
	return func(reverse bool, pos buffer.Pos) (buffer.Pos, buffer.Pos, []string, bool) {
		line := c.src.LineText(pos.Line)
		if reverse {
			for i := pos.Ch; i >= 0; i-- {
				if !boundary(line, i) {
					continue
				}
				if end, ok := c.matchAt(line, i, query); ok && end <= pos.Ch {
					return buffer.Pos{Line: pos.Line, Ch: i}, buffer.Pos{Line: pos.Line, Ch: end}, nil, true
				}
			}
			return buffer.Pos{}, buffer.Pos{}, nil, false
		}
		for i := pos.Ch; i <= len(line); i++ {
			if !boundary(line, i) {
				continue
			}
			if end, ok := c.matchAt(line, i, query); ok {
				return buffer.Pos{Line: pos.Line, Ch: i}, buffer.Pos{Line: pos.Line, Ch: end}, nil, true
			}
		}
		return buffer.Pos{}, buffer.Pos{}, nil, false
	}
}

// multiLineMatcher matches a query split into lines. Searching forward the
// first fragment must end its line at or after pos.Ch; searching in reverse
// the last fragment must start its line and end at or before pos.Ch. Inner
// fragments must equal their lines.
func (c *Cursor) multiLineMatcher(target []string) matcher {
	last := len(target) - 1
	return func(reverse bool, pos buffer.Pos) (buffer.Pos, buffer.Pos, []string, bool) {
		first := pos.Line
		if reverse {
			first = pos.Line - last
		}
		if first < 0 || first+last >= c.src.LineCount() {
			return buffer.Pos{}, buffer.Pos{}, nil, false
		}

		minStart := 0
		if !reverse {
			minStart = pos.Ch
		}
		start, ok := c.suffixAt(c.src.LineText(first), target[0], minStart)
		if !ok {
			return buffer.Pos{}, buffer.Pos{}, nil, false
		}
		for i := 1; i < last; i++ {
			if !c.equal(c.src.LineText(first+i), target[i]) {
				return buffer.Pos{}, buffer.Pos{}, nil, false
			}
		}
		end, ok := c.matchAt(c.src.LineText(first+last), 0, target[last])
		if !ok || (reverse && end > pos.Ch) {
			return buffer.Pos{}, buffer.Pos{}, nil, false
		}
		return buffer.Pos{Line: first, Ch: start}, buffer.Pos{Line: first + last, Ch: end}, nil, true
	}
}

// regexpMatcher matches re within one line: forward the first match starting
// at or after pos.Ch, reverse the last match ending at or before it.
func (c *Cursor) regexpMatcher(re *regexp.Regexp) matcher {
	return func(reverse bool, pos buffer.Pos) (buffer.Pos, buffer.Pos, []string, bool) {
		line := c.src.LineText(pos.Line)
		var found []int
		for _, loc := range re.FindAllStringSubmatchIndex(line, -1) {
			if reverse {
				if loc[1] > pos.Ch {
					break
				}
				found = loc
			} else if loc[0] >= pos.Ch {
				found = loc
				break
			}
		}
		if found == nil {
			return buffer.Pos{}, buffer.Pos{}, nil, false
		}
		groups := make([]string, len(found)/2)
		for i := range groups {
			if found[2*i] >= 0 {
				groups[i] = line[found[2*i]:found[2*i+1]]
			}
		}
		return buffer.Pos{Line: pos.Line, Ch: found[0]}, buffer.Pos{Line: pos.Line, Ch: found[1]}, groups, true
	}
}

// matchAt reports whether q occurs in s at byte offset i and returns the
// offset just past it.
func (c *Cursor) matchAt(s string, i int, q string) (int, bool) {
	if !c.fold {
		if strings.HasPrefix(s[i:], q) {
			return i + len(q), true
		}
		return 0, false
	}
	j := i
	for _, qr := range q {
		if j >= len(s) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(s[j:])
		if !equalFold(r, qr) {
			return 0, false
		}
		j += size
	}
	return j, true
}

// suffixAt finds the offset at or after from where q ends s.
func (c *Cursor) suffixAt(s, q string, from int) (int, bool) {
	for i := from; i <= len(s); i++ {
		if !boundary(s, i) {
			continue
		}
		if end, ok := c.matchAt(s, i, q); ok && end == len(s) {
			return i, true
		}
	}
	return 0, false
}

func (c *Cursor) equal(s, q string) bool {
	end, ok := c.matchAt(s, 0, q)
	return ok && end == len(s)
}

func boundary(s string, i int) bool {
	return i == len(s) || utf8.RuneStart(s[i])
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

// expand substitutes \N with groups[N] and \\ with a backslash.
func expand(text string, groups []string) string {
	if !strings.Contains(text, `\`) {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '\\' || i+1 == len(text) {
			b.WriteByte(ch)
			continue
		}
		next := text[i+1]
		switch {
		case next == '\\':
			b.WriteByte('\\')
			i++
		case next >= '0' && next <= '9':
			if n := int(next - '0'); n < len(groups) {
				b.WriteString(groups[n])
			}
			i++
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
