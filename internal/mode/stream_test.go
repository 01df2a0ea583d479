package mode

import (
	"regexp"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamNextPeek(t *testing.T) {
	s := NewStream("aé", 4)
	assert.True(t, s.SOL())
	assert.Equal(t, 'a', s.Peek())
	assert.Equal(t, 'a', s.Next())
	assert.Equal(t, 'é', s.Next())
	assert.True(t, s.EOL())
	assert.Equal(t, EOF, s.Peek())
	assert.Equal(t, EOF, s.Next())
	assert.Equal(t, "aé", s.Current())
}

func TestStreamEat(t *testing.T) {
	s := NewStream("  foo123 bar", 4)
	assert.True(t, s.EatSpace())
	s.Catchup()
	assert.False(t, s.Eat('x'))
	assert.True(t, s.Eat('f'))
	assert.True(t, s.EatWhileFunc(unicode.IsLetter))
	assert.Equal(t, "foo", s.Current())
	assert.True(t, s.EatWhile("0123456789"))
	assert.Equal(t, "foo123", s.Current())
	assert.False(t, s.EatWhile("0123456789"))
	assert.Equal(t, 2, s.Column())
}

func TestStreamSkip(t *testing.T) {
	s := NewStream("abc;def", 4)
	require.True(t, s.SkipTo(';'))
	assert.Equal(t, 3, s.Pos())
	assert.False(t, s.SkipTo('x'))
	assert.Equal(t, 3, s.Pos())
	s.SkipToEnd()
	assert.True(t, s.EOL())
	s.BackUp(2)
	assert.Equal(t, "abc;d", s.Current())
}

func TestStreamMatch(t *testing.T) {
	s := NewStream("Function(x)", 4)
	assert.False(t, s.Match("function", true, false))
	assert.True(t, s.Match("function", false, true))
	assert.Equal(t, 0, s.Pos())
	assert.True(t, s.Match("Function", true, false))
	assert.Equal(t, 8, s.Pos())

	re := regexp.MustCompile(`\((\w+)\)`)
	groups := s.MatchRegexp(re, true)
	require.NotNil(t, groups)
	assert.Equal(t, []string{"(x)", "x"}, groups)
	assert.True(t, s.EOL())
}

func TestStreamMatchRegexpAnchored(t *testing.T) {
	s := NewStream("ab12", 4)
	assert.Nil(t, s.MatchRegexp(regexp.MustCompile(`\d+`), true))
	assert.Equal(t, 0, s.Pos())
}

func TestStreamAdvance(t *testing.T) {
	s := NewStream("é!", 4)
	s.Advance(1)
	assert.Equal(t, 2, s.Pos(), "advance snaps to rune boundary")
	s.Advance(10)
	assert.True(t, s.EOL())
}

func TestCountColumn(t *testing.T) {
	tests := []struct {
		name string
		text string
		end  int
		tab  int
		want int
	}{
		{"plain", "abc", 3, 4, 3},
		{"tab", "\tx", 2, 4, 5},
		{"tab after text", "ab\tx", 3, 4, 4},
		{"tab size 8", "\t", 1, 8, 8},
		{"wide", "日本", 6, 4, 4},
		{"partial", "abcdef", 2, 4, 2},
		{"out of range", "ab", 10, 4, 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountColumn(tt.text, tt.end, tt.tab))
		})
	}
}

func TestIndentation(t *testing.T) {
	assert.Equal(t, 0, Indentation("x", 4))
	assert.Equal(t, 6, Indentation("\t  x", 4))
	assert.Equal(t, 3, NewStream("   y", 4).Indentation())
}
