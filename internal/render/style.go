package render

import "strings"

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint8

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // Faint text
	AttrItalic              // Italic text
	AttrUnderline           // Underlined text
	AttrReverse             // Swapped foreground and background
	AttrStrikethrough
)

var attrCodes = []struct {
	attr Attribute
	code string
}{
	{AttrBold, "1"},
	{AttrDim, "2"},
	{AttrItalic, "3"},
	{AttrUnderline, "4"},
	{AttrReverse, "7"},
	{AttrStrikethrough, "9"},
}

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style is the visual style of a piece of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// NewStyle creates a style with the given foreground colour.
func NewStyle(fg Color) Style {
	return Style{Foreground: fg}
}

// Bold returns a copy with the bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Italic returns a copy with the italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Underline returns a copy with the underline attribute added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Over layers o on top of s: colours set in o win and attributes combine.
func (s Style) Over(o Style) Style {
	if !o.Foreground.IsDefault() {
		s.Foreground = o.Foreground
	}
	if !o.Background.IsDefault() {
		s.Background = o.Background
	}
	s.Attributes |= o.Attributes
	return s
}

// escape returns the SGR sequence selecting s, or "" for the plain style.
func (s Style) escape() string {
	var params []string
	for _, ac := range attrCodes {
		if s.Attributes.Has(ac.attr) {
			params = append(params, ac.code)
		}
	}
	if !s.Foreground.IsDefault() {
		params = append(params, s.Foreground.sgr(38))
	}
	if !s.Background.IsDefault() {
		params = append(params, s.Background.sgr(48))
	}
	if len(params) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}
