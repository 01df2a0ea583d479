package render

import (
	"strings"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// Theme maps mode styles and mark styles to terminal styles.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Text is the style of unstyled text.
	Text Style

	// Selection is the background of selected text.
	Selection Color

	// Stale is layered over text that has not been re-tokenized since it
	// was edited.
	Stale Style

	// Tokens maps style names such as "keyword" to styles. A name with a
	// suffix such as "variable-2" falls back to its base name.
	Tokens map[string]Style

	// Marks maps mark styles to styles. Unknown marks are underlined.
	Marks map[string]Style
}

// Token returns the style for a mode style name. Space-separated names
// are layered in order.
func (t *Theme) Token(name string) Style {
	var st Style
	for _, n := range strings.Fields(name) {
		if s, ok := t.Tokens[n]; ok {
			st = st.Over(s)
			continue
		}
		if i := strings.IndexByte(n, '-'); i > 0 {
			if s, ok := t.Tokens[n[:i]]; ok {
				st = st.Over(s)
			}
		}
	}
	return st
}

// Mark returns the style for a mark.
func (t *Theme) Mark(name string) Style {
	if s, ok := t.Marks[name]; ok {
		return s
	}
	return Style{Attributes: AttrUnderline}
}

// Span returns the complete style of a render span.
func (t *Theme) Span(s buffer.Span) Style {
	st := t.Text.Over(t.Token(s.Style))
	if s.Stale {
		st = st.Over(t.Stale)
	}
	for _, m := range s.Marks {
		st = st.Over(t.Mark(m))
	}
	if s.Selected {
		// A marked background shows through the selection.
		sel := t.Selection
		if !st.Background.IsDefault() {
			sel = sel.Blend(st.Background, 0.3)
		}
		st.Background = sel
	}
	return st
}

// DefaultTheme returns a dark theme.
func DefaultTheme() *Theme {
	comment := ColorFromRGB(106, 153, 85)
	keyword := ColorFromRGB(86, 156, 214)
	str := ColorFromRGB(206, 145, 120)
	number := ColorFromRGB(181, 206, 168)
	def := ColorFromRGB(220, 220, 170)
	typ := ColorFromRGB(78, 201, 176)
	variable := ColorFromRGB(156, 220, 254)
	invalid := ColorFromRGB(244, 71, 71)

	return &Theme{
		Name:      "Default Dark",
		Selection: ColorFromRGB(64, 64, 128),
		Stale:     Style{Attributes: AttrDim},
		Tokens: map[string]Style{
			"comment":  NewStyle(comment).Italic(),
			"keyword":  NewStyle(keyword),
			"atom":     NewStyle(ColorFromRGB(79, 193, 255)),
			"string":   NewStyle(str),
			"number":   NewStyle(number),
			"def":      NewStyle(def),
			"variable": NewStyle(variable),
			"property": NewStyle(typ),
			"tag":      NewStyle(keyword),
			"meta":     NewStyle(ColorFromRGB(197, 134, 192)),
			"header":   NewStyle(keyword).Bold(),
			"bracket":  NewStyle(ColorFromRGB(212, 212, 212)),
			"operator": NewStyle(ColorFromRGB(212, 212, 212)),
			"error":    NewStyle(invalid).Underline(),
		},
		Marks: map[string]Style{
			"search": {Background: ColorFromRGB(98, 51, 21)},
		},
	}
}
