package render

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for unparsable colour strings.
var ErrInvalidColor = errors.New("invalid color")

// Color is a true colour or the terminal's default colour.
// The zero value is the default colour.
type Color struct {
	c   colorful.Color
	set bool
}

// ColorDefault is the terminal's default colour.
var ColorDefault = Color{}

// ColorFromRGB creates a colour from 8-bit components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{
		c:   colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255},
		set: true,
	}
}

// ColorFromHex parses "#RGB" or "#RRGGBB"; the leading '#' is optional.
func ColorFromHex(hex string) (Color, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return Color{c: c, set: true}, nil
}

// IsDefault reports whether c is the terminal default.
func (c Color) IsDefault() bool { return !c.set }

// RGB returns the 8-bit components.
func (c Color) RGB() (r, g, b uint8) { return c.c.RGB255() }

// Blend mixes c towards other in Lab space; amount 0 is c, 1 is other.
// Blending with the default colour returns the other colour unchanged.
func (c Color) Blend(other Color, amount float64) Color {
	switch {
	case !c.set:
		return other
	case !other.set:
		return c
	}
	return Color{c: c.c.BlendLab(other.c, amount).Clamped(), set: true}
}

func (c Color) String() string {
	if !c.set {
		return "default"
	}
	return c.c.Hex()
}

// sgr returns the SGR parameters selecting c; base is 38 for the
// foreground and 48 for the background.
func (c Color) sgr(base int) string {
	r, g, b := c.c.RGB255()
	return fmt.Sprintf("%d;2;%d;%d;%d", base, r, g, b)
}
