package mode

import "github.com/rivo/uniseg"

// CountColumn returns the display column reached after text[:end], expanding
// tabs to tabSize stops. Wide characters count by their display width.
func CountColumn(text string, end, tabSize int) int {
	if end < 0 || end > len(text) {
		end = len(text)
	}
	if tabSize <= 0 {
		tabSize = DefaultConfig().TabSize
	}
	col := 0
	rest := text[:end]
	state := -1
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			col += tabSize - col%tabSize
			continue
		}
		col += width
	}
	return col
}

// Indentation returns the display width of the leading spaces and tabs of text.
func Indentation(text string, tabSize int) int {
	n := 0
	for n < len(text) && (text[n] == ' ' || text[n] == '\t') {
		n++
	}
	return CountColumn(text, n, tabSize)
}
