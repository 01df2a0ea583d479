package main

import (
	"strings"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// lineDiff is a single replacement turning one text into another.
type lineDiff struct {
	Text     string
	From, To buffer.Pos
}

// diffLines finds the smallest run of whole lines that differs between
// before and after, trimming the common leading and trailing lines. It
// reports false when the texts are equal.
func diffLines(before, after string) (lineDiff, bool) {
	if before == after {
		return lineDiff{}, false
	}
	a := strings.Split(before, "\n")
	b := strings.Split(after, "\n")

	p := 0
	for p < len(a) && p < len(b) && a[p] == b[p] {
		p++
	}
	s := 0
	for s < len(a)-p && s < len(b)-p && a[len(a)-1-s] == b[len(b)-1-s] {
		s++
	}

	mid := b[p : len(b)-s]
	if s > 0 {
		text := strings.Join(mid, "\n")
		if len(mid) > 0 {
			text += "\n"
		}
		return lineDiff{
			Text: text,
			From: buffer.Pos{Line: p},
			To:   buffer.Pos{Line: len(a) - s},
		}, true
	}

	last := len(a) - 1
	end := buffer.Pos{Line: last, Ch: len(a[last])}
	switch {
	case p == len(a):
		return lineDiff{Text: "\n" + strings.Join(mid, "\n"), From: end, To: end}, true
	case p == len(b):
		from := buffer.Pos{Line: p - 1, Ch: len(a[p-1])}
		return lineDiff{From: from, To: end}, true
	}
	return lineDiff{Text: strings.Join(mid, "\n"), From: buffer.Pos{Line: p}, To: end}, true
}
