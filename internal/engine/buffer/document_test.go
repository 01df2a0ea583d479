package buffer

import (
	"strings"
	"testing"
)

func lineTexts(d *Document) []string {
	return d.Texts(0, d.LineCount())
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"a", []string{"a"}},
		{"a\nb", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b", ""}},
		{"a\rb", []string{"a", "b"}},
		{"\n\n", []string{"", "", ""}},
	}
	for _, tt := range tests {
		if got := SplitLines(tt.in); !equalStrings(got, tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"one line",
		"a\nb\nc",
		"windows\r\nline\r\nendings",
		"trailing\n",
		"mixed\r\nand\nplain\r\n",
		"unicode é日本\n\ttab",
	}
	for _, in := range inputs {
		d := NewDocument("seed")
		d.SetValue(in)
		want := strings.ReplaceAll(in, "\r\n", "\n")
		if got := d.Value(); got != want {
			t.Errorf("round trip %q = %q, want %q", in, got, want)
		}
		for i := 0; i < d.LineCount(); i++ {
			checkRuns(t, d.Line(i))
		}
	}
}

func TestReplaceWithinLine(t *testing.T) {
	d := NewDocument("abc\ndef")
	d.Line(0).runs = []StyleRun{{Text: "abc", Style: "x"}}

	ch := d.Replace(Pos{0, 1}, Pos{0, 2}, []string{"XY"})
	if got := lineTexts(d); !equalStrings(got, []string{"aXYc", "def"}) {
		t.Fatalf("lines = %q", got)
	}
	runs := d.Line(0).Runs()
	want := []StyleRun{{Text: "a", Style: "x"}, {Text: "XY", Stale: true}, {Text: "c", Style: "x"}}
	if len(runs) != len(want) {
		t.Fatalf("runs = %+v", runs)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Errorf("run %d = %+v, want %+v", i, runs[i], want[i])
		}
	}
	if ch.FromLine != 0 || ch.ToLine != 1 || ch.Delta != 0 {
		t.Errorf("change = %+v", ch)
	}
	if !equalStrings(ch.Old, []string{"b"}) {
		t.Errorf("old = %q", ch.Old)
	}
	if ch.End() != (Pos{0, 3}) {
		t.Errorf("end = %v", ch.End())
	}
}

func TestReplaceShapes(t *testing.T) {
	tests := []struct {
		name      string
		from, to  Pos
		lines     []string
		want      []string
		wantDelta int
	}{
		{"split one line", Pos{1, 1}, Pos{1, 2}, []string{"X", "Y", "Z"}, []string{"one", "tX", "Y", "Zo", "three"}, 2},
		{"join lines", Pos{0, 1}, Pos{2, 2}, []string{"-"}, []string{"o-ree"}, -2},
		{"many to many", Pos{0, 2}, Pos{2, 1}, []string{"A", "B"}, []string{"onA", "Bhree"}, -1},
		{"delete newline", Pos{0, 3}, Pos{1, 0}, nil, []string{"onetwo", "three"}, -1},
		{"insert newline", Pos{2, 0}, Pos{2, 0}, []string{"", ""}, []string{"one", "two", "", "three"}, 1},
		{"reversed positions", Pos{1, 2}, Pos{1, 1}, []string{""}, []string{"one", "to", "three"}, 0},
		{"clamped", Pos{-3, 0}, Pos{99, 99}, []string{"all"}, []string{"all"}, -2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			d := NewDocument("one\ntwo\nthree")
			ch := d.Replace(tt.from, tt.to, tt.lines)
			if got := lineTexts(d); !equalStrings(got, tt.want) {
				t.Fatalf("lines = %q, want %q", got, tt.want)
			}
			if ch.Delta != tt.wantDelta {
				t.Errorf("delta = %d, want %d", ch.Delta, tt.wantDelta)
			}
			for i := 0; i < d.LineCount(); i++ {
				checkRuns(t, d.Line(i))
			}
		})
	}
}

func TestReplaceCarriesMarks(t *testing.T) {
	d := NewDocument("hello world")
	d.Line(0).AddMark(6, 11, "m")

	d.Replace(Pos{0, 5}, Pos{0, 5}, []string{",", "  "})
	if got := lineTexts(d); !equalStrings(got, []string{"hello,", "   world"}) {
		t.Fatalf("lines = %q", got)
	}
	if marks := d.Line(0).Marks(); len(marks) != 0 {
		t.Errorf("first line marks = %+v", marks)
	}
	marks := d.Line(1).Marks()
	if len(marks) != 1 || marks[0] != (Mark{From: 3, To: 8, Style: "m"}) {
		t.Errorf("second line marks = %+v", marks)
	}

	d = NewDocument("abcdefghij")
	d.Line(0).AddMark(7, 9, "m")
	d.Replace(Pos{0, 2}, Pos{0, 2}, []string{"XXXXXXXX", ""})
	if got := lineTexts(d); !equalStrings(got, []string{"abXXXXXXXX", "cdefghij"}) {
		t.Fatalf("lines = %q", got)
	}
	if marks := d.Line(0).Marks(); len(marks) != 0 {
		t.Errorf("split first line marks = %+v", marks)
	}
	marks = d.Line(1).Marks()
	if len(marks) != 1 || marks[0] != (Mark{From: 5, To: 7, Style: "m"}) {
		t.Errorf("split second line marks = %+v", marks)
	}
	for i := 0; i < d.LineCount(); i++ {
		checkRuns(t, d.Line(i))
	}
}

func TestClipPos(t *testing.T) {
	d := NewDocument("ab\ncde")
	tests := []struct {
		in, want Pos
	}{
		{Pos{-1, 5}, Pos{0, 0}},
		{Pos{0, 9}, Pos{0, 2}},
		{Pos{1, -1}, Pos{1, 0}},
		{Pos{5, 0}, Pos{1, 3}},
		{Pos{1, 2}, Pos{1, 2}},
	}
	for _, tt := range tests {
		if got := d.ClipPos(tt.in); got != tt.want {
			t.Errorf("ClipPos(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if d.ClipLine(7) != 1 || d.ClipLine(-2) != 0 {
		t.Error("ClipLine out of range")
	}
	if d.Line(5) != nil || d.LineText(-1) != "" {
		t.Error("out of range line access")
	}
}

func TestDocumentRange(t *testing.T) {
	d := NewDocument("one\ntwo\nthree")
	got := d.Range(Pos{0, 1}, Pos{2, 2})
	if !equalStrings(got, []string{"ne", "two", "th"}) {
		t.Errorf("Range = %q", got)
	}
	if got := d.Range(Pos{1, 2}, Pos{1, 0}); !equalStrings(got, []string{"tw"}) {
		t.Errorf("reversed Range = %q", got)
	}
}

func TestPosCompare(t *testing.T) {
	a, b := Pos{1, 5}, Pos{2, 0}
	if !a.Before(b) || !b.After(a) || a.Compare(a) != 0 {
		t.Error("ordering broken")
	}
	if MinPos(b, a) != a || MaxPos(a, b) != b {
		t.Error("MinPos/MaxPos")
	}
	r := NewRange(b, a)
	if !r.Inverted || r.From != a || r.Head() != a || r.Anchor() != b {
		t.Errorf("NewRange = %+v", r)
	}
	if !Caret(a).IsEmpty() {
		t.Error("caret not empty")
	}
}
