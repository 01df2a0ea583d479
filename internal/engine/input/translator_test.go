package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/cursor"
)

type docTarget struct {
	doc      *buffer.Document
	sel      *cursor.Model
	replaced int
	refuse   error
}

func newTarget(text string) *docTarget {
	return &docTarget{doc: buffer.NewDocument(text), sel: cursor.New()}
}

func (d *docTarget) LineCount() int          { return d.doc.LineCount() }
func (d *docTarget) LineText(n int) string   { return d.doc.LineText(n) }
func (d *docTarget) Selection() buffer.Range { return d.sel.Selection() }
func (d *docTarget) SetRange(r buffer.Range) { d.sel.SetRange(r) }

func (d *docTarget) SetSelection(from, to buffer.Pos) { d.sel.Set(from, to) }

func (d *docTarget) Replace(text string, from, to buffer.Pos) (buffer.Pos, error) {
	if d.refuse != nil {
		return to, d.refuse
	}
	d.replaced++
	c := d.doc.Replace(from, to, buffer.SplitLines(text))
	d.sel.Transform(c)
	return c.End(), nil
}

func pos(line, ch int) buffer.Pos { return buffer.Pos{Line: line, Ch: ch} }

func TestPrepareWindow(t *testing.T) {
	target := newTarget("l0\nl1\nl2\nl3\nl4")
	target.sel.SetCaret(pos(2, 1))

	snap := New(target).Prepare()
	assert.Equal(t, "l1\nl2\nl3", snap.Text)
	assert.Equal(t, 4, snap.Start)
	assert.Equal(t, 4, snap.End)
	assert.Equal(t, 1, snap.FromLine)
	assert.Equal(t, 4, snap.ToLine)
}

func TestPrepareWindowAtDocumentEdges(t *testing.T) {
	target := newTarget("a\nb")
	target.sel.Set(pos(0, 0), pos(1, 1))

	snap := New(target, WithContext(3)).Prepare()
	assert.Equal(t, "a\nb", snap.Text)
	assert.Equal(t, 0, snap.Start)
	assert.Equal(t, 3, snap.End)
	assert.Equal(t, 0, snap.FromLine)
	assert.Equal(t, 2, snap.ToLine)
}

func TestReadTyping(t *testing.T) {
	target := newTarget("l0\nl1\nl2\nl3\nl4")
	target.sel.SetCaret(pos(2, 1))
	target.doc.Line(3).AddMark(0, 2, "hl")

	tr := New(target)
	tr.Prepare()
	res := tr.Read(Sample{Text: "l1\nlX2\nl3", Start: 5, End: 5})

	require.Equal(t, Changed, res.Kind)
	assert.Equal(t, pos(2, 1), res.From)
	assert.Equal(t, pos(2, 1), res.To)
	assert.Equal(t, "X", res.Text)
	assert.Equal(t, "l0\nl1\nlX2\nl3\nl4", target.doc.Value())
	assert.Equal(t, buffer.Caret(pos(2, 2)), res.Selection)
	assert.Equal(t, 1, target.replaced)
	assert.Equal(t, []buffer.Mark{{From: 0, To: 2, Style: "hl"}}, target.doc.Line(3).Marks(),
		"marks outside the edit are untouched")

	snap, ok := tr.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "l1\nlX2\nl3", snap.Text)
}

func TestReadJoinLines(t *testing.T) {
	target := newTarget("l0\nl1\nl2\nl3\nl4")
	target.sel.SetCaret(pos(3, 0))

	tr := New(target)
	tr.Prepare()
	res := tr.Read(Sample{Text: "l2l3\nl4", Start: 2, End: 2})

	require.Equal(t, Changed, res.Kind)
	assert.Equal(t, pos(2, 2), res.From)
	assert.Equal(t, pos(3, 0), res.To)
	assert.Equal(t, "", res.Text)
	assert.Equal(t, "l0\nl1\nl2l3\nl4", target.doc.Value())
	assert.Equal(t, buffer.Caret(pos(2, 2)), res.Selection)

	snap, _ := tr.Snapshot()
	assert.Equal(t, 2, snap.FromLine)
	assert.Equal(t, 4, snap.ToLine)
}

func TestReadPasteLines(t *testing.T) {
	target := newTarget("abc")
	target.sel.SetCaret(pos(0, 1))

	tr := New(target)
	tr.Prepare()
	res := tr.Read(Sample{Text: "ax\ny\nzbc", Start: 6, End: 6})

	require.Equal(t, Changed, res.Kind)
	assert.Equal(t, "ax\ny\nzbc", target.doc.Value())
	assert.Equal(t, buffer.Caret(pos(2, 1)), res.Selection)
}

func TestReadSelectionMove(t *testing.T) {
	target := newTarget("abc\ndef")
	tr := New(target)
	tr.Prepare()

	res := tr.Read(Sample{Text: "abc\ndef", Start: 1, End: 5})
	assert.Equal(t, Moved, res.Kind)
	assert.Equal(t, buffer.NewRange(pos(0, 1), pos(1, 1)), res.Selection)
	assert.Equal(t, 0, target.replaced)
}

func TestReadUnchanged(t *testing.T) {
	target := newTarget("abc")
	tr := New(target)

	assert.Equal(t, Unchanged, tr.Read(Sample{Text: "zzz"}).Kind, "read before prepare")

	snap := tr.Prepare()
	res := tr.Read(Sample{Text: snap.Text, Start: snap.Start, End: snap.End})
	assert.Equal(t, Unchanged, res.Kind)
	assert.Equal(t, "abc", target.doc.Value())
}

func TestReadRejectedEdit(t *testing.T) {
	target := newTarget("abc")
	target.sel.SetCaret(pos(0, 3))
	target.refuse = errors.New("read-only")
	tr := New(target)

	snap := tr.Prepare()
	res := tr.Read(Sample{Text: snap.Text + "d", Start: 4, End: 4})
	assert.Equal(t, Rejected, res.Kind)
	assert.ErrorIs(t, res.Err, target.refuse)
	assert.Equal(t, "abc", target.doc.Value())

	got, ok := tr.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "abc", got.Text, "snapshot follows the document")

	target.refuse = nil
	res = tr.Read(Sample{Text: "abce", Start: 4, End: 4})
	assert.Equal(t, Changed, res.Kind)
	assert.Equal(t, "e", res.Text)
	assert.Equal(t, "abce", target.doc.Value())
}

func TestReadCRLFSeparator(t *testing.T) {
	target := newTarget("l0\nl1\nl2\nl3")
	target.sel.SetCaret(pos(2, 1))

	tr := New(target, WithSeparator("\r\n"))
	snap := tr.Prepare()
	require.Equal(t, "l1\r\nl2\r\nl3", snap.Text)
	require.Equal(t, 5, snap.Start)

	res := tr.Read(Sample{Text: "l1\r\nlX2\r\nl3", Start: 6, End: 6})
	require.Equal(t, Changed, res.Kind)
	assert.Equal(t, pos(2, 1), res.From)
	assert.Equal(t, "l0\nl1\nlX2\nl3", target.doc.Value())
	assert.Equal(t, buffer.Caret(pos(2, 2)), res.Selection)
}

func TestReducedSelection(t *testing.T) {
	target := newTarget("abc\ndef")
	target.sel.Set(pos(0, 1), pos(1, 2))

	rs := NewReducedSelection()
	tr := New(target, WithStrategy(rs))
	snap := tr.Prepare()
	assert.Equal(t, 6, snap.Start, "proxy shows only the head")
	assert.Equal(t, 6, snap.End)

	anchor, ok := rs.Anchor()
	require.True(t, ok)
	assert.Equal(t, pos(0, 1), anchor)

	res := tr.Read(Sample{Text: snap.Text, Start: 5, End: 5, Shift: true})
	assert.Equal(t, Moved, res.Kind)
	assert.Equal(t, buffer.NewRange(pos(0, 1), pos(1, 1)), res.Selection)

	res = tr.Read(Sample{Text: snap.Text, Start: 0, End: 0, Shift: true})
	assert.Equal(t, buffer.NewRange(pos(0, 1), pos(0, 0)), res.Selection)
	assert.True(t, res.Selection.Inverted)

	res = tr.Read(Sample{Text: snap.Text, Start: 2, End: 2})
	assert.Equal(t, buffer.Caret(pos(0, 2)), res.Selection)
	_, ok = rs.Anchor()
	assert.False(t, ok)
}

func TestReducedSelectionInvertedPublishesFrom(t *testing.T) {
	target := newTarget("abc\ndef")
	target.sel.SetRange(buffer.NewRange(pos(1, 2), pos(0, 1)))

	snap := New(target, WithStrategy(NewReducedSelection())).Prepare()
	assert.Equal(t, 1, snap.Start)
	assert.Equal(t, 1, snap.End)
}

func TestDiffRuneBoundaries(t *testing.T) {
	p, aEnd, bEnd := diff("héllo", "hèllo")
	assert.Equal(t, 1, p)
	assert.Equal(t, "é", "héllo"[p:aEnd])
	assert.Equal(t, "è", "hèllo"[p:bEnd])
}

func TestPosAt(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want buffer.Pos
	}{
		{"ab\ncd", 0, pos(5, 0)},
		{"ab\ncd", 2, pos(5, 2)},
		{"ab\ncd", 3, pos(6, 0)},
		{"ab\r\ncd", 3, pos(5, 2)},
		{"ab\r\ncd", 4, pos(6, 0)},
		{"ab\ncd", 5, pos(6, 2)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, posAt(tt.text, tt.n, 5), "posAt(%q, %d)", tt.text, tt.n)
	}
}
