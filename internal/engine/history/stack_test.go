package history

import (
	"testing"
	"time"

	"github.com/dshills/textcore/internal/engine/buffer"
)

// lines is a minimal Target.
type lines []string

func (l *lines) Texts(from, to int) []string {
	return append([]string(nil), (*l)[from:to]...)
}

func (l *lines) ReplaceLines(from, to int, repl []string) {
	out := append([]string(nil), (*l)[:from]...)
	out = append(out, repl...)
	*l = append(out, (*l)[to:]...)
}

// edit replaces lines [from, to) and records the change.
func (l *lines) edit(log *Log, from, to int, repl ...string) {
	old := l.Texts(from, to)
	l.ReplaceLines(from, to, repl)
	log.AddChange(from, len(repl), old, nil, nil)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time           { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newLog(clock *fakeClock, opts ...Option) *Log {
	return New(append([]Option{WithClock(clock.now)}, opts...)...)
}

func equal(a, b []string) bool {
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

func TestUndoRedo(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	log := newLog(clock)
	doc := &lines{"one", "two", "three"}

	doc.edit(log, 1, 2, "TWO", "2")
	if !equal(*doc, []string{"one", "TWO", "2", "three"}) {
		t.Fatalf("doc = %q", *doc)
	}

	res, ok := log.Undo(doc)
	if !ok {
		t.Fatal("undo failed")
	}
	if !equal(*doc, []string{"one", "two", "three"}) {
		t.Fatalf("after undo doc = %q", *doc)
	}
	if res.Caret != (buffer.Pos{Line: 1, Ch: 3}) {
		t.Errorf("caret = %v", res.Caret)
	}

	if _, ok := log.Redo(doc); !ok {
		t.Fatal("redo failed")
	}
	if !equal(*doc, []string{"one", "TWO", "2", "three"}) {
		t.Fatalf("after redo doc = %q", *doc)
	}
	if done, undone := log.Size(); done != 1 || undone != 0 {
		t.Errorf("size = %d/%d", done, undone)
	}
}

func TestUndoEmpty(t *testing.T) {
	log := New()
	doc := &lines{"x"}
	if _, ok := log.Undo(doc); ok {
		t.Error("undo on empty log succeeded")
	}
	if _, ok := log.Redo(doc); ok {
		t.Error("redo on empty log succeeded")
	}
	if !equal(*doc, []string{"x"}) {
		t.Errorf("doc changed: %q", *doc)
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name     string
		gap      time.Duration
		second   int
		wantDone int
	}{
		{"adjacent within window", 100 * time.Millisecond, 0, 1},
		{"touching next line within window", 100 * time.Millisecond, 1, 1},
		{"at window", 400 * time.Millisecond, 0, 2},
		{"after window", 500 * time.Millisecond, 0, 2},
		{"disjoint within window", 100 * time.Millisecond, 3, 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(0, 0)}
			log := newLog(clock)
			doc := &lines{"", "b", "c", "d", "e"}

			doc.edit(log, 0, 1, "a")
			clock.advance(tt.gap)
			doc.edit(log, tt.second, tt.second+1, (*doc)[tt.second]+"x")

			if done, _ := log.Size(); done != tt.wantDone {
				t.Fatalf("done = %d, want %d", done, tt.wantDone)
			}
			for log.CanUndo() {
				log.Undo(doc)
			}
			if !equal(*doc, []string{"", "b", "c", "d", "e"}) {
				t.Errorf("after full undo doc = %q", *doc)
			}
		})
	}
}

func TestCoalesceMergeShapes(t *testing.T) {
	tests := []struct {
		name  string
		first func(*lines, *Log)
		next  func(*lines, *Log)
	}{
		{
			name:  "second edit before first",
			first: func(d *lines, l *Log) { d.edit(l, 2, 3, "C1", "C2") },
			next:  func(d *lines, l *Log) { d.edit(l, 1, 3, "B") },
		},
		{
			name:  "second edit after first",
			first: func(d *lines, l *Log) { d.edit(l, 1, 2, "B1", "B2") },
			next:  func(d *lines, l *Log) { d.edit(l, 2, 4, "X") },
		},
		{
			name:  "second edit inside first",
			first: func(d *lines, l *Log) { d.edit(l, 1, 3, "P", "Q", "R") },
			next:  func(d *lines, l *Log) { d.edit(l, 2, 3, "q1", "q2") },
		},
		{
			name:  "second edit covering first",
			first: func(d *lines, l *Log) { d.edit(l, 2, 3, "z") },
			next:  func(d *lines, l *Log) { d.edit(l, 1, 4, "all") },
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(0, 0)}
			log := newLog(clock)
			orig := []string{"a", "b", "c", "d", "e"}
			doc := &lines{}
			*doc = append(*doc, orig...)

			tt.first(doc, log)
			clock.advance(10 * time.Millisecond)
			tt.next(doc, log)
			after := append([]string(nil), *doc...)

			if done, _ := log.Size(); done != 1 {
				t.Fatalf("done = %d, want 1", done)
			}
			log.Undo(doc)
			if !equal(*doc, orig) {
				t.Fatalf("after undo doc = %q, want %q", *doc, orig)
			}
			log.Redo(doc)
			if !equal(*doc, after) {
				t.Fatalf("after redo doc = %q, want %q", *doc, after)
			}
		})
	}
}

func TestUndoBreaksCoalescing(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	log := newLog(clock)
	doc := &lines{"a"}
	doc.edit(log, 0, 1, "ab")
	log.Undo(doc)
	log.Redo(doc)
	doc.edit(log, 0, 1, "abc")
	if done, undone := log.Size(); done != 2 || undone != 0 {
		t.Errorf("size = %d/%d, want 2/0", done, undone)
	}
}

func TestNewChangeClearsRedo(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	log := newLog(clock)
	doc := &lines{"a"}
	doc.edit(log, 0, 1, "b")
	log.Undo(doc)
	if !log.CanRedo() {
		t.Fatal("expected redo")
	}
	clock.advance(time.Second)
	doc.edit(log, 0, 1, "c")
	if log.CanRedo() {
		t.Error("redo not cleared")
	}
}

func TestMaxEntries(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	log := newLog(clock, WithMaxEntries(3))
	doc := &lines{"0"}
	for i := 1; i <= 5; i++ {
		clock.advance(time.Second)
		doc.edit(log, 0, 1, string(rune('0'+i)))
	}
	if done, _ := log.Size(); done != 3 {
		t.Fatalf("done = %d, want 3", done)
	}
	for log.CanUndo() {
		log.Undo(doc)
	}
	if (*doc)[0] != "2" {
		t.Errorf("oldest reachable state = %q, want 2", (*doc)[0])
	}

	log.SetMaxEntries(1)
	if log.MaxEntries() != 1 {
		t.Errorf("MaxEntries = %d", log.MaxEntries())
	}
}

func TestSelectionRestored(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	log := newLog(clock)
	doc := &lines{"hello"}
	before := buffer.NewRange(buffer.Pos{Line: 0, Ch: 1}, buffer.Pos{Line: 0, Ch: 4})
	after := buffer.Caret(buffer.Pos{Line: 0, Ch: 2})

	doc.ReplaceLines(0, 1, []string{"hXo"})
	log.AddChange(0, 1, []string{"hello"}, &before, &after)

	res, _ := log.Undo(doc)
	if res.Selection == nil || !res.Selection.Equal(before) {
		t.Errorf("undo selection = %v, want %v", res.Selection, before)
	}
	res, _ = log.Redo(doc)
	if res.Selection == nil || !res.Selection.Equal(after) {
		t.Errorf("redo selection = %v, want %v", res.Selection, after)
	}
}

func TestEditEnd(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"abc", "xbc", 1},
		{"hXo", "hello", 4},
		{"abc", "abc", 0},
		{"", "abc", 3},
		{"abc", "", 0},
		{"bc", "abc", 1},
		{"xé", "ü", 2},
	}
	for _, tt := range tests {
		if got := editEnd(tt.from, tt.to); got != tt.want {
			t.Errorf("editEnd(%q, %q) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestClear(t *testing.T) {
	log := New()
	log.AddChange(0, 1, []string{"x"}, nil, nil)
	log.Clear()
	if log.CanUndo() || log.CanRedo() {
		t.Error("history not cleared")
	}
	if _, ok := log.Peek(); ok {
		t.Error("peek after clear")
	}
}
