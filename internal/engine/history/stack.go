package history

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/buffer"
)

const (
	// DefaultMaxEntries is the default undo depth.
	DefaultMaxEntries = 1000

	// DefaultCoalesceWindow is the default interval within which touching
	// edits merge into one record.
	DefaultCoalesceWindow = 400 * time.Millisecond
)

// Record is one undoable change: lines [Start, Start+Added) of the current
// document replaced the lines in Old.
type Record struct {
	Start int
	Added int
	Old   []string

	// Before and After are the selections around the change, when known.
	Before *buffer.Range
	After  *buffer.Range
}

// Target is the document undo and redo are applied to.
type Target interface {
	// Texts returns the text of lines [from, to).
	Texts(from, to int) []string

	// ReplaceLines replaces lines [from, to) with lines without recording
	// history. It must not call back into the Log.
	ReplaceLines(from, to int, lines []string)
}

// Result describes where the caret lands after undo or redo.
type Result struct {
	Caret buffer.Pos

	// Selection is the selection recorded with the change, if any.
	Selection *buffer.Range
}

// Log manages undo/redo state for a document.
type Log struct {
	mu sync.Mutex

	done   []*Record
	undone []*Record
	last   time.Time

	maxEntries int
	window     time.Duration
	now        func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithMaxEntries sets the undo depth.
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.maxEntries = n
		}
	}
}

// WithCoalesceWindow sets the merge interval. Zero disables merging.
func WithCoalesceWindow(d time.Duration) Option {
	return func(l *Log) {
		if d >= 0 {
			l.window = d
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates an empty log.
func New(opts ...Option) *Log {
	l := &Log{
		maxEntries: DefaultMaxEntries,
		window:     DefaultCoalesceWindow,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddChange records that lines [start, start+added) replaced old.
// It clears the redo stack. The change is merged into the previous record
// when it follows within the coalesce window and touches or overlaps it.
func (l *Log) AddChange(start, added int, old []string, before, after *buffer.Range) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.undone = nil

	if n := len(l.done); n > 0 && now.Sub(l.last) < l.window && l.mergeLocked(l.done[n-1], start, added, old, after) {
		l.last = now
		return
	}

	l.pushLocked(&l.done, &Record{
		Start:  start,
		Added:  added,
		Old:    append([]string(nil), old...),
		Before: copyRange(before),
		After:  copyRange(after),
	})
	l.last = now
}

// mergeLocked folds a change into rec when their line spans touch.
// rec covers lines [t, t+p) of the document before the change; the change
// replaced lines [s, s+len(old)) of that document with added lines.
func (l *Log) mergeLocked(rec *Record, s, added int, old []string, after *buffer.Range) bool {
	t, p := rec.Start, rec.Added
	if s > t+p || t > s+len(old) {
		return false
	}

	start := min(s, t)
	end := max(s+len(old), t+p)

	merged := make([]string, 0, len(rec.Old)+len(old))
	if s < t {
		merged = append(merged, old[:t-s]...)
	}
	merged = append(merged, rec.Old...)
	if s+len(old) > t+p {
		merged = append(merged, old[t+p-s:]...)
	}

	rec.Start = start
	rec.Added = end - start + added - len(old)
	rec.Old = merged
	rec.After = copyRange(after)
	return true
}

// pushLocked appends rec to a stack, trimming the done stack to depth.
func (l *Log) pushLocked(stack *[]*Record, rec *Record) {
	*stack = append(*stack, rec)
	if stack == &l.done && len(l.done) > l.maxEntries {
		excess := len(l.done) - l.maxEntries
		l.done = append([]*Record(nil), l.done[excess:]...)
	}
}

// Undo reverts the most recent record. It reports false when there is
// nothing to undo.
func (l *Log) Undo(t Target) (Result, bool) {
	return l.undoRedo(t, &l.done, &l.undone)
}

// Redo reapplies the most recently undone record. It reports false when
// there is nothing to redo.
func (l *Log) Redo(t Target) (Result, bool) {
	return l.undoRedo(t, &l.undone, &l.done)
}

func (l *Log) undoRedo(t Target, from, to *[]*Record) (Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(*from)
	if n == 0 {
		return Result{}, false
	}
	rec := (*from)[n-1]
	*from = (*from)[:n-1]

	end := rec.Start + rec.Added
	replaced := t.Texts(rec.Start, end)
	l.pushLocked(to, &Record{
		Start:  rec.Start,
		Added:  len(rec.Old),
		Old:    replaced,
		Before: copyRange(rec.After),
		After:  copyRange(rec.Before),
	})
	t.ReplaceLines(rec.Start, end, rec.Old)

	var lastReplaced string
	if len(replaced) > 0 {
		lastReplaced = replaced[len(replaced)-1]
	}
	res := Result{Caret: buffer.Pos{
		Line: rec.Start + len(rec.Old) - 1,
		Ch:   editEnd(lastReplaced, rec.Old[len(rec.Old)-1]),
	}}
	if rec.Before != nil {
		res.Selection = copyRange(rec.Before)
	}
	// Undoing must not merge with the next edit.
	l.last = time.Time{}
	return res, true
}

// editEnd returns the offset in to just past the text that differs from
// from, comparing from the end of both strings.
func editEnd(from, to string) int {
	if to == "" {
		return 0
	}
	if from == "" {
		return len(to)
	}
	i, j := len(from)-1, len(to)-1
	for i >= 0 && j >= 0 && from[i] == to[j] {
		i--
		j--
	}
	end := j + 1
	for end < len(to) && !utf8.RuneStart(to[end]) {
		end++
	}
	return end
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.done) > 0
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undone) > 0
}

// Size returns the number of undo and redo records.
func (l *Log) Size() (done, undone int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.done), len(l.undone)
}

// Clear removes all undo/redo history.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.done = nil
	l.undone = nil
	l.last = time.Time{}
}

// Breakpoint stops the next change from merging into the current record.
func (l *Log) Breakpoint() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = time.Time{}
}

// Peek returns a copy of the most recent undo record.
func (l *Log) Peek() (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.done) == 0 {
		return Record{}, false
	}
	rec := *l.done[len(l.done)-1]
	rec.Old = append([]string(nil), rec.Old...)
	return rec, true
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (l *Log) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maxEntries = max
	if len(l.done) > max {
		excess := len(l.done) - max
		l.done = append([]*Record(nil), l.done[excess:]...)
	}
}

// MaxEntries returns the maximum number of undo entries.
func (l *Log) MaxEntries() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxEntries
}

func copyRange(r *buffer.Range) *buffer.Range {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
