package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/engine/cursor"
	"github.com/dshills/textcore/internal/engine/highlight"
	"github.com/dshills/textcore/internal/engine/history"
	"github.com/dshills/textcore/internal/engine/input"
	"github.com/dshills/textcore/internal/engine/search"
	"github.com/dshills/textcore/internal/event"
	"github.com/dshills/textcore/internal/event/events"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/mode"
)

// Re-export commonly used types for convenience.
type (
	// Pos is a line/column position.
	Pos = buffer.Pos

	// Range is an ordered selection range.
	Range = buffer.Range

	// Span is a render span of one line.
	Span = buffer.Span
)

// Collapse tells ReplaceSelection where the selection ends up.
type Collapse int

const (
	// CollapseNone selects the inserted text.
	CollapseNone Collapse = iota
	// CollapseStart puts a caret before the inserted text.
	CollapseStart
	// CollapseEnd puts a caret after the inserted text.
	CollapseEnd
)

// IndentHow selects how IndentLine computes a line's indentation.
type IndentHow int

const (
	// IndentSmart asks the mode, falling back to IndentPrev when the
	// tokenizer state before the line is unknown.
	IndentSmart IndentHow = iota
	// IndentPrev copies the previous line's indentation.
	IndentPrev
	// IndentAdd adds one indent unit.
	IndentAdd
	// IndentSubtract removes one indent unit.
	IndentSubtract
)

// Origins reported in LinesChanged events.
const (
	OriginEdit     = "edit"
	OriginInput    = "input"
	OriginUndo     = "undo"
	OriginRedo     = "redo"
	OriginIndent   = "indent"
	OriginMark     = "mark"
	OriginSetValue = "setValue"
)

const eventSource = "engine"

type markOp int

const (
	markAdd markOp = iota
	markRemove
)

// LineInfo is a copy of one line's text and decorations.
type LineInfo struct {
	Text  string
	Runs  []buffer.StyleRun
	Marks []buffer.Mark

	// Highlighted reports whether the tokenizer state after the line is
	// cached, meaning Runs are up to date.
	Highlighted bool
}

// Engine is the editing core of one document. It combines the line store,
// selection, undo history, incremental highlighter, search and input
// translation into a single API that is safe for concurrent use.
//
// Every mutation is applied completely before the call returns. Events are
// published on the bus after the engine lock is released, so handlers may
// call back into the engine.
type Engine struct {
	mu sync.Mutex

	id       string
	doc      *buffer.Document
	sel      *cursor.Model
	hist     *history.Log
	hl       *highlight.Scheduler
	registry *mode.Registry
	modeName string
	modeCfg  mode.Config
	bus      *event.Bus
	logger   *logging.Logger
	readOnly bool
	closed   bool

	// Events queued while the lock is held, and the lines highlighted since
	// the last flush.
	pending      []any
	hlFrom, hlTo int
	hlDirty      bool
}

// New creates an engine. It fails with mode.ErrModeNotFound when the
// requested mode is not registered.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}

	e := &Engine{
		id:       uuid.NewString(),
		doc:      buffer.NewDocument(o.content),
		registry: o.registry,
		modeName: o.modeName,
		modeCfg: mode.Config{
			IndentUnit: o.indentUnit,
			TabSize:    o.tabSize,
			Options:    o.modeOpts,
		},
		bus:      o.bus,
		readOnly: o.readOnly,
	}
	e.logger = o.logger.WithComponent("engine").WithField("doc", e.id[:8])

	m, err := e.registry.New(o.modeName, e.modeCfg)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	e.logger.Debug("mode %q resolved to %s", o.modeName, m.Name())

	e.sel = cursor.New(cursor.WithOnChange(e.selectionChanged))
	e.hist = history.New(
		history.WithMaxEntries(o.undoDepth),
		history.WithCoalesceWindow(o.coalesce),
		history.WithClock(o.now),
	)

	hopts := []highlight.Option{
		highlight.WithBudget(o.budget),
		highlight.WithLookback(o.lookback),
		highlight.WithTabSize(o.tabSize),
		highlight.WithClock(o.now),
		highlight.WithLogger(e.logger),
		highlight.WithOnHighlight(e.highlighted),
	}
	if o.deferFn != nil {
		hopts = append(hopts, highlight.WithDefer(e.locked(o.deferFn), o.delay))
	}
	e.hl = highlight.New(e.doc, m, hopts...)
	return e, nil
}

// ID returns the document ID carried by every event of this engine.
func (e *Engine) ID() string { return e.id }

// Close releases the mode. Deferred highlighting stops; other operations
// keep working on the text.
func (e *Engine) Close() {
	e.lock()
	defer e.unlock()
	if e.closed {
		return
	}
	e.closed = true
	closeMode(e.hl.Mode())
}

func closeMode(m mode.Mode) {
	if c, ok := m.(interface{ Close() }); ok {
		c.Close()
	}
}

func (e *Engine) lock() { e.mu.Lock() }

// unlock releases the lock, then publishes the events queued while it
// was held.
func (e *Engine) unlock() {
	if e.hlDirty {
		e.hlDirty = false
		e.queue(event.NewEvent(events.TopicHighlightUpdated, events.HighlightUpdated{
			DocumentID: e.id,
			FromLine:   e.hlFrom,
			ToLine:     e.hlTo,
			Pending:    e.hl.Pending(),
		}, eventSource))
	}
	evs := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, ev := range evs {
		if err := e.bus.Publish(context.Background(), ev); err != nil {
			e.logger.Warn("publishing %T: %v", ev, err)
		}
	}
}

func (e *Engine) queue(ev any) {
	if e.bus != nil {
		e.pending = append(e.pending, ev)
	}
}

// locked wraps the host deferral so resumed highlighting runs under the
// engine lock.
func (e *Engine) locked(fn highlight.DeferFunc) highlight.DeferFunc {
	return func(d time.Duration, work func()) {
		fn(d, func() {
			e.lock()
			defer e.unlock()
			if !e.closed {
				work()
			}
		})
	}
}

func (e *Engine) selectionChanged(r buffer.Range) {
	e.queue(event.NewEvent(events.TopicSelectionChanged, events.SelectionChanged{
		DocumentID: e.id,
		Selection:  r,
	}, eventSource))
}

func (e *Engine) highlighted(from, to int) {
	if !e.hlDirty {
		e.hlFrom, e.hlTo, e.hlDirty = from, to, true
		return
	}
	e.hlFrom = min(e.hlFrom, from)
	e.hlTo = max(e.hlTo, to)
}

// changed finishes a document change: the highlighter is invalidated and a
// LinesChanged event queued.
func (e *Engine) changed(c buffer.Change, origin string) {
	e.hl.Invalidate(c)
	e.queue(event.NewEvent(events.TopicLinesChanged, events.LinesChanged{
		DocumentID: e.id,
		FromLine:   c.FromLine,
		ToLine:     c.ToLine,
		Delta:      c.Delta,
		Origin:     origin,
	}, eventSource))
}

// Value returns the document text joined with "\n".
func (e *Engine) Value() string {
	e.lock()
	defer e.unlock()
	return e.doc.Value()
}

// SetValue replaces the whole document and puts the caret at its start.
// The replacement is a single undo entry.
func (e *Engine) SetValue(text string) {
	e.lock()
	defer e.unlock()

	e.hist.Breakpoint()
	e.replace(text, buffer.Pos{}, e.doc.EndPos(), OriginSetValue, func(buffer.Change) {
		e.sel.SetCaret(buffer.Pos{})
	})
	e.hist.Breakpoint()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	e.lock()
	defer e.unlock()
	return e.doc.LineCount()
}

// LineText returns the text of line n, or "" when n is out of range.
func (e *Engine) LineText(n int) string {
	e.lock()
	defer e.unlock()
	return e.doc.LineText(n)
}

// Line returns a copy of line n.
func (e *Engine) Line(n int) (LineInfo, bool) {
	e.lock()
	defer e.unlock()

	l := e.doc.Line(n)
	if l == nil {
		return LineInfo{}, false
	}
	return LineInfo{
		Text:        l.Text(),
		Runs:        l.Runs(),
		Marks:       l.Marks(),
		Highlighted: l.State() != nil,
	}, true
}

// Spans returns the render spans of line n, split at the selection and at
// mark boundaries.
func (e *Engine) Spans(n int) []buffer.Span {
	e.lock()
	defer e.unlock()

	l := e.doc.Line(n)
	if l == nil {
		return nil
	}
	sel := e.sel.Selection()
	selFrom, selTo := -1, -1
	if !sel.IsEmpty() && sel.From.Line <= n && n <= sel.To.Line {
		selFrom, selTo = 0, buffer.LineEnd
		if sel.From.Line == n {
			selFrom = sel.From.Ch
		}
		if sel.To.Line == n {
			selTo = sel.To.Ch
		}
	}
	return l.Spans(selFrom, selTo)
}

// Replace replaces the text between from and to with text and returns the
// position after the inserted text. Positions are clamped and ordered.
// Replace is a programmatic edit and works on read-only engines.
func (e *Engine) Replace(text string, from, to buffer.Pos) buffer.Pos {
	e.lock()
	defer e.unlock()
	return e.replace(text, from, to, OriginEdit, nil)
}

// replace applies one edit and records it. place positions the selection
// afterwards; by default the selection is moved through the change.
func (e *Engine) replace(text string, from, to buffer.Pos, origin string, place func(buffer.Change)) buffer.Pos {
	from, to = e.doc.ClipPos(from), e.doc.ClipPos(to)
	from, to = buffer.MinPos(from, to), buffer.MaxPos(from, to)
	lines := buffer.SplitLines(text)
	if (buffer.Change{From: from, Text: lines, Old: e.doc.Range(from, to)}).IsNoop() {
		return to
	}
	old := e.doc.Texts(from.Line, to.Line+1)
	before := e.sel.Selection()

	c := e.doc.Replace(from, to, lines)

	if place != nil {
		place(c)
	} else {
		e.sel.Transform(c)
	}
	after := e.sel.Selection()
	e.hist.AddChange(c.FromLine, len(c.Text), old, &before, &after)
	e.changed(c, origin)
	return c.End()
}

// ReplaceSelection replaces the selected text. It returns ErrReadOnly on a
// read-only engine.
func (e *Engine) ReplaceSelection(text string, collapse Collapse) error {
	e.lock()
	defer e.unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	sel := e.sel.Selection()
	e.replace(text, sel.From, sel.To, OriginInput, func(c buffer.Change) {
		switch collapse {
		case CollapseStart:
			e.sel.SetCaret(c.From)
		case CollapseEnd:
			e.sel.SetCaret(c.End())
		default:
			e.sel.SetRange(buffer.Range{From: c.From, To: c.End()})
		}
	})
	return nil
}

// ReadOnly reports whether input edits are rejected.
func (e *Engine) ReadOnly() bool {
	e.lock()
	defer e.unlock()
	return e.readOnly
}

// SetReadOnly switches read-only mode.
func (e *Engine) SetReadOnly(readOnly bool) {
	e.lock()
	defer e.unlock()
	e.readOnly = readOnly
}

// Selection returns the current selection.
func (e *Engine) Selection() buffer.Range {
	e.lock()
	defer e.unlock()
	return e.sel.Selection()
}

// SetSelection selects the text between from and to. With a shift anchor
// active the selection is widened to include it.
func (e *Engine) SetSelection(from, to buffer.Pos) {
	e.lock()
	defer e.unlock()
	e.sel.Set(e.doc.ClipPos(from), e.doc.ClipPos(to))
}

// SetRange replaces the selection with r exactly.
func (e *Engine) SetRange(r buffer.Range) {
	e.lock()
	defer e.unlock()
	r.From, r.To = e.doc.ClipPos(r.From), e.doc.ClipPos(r.To)
	e.sel.SetRange(r)
}

// SetCursor collapses the selection to p.
func (e *Engine) SetCursor(p buffer.Pos) {
	e.lock()
	defer e.unlock()
	e.sel.SetCaret(e.doc.ClipPos(p))
}

// SetShiftAnchor makes selection changes extend from p.
func (e *Engine) SetShiftAnchor(p buffer.Pos) {
	e.lock()
	defer e.unlock()
	e.sel.SetShiftAnchor(e.doc.ClipPos(p))
}

// ClearShiftAnchor stops extending the selection.
func (e *Engine) ClearShiftAnchor() {
	e.lock()
	defer e.unlock()
	e.sel.ClearShiftAnchor()
}

// Undo reverts the most recent change and restores the selection it was
// made with. It reports false when there is nothing to undo.
func (e *Engine) Undo() bool {
	e.lock()
	defer e.unlock()
	return e.undoRedo(e.hist.Undo, OriginUndo)
}

// Redo reapplies the most recently undone change.
func (e *Engine) Redo() bool {
	e.lock()
	defer e.unlock()
	return e.undoRedo(e.hist.Redo, OriginRedo)
}

func (e *Engine) undoRedo(op func(history.Target) (history.Result, bool), origin string) bool {
	res, ok := op(historyTarget{e: e, origin: origin})
	if !ok {
		return false
	}
	if res.Selection != nil {
		r := *res.Selection
		r.From, r.To = e.doc.ClipPos(r.From), e.doc.ClipPos(r.To)
		e.sel.SetRange(r)
	} else {
		e.sel.SetCaret(e.doc.ClipPos(res.Caret))
	}
	return true
}

// HistorySize returns the number of undoable and redoable entries.
func (e *Engine) HistorySize() (done, undone int) {
	e.lock()
	defer e.unlock()
	return e.hist.Size()
}

// ClearHistory forgets all undo and redo entries.
func (e *Engine) ClearHistory() {
	e.lock()
	defer e.unlock()
	e.hist.Clear()
}

// SetUndoDepth changes the maximum number of undo entries, dropping the
// oldest ones beyond it.
func (e *Engine) SetUndoDepth(n int) {
	e.lock()
	defer e.unlock()

	if done, _ := e.hist.Size(); n > 0 && done > n {
		e.logger.Debug("trimming undo history from %d to %d entries", done, n)
	}
	e.hist.SetMaxEntries(n)
}

// historyTarget applies undo and redo to the engine's document.
type historyTarget struct {
	e      *Engine
	origin string
}

func (t historyTarget) Texts(from, to int) []string { return t.e.doc.Texts(from, to) }

func (t historyTarget) ReplaceLines(from, to int, lines []string) {
	d := t.e.doc
	var c buffer.Change
	if to > from {
		last := to - 1
		c = d.Replace(buffer.Pos{Line: from}, buffer.Pos{Line: last, Ch: len(d.LineText(last))}, lines)
	} else {
		ins := append(append([]string(nil), lines...), "")
		c = d.Replace(buffer.Pos{Line: from}, buffer.Pos{Line: from}, ins)
	}
	t.e.changed(c, t.origin)
}

// MarkText adds a mark with style over [from, to), which may span lines.
func (e *Engine) MarkText(from, to buffer.Pos, style string) {
	e.mark(markAdd, from, to, style)
}

// UnmarkText removes style from [from, to). An empty style removes every
// mark in the range.
func (e *Engine) UnmarkText(from, to buffer.Pos, style string) {
	e.mark(markRemove, from, to, style)
}

func (e *Engine) mark(op markOp, from, to buffer.Pos, style string) {
	e.lock()
	defer e.unlock()

	from, to = e.doc.ClipPos(from), e.doc.ClipPos(to)
	if to.Before(from) {
		from, to = to, from
	}
	if from == to {
		return
	}

	for n := from.Line; n <= to.Line; n++ {
		start, end := 0, buffer.LineEnd
		if n == from.Line {
			start = from.Ch
		}
		if n == to.Line {
			end = to.Ch
		}
		line := e.doc.Line(n)
		switch op {
		case markAdd:
			line.AddMark(start, end, style)
		case markRemove:
			line.RemoveMark(start, end, style)
		}
	}
	e.queue(event.NewEvent(events.TopicLinesChanged, events.LinesChanged{
		DocumentID: e.id,
		FromLine:   from.Line,
		ToLine:     to.Line + 1,
		Origin:     OriginMark,
	}, eventSource))
}

// Mode returns the name of the current mode.
func (e *Engine) Mode() string {
	e.lock()
	defer e.unlock()
	return e.hl.Mode().Name()
}

// SetMode switches to the mode registered as name and queues the whole
// document for highlighting.
func (e *Engine) SetMode(name string) error {
	m, err := e.registry.New(name, e.modeCfg)
	if err != nil {
		return err
	}

	e.lock()
	defer e.unlock()
	if e.closed {
		closeMode(m)
		return ErrClosed
	}

	old := e.hl.Mode()
	e.hl.SetMode(m)
	e.modeName = name
	e.logger.Debug("mode changed from %s to %s", old.Name(), m.Name())
	e.queue(event.NewEvent(events.TopicModeChanged, events.ModeChanged{
		DocumentID: e.id,
		OldMode:    old.Name(),
		NewMode:    m.Name(),
	}, eventSource))
	closeMode(old)
	return nil
}

// ApplyConfig applies the settings of cfg that can change on a live
// engine: read-only, undo depth and mode. Tab size, indent unit and
// highlighter settings take effect for engines created afterwards.
func (e *Engine) ApplyConfig(cfg *config.Config) error {
	e.SetReadOnly(cfg.Editor.ReadOnly)
	e.SetUndoDepth(cfg.History.Depth)

	e.lock()
	same := strings.EqualFold(e.modeName, cfg.Editor.Mode)
	e.unlock()
	if same {
		return nil
	}
	return e.SetMode(cfg.Editor.Mode)
}

// StateBefore returns the tokenizer state before line n. It reports false
// when no cached state lies within the lookback window; the line is then
// queued for highlighting.
func (e *Engine) StateBefore(n int) (mode.State, bool) {
	e.lock()
	defer e.unlock()
	return e.hl.StateBefore(n)
}

// IndentLine re-indents line n with spaces and reports whether the line
// changed.
func (e *Engine) IndentLine(n int, how IndentHow) bool {
	e.lock()
	defer e.unlock()

	l := e.doc.Line(n)
	if l == nil {
		return false
	}
	text := l.Text()
	ws := len(text) - len(strings.TrimLeft(text, " \t"))
	tabSize := e.modeCfg.TabSize

	var col int
	if how == IndentSmart {
		st, ok := e.hl.StateBefore(n)
		if !ok {
			how = IndentPrev
		} else if col = e.hl.Mode().Indent(st, text[ws:]); col == mode.Pass {
			return false
		}
	}
	switch how {
	case IndentPrev:
		col = 0
		if n > 0 {
			col = e.doc.Line(n - 1).Indentation(tabSize)
		}
	case IndentAdd:
		col = l.Indentation(tabSize) + e.modeCfg.IndentUnit
	case IndentSubtract:
		col = l.Indentation(tabSize) - e.modeCfg.IndentUnit
	}

	indent := strings.Repeat(" ", max(col, 0))
	if indent == text[:ws] {
		return false
	}
	e.replace(indent, buffer.Pos{Line: n}, buffer.Pos{Line: n, Ch: ws}, OriginIndent, nil)
	return true
}

// Tick runs one slice of background highlighting and reports whether work
// remains. Hosts without a deferral call it until it returns false.
func (e *Engine) Tick() bool {
	e.lock()
	defer e.unlock()
	if e.closed {
		return false
	}
	return e.hl.Tick()
}

// HighlightPending reports whether lines are queued for highlighting.
func (e *Engine) HighlightPending() bool {
	e.lock()
	defer e.unlock()
	return e.hl.Pending()
}

// HighlightRange synchronously highlights lines [from, to), typically the
// visible part of the document.
func (e *Engine) HighlightRange(from, to int) {
	e.lock()
	defer e.unlock()
	e.hl.HighlightRange(from, to)
}

// SearchString starts a literal search at pos. The cursor reads the
// document through the engine, and cursor.Replace(e, text) edits it.
func (e *Engine) SearchString(query string, pos buffer.Pos, opts ...search.Option) *search.Cursor {
	return search.NewString(e, query, pos, opts...)
}

// SearchRegexp starts a regular expression search at pos.
func (e *Engine) SearchRegexp(pattern string, pos buffer.Pos, fold bool) (*search.Cursor, error) {
	re, err := search.Compile(pattern, fold)
	if err != nil {
		return nil, err
	}
	return search.NewRegexp(e, re, pos), nil
}

// Translator returns an input translator bound to this engine. A nil
// strategy means input.ExactSelection. Edits read from the input proxy
// are dropped while the engine is read-only.
func (e *Engine) Translator(strategy input.SelectionStrategy, opts ...input.Option) *input.Translator {
	if strategy != nil {
		opts = append([]input.Option{input.WithStrategy(strategy)}, opts...)
	}
	return input.New(inputTarget{e}, opts...)
}

// inputTarget routes translator edits through the read-only check.
type inputTarget struct {
	*Engine
}

func (t inputTarget) Replace(text string, from, to buffer.Pos) (buffer.Pos, error) {
	t.lock()
	defer t.unlock()

	if t.readOnly {
		t.logger.Debug("dropping input edit on read-only document")
		return t.doc.ClipPos(to), ErrReadOnly
	}
	return t.replace(text, from, to, OriginInput, nil), nil
}
