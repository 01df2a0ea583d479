package highlight

import (
	"time"

	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/mode"
)

const (
	// DefaultBudget is the soft time limit of one Tick.
	DefaultBudget = 200 * time.Millisecond

	// DefaultDelay is how long a Tick waits before resuming unfinished work.
	DefaultDelay = 300 * time.Millisecond

	// DefaultLookback is how many lines are searched for a cached state.
	DefaultLookback = 40
)

// DeferFunc runs fn after d. The scheduler uses it to resume work that did
// not fit in a Tick's budget.
type DeferFunc func(d time.Duration, fn func())

// Scheduler keeps a document's style runs and cached states up to date
// incrementally.
//
// Scheduler is not synchronized; the engine serializes access, including
// from deferred callbacks.
type Scheduler struct {
	doc   *buffer.Document
	mode  mode.Mode
	queue WorkQueue

	budget   time.Duration
	delay    time.Duration
	lookback int
	tabSize  int
	now      func() time.Time
	deferFn  DeferFunc
	pending  bool
	logger   *logging.Logger

	onHighlight func(from, to int)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithBudget sets the soft time limit of a Tick.
func WithBudget(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.budget = d
		}
	}
}

// WithLookback sets how many lines are searched for a cached state.
func WithLookback(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.lookback = n
		}
	}
}

// WithTabSize sets the tab width used for column math.
func WithTabSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.tabSize = n
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefer sets how unfinished work is resumed and after what delay.
// Without it the host must call Tick until it returns false.
func WithDefer(fn DeferFunc, delay time.Duration) Option {
	return func(s *Scheduler) {
		s.deferFn = fn
		if delay >= 0 {
			s.delay = delay
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l.WithComponent("highlight")
		}
	}
}

// WithOnHighlight registers a callback told which lines [from, to) were
// re-tokenized.
func WithOnHighlight(fn func(from, to int)) Option {
	return func(s *Scheduler) {
		s.onHighlight = fn
	}
}

// New creates a scheduler for doc and queues the whole document.
func New(doc *buffer.Document, m mode.Mode, opts ...Option) *Scheduler {
	s := &Scheduler{
		doc:      doc,
		mode:     m,
		budget:   DefaultBudget,
		delay:    DefaultDelay,
		lookback: DefaultLookback,
		tabSize:  mode.DefaultConfig().TabSize,
		now:      time.Now,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.queue.Push(0)
	s.schedule()
	return s
}

// Mode returns the mode used for tokenizing.
func (s *Scheduler) Mode() mode.Mode { return s.mode }

// SetMode switches modes, dropping every cached state.
func (s *Scheduler) SetMode(m mode.Mode) {
	s.mode = m
	s.Reset()
}

// Reset drops every cached state and queues the whole document.
func (s *Scheduler) Reset() {
	for i := 0; i < s.doc.LineCount(); i++ {
		s.doc.Line(i).ClearState()
	}
	s.queue.Clear()
	s.queue.Push(0)
	s.schedule()
}

// Pending reports whether lines are queued.
func (s *Scheduler) Pending() bool { return s.queue.Len() > 0 }

// Queue returns the queued lines, most urgent last.
func (s *Scheduler) Queue() []int { return s.queue.Items() }

// Invalidate updates the queue after a change to the document and queues the
// first touched line.
func (s *Scheduler) Invalidate(c buffer.Change) {
	s.queue.Shift(c)
	s.queue.Push(c.FromLine)
	s.schedule()
}

// Tick highlights queued lines until the queue is empty or the budget is
// spent, and reports whether work remains. At least one line is processed
// per call. Unfinished work is resumed through the defer function.
func (s *Scheduler) Tick() bool {
	deadline := s.now().Add(s.budget)
	processed := 0

	for s.queue.Len() > 0 {
		task, _ := s.queue.Pop()
		if task >= s.doc.LineCount() || s.doc.Line(task).State() != nil {
			continue
		}

		start, st, ok := s.findStart(task, s.lookback)
		if !ok {
			// Compute the window floor first; its state makes task reachable.
			s.queue.Push(task)
			s.queue.Push(max(task-s.lookback, 0))
			continue
		}

		i := start
		for n := s.doc.LineCount(); i < n; i++ {
			if processed > 0 && !s.now().Before(deadline) {
				s.queue.Push(i)
				s.notify(start, i)
				s.logger.Debug("budget spent at line %d, %d lines queued", i, s.queue.Len())
				s.schedule()
				return true
			}
			line := s.doc.Line(i)
			had := line.State()
			s.highlightLine(i, line, st)
			processed++
			if had != nil && mode.EqualStates(had, st) {
				i++
				break
			}
		}
		s.notify(start, i)
	}
	return false
}

// StateBefore returns the tokenizer state before line n, backfilling cached
// states from the nearest cached line within the lookback window. It returns
// false, and queues n, when the window holds no cached state.
// When line n itself is uncached it is queued for the next Tick.
func (s *Scheduler) StateBefore(n int) (mode.State, bool) {
	n = max(0, min(n, s.doc.LineCount()))
	start, st, ok := s.findStart(n, s.lookback)
	if !ok {
		s.queue.Push(n)
		s.schedule()
		return nil, false
	}
	s.backfill(start, n, st)
	if n < s.doc.LineCount() && s.doc.Line(n).State() == nil {
		s.queue.Push(n)
		s.schedule()
	}
	return st, true
}

// HighlightRange synchronously highlights lines [from, to), computing the
// state before from regardless of distance.
func (s *Scheduler) HighlightRange(from, to int) {
	from = max(0, from)
	to = min(to, s.doc.LineCount())
	if from >= to {
		return
	}
	start, st, _ := s.findStart(from, from+1)
	s.backfill(start, to, st)
	s.notify(start, to)
}

// findStart searches back from n, at most limit lines, for the nearest line
// whose preceding state is known. It returns that line and a copy of the
// state before it.
func (s *Scheduler) findStart(n, limit int) (int, mode.State, bool) {
	for search := n; search > n-limit; search-- {
		if search <= 0 {
			return 0, s.mode.StartState(), true
		}
		if st := s.doc.Line(search - 1).State(); st != nil {
			return search, st.Copy(), true
		}
	}
	return 0, nil, false
}

// backfill highlights lines [from, to) starting from st, caching each state.
func (s *Scheduler) backfill(from, to int, st mode.State) {
	for i := from; i < to; i++ {
		s.highlightLine(i, s.doc.Line(i), st)
	}
}

func (s *Scheduler) highlightLine(i int, line *buffer.Line, st mode.State) {
	if _, stalled := line.Highlight(s.mode, st, s.tabSize); stalled {
		s.logger.Warn("mode %q did not advance on line %d", s.mode.Name(), i)
	}
	line.SetState(st.Copy())
}

func (s *Scheduler) notify(from, to int) {
	if s.onHighlight != nil && to > from {
		s.onHighlight(from, to)
	}
}

func (s *Scheduler) schedule() {
	if s.deferFn == nil || s.pending || s.queue.Len() == 0 {
		return
	}
	s.pending = true
	s.deferFn(s.delay, func() {
		s.pending = false
		s.Tick()
	})
}
