package engine

import (
	"time"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine/highlight"
	"github.com/dshills/textcore/internal/engine/history"
	"github.com/dshills/textcore/internal/event"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/mode"
)

// Default configuration values.
const (
	DefaultMode       = "text/plain"
	DefaultTabSize    = 4
	DefaultIndentUnit = 2
)

type options struct {
	content    string
	modeName   string
	registry   *mode.Registry
	modeOpts   map[string]any
	tabSize    int
	indentUnit int
	readOnly   bool

	undoDepth int
	coalesce  time.Duration

	budget   time.Duration
	lookback int
	deferFn  highlight.DeferFunc
	delay    time.Duration

	now    func() time.Time
	bus    *event.Bus
	logger *logging.Logger
}

func defaultOptions() options {
	return options{
		modeName:   DefaultMode,
		tabSize:    DefaultTabSize,
		indentUnit: DefaultIndentUnit,
		undoDepth:  history.DefaultMaxEntries,
		coalesce:   history.DefaultCoalesceWindow,
		budget:     highlight.DefaultBudget,
		lookback:   highlight.DefaultLookback,
		delay:      highlight.DefaultDelay,
		now:        time.Now,
		logger:     logging.Nop(),
	}
}

// Option configures an Engine during creation.
type Option func(*options)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(o *options) {
		o.content = content
	}
}

// WithMode selects the mode by registered name or alias.
func WithMode(name string) Option {
	return func(o *options) {
		if name != "" {
			o.modeName = name
		}
	}
}

// WithRegistry sets the registry modes are resolved from. The default is
// DefaultRegistry().
func WithRegistry(r *mode.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithModeOptions passes mode-specific options to the mode factory.
func WithModeOptions(opts map[string]any) Option {
	return func(o *options) {
		o.modeOpts = opts
	}
}

// WithTabSize sets the tab width used for columns.
func WithTabSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.tabSize = n
		}
	}
}

// WithIndentUnit sets the number of columns one indentation level adds.
func WithIndentUnit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.indentUnit = n
		}
	}
}

// WithReadOnly rejects input edits.
func WithReadOnly(readOnly bool) Option {
	return func(o *options) {
		o.readOnly = readOnly
	}
}

// WithUndoDepth sets the maximum number of undo entries.
func WithUndoDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.undoDepth = n
		}
	}
}

// WithCoalesceWindow sets how close together edits must be to merge into
// one undo entry.
func WithCoalesceWindow(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.coalesce = d
		}
	}
}

// WithHighlightBudget sets the time one Tick may spend tokenizing.
func WithHighlightBudget(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.budget = d
		}
	}
}

// WithLookback sets how far back a cached state is searched for.
func WithLookback(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.lookback = n
		}
	}
}

// WithDeferral lets the engine resume unfinished highlighting by itself.
// fn must run its callback later, never synchronously. Without a deferral
// the host drives highlighting by calling Tick.
func WithDeferral(fn highlight.DeferFunc) Option {
	return func(o *options) {
		o.deferFn = fn
	}
}

// WithHighlightDelay sets the delay passed to the deferral function.
func WithHighlightDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.delay = d
		}
	}
}

// WithClock replaces time.Now for history coalescing and highlight budgets.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithBus publishes engine events on bus.
func WithBus(bus *event.Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// ConfigOptions translates cfg into engine options.
func ConfigOptions(cfg *config.Config) []Option {
	return []Option{
		WithMode(cfg.Editor.Mode),
		WithTabSize(cfg.Editor.TabSize),
		WithIndentUnit(cfg.Editor.IndentUnit),
		WithReadOnly(cfg.Editor.ReadOnly),
		WithUndoDepth(cfg.History.Depth),
		WithCoalesceWindow(cfg.History.CoalesceWindow),
		WithHighlightBudget(cfg.Highlight.Budget),
		WithLookback(cfg.Highlight.Lookback),
		WithHighlightDelay(cfg.Highlight.Delay),
	}
}

// FromConfig creates an engine configured by cfg. Options in opts are
// applied after the configuration and override it. Unless opts set a
// logger, one writing to stderr at cfg's level is used.
func FromConfig(cfg *config.Config, opts ...Option) (*Engine, error) {
	lc := logging.DefaultConfig()
	lc.Level = cfg.LogLevel()
	all := append([]Option{WithLogger(logging.New(lc))}, ConfigOptions(cfg)...)
	return New(append(all, opts...)...)
}
