package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dshills/textcore/internal/config/loader"
	"github.com/dshills/textcore/internal/logging"
)

// Config holds every setting the editing core reads.
type Config struct {
	Editor    EditorConfig
	History   HistoryConfig
	Highlight HighlightConfig
	Logging   LoggingConfig
}

// EditorConfig holds document-level settings.
type EditorConfig struct {
	// Mode is the registered mode name, e.g. "javascript".
	Mode       string
	TabSize    int
	IndentUnit int
	ReadOnly   bool
}

// HistoryConfig holds undo settings.
type HistoryConfig struct {
	// Depth is the maximum number of undo records kept.
	Depth int
	// CoalesceWindow is the interval within which touching edits merge.
	CoalesceWindow time.Duration
}

// HighlightConfig holds background highlighting settings.
type HighlightConfig struct {
	// Budget is the soft time limit of one highlight slice.
	Budget time.Duration
	// Lookback bounds the backward search for a cached state.
	Lookback int
	// Delay is the pause before a deferred slice runs.
	Delay time.Duration
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			Mode:       "text/plain",
			TabSize:    4,
			IndentUnit: 2,
		},
		History: HistoryConfig{
			Depth:          1000,
			CoalesceWindow: 400 * time.Millisecond,
		},
		Highlight: HighlightConfig{
			Budget:   200 * time.Millisecond,
			Lookback: 40,
			Delay:    300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// Validate checks every setting and joins all failures.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, v any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
		}
	}

	check(strings.TrimSpace(c.Editor.Mode) != "", "editor.mode", "must not be empty", c.Editor.Mode)
	check(c.Editor.TabSize > 0, "editor.tabSize", "must be positive", c.Editor.TabSize)
	check(c.Editor.IndentUnit > 0, "editor.indentUnit", "must be positive", c.Editor.IndentUnit)
	check(c.History.Depth > 0, "history.depth", "must be positive", c.History.Depth)
	check(c.History.CoalesceWindow >= 0, "history.coalesceWindow", "must not be negative", c.History.CoalesceWindow)
	check(c.Highlight.Budget > 0, "highlight.budget", "must be positive", c.Highlight.Budget)
	check(c.Highlight.Lookback > 0, "highlight.lookback", "must be positive", c.Highlight.Lookback)
	check(c.Highlight.Delay >= 0, "highlight.delay", "must not be negative", c.Highlight.Delay)

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		check(false, "logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}

	return errors.Join(errs...)
}

// Apply overlays a nested settings map onto c. Unknown keys and
// mistyped values are reported together; valid keys are still applied.
func (c *Config) Apply(data map[string]any) error {
	targets := c.targets()

	var errs []error
	for _, path := range flatten("", data) {
		raw, _ := loader.Lookup(data, path)
		target, ok := targets[path]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownSetting, path))
			continue
		}
		if err := assign(path, target, raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Config) targets() map[string]any {
	return map[string]any{
		"editor.mode":            &c.Editor.Mode,
		"editor.tabSize":         &c.Editor.TabSize,
		"editor.indentUnit":      &c.Editor.IndentUnit,
		"editor.readOnly":        &c.Editor.ReadOnly,
		"history.depth":          &c.History.Depth,
		"history.coalesceWindow": &c.History.CoalesceWindow,
		"highlight.budget":       &c.Highlight.Budget,
		"highlight.lookback":     &c.Highlight.Lookback,
		"highlight.delay":        &c.Highlight.Delay,
		"logging.level":          &c.Logging.Level,
	}
}

// flatten lists the dotted paths of all leaves, sorted.
func flatten(prefix string, data map[string]any) []string {
	var paths []string
	for key, v := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if m, ok := v.(map[string]any); ok {
			paths = append(paths, flatten(path, m)...)
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func assign(path string, target, raw any) error {
	switch p := target.(type) {
	case *string:
		s, ok := raw.(string)
		if !ok {
			return typeError(path, "string", raw)
		}
		*p = s
	case *bool:
		b, ok := raw.(bool)
		if !ok {
			return typeError(path, "bool", raw)
		}
		*p = b
	case *int:
		n, ok := toInt(raw)
		if !ok {
			return typeError(path, "int", raw)
		}
		*p = n
	case *time.Duration:
		d, ok := toDuration(raw)
		if !ok {
			return typeError(path, "duration", raw)
		}
		*p = d
	}
	return nil
}

func typeError(path, expected string, raw any) error {
	return &TypeError{Path: path, Expected: expected, Actual: fmt.Sprintf("%T", raw)}
}

// toInt accepts the integer shapes produced by the TOML, YAML and JSON
// loaders. JSON numbers arrive as float64 and must be integral.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// toDuration accepts duration strings ("250ms") or a number of
// milliseconds.
func toDuration(v any) (time.Duration, bool) {
	switch d := v.(type) {
	case time.Duration:
		return d, true
	case string:
		parsed, err := time.ParseDuration(d)
		return parsed, err == nil
	}
	if ms, ok := toInt(v); ok {
		return time.Duration(ms) * time.Millisecond, true
	}
	return 0, false
}
