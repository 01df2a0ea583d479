package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dshills/textcore/internal/config/loader"
	"github.com/dshills/textcore/internal/event"
	"github.com/dshills/textcore/internal/event/events"
	"github.com/dshills/textcore/internal/logging"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Editor.Mode != "text/plain" {
		t.Errorf("Editor.Mode = %q, want text/plain", cfg.Editor.Mode)
	}
	if cfg.History.Depth != 1000 {
		t.Errorf("History.Depth = %d, want 1000", cfg.History.Depth)
	}
	if cfg.History.CoalesceWindow != 400*time.Millisecond {
		t.Errorf("History.CoalesceWindow = %v, want 400ms", cfg.History.CoalesceWindow)
	}
	if cfg.Highlight.Lookback != 40 {
		t.Errorf("Highlight.Lookback = %d, want 40", cfg.Highlight.Lookback)
	}
	if cfg.LogLevel() != logging.LevelInfo {
		t.Errorf("LogLevel() = %v, want INFO", cfg.LogLevel())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"empty mode", func(c *Config) { c.Editor.Mode = " " }, "editor.mode"},
		{"zero tab size", func(c *Config) { c.Editor.TabSize = 0 }, "editor.tabSize"},
		{"zero indent unit", func(c *Config) { c.Editor.IndentUnit = 0 }, "editor.indentUnit"},
		{"zero depth", func(c *Config) { c.History.Depth = 0 }, "history.depth"},
		{"negative window", func(c *Config) { c.History.CoalesceWindow = -1 }, "history.coalesceWindow"},
		{"zero budget", func(c *Config) { c.Highlight.Budget = 0 }, "highlight.budget"},
		{"zero lookback", func(c *Config) { c.Highlight.Lookback = 0 }, "highlight.lookback"},
		{"negative delay", func(c *Config) { c.Highlight.Delay = -time.Second }, "highlight.delay"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Errorf("failing path = %v, want %s", verr, tt.path)
			}
		})
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	err := cfg.Apply(map[string]any{
		"editor": map[string]any{
			"mode":     "javascript",
			"tabSize":  int64(8),
			"readOnly": true,
		},
		"history": map[string]any{
			"depth":          float64(10),
			"coalesceWindow": "1s",
		},
		"highlight": map[string]any{
			"budget": 50,
			"delay":  25 * time.Millisecond,
		},
	})
	if err != nil {
		t.Fatalf("Apply() = %v", err)
	}

	if cfg.Editor.Mode != "javascript" || cfg.Editor.TabSize != 8 || !cfg.Editor.ReadOnly {
		t.Errorf("Editor = %+v", cfg.Editor)
	}
	if cfg.History.Depth != 10 || cfg.History.CoalesceWindow != time.Second {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Highlight.Budget != 50*time.Millisecond || cfg.Highlight.Delay != 25*time.Millisecond {
		t.Errorf("Highlight = %+v", cfg.Highlight)
	}
	if cfg.Editor.IndentUnit != 2 {
		t.Errorf("untouched IndentUnit = %d, want 2", cfg.Editor.IndentUnit)
	}
}

func TestApplyErrors(t *testing.T) {
	cfg := Default()
	err := cfg.Apply(map[string]any{
		"editor": map[string]any{
			"tabSize": "wide",
			"mode":    "css",
		},
		"history": map[string]any{"depth": 1.5},
		"ui":      map[string]any{"theme": "dark"},
	})

	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("error = %v, want ErrTypeMismatch", err)
	}
	if !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("error = %v, want ErrUnknownSetting", err)
	}
	var terr *TypeError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TypeError", err)
	}
	if cfg.Editor.Mode != "css" {
		t.Errorf("valid key not applied: mode = %q", cfg.Editor.Mode)
	}
	if cfg.Editor.TabSize != 4 {
		t.Errorf("invalid key applied: tabSize = %d", cfg.Editor.TabSize)
	}
}

func TestLoadFormats(t *testing.T) {
	fsys := fstest.MapFS{
		"textcore.toml": {Data: []byte("[editor]\nmode = \"css\"\ntabSize = 2\n[history]\ncoalesceWindow = \"250ms\"\n")},
		"textcore.yaml": {Data: []byte("editor:\n  mode: css\n  tabSize: 2\nhistory:\n  coalesceWindow: 250ms\n")},
		"textcore.json": {Data: []byte(`{"editor": {"mode": "css", "tabSize": 2}, "history": {"coalesceWindow": 250}}`)},
	}

	for _, name := range []string{"textcore.toml", "textcore.yaml", "textcore.json"} {
		name := name
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(name, WithFS(fsys), WithoutEnv())
			if err != nil {
				t.Fatalf("Load() = %v", err)
			}
			if cfg.Editor.Mode != "css" || cfg.Editor.TabSize != 2 {
				t.Errorf("Editor = %+v", cfg.Editor)
			}
			if cfg.History.CoalesceWindow != 250*time.Millisecond {
				t.Errorf("CoalesceWindow = %v, want 250ms", cfg.History.CoalesceWindow)
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("absent.toml", WithFS(fstest.MapFS{}), WithoutEnv())
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.toml":     {Data: []byte("[editor\n")},
		"invalid.toml": {Data: []byte("[editor]\ntabSize = -1\n")},
	}

	_, err := Load("bad.toml", WithFS(fsys), WithoutEnv())
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("bad.toml: error = %v, want *ParseError", err)
	}

	_, err = Load("invalid.toml", WithFS(fsys), WithoutEnv())
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("invalid.toml: error = %v, want ErrValidationFailed", err)
	}

	_, err = Load("c.ini", WithFS(fsys), WithoutEnv())
	if !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Errorf("c.ini: error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("TEXTCORE_TAB_SIZE", "3")
	t.Setenv("TEXTCORE_HIGHLIGHT_LOOKBACK", "12")
	t.Setenv("TEXTCORE_LOG_LEVEL", "debug")

	fsys := fstest.MapFS{
		"textcore.toml": {Data: []byte("[editor]\ntabSize = 2\nmode = \"css\"\n")},
	}
	cfg, err := Load("textcore.toml", WithFS(fsys))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.Editor.TabSize != 3 {
		t.Errorf("TabSize = %d, want 3 from env", cfg.Editor.TabSize)
	}
	if cfg.Editor.Mode != "css" {
		t.Errorf("Mode = %q, want css from file", cfg.Editor.Mode)
	}
	if cfg.Highlight.Lookback != 12 {
		t.Errorf("Lookback = %d, want 12", cfg.Highlight.Lookback)
	}
	if cfg.LogLevel() != logging.LevelDebug {
		t.Errorf("LogLevel() = %v, want DEBUG", cfg.LogLevel())
	}
}

func TestLoadCustomEnvPrefix(t *testing.T) {
	t.Setenv("MYED_EDITOR_INDENT_UNIT", "4")

	cfg, err := Load("", WithEnvPrefix("MYED_"))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Editor.IndentUnit != 4 {
		t.Errorf("IndentUnit = %d, want 4", cfg.Editor.IndentUnit)
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textcore.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntabSize = 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	bus := event.NewBus()
	var mu sync.Mutex
	var reloaded, failed int
	bus.Subscribe(events.TopicConfigReloaded, event.Typed(func(_ context.Context, _ event.Event[events.ConfigReloaded]) error {
		mu.Lock()
		reloaded++
		mu.Unlock()
		return nil
	}))
	bus.Subscribe(events.TopicConfigReloadFailed, event.Typed(func(_ context.Context, _ event.Event[events.ConfigReloadFailed]) error {
		mu.Lock()
		failed++
		mu.Unlock()
		return nil
	}))

	got := make(chan *Config, 4)
	r, err := Watch(path, func(c *Config) { got <- c },
		WithoutEnv(), WithBus(bus), WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() = %v", err)
	}
	defer r.Close()

	if r.Current().Editor.TabSize != 2 {
		t.Fatalf("initial TabSize = %d, want 2", r.Current().Editor.TabSize)
	}

	if err := os.WriteFile(path, []byte("[editor]\ntabSize = 6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-got:
		if c.Editor.TabSize != 6 {
			t.Errorf("reloaded TabSize = %d, want 6", c.Editor.TabSize)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called after write")
	}

	if err := os.WriteFile(path, []byte("[editor\n"), 0644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		f := failed
		mu.Unlock()
		if f > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if reloaded < 1 {
		t.Errorf("reloaded events = %d, want >= 1", reloaded)
	}
	if failed < 1 {
		t.Errorf("failed events = %d, want >= 1", failed)
	}
	if r.Current().Editor.TabSize != 6 {
		t.Errorf("failed reload replaced config: TabSize = %d", r.Current().Editor.TabSize)
	}
}
