package config

import (
	"fmt"
	"time"

	"github.com/dshills/textcore/internal/config/loader"
	"github.com/dshills/textcore/internal/event"
	"github.com/dshills/textcore/internal/logging"
)

type options struct {
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool
	bus       *event.Bus
	logger    *logging.Logger
	debounce  time.Duration
}

// Option configures Load and Watch.
type Option func(*options)

// WithFS sets the file system config files are read from.
func WithFS(fs loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithEnvPrefix sets the environment variable prefix (default "TEXTCORE_").
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithoutEnv disables environment overrides.
func WithoutEnv() Option {
	return func(o *options) {
		o.useEnv = false
	}
}

// WithBus publishes reload results on bus.
func WithBus(bus *event.Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithLogger sets the logger used by Watch.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDebounce sets the quiet period Watch waits before reloading.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

func buildOptions(opts []Option) options {
	o := options{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
		logger:    logging.Nop(),
		debounce:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load builds a Config from the defaults, the file at path (skipped when
// path is empty or missing) and the environment, in that order of
// precedence. The result is validated.
func Load(path string, opts ...Option) (*Config, error) {
	return load(path, buildOptions(opts))
}

func load(path string, o options) (*Config, error) {
	var merged map[string]any

	if path != "" {
		fl, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		data, err := fl.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	if o.useEnv {
		data, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg := Default()
	if err := cfg.Apply(merged); err != nil {
		return nil, fmt.Errorf("applying %s: %w", displayPath(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", displayPath(path), err)
	}
	return cfg, nil
}

func displayPath(path string) string {
	if path == "" {
		return "config"
	}
	return path
}
