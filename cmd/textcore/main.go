// Package main is the entry point for the textcore viewer. It loads a file
// into an editing engine, highlights it with the file's mode and prints it
// to the terminal. With -watch it follows the file and reprints the lines
// that changed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/event"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/mode"
	"github.com/dshills/textcore/internal/mode/luamode"
	"github.com/dshills/textcore/internal/render"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Options holds the parsed command line.
type Options struct {
	ConfigPath string
	Mode       string
	LuaModes   luaModes
	Color      string
	Numbers    bool
	Relative   bool
	LogLevel   string
	Watch      bool
	DumpConfig bool
	File       string
}

// luaModes collects repeated -lua name=path flags.
type luaModes map[string]string

func (l luaModes) String() string {
	parts := make([]string, 0, len(l))
	for name, path := range l {
		parts = append(parts, name+"="+path)
	}
	return strings.Join(parts, ",")
}

func (l luaModes) Set(v string) error {
	name, path, ok := strings.Cut(v, "=")
	if !ok || name == "" || path == "" {
		return fmt.Errorf("want name=path, got %q", v)
	}
	l[name] = path
	return nil
}

// extModes maps file extensions to mode names.
var extModes = map[string]string{
	".js":         "javascript",
	".mjs":        "javascript",
	".cjs":        "javascript",
	".json":       "json",
	".css":        "css",
	".properties": "properties",
	".ini":        "properties",
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger := logging.New(logging.DefaultConfig())

	bus := event.NewBus()
	cfgOpts := []config.Option{config.WithBus(bus), config.WithLogger(logger)}

	var (
		cfg    *config.Config
		err    error
		active atomic.Pointer[viewer]
	)
	if opts.Watch && opts.ConfigPath != "" {
		var reloader *config.Reloader
		reloader, err = config.Watch(opts.ConfigPath, func(c *config.Config) {
			if v := active.Load(); v != nil {
				v.applyConfig(c)
			}
		}, cfgOpts...)
		if err == nil {
			defer reloader.Close()
			cfg = reloader.Current()
		}
	} else {
		cfg, err = config.Load(opts.ConfigPath, cfgOpts...)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		logger.SetLevel(logging.ParseLevel(opts.LogLevel))
	} else {
		logger.SetLevel(cfg.LogLevel())
	}

	if opts.DumpConfig {
		data, err := cfg.JSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	src, err := os.ReadFile(opts.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	registry := engine.DefaultRegistry()
	for name, path := range opts.LuaModes {
		registry.Register(name, luaFactory(name, path, logger))
	}

	modeName := pickMode(opts, cfg, registry)
	e, err := engine.FromConfig(cfg,
		engine.WithContent(string(src)),
		engine.WithRegistry(registry),
		engine.WithMode(modeName),
		engine.WithReadOnly(true),
		engine.WithBus(bus),
		engine.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer e.Close()

	v, err := newViewer(e, bus, os.Stdout, logger, writerOptions(opts, e.LineCount())...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer v.close()
	active.Store(v)
	if err := v.renderAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if !opts.Watch {
		return 0
	}

	stop, err := v.follow(opts.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer stop()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	return 0
}

func luaFactory(name, path string, logger *logging.Logger) mode.Factory {
	return func(cfg mode.Config) (mode.Mode, error) {
		return luamode.NewFromFile(name, path, cfg, luamode.WithLogger(logger))
	}
}

// pickMode prefers -mode, then the file extension, then the configured mode.
func pickMode(opts Options, cfg *config.Config, registry *mode.Registry) string {
	if opts.Mode != "" {
		return opts.Mode
	}
	ext := strings.ToLower(filepath.Ext(opts.File))
	if name, ok := extModes[ext]; ok {
		return name
	}
	if _, ok := registry.Lookup(strings.TrimPrefix(ext, ".")); ok {
		return strings.TrimPrefix(ext, ".")
	}
	return cfg.Editor.Mode
}

func writerOptions(opts Options, lineCount int) []render.WriterOption {
	var color bool
	switch opts.Color {
	case "always":
		color = true
	case "auto":
		color = term.IsTerminal(int(os.Stdout.Fd()))
	}

	wopts := []render.WriterOption{render.WithColor(color)}
	switch {
	case opts.Relative:
		wopts = append(wopts, render.WithLineNumbers(render.LineNumberRelative, lineCount))
	case opts.Numbers:
		wopts = append(wopts, render.WithLineNumbers(render.LineNumberAbsolute, lineCount))
	}
	return wopts
}

func parseFlags() Options {
	opts := Options{LuaModes: luaModes{}}
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.Mode, "mode", "", "Mode name (default: from the file extension)")
	flag.StringVar(&opts.Mode, "m", "", "Mode name (shorthand)")
	flag.Var(opts.LuaModes, "lua", "Register a Lua mode as name=path (repeatable)")
	flag.StringVar(&opts.Color, "color", "auto", "Colour output (auto, always, never)")
	flag.BoolVar(&opts.Numbers, "n", false, "Show line numbers")
	flag.BoolVar(&opts.Relative, "relative", false, "Show relative line numbers")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error; default: from config)")
	flag.BoolVar(&opts.Watch, "watch", false, "Follow the file and reprint changed lines")
	flag.BoolVar(&opts.Watch, "w", false, "Follow the file (shorthand)")
	flag.BoolVar(&opts.DumpConfig, "dump-config", false, "Print the effective configuration as JSON and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "textcore - syntax highlighting file viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: textcore [options] file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  textcore app.js                    Print a highlighted file\n")
		fmt.Fprintf(os.Stderr, "  textcore -n -w app.js              Follow a file with line numbers\n")
		fmt.Fprintf(os.Stderr, "  textcore -lua toy=toy.lua -m toy x Use a Lua mode\n")
		fmt.Fprintf(os.Stderr, "  textcore -c conf.toml -dump-config Show the merged configuration\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("textcore %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if err := validate(opts, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	opts.File = flag.Arg(0)
	return opts
}

func validate(opts Options, args []string) error {
	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	}
	switch opts.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q (must be auto, always, or never)", opts.Color)
	}
	if len(args) != 1 && !opts.DumpConfig {
		return errors.New("exactly one file is required")
	}
	return nil
}
