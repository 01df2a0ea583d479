package config

import (
	"context"
	"sync"

	"github.com/dshills/textcore/internal/config/watcher"
	"github.com/dshills/textcore/internal/event"
	"github.com/dshills/textcore/internal/event/events"
)

// Reloader keeps a Config in sync with a file on disk.
type Reloader struct {
	mu      sync.RWMutex
	path    string
	opts    options
	current *Config
	handler func(*Config)
	w       *watcher.Watcher
}

// Watch loads path and reloads it whenever the file changes. handler is
// called with each successfully reloaded Config; a failed reload keeps
// the previous one. Results are published on the bus given by WithBus.
func Watch(path string, handler func(*Config), opts ...Option) (*Reloader, error) {
	o := buildOptions(opts)
	o.logger = o.logger.WithComponent("config")

	cfg, err := load(path, o)
	if err != nil {
		return nil, err
	}

	w, err := watcher.New(
		watcher.WithDebounce(o.debounce),
		watcher.WithErrorHandler(func(err error) {
			o.logger.Warn("watching %s: %v", path, err)
		}),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}

	r := &Reloader{
		path:    path,
		opts:    o,
		current: cfg,
		handler: handler,
		w:       w,
	}
	w.OnChange(r.onChange)
	w.Start()
	return r, nil
}

// Current returns the most recently loaded Config.
func (r *Reloader) Current() *Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.w.Close()
}

func (r *Reloader) onChange(ev watcher.Event) {
	log := r.opts.logger.WithField("path", r.path)
	if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
		log.Debug("file went away (%s), keeping current config", ev.Op)
		return
	}

	cfg, err := load(r.path, r.opts)
	if err != nil {
		log.Warn("reload after %s failed: %v", ev.Op, err)
		r.publish(event.NewEvent(events.TopicConfigReloadFailed,
			events.ConfigReloadFailed{Path: r.path, Err: err}, "config"))
		return
	}

	r.mu.Lock()
	r.current = cfg
	r.mu.Unlock()

	log.Info("config reloaded after %s", ev.Op)
	if r.handler != nil {
		r.handler(cfg)
	}
	r.publish(event.NewEvent(events.TopicConfigReloaded,
		events.ConfigReloaded{Path: r.path}, "config"))
}

func (r *Reloader) publish(ev any) {
	if r.opts.bus == nil {
		return
	}
	if err := r.opts.bus.Publish(context.Background(), ev); err != nil {
		r.opts.logger.Warn("publishing reload event: %v", err)
	}
}
