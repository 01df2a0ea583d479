package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/config/watcher"
	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/event"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/render"
)

// viewer prints an engine's lines and reprints the dirty ones after
// updates.
type viewer struct {
	mu sync.Mutex

	e       *engine.Engine
	bus     *event.Bus
	out     io.Writer
	w       *render.Writer
	tracker *render.Tracker
	logger  *logging.Logger
}

func newViewer(e *engine.Engine, bus *event.Bus, out io.Writer, logger *logging.Logger, opts ...render.WriterOption) (*viewer, error) {
	v := &viewer{
		e:       e,
		bus:     bus,
		out:     out,
		w:       render.NewWriter(out, opts...),
		tracker: render.NewTracker(e.ID()),
		logger:  logger.WithComponent("viewer"),
	}
	if err := v.tracker.Attach(bus); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *viewer) close() {
	v.tracker.Detach(v.bus)
}

// settle runs the highlighter until the document is fully styled.
func (v *viewer) settle() {
	for v.e.Tick() {
	}
}

// renderAll prints the whole document.
func (v *viewer) renderAll() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.settle()
	v.tracker.Take()
	return v.w.Lines(v.e, 0, v.e.LineCount())
}

// renderDirty prints the lines changed since the last render, each under
// a header naming its range.
func (v *viewer) renderDirty() error {
	v.settle()
	d := v.tracker.Take()

	n := v.e.LineCount()
	regions := d.Regions
	switch {
	case d.Full:
		regions = []render.Region{{Start: 0, End: n}}
	case d.MovedFrom >= 0:
		regions = append(regions, render.Region{Start: d.MovedFrom, End: n})
	}

	printed := 0
	for _, r := range regions {
		from := max(r.Start, printed)
		to := min(r.End, n)
		if from >= to {
			continue
		}
		if _, err := fmt.Fprintf(v.out, "@@ %d,%d @@\n", from+1, to-from); err != nil {
			return err
		}
		if err := v.w.Lines(v.e, from, to); err != nil {
			return err
		}
		printed = to
	}
	return nil
}

// update replaces the document with text, touching only the lines that
// differ, and reprints them.
func (v *viewer) update(text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	d, ok := diffLines(v.e.Value(), text)
	if !ok {
		return nil
	}
	v.e.Replace(d.Text, d.From, d.To)
	return v.renderDirty()
}

func (v *viewer) applyConfig(cfg *config.Config) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// The viewer never edits through input; keep the document read-only.
	c := *cfg
	c.Editor.ReadOnly = true
	if err := v.e.ApplyConfig(&c); err != nil {
		v.logger.Warn("applying config: %v", err)
		return
	}
	if err := v.renderDirty(); err != nil {
		v.logger.Warn("rendering: %v", err)
	}
}

// follow watches path and feeds its content into the engine on every
// change. The returned function stops watching.
func (v *viewer) follow(path string) (func(), error) {
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		v.logger.Warn("watching %s: %v", path, err)
	}))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}

	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			v.logger.Info("%s %s", ev.Path, ev.Op)
			return
		}
		src, err := os.ReadFile(path)
		if err != nil {
			v.logger.Warn("reading %s: %v", path, err)
			return
		}
		if err := v.update(string(src)); err != nil {
			v.logger.Warn("rendering: %v", err)
		}
	})
	w.Start()
	return func() { _ = w.Close() }, nil
}
