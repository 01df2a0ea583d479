package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

// recorder collects delivered events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) waitFor(t *testing.T, pred func(Event) bool) Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, e := range r.snapshot() {
			if pred(e) {
				return e
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected event was not delivered")
	return Event{}
}

func TestNew(t *testing.T) {
	w := newWatcher(t)
	if w.debounce != 100*time.Millisecond {
		t.Errorf("default debounce = %v, want 100ms", w.debounce)
	}

	w = newWatcher(t, WithDebounce(50*time.Millisecond))
	if w.debounce != 50*time.Millisecond {
		t.Errorf("debounce = %v, want 50ms", w.debounce)
	}
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "textcore.toml")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "textcore.yaml")

	w := newWatcher(t)
	if err := w.Watch(existing); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Watch(missing); err != nil {
		t.Fatalf("Watch() for missing file error = %v", err)
	}
	if err := w.Watch(existing); err != nil {
		t.Fatalf("second Watch() error = %v", err)
	}
	if got := len(w.WatchedFiles()); got != 2 {
		t.Errorf("WatchedFiles() = %d files, want 2", got)
	}
	if w.dirs[dir] != 2 {
		t.Errorf("dir refcount = %d, want 2", w.dirs[dir])
	}

	if err := w.Unwatch(existing); err != nil {
		t.Fatalf("Unwatch() error = %v", err)
	}
	if err := w.Unwatch(missing); err != nil {
		t.Fatalf("Unwatch() error = %v", err)
	}
	if got := len(w.WatchedFiles()); got != 0 {
		t.Errorf("WatchedFiles() = %d files, want 0", got)
	}
	if _, ok := w.dirs[dir]; ok {
		t.Error("directory should no longer be watched")
	}
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w := newWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "c.toml")); err == nil {
		t.Error("Watch() in a missing directory should fail")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w := newWatcher(t)

	if w.IsRunning() {
		t.Error("IsRunning() = true before Start()")
	}
	w.Start()
	w.Start()
	if !w.IsRunning() {
		t.Error("IsRunning() = false after Start()")
	}
	w.Stop()
	w.Stop()
	if w.IsRunning() {
		t.Error("IsRunning() = true after Stop()")
	}
}

func TestWatcher_Closed(t *testing.T) {
	w := newWatcher(t)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "c.toml")); err != ErrClosed {
		t.Errorf("Watch() after Close = %v, want ErrClosed", err)
	}
	w.Start()
	if w.IsRunning() {
		t.Error("closed watcher should not start")
	}
}

func TestWatcher_DetectsModification(t *testing.T) {
	file := filepath.Join(t.TempDir(), "textcore.toml")
	if err := os.WriteFile(file, []byte("initial"), 0644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t, WithDebounce(0))
	rec := &recorder{}
	w.OnChange(rec.handle)
	if err := w.Watch(file); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(file, []byte("modified"), 0644); err != nil {
		t.Fatal(err)
	}

	e := rec.waitFor(t, func(e Event) bool { return e.Op == OpWrite })
	if e.Path != file {
		t.Errorf("event.Path = %q, want %q", e.Path, file)
	}
}

func TestWatcher_DetectsCreationAndRemoval(t *testing.T) {
	file := filepath.Join(t.TempDir(), "new.toml")

	w := newWatcher(t, WithDebounce(0))
	rec := &recorder{}
	w.OnChange(rec.handle)
	if err := w.Watch(file); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(file, []byte("created"), 0644); err != nil {
		t.Fatal(err)
	}
	rec.waitFor(t, func(e Event) bool { return e.Op == OpCreate })

	if err := os.Remove(file); err != nil {
		t.Fatal(err)
	}
	rec.waitFor(t, func(e Event) bool { return e.Op == OpRemove })
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "textcore.toml")
	sibling := filepath.Join(dir, "other.toml")

	w := newWatcher(t, WithDebounce(0))
	rec := &recorder{}
	w.OnChange(rec.handle)
	if err := w.Watch(file); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(sibling, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	rec.waitFor(t, func(e Event) bool { return e.Path == file })

	for _, e := range rec.snapshot() {
		if e.Path == sibling {
			t.Errorf("unexpected event for %s", sibling)
		}
	}
}

func TestWatcher_Debounce(t *testing.T) {
	file := filepath.Join(t.TempDir(), "debounce.toml")
	if err := os.WriteFile(file, []byte("initial"), 0644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t, WithDebounce(150*time.Millisecond))
	var count atomic.Int32
	w.OnChange(func(Event) { count.Add(1) })
	if err := w.Watch(file); err != nil {
		t.Fatal(err)
	}
	w.Start()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(file, []byte("modified"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(400 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Errorf("received %d events, want 1", got)
	}
}

func TestWatcher_PanickingHandler(t *testing.T) {
	file := filepath.Join(t.TempDir(), "panic.toml")

	w := newWatcher(t, WithDebounce(0))
	rec := &recorder{}
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(rec.handle)
	if err := w.Watch(file); err != nil {
		t.Fatal(err)
	}
	w.Start()

	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	rec.waitFor(t, func(Event) bool { return true })
}
