package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"frecfind/internal/domain"
	"frecfind/internal/eventbus"
	"frecfind/internal/track"
)

// Watcher observes workspace directories and synthesizes usage events from
// filesystem activity: a created file counts as an open, a write as a
// manual save (debounced per burst), a created directory joins the watch
// set and counts as a directory visit.
type Watcher struct {
	bus eventbus.EventBus
	fsw *fsnotify.Watcher

	// Write debouncing is per path. A single shared debouncer would let a
	// write to one file swallow the pending save of another.
	mu       sync.Mutex
	writes   map[string]*track.Debouncer
	debounce time.Duration
}

// New creates a watcher publishing usage events to the bus. Write bursts
// to the same path within the debounce window collapse into one save event.
func New(bus eventbus.EventBus, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}

	return &Watcher{
		bus:      bus,
		fsw:      fsw,
		writes:   make(map[string]*track.Debouncer),
		debounce: debounce,
	}, nil
}

// AddRoot recursively adds a directory tree to the watch set, skipping
// hidden directories and common dependency/build trees.
func (w *Watcher) AddRoot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	return filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("Error walking path %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skipDir(d.Name()) && path != abs {
			return fs.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			log.Printf("Failed to watch %s: %v", path, err)
		}
		return nil
	})
}

// Run processes filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context, roots []string) error {
	for _, root := range roots {
		if err := w.AddRoot(root); err != nil {
			return err
		}
	}
	w.bus.Publish(eventbus.WatchStartedEvent{Roots: roots})

	defer w.stopWrites()
	defer w.fsw.Close()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handle maps one fsnotify event to usage events.
func (w *Watcher) handle(ev fsnotify.Event) {
	switch {
	case ev.Op.Has(fsnotify.Create):
		info, err := os.Stat(ev.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if skipDir(filepath.Base(ev.Name)) {
				return
			}
			if err := w.fsw.Add(ev.Name); err != nil {
				log.Printf("Failed to watch new directory %s: %v", ev.Name, err)
			}
			w.bus.Publish(eventbus.WorkspaceAddedEvent{Path: ev.Name})
			w.publish(ev.Name, domain.KindDirVisit)
			return
		}
		w.publish(ev.Name, domain.KindOpen)

	case ev.Op.Has(fsnotify.Write):
		w.write(ev.Name)
	}
}

// write debounces one path's write burst into a single save event.
func (w *Watcher) write(path string) {
	w.mu.Lock()
	d, ok := w.writes[path]
	if !ok {
		d = track.NewDebouncer(w.debounce, func(p string) {
			w.mu.Lock()
			delete(w.writes, p)
			w.mu.Unlock()
			w.publish(p, domain.KindManualSave)
		})
		w.writes[path] = d
	}
	w.mu.Unlock()

	d.Call(path)
}

// stopWrites cancels every pending save.
func (w *Watcher) stopWrites() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range w.writes {
		d.Stop()
	}
	w.writes = make(map[string]*track.Debouncer)
}

func (w *Watcher) publish(path string, kind domain.EventKind) {
	w.bus.Publish(eventbus.UsageObservedEvent{
		Event: domain.UsageEvent{Path: path, Kind: kind, Scheme: domain.SchemeFile},
	})
}

// skipDir reports whether a directory name should be excluded from the
// watch set.
func skipDir(name string) bool {
	switch name {
	case "node_modules", "vendor", "dist", "build", "target",
		"__pycache__", ".cache", ".venv", "venv":
		return true
	}
	return strings.HasPrefix(name, ".") && name != "."
}
