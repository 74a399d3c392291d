// Package inbox watches a directory for partner snapshot files. It lets
// `mate match --watch` wait until a partner drops their export next to ours.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"matebuilder/internal/logging"
	"matebuilder/internal/snapshot"
)

// DefaultSettle is how long a file must stay quiet before it is read.
const DefaultSettle = 300 * time.Millisecond

// Arrival is a snapshot file that appeared in the inbox. Err is set when the
// file could not be decoded; the snapshot is then zero.
type Arrival struct {
	Path     string
	Snapshot snapshot.Snapshot
	Err      error
}

// Options configures a Watcher.
type Options struct {
	// Name restricts the watcher to one file base name. Empty means any
	// *.json file.
	Name string
	// Settle overrides DefaultSettle.
	Settle time.Duration
	// Ignore lists absolute paths that are never reported, such as the
	// user's own export.
	Ignore []string
}

// Stats counts watcher activity.
type Stats struct {
	Events    int
	Delivered int
	Rejected  int
	Errors    int
}

// Watcher reports snapshot files written into a directory.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	dir     string
	name    string
	settle  time.Duration
	ignore  map[string]bool
	pending map[string]time.Time
	out     chan Arrival
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	stats   Stats
}

// New creates a watcher for dir. Call Start to begin delivering arrivals.
func New(dir string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve inbox dir: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	ignore := make(map[string]bool, len(opts.Ignore))
	for _, p := range opts.Ignore {
		if a, err := filepath.Abs(p); err == nil {
			ignore[a] = true
		}
	}
	return &Watcher{
		watcher: fw,
		dir:     abs,
		name:    opts.Name,
		settle:  opts.Settle,
		ignore:  ignore,
		pending: make(map[string]time.Time),
		out:     make(chan Arrival, 8),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Arrivals delivers decoded files. It is closed after Stop.
func (w *Watcher) Arrivals() <-chan Arrival {
	return w.out
}

// Start creates the directory if needed, queues files already present and
// begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.add(); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	logging.Match("inbox: watching %s", w.dir)

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logging.MatchDebug("inbox: initial scan failed: %v", err)
	}
	w.mu.Lock()
	for _, e := range entries {
		path := filepath.Join(w.dir, e.Name())
		if !e.IsDir() && w.wants(path) {
			w.pending[path] = time.Time{}
		}
	}
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

func (w *Watcher) add() error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create inbox dir: %w", err)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	return nil
}

// Close releases the watcher without starting it.
func (w *Watcher) Close() error {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if running {
		w.Stop()
		return nil
	}
	return w.watcher.Close()
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryMatch).Error("inbox: error closing watcher: %v", err)
	}
	logging.MatchDebug("inbox: stopped")
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) wants(path string) bool {
	if w.ignore[path] {
		return false
	}
	base := filepath.Base(path)
	if w.name != "" {
		return base == w.name
	}
	return strings.EqualFold(filepath.Ext(base), ".json") && !strings.HasPrefix(base, ".")
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.out)

	tick := time.NewTicker(w.settle / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryMatch).Error("inbox: watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-tick.C:
			if !w.flush(ctx) {
				return
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !w.wants(ev.Name) {
		return
	}
	logging.MatchDebug("inbox: %s %s", ev.Op, ev.Name)

	w.mu.Lock()
	w.stats.Events++
	w.pending[ev.Name] = time.Now()
	w.mu.Unlock()
}

// flush reads settled files. It returns false when the loop should stop.
func (w *Watcher) flush(ctx context.Context) bool {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()
	sort.Strings(ready)

	for _, path := range ready {
		s, err := snapshot.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		w.mu.Lock()
		if err != nil {
			w.stats.Rejected++
		} else {
			w.stats.Delivered++
		}
		w.mu.Unlock()
		if err != nil {
			logging.Match("inbox: %s is not a valid snapshot: %v", filepath.Base(path), err)
		}

		select {
		case w.out <- Arrival{Path: path, Snapshot: s, Err: err}:
		case <-ctx.Done():
			return false
		case <-w.stopCh:
			return false
		}
	}
	return true
}

// Wait watches dir until a valid snapshot arrives and returns it with its
// path. Invalid files are skipped since they may still be being written.
func Wait(ctx context.Context, dir string, opts Options) (snapshot.Snapshot, string, error) {
	w, err := New(dir, opts)
	if err != nil {
		return snapshot.Snapshot{}, "", err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Close()
		return snapshot.Snapshot{}, "", err
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return snapshot.Snapshot{}, "", ctx.Err()
		case a, ok := <-w.Arrivals():
			if !ok {
				return snapshot.Snapshot{}, "", ctx.Err()
			}
			if a.Err == nil {
				return a.Snapshot, a.Path, nil
			}
		}
	}
}
