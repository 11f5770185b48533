// Package watcher polls a project tree for source file changes and
// delivers them as debounced batches of absolute paths.
//
// Polling keeps the behavior identical across platforms. Each poll
// re-lists the tree and stats every file; new, modified, and deleted
// paths are conflated into one batch per quiet period, so a burst of
// saves triggers a single refresh.
package watcher

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/codescout/scout/internal/scan"
)

// EventType classifies a detected change.
type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
)

// String returns a string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Event is one detected file change.
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// BatchHandler receives one debounced batch of changed absolute paths,
// sorted and deduplicated.
type BatchHandler func(paths []string)

const (
	defaultInterval = 2 * time.Second
	defaultDebounce = 300 * time.Millisecond
)

// fileState is the per-file signature compared between polls.
type fileState struct {
	size    int64
	modTime time.Time
}

// Watcher polls a project root and reports changed files in batches.
type Watcher struct {
	root     string
	lister   *scan.Lister
	interval time.Duration
	handler  BatchHandler
	batch    *BatchDebouncer

	mu      sync.Mutex
	known   map[string]fileState
	logFunc func(format string, args ...interface{})

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher over root. A nil lister lists every recognized
// file; non-positive interval and debounce fall back to defaults.
func New(root string, lister *scan.Lister, interval, debounce time.Duration, handler BatchHandler) *Watcher {
	if lister == nil {
		lister = &scan.Lister{}
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		root:     root,
		lister:   lister,
		interval: interval,
		handler:  handler,
		known:    make(map[string]fileState),
		ctx:      ctx,
		cancel:   cancel,
	}
	w.batch = NewBatchDebouncer(debounce, w.emit)
	return w
}

// SetLogger sets a logging function for watcher activity.
func (w *Watcher) SetLogger(logFunc func(format string, args ...interface{})) {
	w.logFunc = logFunc
}

func (w *Watcher) log(format string, args ...interface{}) {
	if w.logFunc != nil {
		w.logFunc(format, args...)
	}
}

// Start primes the known-file state and begins polling. Changes made
// before Start returns are not reported.
func (w *Watcher) Start() error {
	states, err := w.snapshot()
	if err != nil {
		return fmt.Errorf("prime watcher: %w", err)
	}
	w.mu.Lock()
	w.known = states
	w.mu.Unlock()

	w.log("watching %s (%d files, poll %v)", w.root, len(states), w.interval)

	w.wg.Add(1)
	go w.run()
	return nil
}

// Stop ends polling and drops any pending batch.
func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
	w.batch.Cancel()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.poll()
		case <-w.ctx.Done():
			return
		}
	}
}

// poll lists the tree, diffs it against the known state, and queues
// events for changed paths.
func (w *Watcher) poll() {
	current, err := w.snapshot()
	if err != nil {
		w.log("watch poll failed: %v", err)
		return
	}
	now := time.Now()

	w.mu.Lock()
	previous := w.known
	w.known = current
	w.mu.Unlock()

	for path, state := range current {
		old, ok := previous[path]
		if !ok {
			w.batch.Add(Event{Type: EventCreate, Path: path, Timestamp: now})
			continue
		}
		if old.size != state.size || !old.modTime.Equal(state.modTime) {
			w.batch.Add(Event{Type: EventModify, Path: path, Timestamp: now})
		}
	}
	for path := range previous {
		if _, ok := current[path]; !ok {
			w.batch.Add(Event{Type: EventDelete, Path: path, Timestamp: now})
		}
	}
}

// snapshot stats every listed file under the root.
func (w *Watcher) snapshot() (map[string]fileState, error) {
	res, err := w.lister.List(w.root)
	if err != nil {
		return nil, err
	}
	states := make(map[string]fileState, len(res.Paths))
	for _, path := range res.Paths {
		info, err := os.Stat(path)
		if err != nil {
			// Vanished between listing and stat; treated as absent.
			continue
		}
		states[path] = fileState{size: info.Size(), modTime: info.ModTime()}
	}
	return states, nil
}

// emit conflates queued events into one sorted batch of unique paths.
func (w *Watcher) emit(events []Event) {
	seen := make(map[string]struct{}, len(events))
	paths := make([]string, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.Path]; ok {
			continue
		}
		seen[ev.Path] = struct{}{}
		paths = append(paths, ev.Path)
	}
	sort.Strings(paths)

	w.log("change batch: %d events, %d paths", len(events), len(paths))
	if w.handler != nil {
		w.handler(paths)
	}
}
