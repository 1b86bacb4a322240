package ttl

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"ontoplan/internal/logging"
)

// DiffFunc is called with the newly-created snapshot path and its diff
// against the previous version in the same directory, once per detected
// dynamic_N.ttl. Errors from the diff step are passed through rather than
// silently dropped, so a caller can decide whether to keep watching.
type DiffFunc func(path string, added, removed int, err error)

// Watcher watches a world directory for new dynamic_N.ttl snapshots and
// re-diffs each one against its predecessor as it appears, for an
// external environment-authoring tool dropping versions outside of
// ExecuteAction's own versioning. Grounded on the teacher's
// internal/core's MangleWatcher (fsnotify.Watcher plus a debounce map
// over rapid writes), narrowed to the one event this package cares
// about: a new dynamic_N.ttl file landing in worldDir.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	worldDir string
	seen    map[string]bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWatcher constructs a Watcher over worldDir. The directory need not
// exist yet; if Start cannot add it, Start logs a warning and the watcher
// reports no changes. The add is not retried.
func NewWatcher(worldDir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fsw,
		worldDir: worldDir,
		seen:     make(map[string]bool),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching worldDir in a goroutine, calling onDiff for every
// new dynamic_N.ttl that appears (highest N already on disk at call time
// is recorded as a baseline and not reported). Non-blocking.
func (w *Watcher) Start(ctx context.Context, onDiff DiffFunc) error {
	if err := w.watcher.Add(w.worldDir); err != nil {
		logging.TTLWarn("watch: initial watch of %s failed (dir may not exist yet): %v", w.worldDir, err)
	} else {
		logging.TTL("watch: watching %s for new dynamic_N.ttl snapshots", w.worldDir)
	}

	if n, err := NextVersion(w.worldDir, "dynamic"); err == nil {
		for i := 0; i < n; i++ {
			w.seen[filepath.Join(w.worldDir, versionName("dynamic", i))] = true
		}
	}

	go w.run(ctx, onDiff)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	_ = w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context, onDiff DiffFunc) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, onDiff)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.TTLError("watch: fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, onDiff DiffFunc) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	name := filepath.Base(event.Name)
	if !strings.HasPrefix(name, "dynamic_") || !strings.HasSuffix(name, ".ttl") {
		return
	}

	w.mu.Lock()
	if w.seen[event.Name] {
		w.mu.Unlock()
		return
	}
	w.seen[event.Name] = true
	w.mu.Unlock()

	n, err := versionNumber(name)
	if err != nil {
		return
	}
	if n == 0 {
		return
	}
	prev := filepath.Join(w.worldDir, versionName("dynamic", n-1))
	added, removed, diffErr := Diff(prev, event.Name)
	onDiff(event.Name, len(added), len(removed), diffErr)
}

func versionName(baseName string, n int) string {
	return baseName + "_" + strconv.Itoa(n) + ".ttl"
}

func versionNumber(fileName string) (int, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(fileName, "dynamic_"), ".ttl")
	return strconv.Atoi(trimmed)
}
