package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the persisted catalog file and invokes a reload callback
// when an operator edits it out-of-band (outside the admin API). Events are
// debounced so editors that write through temp files do not trigger a storm
// of reloads.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	running bool
}

// NewWatcher creates a watcher for the catalog file at path.
// A debounce of zero uses the 100ms default.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default().With("component", "catalog.watcher")
	}
	return &Watcher{path: path, debounce: debounce, logger: logger}
}

// Watch blocks, delivering debounced change notifications to onReload until
// the context is cancelled. The watch is registered on the parent directory:
// atomic-rename writers replace the file inode, and watching the directory
// is the only way to keep seeing it afterwards.
func (w *Watcher) Watch(ctx context.Context, onReload func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch directory %q: %w", dir, err)
	}

	w.logger.Info("catalog watcher started",
		"path", w.path,
		"debounce_ms", w.debounce.Milliseconds(),
	)

	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("catalog watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.Debug("catalog file event", "path", event.Name, "op", event.Op.String())

			w.trigger(func() {
				w.logger.Info("reloading catalog", "path", w.path)
				if err := onReload(); err != nil {
					w.logger.Error("catalog reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("catalog watcher error", "error", err)
		}
	}
}

// trigger schedules fn after the debounce interval, resetting any pending run.
func (w *Watcher) trigger(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, fn)
}
