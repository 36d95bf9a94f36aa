// Package watch reports changes to a fixed set of files.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for further events before
// reporting a batch.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches files through their parent directories, so files that
// are replaced by rename (as editors and atomic writers do) keep being seen.
type Watcher struct {
	Logger   *slog.Logger
	Debounce time.Duration

	watcher *fsnotify.Watcher
	files   map[string]bool
	mu      sync.Mutex
	running bool
}

// New creates a watcher for paths. Parent directories must exist.
func New(paths []string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		Logger:   logger,
		Debounce: DefaultDebounce,
		watcher:  fw,
		files:    make(map[string]bool),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run delivers batches of changed paths to onChange until ctx is done. The
// callback runs on the watcher goroutine; events arriving meanwhile are
// batched for the next call.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()
	defer w.watcher.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			path, ok := w.match(event)
			if !ok {
				continue
			}
			w.Logger.Debug("change detected", "path", path, "op", event.Op.String())
			pending[path] = true
			timer.Reset(w.Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watch error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			clear(pending)
			onChange(batch)
		}
	}
}

// match reports whether event concerns one of the watched files. Removals
// are ignored; a replaced file shows up as a create of the same name.
func (w *Watcher) match(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}
	if !w.files[abs] {
		return "", false
	}
	return abs, true
}
