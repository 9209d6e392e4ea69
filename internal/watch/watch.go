// Package watch implements the optional --watch mode for check: a
// debounced re-run triggered by filesystem events under the project's
// source roots.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gauge-sh/boundary/internal/diaglog"
)

// DefaultDebounce matches the teacher's own default rebuild debounce.
const DefaultDebounce = 50 * time.Millisecond

// Watcher debounces filesystem events across one or more directory
// trees into a single RunFunc invocation per settled burst, the same
// shape as the teacher's DebouncedRebuilder but driven by fsnotify
// events instead of an explicit ScheduleRebuild call per file.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	run      RunFunc

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]bool
}

// RunFunc is invoked once per settled burst of filesystem events, with
// the set of changed paths that triggered it.
type RunFunc func(changed []string)

// New creates a Watcher rooted at every given source root, recursively
// registering every directory beneath it (fsnotify does not watch
// subtrees on its own).
func New(sourceRoots []string, debounce time.Duration, run RunFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{fsw: fsw, debounce: debounce, run: run, pending: map[string]bool{}}
	for _, root := range sourceRoots {
		if err := w.addTree(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

// Run blocks, dispatching debounced RunFunc calls until ctx is
// cancelled. A single leading SIGINT-equivalent cancellation drains and
// closes the underlying fsnotify watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			diaglog.Log("watch", "fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = map[string]bool{}
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	diaglog.Log("watch", "re-running check for %d changed path(s)", len(changed))
	w.run(changed)
}

// Close stops the watcher immediately, cancelling any pending debounce
// timer.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}
