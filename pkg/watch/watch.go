// Package watch triggers index rebuilds when files under a root change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bastiangx/symserve/pkg/discover"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces editor save bursts into one rebuild.
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc receives the sorted, de-duplicated paths that changed during
// one debounce window.
type ChangeFunc func(paths []string)

// Watcher watches a directory tree recursively.
type Watcher struct {
	filter   *discover.Filter
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange ChangeFunc
	logger   *log.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	done    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before onChange fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a watcher over filter's root. Call Run to start it.
func New(filter *discover.Filter, onChange ChangeFunc, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		filter:   filter,
		fsw:      fsw,
		debounce: DefaultDebounce,
		onChange: onChange,
		pending:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = log.Default()
	}
	if err := w.addRecursive(filter.Root()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addRecursive registers dir and every non-excluded directory below it.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.filter.SkipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Debugf("Cannot watch %s: %v", path, err)
		}
		return nil
	})
}

// Run processes events until ctx is cancelled or the watcher is closed.
// Pending changes are dropped on exit.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.done)
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnf("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.filter.SkipDir(event.Name) {
				return
			}
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Debugf("Cannot watch new directory %s: %v", event.Name, err)
			}
			w.schedule(event.Name)
			return
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.filter.Accept(event.Name) {
		return
	}
	w.schedule(event.Name)
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	w.timer = nil
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	slices.Sort(paths)
	w.logger.Debugf("Detected %d changed paths", len(paths))
	w.onChange(paths)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	clear(w.pending)
}

// Close stops watching. It is safe to call after Run has returned.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Done is closed when Run returns.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}
