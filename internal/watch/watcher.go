// Package watch reruns the harness when a solution file is saved.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before the handler runs.
// Editors often write a file several times per save.
const DefaultDebounce = 500 * time.Millisecond

// ErrAlreadyStarted is returned by Start on a running watcher.
var ErrAlreadyStarted = errors.New("watcher already started")

// Handler is called once per settled change of a watched file. Calls are
// sequential.
type Handler func(ctx context.Context, path string)

// SolutionWatcher watches individual files. It watches their directories
// rather than the files so saves that replace the file (write to temp, then
// rename) are still seen.
type SolutionWatcher struct {
	watcher  *fsnotify.Watcher
	handler  Handler
	debounce time.Duration
	files    map[string]struct{}

	mu      sync.Mutex
	pending map[string]time.Time
	running bool
	handled int
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Option configures a SolutionWatcher.
type Option func(*SolutionWatcher)

// WithDebounce sets the quiet period before a change is handled.
func WithDebounce(d time.Duration) Option {
	return func(w *SolutionWatcher) {
		w.debounce = d
	}
}

// NewSolutionWatcher creates a watcher for files. Nothing is watched until
// Start is called.
func NewSolutionWatcher(files []string, handler Handler, opts ...Option) (*SolutionWatcher, error) {
	if len(files) == 0 {
		return nil, errors.New("no files to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &SolutionWatcher{
		watcher:  fw,
		handler:  handler,
		debounce: DefaultDebounce,
		files:    make(map[string]struct{}, len(files)),
		pending:  map[string]time.Time{},
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
	}
	return w, nil
}

// Start begins watching. It returns once the directories are registered;
// events are handled in a background goroutine until Stop is called or ctx
// is done.
func (w *SolutionWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyStarted
	}
	w.running = true
	w.mu.Unlock()

	dirs := map[string]struct{}{}
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			_ = w.watcher.Close()
			close(w.doneCh)
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		slog.Debug("Watching directory", "dir", dir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for a running handler to return.
func (w *SolutionWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
}

// Handled returns how many changes have been handled.
func (w *SolutionWatcher) Handled() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handled
}

func (w *SolutionWatcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Warn("Closing file watcher failed", "error", err)
		}
	}()

	tick := w.debounce / 5
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

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
			w.record(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", "error", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *SolutionWatcher) record(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	name := filepath.Clean(event.Name)
	if _, ok := w.files[name]; !ok {
		return
	}
	slog.Debug("Solution changed", "path", name, "op", event.Op.String())

	w.mu.Lock()
	w.pending[name] = time.Now()
	w.mu.Unlock()
}

func (w *SolutionWatcher) flush(ctx context.Context) {
	now := time.Now()
	var settled []string

	w.mu.Lock()
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		w.handler(ctx, path)
		w.mu.Lock()
		w.handled++
		w.mu.Unlock()
	}
}
