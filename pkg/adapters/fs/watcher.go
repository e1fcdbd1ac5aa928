package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// ErrWatcherStopped is returned when Start is called on a watcher whose event
// loop has already exited.
var ErrWatcherStopped = errors.New("watcher stopped")

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reporting a change.
const DefaultDebounce = 100 * time.Millisecond

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watcher calls OnChange when files matching any of its patterns are
// created, written, removed or renamed. Events arriving within the debounce
// window are coalesced into a single call. Calls never overlap. A Watcher runs
// once and cannot be restarted after its loop exits.
type Watcher struct {
	patterns []string
	onChange func(ctx context.Context, paths []string)
	logger   *slog.Logger
	debounce time.Duration

	// flushMu serializes onChange.
	flushMu sync.Mutex

	mu      sync.Mutex
	active  bool
	stopped bool
	pending map[string]struct{}
	timer   *time.Timer
	fired   int
	done    chan struct{}
}

// NewWatcher creates a watcher over doublestar patterns.
func NewWatcher(patterns []string, onChange func(ctx context.Context, paths []string), opts ...WatchOption) *Watcher {
	w := &Watcher{
		patterns: patterns,
		onChange: onChange,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce: DefaultDebounce,
		pending:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. The event loop runs until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherStopped
	}
	if w.active {
		w.mu.Unlock()
		return fmt.Errorf("watcher already started")
	}
	w.active = true
	w.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.setActive(false)
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	for _, p := range w.patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		if err := recursiveAdd(watcher, filepath.FromSlash(base)); err != nil {
			_ = watcher.Close()
			w.setActive(false)
			return err
		}
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		return w.run(ctx, watcher)
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error("watcher stopped", "error", err)
	}))
	return nil
}

// Done is closed once the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher) (err error) {
	defer close(w.done)
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			// Stacks only at debug level to keep production logs short.
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.markStopped()
	defer watcher.Close()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, watcher, event)

		case wErr, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) {
	w.logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	// Newly created directories may hold matching files later on.
	if event.Has(fsnotify.Create) {
		if err := recursiveAdd(watcher, event.Name); err != nil {
			w.logger.Debug("failed to watch new path", "path", event.Name, "error", err)
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.Matches(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[event.Name] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
}

func (w *Watcher) flush(ctx context.Context) {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()
	if ctx.Err() != nil {
		return
	}

	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	w.timer = nil
	w.fired++
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	w.onChange(ctx, paths)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Matches reports whether path matches one of the watched patterns.
func (w *Watcher) Matches(path string) bool {
	for _, p := range w.patterns {
		if ok, _ := doublestar.PathMatch(filepath.Clean(p), filepath.Clean(path)); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) markStopped() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = false
	w.stopped = true
}

func (w *Watcher) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}

// recursiveAdd watches root and every directory below it.
// A root that is a file, or that does not exist, is ignored.
func recursiveAdd(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// WatcherState exposes internal state for observability.
type WatcherState struct {
	Patterns []string `json:"patterns"`
	Active   bool     `json:"active"`
	Pending  int      `json:"pending"`
	Fired    int      `json:"fired"`
}

// State implements introspection.Introspectable.
func (w *Watcher) State() any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WatcherState{
		Patterns: w.patterns,
		Active:   w.active,
		Pending:  len(w.pending),
		Fired:    w.fired,
	}
}

// ComponentType implements introspection.Component.
func (w *Watcher) ComponentType() string {
	return "watcher"
}

var _ introspection.Introspectable = (*Watcher)(nil)
var _ introspection.Component = (*Watcher)(nil)
