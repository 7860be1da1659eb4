// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     registry
// Description: fsnotify-based hot reload of tracked directories
// Author:      Mike Stoffels
// Created:     2025-12-11
// License:     MIT
// ============================================================================

package registry

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	mdwlog "github.com/msto63/propkit/foundation/core/log"
	"github.com/msto63/propkit/foundation/utils/filex"
	"github.com/msto63/propkit/pkg/logging"
)

// DefaultDebounce is how long a file must stay quiet before its changes
// are applied
const DefaultDebounce = 500 * time.Millisecond

// Watcher applies filesystem changes in tracked directories to a Registry.
// All registry access, including the caller's, must go through Do while
// the watcher runs.
type Watcher struct {
	mu       sync.Mutex
	registry *Registry
	watcher  *fsnotify.Watcher
	watched  map[string]bool
	debounce time.Duration
	logger   *logging.Logger
	onChange func(path string, op fsnotify.Op)

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	running  bool
	stopped  bool
}

// WatchOption configures a Watcher
type WatchOption func(*Watcher)

// WithDebounce sets the per-file quiet interval
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the watcher logger
func WithWatchLogger(logger *logging.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// OnChange registers a callback invoked after an event was applied. It
// runs with the registry lock held.
func OnChange(fn func(path string, op fsnotify.Op)) WatchOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// NewWatcher creates a watcher for r
func NewWatcher(r *Registry, opts ...WatchOption) *Watcher {
	w := &Watcher{
		registry: r,
		watched:  make(map[string]bool),
		debounce: DefaultDebounce,
		logger:   logging.New("registry-watch"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start watches every tracked directory until ctx is done or Stop is
// called. Starting a running watcher is a no-op; starting one whose loop
// has ended is an error.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if w.stopped {
		return mdwerror.New("watcher already stopped").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("registry.Watcher.Start")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create watcher").
			WithCode(mdwerror.CodeIOError).
			WithOperation("registry.Watcher.Start")
	}
	w.watcher = watcher

	if err := w.syncLocked(); err != nil {
		w.watcher.Close()
		w.watcher = nil
		w.watched = make(map[string]bool)
		return err
	}

	w.running = true
	w.logger.Info("started watching directories", "count", len(w.watched))

	go w.watchLoop(ctx)
	return nil
}

// Stop ends the watch loop and waits for it to exit. A stopped watcher
// cannot be started again.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return
	}

	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

// Do runs fn with exclusive access to the registry. Directories tracked
// after fn returns are added to the watch list.
func (w *Watcher) Do(fn func(*Registry)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	fn(w.registry)
	if w.watcher == nil {
		return nil
	}
	return w.syncLocked()
}

// syncLocked aligns the fsnotify watch list with the tracked directories
func (w *Watcher) syncLocked() error {
	tracked := make(map[string]bool)
	for _, info := range w.registry.Directories() {
		tracked[info.Path] = true
		if w.watched[info.Path] {
			continue
		}
		if err := w.watcher.Add(info.Path); err != nil {
			return mdwerror.Wrap(err, "failed to watch directory").
				WithCode(mdwerror.CodeIOError).
				WithOperation("registry.Watcher").
				WithDetail("directory", info.Path)
		}
		w.watched[info.Path] = true
	}

	for path := range w.watched {
		if !tracked[path] {
			_ = w.watcher.Remove(path)
			delete(w.watched, path)
		}
	}
	return nil
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		w.running = false
		w.stopped = true
		w.watcher.Close()
		w.watcher = nil
		w.watched = make(map[string]bool)
		w.mu.Unlock()
		close(w.doneCh)
	}()

	// Events are applied once a file has been quiet for the debounce
	// interval, so a create followed by writes reloads the final content.
	pending := make(map[string]fsnotify.Op)
	lastSeen := make(map[string]time.Time)
	ticker := time.NewTicker(max(w.debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping watcher (context cancelled)")
			return

		case <-w.stopCh:
			w.logger.Info("stopping watcher (stop signal)")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !filex.HasExt(event.Name, w.registry.ext) {
				continue
			}
			pending[event.Name] |= event.Op
			lastSeen[event.Name] = time.Now()

		case <-ticker.C:
			for name, op := range pending {
				if time.Since(lastSeen[name]) < w.debounce {
					continue
				}
				delete(pending, name)
				delete(lastSeen, name)
				w.handleEvent(name, op)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.ErrorWithErr("watcher error", err)
		}
	}
}

// handleEvent applies the accumulated operations on one file. Whether the
// file still exists decides between a rescan and a removal.
func (w *Watcher) handleEvent(path string, op fsnotify.Op) {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(path)
	if _, ok := w.registry.directories[dir]; !ok {
		return
	}

	if w.registry.fs.Exists(path) {
		w.logger.Info("file changed, updating directory", "file", filepath.Base(path), "op", op.String())
		if err := w.registry.updateDirectory(dir); err != nil {
			w.logger.WarnWithErr("directory update incomplete", err, mdwlog.Field("directory", dir))
		}
	} else {
		doc, err := w.registry.Remove(ByAbsolutePath(path))
		if err != nil || doc == nil {
			return
		}
		w.logger.Info("file removed, document dropped", "file", filepath.Base(path))
	}

	if w.onChange != nil {
		w.onChange(path, op)
	}
}
