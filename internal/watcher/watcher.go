// Package watcher observes the asset root with fsnotify and maintains the
// availability flag behind the readiness probe. Content swaps (a generator
// redeploy replacing files) are logged; removal of the root itself flips
// readiness off until the directory reappears.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/statichaus/staticd/internal/log"
)

// Watcher monitors the asset root directory.
type Watcher struct {
	root   string // absolute
	parent string
	logger log.Logger

	fw    *fsnotify.Watcher
	ready atomic.Bool
	done  chan struct{}

	mu      sync.Mutex
	stopped bool
}

// New creates a watcher for the given asset root.
// The root must exist when New is called.
func New(root string, logger log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving asset root: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("stat asset root: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fs watcher: %w", err)
	}

	return &Watcher{
		root:   abs,
		parent: filepath.Dir(abs),
		logger: logger,
		fw:     fw,
		done:   make(chan struct{}),
	}, nil
}

// Start begins monitoring and returns immediately.
// The parent directory is watched as well so removal and re-creation of
// the root itself is observed.
func (w *Watcher) Start() error {
	if err := w.fw.Add(w.root); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}
	if err := w.fw.Add(w.parent); err != nil {
		return fmt.Errorf("watching %s: %w", w.parent, err)
	}

	w.ready.Store(true)
	go w.loop()
	return nil
}

// Ready reports whether the asset root currently exists as a directory.
func (w *Watcher) Ready() bool {
	return w.ready.Load()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fs watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Name == w.root {
		switch {
		case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
			w.ready.Store(false)
			w.logger.Error("asset root removed, serving unavailable", "root", w.root)
		case event.Has(fsnotify.Create):
			// Root re-created (e.g. atomic deploy via rename). Re-add the
			// watch; the old one died with the old inode.
			if err := w.fw.Add(w.root); err != nil {
				w.logger.Warn("re-watching asset root failed", "error", err)
			}
			w.ready.Store(true)
			w.logger.Info("asset root restored", "root", w.root)
		}
		return
	}

	// Content changes inside the root are routine deploys; log at debug
	// so a busy rsync doesn't flood the log.
	if strings.HasPrefix(event.Name, w.root+string(filepath.Separator)) {
		if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
			event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			w.logger.Debug("asset changed", "path", event.Name, "op", event.Op.String())
		}
	}
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}
