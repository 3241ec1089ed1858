// Package watch reruns a full scan whenever documents under the input
// directory change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 200 * time.Millisecond

// RebuildFunc regenerates outputs from the current on-disk state.
type RebuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Root is the directory tree to watch.
	Root string
	// Extensions that trigger a rebuild. Empty means every file.
	Extensions []string
	// Debounce collapses bursts of events into one rebuild.
	Debounce time.Duration
	// Ignore reports whether a changed path should be disregarded, e.g. the
	// watcher's own report output.
	Ignore func(path string) bool
	Logger *slog.Logger
}

// Watcher watches a tree and calls a rebuild function after changes settle.
type Watcher struct {
	opts    Options
	rebuild RebuildFunc
	logger  *slog.Logger
	exts    map[string]bool
}

// New creates a watcher.
func New(opts Options, rebuild RebuildFunc) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	exts := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}
	return &Watcher{opts: opts, rebuild: rebuild, logger: logger, exts: exts}
}

// Relevant reports whether event should trigger a rebuild.
func (w *Watcher) Relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if w.opts.Ignore != nil && w.opts.Ignore(event.Name) {
		return false
	}
	if isHidden(filepath.Base(event.Name)) {
		return false
	}
	// Removing or renaming a directory drops every document inside it.
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Ext(event.Name) == "" {
		return true
	}
	if len(w.exts) == 0 {
		return true
	}
	return w.exts[strings.ToLower(filepath.Ext(event.Name))]
}

// Run performs an initial rebuild, then watches until ctx is cancelled.
// Rebuild errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := w.addRecursive(watcher, w.opts.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.opts.Root, err)
	}

	w.runRebuild(ctx)
	w.logger.Info("watching for changes", "root", w.opts.Root, "debounce", w.opts.Debounce)

	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(info.Name()) {
					if err := w.addRecursive(watcher, event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					timer.Reset(w.opts.Debounce)
					continue
				}
			}
			if !w.Relevant(event) {
				continue
			}
			w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.opts.Debounce)

		case <-timer.C:
			w.runRebuild(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) runRebuild(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := w.rebuild(ctx); err != nil {
		w.logger.Error("rebuild failed", "error", err)
	}
}

// addRecursive watches dir and every non-hidden directory below it.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, dir string) error {
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
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}
