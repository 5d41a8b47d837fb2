// Package watch reports batches of changed C++ source files under a root.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phobologic/cppuml/internal/discover"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a directory tree recursively.
type Watcher struct {
	fsw        *fsnotify.Watcher
	extensions map[string]bool
	debounce   time.Duration
	logger     *slog.Logger

	// dirs holds every directory currently added to fsw.
	dirs map[string]bool
}

// New watches root and every directory below it that discovery would
// search. Only files with one of extensions are reported.
func New(root string, extensions []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	w := &Watcher{fsw: fsw, extensions: exts, debounce: debounce, logger: logger, dirs: make(map[string]bool)}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers sorted, de-duplicated batches of changed paths to onChange
// until ctx is done. onChange runs on the Run goroutine, so events that
// arrive while it runs are folded into the next batch.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn("watching new directory", "path", ev.Name, "error", err)
					}
					// A directory moved or copied in arrives with its files
					// already present and no events of their own.
					if w.collectSources(ev.Name, pending) > 0 {
						timer.Reset(w.debounce)
					}
					continue
				}
			}
			if !w.relevant(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			w.logger.Debug("sources changed", "files", len(paths))
			onChange(paths)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && w.dirs[ev.Name] {
		delete(w.dirs, ev.Name)
		return true
	}
	return w.extensions[strings.ToLower(filepath.Ext(ev.Name))]
}

// collectSources adds every watched source file below dir to pending and
// returns how many it added.
func (w *Watcher) collectSources(dir string, pending map[string]struct{}) int {
	n := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && discover.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.extensions[strings.ToLower(filepath.Ext(path))] {
			pending[path] = struct{}{}
			n++
		}
		return nil
	})
	return n
}

// addTree adds root and its searchable subdirectories.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watching %s: %w", root, err)
			}
			w.logger.Warn("skipping directory", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			if path == root {
				return w.fsw.Add(path)
			}
			return nil
		}
		if path != root && discover.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			if path == root {
				return fmt.Errorf("watching %s: %w", root, err)
			}
			w.logger.Warn("skipping directory", "path", path, "error", err)
			return nil
		}
		w.dirs[path] = true
		return nil
	})
}
