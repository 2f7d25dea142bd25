package watcher

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

const defaultDebounce = 500 * time.Millisecond

// Watcher observes a directory tree and invokes a callback once per quiet
// burst of filesystem changes. The backing repository's .git directory and
// the store lock file are ignored.
type Watcher struct {
	root     string
	debounce time.Duration
	ignore   func(path string) bool
	onChange func(paths []string)
}

type Options struct {
	// Debounce is the quiescence window; the callback fires once no change
	// has been seen for this long.
	Debounce time.Duration

	// Ignore filters paths out of change batches. Nil ignores nothing beyond
	// the built-in exclusions.
	Ignore func(path string) bool
}

func New(root string, onChange func(paths []string), opts *Options) *Watcher {
	w := &Watcher{
		root:     root,
		debounce: defaultDebounce,
		onChange: onChange,
	}

	if opts != nil {
		if opts.Debounce > 0 {
			w.debounce = opts.Debounce
		}
		w.ignore = opts.Ignore
	}

	return w
}

// Watch blocks until the context is cancelled, batching change events and
// invoking the callback after each quiet period.
func (w *Watcher) Watch(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	defer fsWatcher.Close()

	err = w.addRecursive(fsWatcher, w.root)
	if err != nil {
		return err
	}

	slog.Info("watching store", "root", w.root, "debounce", w.debounce)

	var (
		pending = make(map[string]struct{})
		timer   = time.NewTimer(w.debounce)
	)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}

			// New directories need their own watch to see nested changes.
			if event.Op.Has(fsnotify.Create) {
				info, statErr := os.Stat(event.Name)
				if statErr == nil && info.IsDir() {
					if err := w.addRecursive(fsWatcher, event.Name); err != nil {
						slog.Error("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			slog.Debug("filesystem event", "op", event.Op.String(), "path", event.Name)
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("filesystem watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			pending = make(map[string]struct{})

			w.onChange(paths)
		}
	}
}

func (w *Watcher) addRecursive(fsWatcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}

		err = fsWatcher.Add(path)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}

		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}

	if rel == ".git" || strings.HasPrefix(rel, ".git"+string(filepath.Separator)) {
		return true
	}
	if rel == ".lock" {
		return true
	}

	if w.ignore != nil {
		return w.ignore(path)
	}

	return false
}
