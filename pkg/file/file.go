// Package file provides a sieve.Watcher for control documents kept on disk.
package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher emits the contents of a file every time it changes.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temporary file and renaming it over the original
// keep being observed.
type Watcher struct {
	path string
}

// New creates a Watcher for path.
func New(path string) *Watcher {
	return &Watcher{path: path}
}

// Watch emits the current contents immediately, then the new contents after
// each write, create or rename onto the path. Empty reads, which happen while
// a writer has truncated but not yet written the file, and reads identical to
// the last emitted contents are skipped.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	initial, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", w.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	target := filepath.Clean(w.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch file %s: %w", w.path, err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer watcher.Close()

		last := initial
		select {
		case out <- initial:
		case <-ctx.Done():
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				data, err := os.ReadFile(w.path)
				if err != nil || len(data) == 0 || bytes.Equal(data, last) {
					continue
				}
				last = data

				select {
				case out <- data:
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}
