// Copyright © 2026 The FXLINT authors

// Package watch reports changes to a set of formula files.  Directories
// rather than files are watched so that editors which save by renaming a
// new file over the old one are followed.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before a batch
// of changes is delivered.
const DefaultDebounce = 100 * time.Millisecond

// Watcher delivers batches of changed files.
type Watcher struct {
	w        *fsnotify.Watcher
	files    map[string]string // cleaned absolute path -> path as given
	debounce time.Duration
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period between the last change and the
// delivery of a batch.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New returns a Watcher for files.
func New(files []string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		w:        fw,
		files:    make(map[string]string, len(files)),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close() //nolint:errcheck // already failing
			return nil, err
		}
		w.files[abs] = f
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close() //nolint:errcheck // already failing
			return nil, err
		}
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.w.Close()
}

// Run calls fn with every batch of changed files, in sorted order and named
// as they were given to New, until ctx is done.  Removed files are not
// reported.  Run returns nil when ctx is done and the watcher's error
// otherwise.
func (w *Watcher) Run(ctx context.Context, fn func(changed []string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.w.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name, ok := w.files[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			pending[name] = true
			timer.Reset(w.debounce)
		case err, ok := <-w.w.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			return err
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			clear(pending)
			if len(changed) > 0 {
				fn(changed)
			}
		}
	}
}
