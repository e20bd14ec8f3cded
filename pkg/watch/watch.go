// Package watch delivers debounced batches of filesystem changes.
//
// Editors and build tools generate bursts of events for a single logical
// change, so raw notifications are collected into a pending set and handed
// out as one batch once the burst has been quiet for the debounce window.
// The watch and serve commands rescan on each batch.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period required before a batch is delivered.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Recursive bool          // watch subdirectories of each root as well
	Exclude   []string      // directory names skipped when recursive
	Debounce  time.Duration // quiet period, DefaultDebounce when zero
}

// Watcher turns fsnotify events on a set of directories into batches of
// changed paths.
type Watcher struct {
	fsw      *fsnotify.Watcher
	batches  chan []string
	errs     chan error
	debounce time.Duration
}

// New creates a watcher over dirs. Call Run to start delivery and Close to
// release the underlying notifier.
func New(dirs []string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		fsw:      fsw,
		batches:  make(chan []string, 1),
		errs:     make(chan error, 1),
		debounce: debounce,
	}

	for _, dir := range dirs {
		if err := w.add(dir, opts); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// add registers dir, and in recursive mode its subtree, with the notifier.
// Hidden directories and excluded names are skipped whole, mirroring the
// recursive scan.
func (w *Watcher) add(dir string, opts Options) error {
	if !opts.Recursive {
		return w.fsw.Add(dir)
	}

	skip := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		skip[name] = true
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (skip[name] || (len(name) > 1 && name[0] == '.')) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Batches returns the channel on which change batches are delivered. Each
// batch holds the distinct changed paths, sorted.
func (w *Watcher) Batches() <-chan []string {
	return w.batches
}

// Errors returns the channel carrying notifier errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Run collects events until ctx is cancelled. It owns the batch channel and
// closes it on return.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.batches)

	pending := make(map[string]bool)
	var last time.Time

	// Poll at half the debounce window so a quiet period is detected
	// within one window of the last event.
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Chmod fires for metadata touches that don't change content.
			if ev.Op == fsnotify.Chmod {
				continue
			}
			pending[ev.Name] = true
			last = time.Now()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}

		case now := <-ticker.C:
			if len(pending) == 0 || now.Sub(last) < w.debounce {
				continue
			}
			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			sort.Strings(batch)
			pending = make(map[string]bool)

			select {
			case w.batches <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Close releases the underlying notifier. Run returns once the event
// stream ends.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
