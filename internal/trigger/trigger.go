// Package trigger provides the lifecycle glue between an external
// "patching happened" signal and the two capture entry points: a one-shot
// guard that runs a routine exactly once however many notifications arrive,
// and a filesystem watcher that detects when a patch step has touched a
// directory tree and settled.
package trigger

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Once runs its routine on the first Fire and idempotently ignores every
// later trigger, matching the "run the capture-or-diff routine exactly
// once" contract.
type Once struct {
	once sync.Once
	fn   func()
}

func NewOnce(fn func()) *Once { return &Once{fn: fn} }

func (o *Once) Fire() {
	o.once.Do(func() {
		if o.fn != nil {
			o.fn()
		}
	})
}

// WaitSettled blocks until something modifies dir (recursively) and the
// tree then stays quiet for the settle window. It returns once the tree has
// settled, or with ctx's error on cancellation. Directories created while
// waiting are watched as well, so a patch step that unpacks new trees is
// still observed.
func WaitSettled(ctx context.Context, dir string, settle time.Duration, log zerolog.Logger) error {
	if settle <= 0 {
		settle = 2 * time.Second
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addRecursive(w, dir); err != nil {
		return err
	}

	timer := time.NewTimer(settle)
	timer.Stop() // armed on the first event
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					_ = addRecursive(w, ev.Name)
				}
			}
			log.Debug().Str("event", ev.String()).Msg("collection changed")
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(settle)
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Debug().Err(werr).Msg("watcher error")
		case <-timer.C:
			return nil
		}
	}
}

func addRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				return nil // unwatchable subtrees are skipped, not fatal
			}
		}
		return nil
	})
}
