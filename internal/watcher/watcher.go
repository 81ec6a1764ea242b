// Package watcher triggers a callback when watched workspace files change.
package watcher

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces editor save bursts into a single callback.
const debounce = 200 * time.Millisecond

// meaningfulOps are the operations that can change a check result. Chmod
// is deliberately excluded.
const meaningfulOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// watchedExts are the file extensions whose changes invalidate a report:
// spec documents, component sources, and config.
var watchedExts = map[string]bool{
	".md":   true,
	".ts":   true,
	".tsx":  true,
	".js":   true,
	".jsx":  true,
	".yml":  true,
	".yaml": true,
}

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".next":        true,
	"dist":         true,
	"build":        true,
}

// Watcher invokes a callback on relevant filesystem changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	callback func()
}

// New watches every directory under the given paths. fsnotify does not
// recurse, so the tree is walked up front; directories created after the
// watch starts are not picked up.
func New(paths []string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return fsw.Add(p)
		})
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return &Watcher{fsw: fsw, callback: callback}, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is cancelled or the watcher is closed, invoking the
// callback after each debounced burst of relevant events. errFn, if
// non-nil, receives watch errors.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&meaningfulOps == 0 {
				continue
			}
			if !watchedExts[strings.ToLower(filepath.Ext(ev.Name))] {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}

		case <-fire:
			fire = nil
			w.callback()
		}
	}
}
