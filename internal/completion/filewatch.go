package completion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults for FileWatcher.
const (
	DefaultInterval = 100 * time.Millisecond
	DefaultGrace    = 500 * time.Millisecond
	DefaultTimeout  = time.Hour
)

// FileWatcher waits for a scratch file to be saved.
//
// The file is polled every Interval. fsnotify events on the parent directory
// trigger an immediate extra check, so atomic-rename saves are seen without
// waiting for the next tick. Polling stays the source of truth.
type FileWatcher struct {
	Path     string
	Baseline time.Time // modification time recorded before launch

	Interval time.Duration // zero means DefaultInterval
	Grace    time.Duration // delay before the first check; zero means DefaultGrace, negative means none
	Timeout  time.Duration // ceiling measured from the call to Wait; zero means DefaultTimeout
}

// Wait blocks until the file's modification time moves past Baseline, the
// file disappears, the ceiling elapses (ErrTimeout) or ctx is done.
func (w *FileWatcher) Wait(ctx context.Context) (Reason, error) {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	grace := w.Grace
	if grace == 0 {
		grace = DefaultGrace
	}
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	// The terminal may not have opened the file yet.
	if grace > 0 {
		select {
		case <-time.After(grace):
		case <-deadline.C:
			return Modified, ErrTimeout
		case <-ctx.Done():
			return Modified, ctx.Err()
		}
	}

	events, closeWatch := w.watchDir()
	defer closeWatch()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if reason, done := w.check(); done {
			return reason, nil
		}

		select {
		case <-ticker.C:
		case <-events:
		case <-deadline.C:
			return Modified, ErrTimeout
		case <-ctx.Done():
			return Modified, ctx.Err()
		}
	}
}

// check reports whether waiting is over and why.
func (w *FileWatcher) check() (Reason, bool) {
	info, err := os.Stat(w.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Removed, true
		}
		return Modified, false
	}
	if info.ModTime().After(w.Baseline) {
		return Modified, true
	}
	return Modified, false
}

// watchDir subscribes to events for w.Path. Failing to create the watcher is
// not fatal; the returned channel is then nil and only polling runs.
func (w *FileWatcher) watchDir() (<-chan struct{}, func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, func() {}
	}
	if err := watcher.Add(filepath.Dir(w.Path)); err != nil {
		watcher.Close()
		return nil, func() {}
	}

	target := filepath.Clean(w.Path)
	out := make(chan struct{}, 1)
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, func() {
		close(stop)
		watcher.Close()
	}
}
