package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watch reloads the file at path whenever it is written, created or renamed
// into place, and calls fn with the parsed and validated result or the
// error. It blocks until ctx is done.
//
// The parent directory is watched rather than the file, so atomic saves
// (temp file + rename) are seen.
func Watch(ctx context.Context, path string, fn func(*Config, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}

	var debounce *time.Timer
	reload := make(chan struct{}, 1)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			cfg, err := LoadFile(path)
			if err == nil {
				err = cfg.Validate()
			}
			if err != nil {
				fn(nil, err)
				continue
			}
			fn(cfg, nil)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(nil, fmt.Errorf("config watcher: %w", err))
		}
	}
}
