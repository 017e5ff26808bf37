package session

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// writeScratch writes text to a fresh .txt file in dir and returns its path
// and modification time. The data is synced to disk before returning so the
// editor never opens a partially written file.
func writeScratch(dir, text string) (path string, mtime time.Time, err error) {
	f, err := os.CreateTemp(dir, "helix-anywhere-*.txt")
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: creating scratch file: %w", ErrIO, err)
	}
	path = f.Name()

	// Clean up the scratch file on any error path.
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if _, err = f.WriteString(text); err != nil {
		f.Close()
		return "", time.Time{}, fmt.Errorf("%w: writing scratch file: %w", ErrIO, err)
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return "", time.Time{}, fmt.Errorf("%w: syncing scratch file: %w", ErrIO, err)
	}
	if err = f.Close(); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: closing scratch file: %w", ErrIO, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: reading scratch file mtime: %w", ErrIO, err)
	}
	return path, info.ModTime(), nil
}

// readScratch reads the edited file back. A missing file reads as
// unchanged, with removed set.
func readScratch(path string) (text string, removed bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: reading edited file: %w", ErrIO, err)
	}
	return string(data), false, nil
}
