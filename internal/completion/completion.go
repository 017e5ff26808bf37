// Package completion decides when an external edit is finished.
//
// Two strategies exist. ProcessWait blocks on a child process that lives for
// the whole edit. FileWatch is used when the editor was started through a
// fire-and-forget launcher and only the scratch file can be observed.
package completion

import (
	"context"
	"errors"
	"os/exec"
)

// ErrTimeout is returned when a file watch reaches its ceiling without seeing
// the scratch file change.
var ErrTimeout = errors.New("timed out waiting for edit to complete")

// Kind selects a completion strategy.
type Kind int

const (
	// ProcessWait blocks until the launched process exits.
	ProcessWait Kind = iota
	// FileWatch polls the scratch file's modification time.
	FileWatch
)

func (k Kind) String() string {
	switch k {
	case ProcessWait:
		return "process-wait"
	case FileWatch:
		return "file-watch"
	default:
		return "unknown"
	}
}

// Reason tells the caller why waiting stopped.
type Reason int

const (
	// Exited means the awaited process terminated.
	Exited Reason = iota
	// Modified means the scratch file's modification time advanced.
	Modified
	// Removed means the scratch file disappeared. This is not a success; the
	// caller re-reads the file and finds nothing new.
	Removed
)

func (r Reason) String() string {
	switch r {
	case Exited:
		return "exited"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Process is a launched child that can be waited on.
type Process interface {
	Wait() error
}

// WaitProcess blocks until p exits or ctx is done. A non-zero exit status is
// not an error: editors exit non-zero on forced quits and the diff step
// decides what happened.
func WaitProcess(ctx context.Context, p Process) (Reason, error) {
	done := make(chan error, 1)
	go func() { done <- p.Wait() }()

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			return Exited, err
		}
		return Exited, nil
	case <-ctx.Done():
		return Exited, ctx.Err()
	}
}
