// Package session runs edit sessions: capture the selection, edit it in an
// external editor, and paste the result back or put everything back the way
// it was.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/helix-anywhere/helix-anywhere/internal/completion"
)

// Outcome is how a session ended.
type Outcome int

const (
	// Pending is the outcome of a session that has not finished.
	Pending Outcome = iota
	// Unchanged means the editor closed without a content change.
	Unchanged
	// Applied means the edited text was pasted over the selection.
	Applied
	// Aborted means nothing was edited: empty selection or a failed stage.
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Unchanged:
		return "unchanged"
	case Applied:
		return "applied"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Stage names a step of the session pipeline.
type Stage string

const (
	StageSnapshot Stage = "snapshot"
	StageCapture  Stage = "capture"
	StageScratch  Stage = "stage"
	StageLaunch   Stage = "launch"
	StageAwait    Stage = "await"
	StageDiff     Stage = "diff"
	StageResolve  Stage = "resolve"
)

// ErrIO marks scratch file read or write failures.
var ErrIO = errors.New("scratch file I/O failed")

// StageError records the stage a session failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("edit session failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Session is one capture, edit, restore run.
type Session struct {
	ID           uuid.UUID
	StartedAt    time.Time
	FrontmostApp string // bundle id, empty when unknown

	CapturedText string
	ScratchPath  string
	Baseline     time.Time // scratch file mtime before launch
	Strategy     completion.Kind
	Reason       completion.Reason
	EditedText   string // normalized

	Outcome Outcome
}

// Normalize strips trailing newlines. Editors append one on save, so a
// trailing newline is never treated as an edit.
func Normalize(text string) string {
	return strings.TrimRight(text, "\n")
}
