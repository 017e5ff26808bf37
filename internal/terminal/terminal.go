// Package terminal launches an external editor inside a terminal emulator.
//
// Each supported terminal is a Profile. Profiles differ in how they start a
// command (direct CLI flags, a wrapper script handed to `open`, or an
// AppleScript instruction) but all return a Handle carrying the completion
// strategy the caller must use.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/helix-anywhere/helix-anywhere/internal/completion"
)

var (
	// ErrEditorNotFound is returned when the editor binary cannot be resolved.
	ErrEditorNotFound = errors.New("editor not found")
	// ErrNotInstalled is matched by NotInstalledError.
	ErrNotInstalled = errors.New("terminal not installed")
	// ErrLaunchFailed is matched by LaunchError.
	ErrLaunchFailed = errors.New("terminal launch failed")
	// ErrUnknownTerminal is returned for names that match no profile.
	ErrUnknownTerminal = errors.New("unknown terminal")
)

// NotInstalledError names the configured terminal that is missing.
type NotInstalledError struct {
	Terminal string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("terminal '%s' is not installed; install it or change the terminal in config", e.Terminal)
}

func (e *NotInstalledError) Is(target error) bool { return target == ErrNotInstalled }

// LaunchError is returned when the OS rejects the process or automation request.
type LaunchError struct {
	Terminal string
	Err      error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Terminal, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

func (e *LaunchError) Is(target error) bool { return target == ErrLaunchFailed }

// Env abstracts the host so profiles can be exercised in tests.
type Env struct {
	Command func(ctx context.Context, name string, args ...string) *exec.Cmd
	Stat    func(path string) (os.FileInfo, error)
	Sleep   func(time.Duration)
	Home    string
	Path    string // search path, usually $PATH
}

// SystemEnv returns an Env backed by the real OS.
func SystemEnv() *Env {
	home, _ := os.UserHomeDir()
	return &Env{
		Command: exec.CommandContext,
		Stat:    os.Stat,
		Sleep:   time.Sleep,
		Home:    home,
		Path:    os.Getenv("PATH"),
	}
}

func (e *Env) exists(path string) bool {
	_, err := e.Stat(path)
	return err == nil
}

func (e *Env) isFile(path string) bool {
	info, err := e.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Handle is the result of a launch.
//
// For ProcessWait handles Process stays alive for the whole edit. FileWatch
// handles have no process to wait on.
type Handle struct {
	Strategy completion.Kind
	Process  completion.Process
}

// Request describes one launch.
type Request struct {
	Terminal    string // config name or alias
	Editor      string // binary name or absolute path
	ScratchPath string
	Width       uint
	Height      uint
}

// Launcher resolves the terminal and editor, then starts the edit.
type Launcher struct {
	Env *Env
}

// NewLauncher returns a Launcher bound to the real OS.
func NewLauncher() *Launcher {
	return &Launcher{Env: SystemEnv()}
}

// Launch starts req.Editor on req.ScratchPath inside req.Terminal.
func (l *Launcher) Launch(ctx context.Context, req Request) (*Handle, error) {
	p, err := Lookup(req.Terminal)
	if err != nil {
		return nil, err
	}
	if !p.Installed(l.Env) {
		return nil, &NotInstalledError{Terminal: p.DisplayName()}
	}

	editor, err := FindEditor(l.Env, req.Editor)
	if err != nil {
		return nil, err
	}

	h, err := p.launch(ctx, l.Env, launchSpec{
		editor: editor,
		file:   req.ScratchPath,
		width:  req.Width,
		height: req.Height,
	})
	if err != nil {
		return nil, &LaunchError{Terminal: p.DisplayName(), Err: err}
	}
	return h, nil
}
