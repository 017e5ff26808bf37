package terminal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/helix-anywhere/helix-anywhere/internal/completion"
)

// Profile describes one supported terminal. The set is closed: adding a
// terminal means adding a type here and listing it in profiles.
type Profile interface {
	DisplayName() string
	ConfigName() string
	AppPath() string
	Strategy() completion.Kind
	Installed(env *Env) bool

	launch(ctx context.Context, env *Env, spec launchSpec) (*Handle, error)
}

type launchSpec struct {
	editor string
	file   string
	width  uint
	height uint
}

type app struct {
	display string
	config  string
	path    string
}

func (a app) DisplayName() string          { return a.display }
func (a app) ConfigName() string           { return a.config }
func (a app) AppPath() string              { return a.path }
func (a app) Installed(env *Env) bool      { return env.exists(a.path) }
func (a app) bundleBinary(n string) string { return a.path + "/Contents/MacOS/" + n }

// spawn starts a process that stays alive for the whole edit.
func spawn(ctx context.Context, env *Env, name string, args ...string) (*Handle, error) {
	cmd := env.Command(context.WithoutCancel(ctx), name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &Handle{Strategy: completion.ProcessWait, Process: cmd}, nil
}

// request runs a short-lived launcher (open, osascript) to completion.
func request(ctx context.Context, env *Env, name string, args ...string) (*Handle, error) {
	out, err := env.Command(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &Handle{Strategy: completion.FileWatch}, nil
}

// ── Ghostty ─────

// Ghostty ignores -e passed through `open --args` unless it points at an
// executable, so the editor invocation goes into a wrapper script.
type Ghostty struct{ app }

func (Ghostty) Strategy() completion.Kind { return completion.FileWatch }

func (g Ghostty) launch(ctx context.Context, env *Env, spec launchSpec) (*Handle, error) {
	script := strings.TrimSuffix(spec.file, ".txt") + ".sh"
	content := fmt.Sprintf("#!/bin/bash\n%s %s\n", shellQuote(spec.editor), shellQuote(spec.file))
	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		return nil, fmt.Errorf("creating wrapper script: %w", err)
	}

	args := []string{"-na", g.path, "--args"}
	if spec.width > 0 && spec.height > 0 {
		args = append(args,
			fmt.Sprintf("--window-width=%d", spec.width),
			fmt.Sprintf("--window-height=%d", spec.height))
	}
	args = append(args, "-e", script)
	return request(ctx, env, "open", args...)
}

// ── WezTerm ─────

// WezTerm's bundled CLI with --always-new-process stays in the foreground
// until the window closes.
type WezTerm struct{ app }

func (WezTerm) Strategy() completion.Kind { return completion.ProcessWait }

func (w WezTerm) launch(ctx context.Context, env *Env, spec launchSpec) (*Handle, error) {
	var args []string
	if spec.width > 0 && spec.height > 0 {
		args = append(args,
			"--config", fmt.Sprintf("initial_cols=%d", spec.width),
			"--config", fmt.Sprintf("initial_rows=%d", spec.height))
	}
	args = append(args, "start", "--always-new-process", "--", spec.editor, spec.file)

	h, err := spawn(ctx, env, w.bundleBinary("wezterm"), args...)
	if err != nil {
		return nil, err
	}

	// A process started from a background app does not take focus.
	env.Sleep(200 * time.Millisecond)
	activate := env.Command(ctx, "osascript", "-e", `tell application "WezTerm" to activate`)
	if err := activate.Start(); err == nil {
		go activate.Wait()
	}
	return h, nil
}

// ── Kitty ─────

type Kitty struct{ app }

func (Kitty) Strategy() completion.Kind { return completion.ProcessWait }

func (k Kitty) launch(ctx context.Context, env *Env, spec launchSpec) (*Handle, error) {
	var args []string
	if spec.width > 0 && spec.height > 0 {
		args = append(args,
			"--override", fmt.Sprintf("initial_window_width=%dc", spec.width),
			"--override", fmt.Sprintf("initial_window_height=%dc", spec.height))
	}
	args = append(args, spec.editor, spec.file)
	return spawn(ctx, env, k.bundleBinary("kitty"), args...)
}

// ── Alacritty ─────

type Alacritty struct{ app }

func (Alacritty) Strategy() completion.Kind { return completion.ProcessWait }

func (a Alacritty) launch(ctx context.Context, env *Env, spec launchSpec) (*Handle, error) {
	var args []string
	if spec.width > 0 && spec.height > 0 {
		args = append(args,
			"-o", fmt.Sprintf("window.dimensions.columns=%d", spec.width),
			"-o", fmt.Sprintf("window.dimensions.lines=%d", spec.height))
	}
	args = append(args, "-e", spec.editor, spec.file)
	return spawn(ctx, env, a.bundleBinary("alacritty"), args...)
}

// ── iTerm2 ─────

type ITerm struct{ app }

func (ITerm) Strategy() completion.Kind { return completion.FileWatch }

func (ITerm) launch(ctx context.Context, env *Env, spec launchSpec) (*Handle, error) {
	command := shellQuote(spec.editor) + " " + shellQuote(spec.file)
	script := fmt.Sprintf(`tell application "iTerm"
	activate
	create window with default profile command "%s"
end tell`, appleScriptEscape(command))
	return request(ctx, env, "osascript", "-e", script)
}

// ── Terminal.app ─────

type TerminalApp struct{ app }

func (TerminalApp) Strategy() completion.Kind { return completion.FileWatch }

func (TerminalApp) launch(ctx context.Context, env *Env, spec launchSpec) (*Handle, error) {
	command := shellQuote(spec.editor) + " " + shellQuote(spec.file) + "; exit"
	script := fmt.Sprintf(`tell application "Terminal"
	activate
	do script "%s"
end tell`, appleScriptEscape(command))
	return request(ctx, env, "osascript", "-e", script)
}

// ── Quoting helpers ─────

// shellQuote wraps s in single quotes for /bin/sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// appleScriptEscape escapes s for use inside an AppleScript string literal.
func appleScriptEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
