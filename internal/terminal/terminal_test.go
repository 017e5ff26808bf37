package terminal

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helix-anywhere/helix-anywhere/internal/completion"
)

type call struct {
	name string
	args []string
}

// fakeEnv builds an Env where the given paths exist and every command is
// recorded and replaced by `true` (or `false` when fail is set).
func fakeEnv(t *testing.T, fail bool, existing ...string) (*Env, *[]call) {
	t.Helper()
	present := map[string]bool{}
	for _, p := range existing {
		present[p] = true
	}
	dummy := filepath.Join(t.TempDir(), "dummy")
	require.NoError(t, os.WriteFile(dummy, nil, 0o755))

	var calls []call
	env := &Env{
		Command: func(ctx context.Context, name string, args ...string) *exec.Cmd {
			calls = append(calls, call{name: name, args: args})
			if fail {
				return exec.CommandContext(ctx, "false")
			}
			return exec.CommandContext(ctx, "true")
		},
		Stat: func(path string) (os.FileInfo, error) {
			if present[path] {
				return os.Stat(dummy)
			}
			return nil, os.ErrNotExist
		},
		Sleep: func(time.Duration) {},
	}
	return env, &calls
}

func TestLookupAliases(t *testing.T) {
	for name, want := range map[string]string{
		"ghostty":      "ghostty",
		"WezTerm":      "wezterm",
		"iterm2":       "iterm",
		"Terminal.app": "terminal",
		" kitty ":      "kitty",
	} {
		p, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, p.ConfigName())
	}

	_, err := Lookup("xterm")
	assert.ErrorIs(t, err, ErrUnknownTerminal)
}

func TestStrategies(t *testing.T) {
	want := map[string]completion.Kind{
		"ghostty":   completion.FileWatch,
		"wezterm":   completion.ProcessWait,
		"kitty":     completion.ProcessWait,
		"alacritty": completion.ProcessWait,
		"iterm":     completion.FileWatch,
		"terminal":  completion.FileWatch,
	}
	require.Len(t, All(), len(want))
	for _, p := range All() {
		assert.Equal(t, want[p.ConfigName()], p.Strategy(), p.DisplayName())
	}
}

func TestFindEditorSearchOrder(t *testing.T) {
	home := t.TempDir()
	pathDir := t.TempDir()
	cargo := filepath.Join(home, ".cargo", "bin")
	require.NoError(t, os.MkdirAll(cargo, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pathDir, "hx"), nil, 0o755))

	// Only the temp dirs are visible so host installs do not leak in.
	env := &Env{
		Stat: func(p string) (os.FileInfo, error) {
			if strings.HasPrefix(p, home) || strings.HasPrefix(p, pathDir) {
				return os.Stat(p)
			}
			return nil, os.ErrNotExist
		},
		Home: home,
		Path: string(filepath.ListSeparator) + pathDir,
	}

	got, err := FindEditor(env, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pathDir, "hx"), got)

	// Install locations win over the search path.
	require.NoError(t, os.WriteFile(filepath.Join(cargo, "hx"), nil, 0o755))
	got, err = FindEditor(env, "hx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cargo, "hx"), got)

	// Directories are not binaries.
	require.NoError(t, os.MkdirAll(filepath.Join(pathDir, "vi"), 0o755))
	_, err = FindEditor(env, "vi")
	assert.ErrorIs(t, err, ErrEditorNotFound)
}

func TestFindEditorNotFound(t *testing.T) {
	env := &Env{Stat: func(string) (os.FileInfo, error) { return nil, os.ErrNotExist }}

	_, err := FindEditor(env, "hx")
	require.ErrorIs(t, err, ErrEditorNotFound)
	assert.Contains(t, err.Error(), "brew install helix")

	_, err = FindEditor(env, "/nope/vim")
	assert.ErrorIs(t, err, ErrEditorNotFound)
}

func TestLaunchTerminalNotInstalled(t *testing.T) {
	env, _ := fakeEnv(t, false, "/usr/bin/hx")
	l := &Launcher{Env: env}

	_, err := l.Launch(context.Background(), Request{Terminal: "ghostty", Editor: "hx", ScratchPath: "/tmp/x.txt"})
	require.ErrorIs(t, err, ErrNotInstalled)

	var nie *NotInstalledError
	require.True(t, errors.As(err, &nie))
	assert.Equal(t, "Ghostty", nie.Terminal)
	assert.Contains(t, err.Error(), "Ghostty")
}

func TestLaunchKittyIsWaitable(t *testing.T) {
	env, calls := fakeEnv(t, false, "/Applications/kitty.app", "/usr/bin/hx")
	l := &Launcher{Env: env}

	h, err := l.Launch(context.Background(), Request{Terminal: "kitty", Editor: "hx", ScratchPath: "/tmp/edit.txt", Width: 100, Height: 30})
	require.NoError(t, err)
	assert.Equal(t, completion.ProcessWait, h.Strategy)
	require.NotNil(t, h.Process)
	require.NoError(t, h.Process.Wait())

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, "/Applications/kitty.app/Contents/MacOS/kitty", c.name)
	assert.Equal(t, []string{
		"--override", "initial_window_width=100c",
		"--override", "initial_window_height=30c",
		"/usr/bin/hx", "/tmp/edit.txt",
	}, c.args)
}

func TestLaunchAlacrittyArgs(t *testing.T) {
	env, calls := fakeEnv(t, false, "/Applications/Alacritty.app", "/usr/bin/hx")
	l := &Launcher{Env: env}

	h, err := l.Launch(context.Background(), Request{Terminal: "alacritty", ScratchPath: "/tmp/a.txt", Width: 80, Height: 24})
	require.NoError(t, err)
	require.NoError(t, h.Process.Wait())
	assert.Equal(t, []string{
		"-o", "window.dimensions.columns=80",
		"-o", "window.dimensions.lines=24",
		"-e", "/usr/bin/hx", "/tmp/a.txt",
	}, (*calls)[0].args)
}

func TestLaunchWezTermActivates(t *testing.T) {
	env, calls := fakeEnv(t, false, "/Applications/WezTerm.app", "/usr/bin/hx")
	l := &Launcher{Env: env}

	h, err := l.Launch(context.Background(), Request{Terminal: "wezterm", ScratchPath: "/tmp/w.txt"})
	require.NoError(t, err)
	assert.Equal(t, completion.ProcessWait, h.Strategy)
	require.Len(t, *calls, 2)
	assert.Equal(t, []string{"start", "--always-new-process", "--", "/usr/bin/hx", "/tmp/w.txt"}, (*calls)[0].args)
	assert.Equal(t, "osascript", (*calls)[1].name)
}

func TestLaunchGhosttyWritesWrapperScript(t *testing.T) {
	env, calls := fakeEnv(t, false, "/Applications/Ghostty.app", "/usr/bin/hx")
	l := &Launcher{Env: env}
	scratch := filepath.Join(t.TempDir(), "it's.txt")

	h, err := l.Launch(context.Background(), Request{Terminal: "ghostty", ScratchPath: scratch, Width: 100, Height: 30})
	require.NoError(t, err)
	assert.Equal(t, completion.FileWatch, h.Strategy)
	assert.Nil(t, h.Process)

	script := strings.TrimSuffix(scratch, ".txt") + ".sh"
	data, err := os.ReadFile(script)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/bash\n'/usr/bin/hx' "+shellQuote(scratch)+"\n", string(data))

	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "wrapper script must be executable")

	c := (*calls)[0]
	assert.Equal(t, "open", c.name)
	assert.Equal(t, []string{
		"-na", "/Applications/Ghostty.app", "--args",
		"--window-width=100", "--window-height=30",
		"-e", script,
	}, c.args)
}

func TestLaunchTerminalAppScript(t *testing.T) {
	env, calls := fakeEnv(t, false, "/System/Applications/Utilities/Terminal.app", "/usr/bin/hx")
	l := &Launcher{Env: env}

	_, err := l.Launch(context.Background(), Request{Terminal: "terminal", ScratchPath: `/tmp/"q".txt`})
	require.NoError(t, err)

	c := (*calls)[0]
	assert.Equal(t, "osascript", c.name)
	require.Len(t, c.args, 2)
	assert.Contains(t, c.args[1], `do script "'/usr/bin/hx' '/tmp/\"q\".txt'; exit"`)
}

func TestLaunchFailureIsLaunchError(t *testing.T) {
	env, _ := fakeEnv(t, true, "/Applications/iTerm.app", "/usr/bin/hx")
	l := &Launcher{Env: env}

	_, err := l.Launch(context.Background(), Request{Terminal: "iterm2", ScratchPath: "/tmp/i.txt"})
	require.ErrorIs(t, err, ErrLaunchFailed)

	var le *LaunchError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "iTerm2", le.Terminal)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, `'plain'`, shellQuote("plain"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
	assert.Equal(t, `a \"b\" \\c`, appleScriptEscape(`a "b" \c`))
}
