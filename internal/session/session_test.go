package session

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/helix-anywhere/helix-anywhere/internal/completion"
	"github.com/helix-anywhere/helix-anywhere/internal/config"
	"github.com/helix-anywhere/helix-anywhere/internal/terminal"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

// fakeDesk models the clipboard plus the focused app's selection: the copy
// gesture puts the selection on the clipboard, paste records what was pasted.
type fakeDesk struct {
	mu        sync.Mutex
	clip      string
	hasClip   bool
	selection string
	pasted    []string
	copyErr   error
	pasteErr  error
	writeErr  error

	front     string
	frontErr  error
	activated []string
}

func (d *fakeDesk) ReadText() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasClip {
		return "", errors.New("clipboard empty")
	}
	return d.clip, nil
}

func (d *fakeDesk) WriteText(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.writeErr != nil {
		return d.writeErr
	}
	d.clip, d.hasClip = text, true
	return nil
}

func (d *fakeDesk) Copy() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.copyErr != nil {
		return d.copyErr
	}
	d.clip, d.hasClip = d.selection, true
	return nil
}

func (d *fakeDesk) Paste() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pasteErr != nil {
		return d.pasteErr
	}
	d.pasted = append(d.pasted, d.clip)
	return nil
}

func (d *fakeDesk) Frontmost(context.Context) (string, error) {
	return d.front, d.frontErr
}

func (d *fakeDesk) Activate(_ context.Context, id string) error {
	d.activated = append(d.activated, id)
	return nil
}

type exitedProcess struct{}

func (exitedProcess) Wait() error { return nil }

// fakeLauncher simulates the user's edit by running edit against the
// scratch file at launch time.
type fakeLauncher struct {
	strategy completion.Kind
	edit     func(t *testing.T, path string)
	err      error
	calls    []terminal.Request
	t        *testing.T
}

func (l *fakeLauncher) Launch(_ context.Context, req terminal.Request) (*terminal.Handle, error) {
	l.calls = append(l.calls, req)
	if l.err != nil {
		return nil, l.err
	}
	if l.edit != nil {
		l.edit(l.t, req.ScratchPath)
	}
	h := &terminal.Handle{Strategy: l.strategy}
	if l.strategy == completion.ProcessWait {
		h.Process = exitedProcess{}
	}
	return h, nil
}

// save writes text to the scratch file and moves its mtime past the
// baseline so file-watch detection does not depend on clock granularity.
func save(path, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return err
	}
	later := info.ModTime().Add(time.Second)
	return os.Chtimes(path, later, later)
}

func saveAs(text string) func(t *testing.T, path string) {
	return func(t *testing.T, path string) {
		require.NoError(t, save(path, text))
	}
}

func newOrchestrator(t *testing.T, desk *fakeDesk, l *fakeLauncher) (*Orchestrator, *[]time.Duration) {
	l.t = t
	var sleeps []time.Duration
	return &Orchestrator{
		Clipboard:     desk,
		Keyboard:      desk,
		Focus:         desk,
		Launcher:      l,
		ScratchDir:    t.TempDir(),
		CopySettle:    DefaultCopySettle,
		FocusFallback: DefaultFocusFallback,
		Watch: completion.FileWatcher{
			Interval: 5 * time.Millisecond,
			Grace:    -1,
			Timeout:  time.Second,
		},
		Sleep: func(d time.Duration) { sleeps = append(sleeps, d) },
	}, &sleeps
}

func cfg() config.Config {
	return config.Defaults()
}

// ── Normalization ────────────────────────────────────────────────────────────

// Property: normalization is idempotent and only touches the tail.
func TestNormalizeIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z\n ]{0,40}`).Draw(t, "text")
		once := Normalize(text)
		if Normalize(once) != once {
			t.Fatalf("Normalize not idempotent on %q", text)
		}
		if !strings.HasPrefix(text, once) {
			t.Fatalf("Normalize(%q) = %q is not a prefix", text, once)
		}
		if strings.Count(once, "\n") != strings.Count(strings.TrimRight(text, "\n"), "\n") {
			t.Fatalf("Normalize(%q) removed an inner newline", text)
		}
	})
}

// ── Outcomes ─────────────────────────────────────────────────────────────────

// Property: an empty selection aborts and restores the clipboard, without
// launching anything.
func TestEmptySelectionAborts(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		original := rapid.String().Draw(rt, "clipboard")
		desk := &fakeDesk{clip: original, hasClip: true, front: "com.apple.TextEdit"}
		l := &fakeLauncher{strategy: completion.ProcessWait}
		o, _ := newOrchestrator(t, desk, l)

		s, err := o.Run(context.Background(), cfg())
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if s.Outcome != Aborted {
			rt.Fatalf("outcome %v, want aborted", s.Outcome)
		}
		if desk.clip != original {
			rt.Fatalf("clipboard %q, want %q", desk.clip, original)
		}
		if len(l.calls) != 0 || len(desk.pasted) != 0 {
			rt.Fatal("editor launched or paste issued for empty selection")
		}
	})
}

// Property: saving the same text (plus any trailing newlines) is Unchanged
// and restores the clipboard, never leaving the edited text on it.
func TestUnchangedRestoresClipboard(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		selection := rapid.StringMatching(`[a-z][a-z \n]{0,30}`).Draw(rt, "selection")
		newlines := rapid.IntRange(0, 3).Draw(rt, "newlines")
		desk := &fakeDesk{clip: "before", hasClip: true, selection: selection}
		l := &fakeLauncher{
			strategy: completion.ProcessWait,
			edit:     saveAs(selection + strings.Repeat("\n", newlines)),
		}
		o, _ := newOrchestrator(t, desk, l)

		s, err := o.Run(context.Background(), cfg())
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if s.Outcome != Unchanged {
			rt.Fatalf("outcome %v, want unchanged", s.Outcome)
		}
		if desk.clip != "before" {
			rt.Fatalf("clipboard %q, want restored", desk.clip)
		}
		if len(desk.pasted) != 0 {
			rt.Fatal("paste issued for unchanged text")
		}
	})
}

// Property: a real change is Applied, ends with the normalized edit on the
// clipboard and pastes exactly once.
func TestChangedTextIsPastedOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		selection := rapid.StringMatching(`[a-z]{1,20}`).Draw(rt, "selection")
		edit := rapid.StringMatching(`[A-Z][a-z \n]{0,20}`).Draw(rt, "edit")
		desk := &fakeDesk{clip: "before", hasClip: true, selection: selection, front: "com.apple.Notes"}
		l := &fakeLauncher{strategy: completion.ProcessWait, edit: saveAs(edit + "\n")}
		o, _ := newOrchestrator(t, desk, l)

		s, err := o.Run(context.Background(), cfg())
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if s.Outcome != Applied {
			rt.Fatalf("outcome %v, want applied", s.Outcome)
		}
		want := Normalize(edit)
		if desk.clip != want {
			rt.Fatalf("clipboard %q, want %q", desk.clip, want)
		}
		if len(desk.pasted) != 1 || desk.pasted[0] != want {
			rt.Fatalf("pasted %q, want exactly [%q]", desk.pasted, want)
		}
		if len(desk.activated) != 1 || desk.activated[0] != "com.apple.Notes" {
			rt.Fatalf("activated %v", desk.activated)
		}
	})
}

func TestRequestCarriesConfig(t *testing.T) {
	desk := &fakeDesk{selection: "text"}
	l := &fakeLauncher{strategy: completion.ProcessWait}
	o, _ := newOrchestrator(t, desk, l)

	c := cfg()
	c.Editor = "/usr/local/bin/hx"
	c.Terminal = config.Terminal{Name: "kitty", Width: 120, Height: 40}
	s, err := o.Run(context.Background(), c)
	require.NoError(t, err)

	require.Len(t, l.calls, 1)
	req := l.calls[0]
	assert.Equal(t, "kitty", req.Terminal)
	assert.Equal(t, "/usr/local/bin/hx", req.Editor)
	assert.Equal(t, uint(120), req.Width)
	assert.Equal(t, uint(40), req.Height)
	assert.Equal(t, s.ScratchPath, req.ScratchPath)
	assert.True(t, strings.HasSuffix(req.ScratchPath, ".txt"))
	assert.Equal(t, completion.ProcessWait, s.Strategy)

	_, err = os.Stat(s.ScratchPath)
	assert.ErrorIs(t, err, os.ErrNotExist, "process-wait scratch file should be removed")
}

func TestScratchHoldsCapturedText(t *testing.T) {
	desk := &fakeDesk{selection: "line one\nline two\n"}
	var seen string
	l := &fakeLauncher{
		strategy: completion.ProcessWait,
		edit: func(t *testing.T, path string) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			seen = string(data)
		},
	}
	o, _ := newOrchestrator(t, desk, l)

	s, err := o.Run(context.Background(), cfg())
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", seen)
	assert.Equal(t, Unchanged, s.Outcome)
}

func TestUnknownFrontmostFallsBackToDelay(t *testing.T) {
	desk := &fakeDesk{selection: "a", frontErr: errors.New("no System Events")}
	l := &fakeLauncher{strategy: completion.ProcessWait, edit: saveAs("b")}
	o, sleeps := newOrchestrator(t, desk, l)

	s, err := o.Run(context.Background(), cfg())
	require.NoError(t, err)
	assert.Equal(t, Applied, s.Outcome)
	assert.Empty(t, desk.activated)
	assert.Equal(t, []time.Duration{DefaultCopySettle, DefaultFocusFallback}, *sleeps)
}

// ── File-watch strategy ──────────────────────────────────────────────────────

func TestFileWatchApplies(t *testing.T) {
	desk := &fakeDesk{selection: "draft"}
	l := &fakeLauncher{strategy: completion.FileWatch}
	l.edit = func(t *testing.T, path string) {
		go func() {
			time.Sleep(20 * time.Millisecond)
			if err := save(path, "final\n"); err != nil {
				t.Error(err)
			}
		}()
	}
	o, _ := newOrchestrator(t, desk, l)

	s, err := o.Run(context.Background(), cfg())
	require.NoError(t, err)
	assert.Equal(t, Applied, s.Outcome)
	assert.Equal(t, completion.Modified, s.Reason)
	assert.Equal(t, []string{"final"}, desk.pasted)

	_, err = os.Stat(s.ScratchPath)
	assert.NoError(t, err, "file-watch scratch file is left for temp cleanup")
}

func TestFileWatchRemovedIsUnchanged(t *testing.T) {
	desk := &fakeDesk{clip: "keep", hasClip: true, selection: "draft"}
	l := &fakeLauncher{strategy: completion.FileWatch}
	l.edit = func(t *testing.T, path string) {
		require.NoError(t, os.Remove(path))
	}
	o, _ := newOrchestrator(t, desk, l)

	s, err := o.Run(context.Background(), cfg())
	require.NoError(t, err)
	assert.Equal(t, Unchanged, s.Outcome)
	assert.Equal(t, completion.Removed, s.Reason)
	assert.Equal(t, "keep", desk.clip)
}

func TestTimeoutWithoutChangeRestoresClipboard(t *testing.T) {
	desk := &fakeDesk{clip: "keep", hasClip: true, selection: "draft"}
	l := &fakeLauncher{strategy: completion.FileWatch}
	o, _ := newOrchestrator(t, desk, l)
	o.Watch.Timeout = 30 * time.Millisecond

	s, err := o.Run(context.Background(), cfg())
	require.ErrorIs(t, err, completion.ErrTimeout)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageAwait, stageErr.Stage)
	assert.Equal(t, Aborted, s.Outcome)
	assert.Equal(t, "keep", desk.clip)
	assert.Empty(t, desk.pasted)
}

func TestTimeoutWithChangeLeavesEditOnClipboard(t *testing.T) {
	desk := &fakeDesk{clip: "keep", hasClip: true, selection: "draft"}
	l := &fakeLauncher{strategy: completion.FileWatch}
	l.edit = func(t *testing.T, path string) {
		// Content changes but the mtime stays at the baseline.
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("rewritten\n"), 0o600))
		require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))
	}
	o, _ := newOrchestrator(t, desk, l)
	o.Watch.Timeout = 30 * time.Millisecond

	s, err := o.Run(context.Background(), cfg())
	require.ErrorIs(t, err, completion.ErrTimeout)
	assert.Equal(t, "rewritten", desk.clip)
	assert.Equal(t, "rewritten", s.EditedText)
	assert.Empty(t, desk.pasted)
}

// ── Failures ─────────────────────────────────────────────────────────────────

func TestLaunchFailureRestoresClipboard(t *testing.T) {
	desk := &fakeDesk{clip: "keep", hasClip: true, selection: "draft"}
	l := &fakeLauncher{err: &terminal.NotInstalledError{Terminal: "Ghostty"}}
	o, _ := newOrchestrator(t, desk, l)

	s, err := o.Run(context.Background(), cfg())
	require.ErrorIs(t, err, terminal.ErrNotInstalled)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageLaunch, stageErr.Stage)
	assert.Contains(t, err.Error(), "Ghostty")
	assert.Equal(t, Aborted, s.Outcome)
	assert.Equal(t, "keep", desk.clip)
}

func TestCopyFailureRestoresClipboard(t *testing.T) {
	desk := &fakeDesk{clip: "keep", hasClip: true, copyErr: errors.New("no event source")}
	o, _ := newOrchestrator(t, desk, &fakeLauncher{})

	_, err := o.Run(context.Background(), cfg())
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageCapture, stageErr.Stage)
	assert.Equal(t, "keep", desk.clip)
}

func TestScratchFailureIsIOError(t *testing.T) {
	desk := &fakeDesk{clip: "keep", hasClip: true, selection: "draft"}
	o, _ := newOrchestrator(t, desk, &fakeLauncher{})
	o.ScratchDir = "/nonexistent/helix-anywhere-test"

	_, err := o.Run(context.Background(), cfg())
	require.ErrorIs(t, err, ErrIO)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageScratch, stageErr.Stage)
	assert.Equal(t, "keep", desk.clip)
}

func TestPasteFailureKeepsEditOnClipboard(t *testing.T) {
	desk := &fakeDesk{clip: "keep", hasClip: true, selection: "draft", pasteErr: errors.New("denied")}
	l := &fakeLauncher{strategy: completion.ProcessWait, edit: saveAs("final")}
	o, _ := newOrchestrator(t, desk, l)

	_, err := o.Run(context.Background(), cfg())
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageResolve, stageErr.Stage)
	assert.Equal(t, "final", desk.clip)
}

func TestCancelledWaitRestoresClipboard(t *testing.T) {
	desk := &fakeDesk{clip: "keep", hasClip: true, selection: "draft"}
	l := &fakeLauncher{strategy: completion.FileWatch}
	o, _ := newOrchestrator(t, desk, l)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := o.Run(ctx, cfg())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "keep", desk.clip)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "applied", Applied.String())
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "aborted", Aborted.String())
}
