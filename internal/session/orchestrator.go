package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/helix-anywhere/helix-anywhere/internal/completion"
	"github.com/helix-anywhere/helix-anywhere/internal/config"
	"github.com/helix-anywhere/helix-anywhere/internal/contenthash"
	"github.com/helix-anywhere/helix-anywhere/internal/desktop"
	"github.com/helix-anywhere/helix-anywhere/internal/terminal"
)

// Default delays.
const (
	DefaultCopySettle    = 50 * time.Millisecond
	DefaultFocusFallback = 100 * time.Millisecond
)

// Clipboard is plain-text clipboard access.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// Keyboard posts the copy and paste gestures.
type Keyboard interface {
	Copy() error
	Paste() error
}

// Focus finds and restores the frontmost application.
type Focus interface {
	Frontmost(ctx context.Context) (string, error)
	Activate(ctx context.Context, bundleID string) error
}

// Launcher starts the editor in a terminal.
type Launcher interface {
	Launch(ctx context.Context, req terminal.Request) (*terminal.Handle, error)
}

// Orchestrator runs edit sessions against its collaborators. Run is not
// safe for concurrent use; sessions are serialized by the caller.
type Orchestrator struct {
	Clipboard Clipboard
	Keyboard  Keyboard
	Focus     Focus
	Launcher  Launcher

	ScratchDir    string        // empty means os.TempDir()
	CopySettle    time.Duration // wait between the copy gesture and reading the clipboard
	FocusFallback time.Duration // wait before pasting when the original app is unknown

	// Watch holds the polling settings for file-watch terminals.
	Watch completion.FileWatcher

	Sleep func(time.Duration)
	Now   func() time.Time
}

// New returns an Orchestrator wired to the host OS.
func New() *Orchestrator {
	return &Orchestrator{
		Clipboard:     desktop.Clipboard{},
		Keyboard:      desktop.NewKeyboard(),
		Focus:         desktop.NewFocus(),
		Launcher:      terminal.NewLauncher(),
		CopySettle:    DefaultCopySettle,
		FocusFallback: DefaultFocusFallback,
		Sleep:         time.Sleep,
		Now:           time.Now,
	}
}

// run carries one session's state through the pipeline.
type run struct {
	o   *Orchestrator
	s   *Session
	log *logrus.Entry

	original    string
	hasOriginal bool
}

// Run performs one edit session using a snapshot of cfg. Every failure
// after the clipboard snapshot leaves the clipboard as it was found, except
// where noted on Session.Outcome. The returned Session is never nil.
func (o *Orchestrator) Run(ctx context.Context, cfg config.Config) (*Session, error) {
	now := o.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{ID: uuid.New(), StartedAt: now()}
	r := &run{
		o:   o,
		s:   s,
		log: logrus.WithField("session", s.ID.String()),
	}

	err := r.execute(ctx, cfg)
	if err != nil {
		s.Outcome = Aborted
	}
	r.log.WithFields(logrus.Fields{
		"outcome":  s.Outcome.String(),
		"duration": now().Sub(s.StartedAt).Round(time.Millisecond).String(),
	}).Info("Edit session finished")
	return s, err
}

func (r *run) stage(st Stage) *logrus.Entry {
	return r.log.WithField("stage", string(st))
}

func (r *run) fail(st Stage, err error) error {
	r.restoreClipboard(st)
	r.stage(st).WithError(err).Error("Edit session failed")
	return &StageError{Stage: st, Err: err}
}

func (r *run) restoreClipboard(st Stage) {
	if !r.hasOriginal {
		return
	}
	if err := r.o.Clipboard.WriteText(r.original); err != nil {
		r.stage(st).WithError(err).Warn("Failed to restore clipboard")
		return
	}
	r.stage(st).Debug("Clipboard restored")
}

func (r *run) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if r.o.Sleep != nil {
		r.o.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (r *run) execute(ctx context.Context, cfg config.Config) error {
	o, s := r.o, r.s
	r.log.WithFields(logrus.Fields{
		"terminal": cfg.Terminal.Name,
		"editor":   cfg.Editor,
	}).Info("Starting edit session")

	// ── Snapshot ─────────────────────────────────────────────────────────

	if app, err := o.Focus.Frontmost(ctx); err != nil {
		r.stage(StageSnapshot).WithError(err).Warn("Could not identify frontmost app")
	} else {
		s.FrontmostApp = app
		r.stage(StageSnapshot).WithField("app", app).Debug("Frontmost app recorded")
	}
	if text, err := o.Clipboard.ReadText(); err != nil {
		r.stage(StageSnapshot).WithError(err).Debug("No clipboard text to restore")
	} else {
		r.original, r.hasOriginal = text, true
	}

	// ── Capture ──────────────────────────────────────────────────────────

	if err := o.Keyboard.Copy(); err != nil {
		return r.fail(StageCapture, err)
	}
	r.sleep(o.CopySettle)

	captured, err := o.Clipboard.ReadText()
	if err != nil {
		return r.fail(StageCapture, fmt.Errorf("reading selected text: %w", err))
	}
	if captured == "" {
		r.stage(StageCapture).Warn("No text selected, aborting edit session")
		r.restoreClipboard(StageCapture)
		s.Outcome = Aborted
		return nil
	}
	s.CapturedText = captured
	r.stage(StageCapture).WithField("chars", len([]rune(captured))).Info("Captured selected text")

	// ── Stage ────────────────────────────────────────────────────────────

	dir := o.ScratchDir
	if dir == "" {
		dir = os.TempDir()
	}
	path, mtime, err := writeScratch(dir, captured)
	if err != nil {
		return r.fail(StageScratch, err)
	}
	s.ScratchPath, s.Baseline = path, mtime
	r.stage(StageScratch).WithField("path", path).Debug("Scratch file written")

	// ── Launch ───────────────────────────────────────────────────────────

	h, err := o.Launcher.Launch(ctx, terminal.Request{
		Terminal:    cfg.Terminal.Name,
		Editor:      cfg.Editor,
		ScratchPath: path,
		Width:       cfg.Terminal.Width,
		Height:      cfg.Terminal.Height,
	})
	if err != nil {
		return r.fail(StageLaunch, err)
	}
	s.Strategy = h.Strategy
	r.stage(StageLaunch).WithField("strategy", h.Strategy.String()).Info("Editor launched")

	// ── Await ────────────────────────────────────────────────────────────

	reason, err := r.await(ctx, h)
	if errors.Is(err, completion.ErrTimeout) {
		return r.timedOut(err)
	}
	if err != nil {
		return r.fail(StageAwait, err)
	}
	s.Reason = reason
	r.stage(StageAwait).WithField("reason", reason.String()).Info("Edit finished")
	if h.Strategy == completion.ProcessWait {
		defer os.Remove(path)
	}

	// ── Diff ─────────────────────────────────────────────────────────────

	edited, removed, err := readScratch(path)
	if err != nil {
		return r.fail(StageDiff, err)
	}
	if removed {
		r.stage(StageDiff).Info("Scratch file removed, treating as unchanged")
		edited = captured
	}
	s.EditedText = Normalize(edited)

	// ── Resolve ──────────────────────────────────────────────────────────

	if contenthash.Equal(Normalize(captured), s.EditedText) {
		r.stage(StageResolve).Info("Content unchanged, restoring clipboard")
		r.restoreClipboard(StageResolve)
		s.Outcome = Unchanged
		return nil
	}
	return r.apply(ctx)
}

func (r *run) await(ctx context.Context, h *terminal.Handle) (completion.Reason, error) {
	switch h.Strategy {
	case completion.ProcessWait:
		if h.Process == nil {
			return completion.Exited, errors.New("terminal returned no process to wait on")
		}
		return completion.WaitProcess(ctx, h.Process)
	case completion.FileWatch:
		w := r.o.Watch
		w.Path = r.s.ScratchPath
		w.Baseline = r.s.Baseline
		return w.Wait(ctx)
	default:
		return completion.Exited, fmt.Errorf("unknown completion strategy %d", h.Strategy)
	}
}

// timedOut handles the file-watch ceiling. Whatever the user already saved
// is left on the clipboard without pasting; otherwise the clipboard is
// restored.
func (r *run) timedOut(err error) error {
	s := r.s
	edited, removed, rerr := readScratch(s.ScratchPath)
	if rerr == nil && !removed && !contenthash.Equal(Normalize(s.CapturedText), Normalize(edited)) {
		s.EditedText = Normalize(edited)
		if werr := r.o.Clipboard.WriteText(s.EditedText); werr == nil {
			r.stage(StageAwait).WithField("path", s.ScratchPath).
				Error("Timed out waiting for the editor; edited text left on the clipboard")
			return &StageError{Stage: StageAwait, Err: err}
		}
	}
	return r.fail(StageAwait, err)
}

func (r *run) apply(ctx context.Context) error {
	o, s := r.o, r.s
	log := r.stage(StageResolve)
	log.WithField("chars", len([]rune(s.EditedText))).Info("Content changed, pasting back")

	if err := o.Clipboard.WriteText(s.EditedText); err != nil {
		return r.fail(StageResolve, fmt.Errorf("writing edited text to clipboard: %w", err))
	}

	if s.FrontmostApp != "" {
		if err := o.Focus.Activate(ctx, s.FrontmostApp); err != nil {
			log.WithError(err).Warn("Failed to re-activate original app")
			r.sleep(o.FocusFallback)
		}
	} else {
		r.sleep(o.FocusFallback)
	}

	if err := o.Keyboard.Paste(); err != nil {
		log.WithError(err).Error("Paste failed; edited text is on the clipboard")
		return &StageError{Stage: StageResolve, Err: err}
	}
	s.Outcome = Applied
	return nil
}
