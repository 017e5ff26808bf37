package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/siderolabs/go-retry/retry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/helix-anywhere/helix-anywhere/internal/config"
	"github.com/helix-anywhere/helix-anywhere/internal/hotkey"
	"github.com/helix-anywhere/helix-anywhere/internal/session"
)

const accessibilityPoll = 2 * time.Second

var permissionTimeout time.Duration

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Listen for the hotkey and run edit sessions (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd)
	},
}

// waitForAccessibility blocks until the process is trusted for
// Accessibility, polling every interval for at most timeout.
func waitForAccessibility(ctx context.Context, out io.Writer, trusted func(prompt bool) bool, timeout, interval time.Duration) error {
	if trusted(true) {
		return nil
	}
	fmt.Fprintln(out, "helix-anywhere needs Accessibility access to watch for the hotkey.")
	fmt.Fprintln(out, "Open System Settings > Privacy & Security > Accessibility and enable it; waiting…")

	err := retry.Constant(timeout, retry.WithUnits(interval)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			if trusted(false) {
				return nil
			}
			return retry.ExpectedError(hotkey.ErrPermissionDenied)
		})
	if err != nil {
		return hotkey.ErrPermissionDenied
	}
	return nil
}

// chordChanged reports whether a config change needs a listener restart.
func chordChanged(old, new config.Config) bool {
	a, errA := old.Chord()
	b, errB := new.Chord()
	return errB == nil && (errA != nil || a != b)
}

func runDaemon(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if err := waitForAccessibility(ctx, cmd.ErrOrStderr(), accessibilityTrusted, permissionTimeout, accessibilityPoll); err != nil {
		return err
	}

	cfg := store.Snapshot()
	chord, err := cfg.Chord()
	if err != nil {
		return fmt.Errorf("invalid hotkey in %s: %w", path, err)
	}

	orch := session.New()
	dispatcher := hotkey.NewDispatcher(func(t hotkey.Trigger) {
		// Snapshot so a settings change never waits on a running session.
		snap := store.Snapshot()
		s, err := orch.Run(ctx, snap)
		entry := logrus.WithFields(logrus.Fields{"session": s.ID.String(), "trigger": t.Seq})
		if err != nil {
			entry.WithError(err).Error("Edit session failed")
			return
		}
		entry.WithField("outcome", s.Outcome.String()).Debug("Edit session done")
	})

	ctrl := hotkey.StartController(chord, hotkey.ControllerOptions{
		OnTrigger: func(c hotkey.Chord) { dispatcher.Dispatch(c) },
	})

	store.Subscribe(func(old, new config.Config) {
		if !chordChanged(old, new) {
			return
		}
		next, _ := new.Chord()
		logrus.WithField("chord", next.String()).Info("Hotkey changed, reinstalling listener")
		ctrl.Restart(next)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := config.Watch(gctx, path, func(c *config.Config, err error) {
			if err != nil {
				logrus.WithError(err).Warn("Ignoring config change")
				return
			}
			store.Replace(*c)
		})
		if err != nil {
			logrus.WithError(err).Warn("Config hot reload disabled")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctrl.Stop()
		<-ctrl.Done()
		dispatcher.Close()
		<-dispatcher.Done()
		return nil
	})

	logrus.WithFields(logrus.Fields{
		"chord":    chord.String(),
		"terminal": cfg.Terminal.Name,
		"config":   path,
	}).Info("helix-anywhere is running, press the hotkey with text selected")

	return g.Wait()
}

func init() {
	runCmd.Flags().DurationVar(&permissionTimeout, "permission-timeout", 10*time.Minute, "how long to wait for Accessibility access")
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
	rootCmd.AddCommand(runCmd)
}
