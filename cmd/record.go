package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/helix-anywhere/helix-anywhere/internal/config"
	"github.com/helix-anywhere/helix-anywhere/internal/hotkey"
	"github.com/helix-anywhere/helix-anywhere/internal/tui"
)

var (
	recordSave    bool
	recordTimeout time.Duration
)

// recordFunc captures one chord; replaced in tests.
var recordFunc = func(ctx context.Context, timeout time.Duration) (hotkey.Chord, error) {
	return hotkey.Recorder{Timeout: timeout}.Record(ctx)
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a new hotkey by pressing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		record := func(ctx context.Context) (hotkey.Chord, error) {
			return recordFunc(ctx, recordTimeout)
		}

		var (
			chord hotkey.Chord
			err   error
		)
		if isInteractive() {
			chord, err = tui.Run(ctx, record, recordTimeout)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Press the new hotkey within %s…\n", recordTimeout)
			chord, err = record(ctx)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (%s)\n", chord, bindingOf(chord))
		if reason := hotkey.Reserved(chord); reason != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "⚠ %s\n", reason)
		}
		if !recordSave {
			return nil
		}
		cfg := store.Update(func(c *config.Config) { c.SetChord(chord) })
		return saveConfig(cmd, cfg)
	},
}

// bindingOf renders c in the "cmd+shift+semicolon" form accepted by set-hotkey.
func bindingOf(c hotkey.Chord) string {
	return strings.Join(append(c.ModifierNames(), c.KeyName()), "+")
}

func init() {
	recordCmd.Flags().BoolVar(&recordSave, "save", false, "store the recorded hotkey in the config file")
	recordCmd.Flags().DurationVar(&recordTimeout, "timeout", hotkey.DefaultRecordTimeout, "give up after this long")
	rootCmd.AddCommand(recordCmd)
}
