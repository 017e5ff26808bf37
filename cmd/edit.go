package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/helix-anywhere/helix-anywhere/internal/session"
)

var editDelay time.Duration

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Run one edit session now, without the hotkey listener",
	Long: `Run a single edit session against the current selection. Useful when
another tool (skhd, Hammerspoon, Raycast) owns the hotkey. Use --delay when
starting it from a terminal so there is time to focus the target app.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if editDelay > 0 {
			select {
			case <-time.After(editDelay):
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
		}

		s, err := newOrchestrator().Run(cmd.Context(), store.Snapshot())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s: %s\n", s.ID, s.Outcome)
		return nil
	},
}

// newOrchestrator is replaced in tests.
var newOrchestrator = session.New

func init() {
	editCmd.Flags().DurationVar(&editDelay, "delay", 0, "wait before copying the selection")
	rootCmd.AddCommand(editCmd)
}
