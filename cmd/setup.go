package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helix-anywhere/helix-anywhere/internal/config"
	"github.com/helix-anywhere/helix-anywhere/internal/terminal"
	"github.com/helix-anywhere/helix-anywhere/internal/wizard"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure helix-anywhere (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup works before a config exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		return runSetup(cmd, path)
	},
}

// runSetup runs the interactive wizard and saves the result to path.
func runSetup(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()

	// Existing config values are the defaults for each prompt.
	cur := config.Defaults()
	existing, err := config.LoadFile(path)
	switch {
	case err == nil:
		cur = *existing
	case !errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(out, "  ⚠ %v; starting from defaults\n", err)
	}

	cfg, err := wizard.Run(cmd.InOrStdin(), out, cur, terminal.Installed(newTerminalEnv()))
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if err := config.SaveFile(path, &cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "  ✓ Config saved to %s\n", path)
	if !accessibilityTrusted(false) {
		fmt.Fprintln(out, "  ⚠ Grant Accessibility access in System Settings > Privacy & Security > Accessibility.")
	}
	fmt.Fprintln(out, "  Setup complete. Run 'helix-anywhere' to start listening for the hotkey.")
	fmt.Fprintln(out)
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
