package cmd

import (
	"fmt"
	"io"

	fcolor "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helix-anywhere/helix-anywhere/internal/terminal"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check permissions, editor and terminal setup",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg := store.Snapshot()
		env := newTerminalEnv()
		problems := 0

		report := func(name string, err error) {
			if err != nil {
				problems++
				fmt.Fprintf(out, "%s %s: %v\n", fcolor.New(fcolor.FgRed).Sprint("✗"), name, err)
				return
			}
			fmt.Fprintf(out, "%s %s\n", fcolor.New(fcolor.FgGreen).Sprint("✔"), name)
		}

		if accessibilityTrusted(false) {
			report("accessibility access", nil)
		} else {
			report("accessibility access", fmt.Errorf("not granted; enable helix-anywhere in System Settings > Privacy & Security > Accessibility"))
		}

		report("config", cfg.Validate())

		if p, err := terminal.Lookup(cfg.Terminal.Name); err != nil {
			report("terminal", err)
		} else if !p.Installed(env) {
			report("terminal "+p.DisplayName(), &terminal.NotInstalledError{Terminal: p.DisplayName()})
		} else {
			report("terminal "+p.DisplayName(), nil)
		}

		if path, err := terminal.FindEditor(env, cfg.Editor); err != nil {
			report("editor", err)
		} else {
			report("editor "+path, nil)
		}

		return summarize(out, problems)
	},
}

func summarize(out io.Writer, problems int) error {
	if problems == 0 {
		fmt.Fprintln(out, "Everything looks good.")
		return nil
	}
	return fmt.Errorf("doctor found %d problem(s)", problems)
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
