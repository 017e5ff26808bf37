package cmd

import (
	"fmt"

	fcolor "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helix-anywhere/helix-anywhere/internal/terminal"
)

var terminalsCmd = &cobra.Command{
	Use:   "terminals",
	Short: "List supported terminals and which are installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		env := newTerminalEnv()
		current := store.Snapshot().Terminal.Name
		selected, _ := terminal.Lookup(current)

		ok := fcolor.New(fcolor.FgGreen)
		missing := fcolor.New(fcolor.FgHiBlack)
		out := cmd.OutOrStdout()
		for _, p := range terminal.All() {
			mark := " "
			if selected != nil && p.ConfigName() == selected.ConfigName() {
				mark = "*"
			}
			line := fmt.Sprintf("%s %-10s %-13s %s", mark, p.ConfigName(), p.DisplayName(), p.Strategy())
			if p.Installed(env) {
				fmt.Fprintln(out, ok.Sprintf("%s ✔", line))
			} else {
				fmt.Fprintln(out, missing.Sprintf("%s ○ not installed", line))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(terminalsCmd)
}
