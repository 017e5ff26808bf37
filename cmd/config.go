package cmd

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/helix-anywhere/helix-anywhere/internal/config"
	"github.com/helix-anywhere/helix-anywhere/internal/hotkey"
	"github.com/helix-anywhere/helix-anywhere/internal/terminal"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings (a running listener picks changes up)",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := store.Snapshot()
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var setTerminalCmd = &cobra.Command{
	Use:   "set-terminal <name>",
	Short: "Choose the terminal: ghostty, wezterm, kitty, alacritty, iterm, terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := terminal.Lookup(args[0])
		if err != nil {
			return err
		}
		if !p.Installed(newTerminalEnv()) {
			fmt.Fprintf(cmd.OutOrStdout(), "⚠ %s is not installed at %s\n", p.DisplayName(), p.AppPath())
		}
		cfg := store.Update(func(c *config.Config) { c.Terminal.Name = p.ConfigName() })
		return saveConfig(cmd, cfg)
	},
}

var setHotkeyCmd = &cobra.Command{
	Use:   "set-hotkey <binding>",
	Short: `Set the hotkey, e.g. "cmd+shift+semicolon"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chord, err := hotkey.ParseBinding(args[0])
		if err != nil {
			return err
		}
		if reason := hotkey.Reserved(chord); reason != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "⚠ %s\n", reason)
		}
		cfg := store.Update(func(c *config.Config) { c.SetChord(chord) })
		return saveConfig(cmd, cfg)
	},
}

var setSizeCmd = &cobra.Command{
	Use:   "set-size <columns> <rows>",
	Short: "Set the editor window size in cells",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dims [2]uint
		for i, a := range args {
			n, err := strconv.ParseUint(a, 10, 32)
			if err != nil || n == 0 {
				return fmt.Errorf("invalid size %q: want a positive integer", a)
			}
			dims[i] = uint(n)
		}
		cfg := store.Update(func(c *config.Config) {
			c.Terminal.Width, c.Terminal.Height = dims[0], dims[1]
		})
		return saveConfig(cmd, cfg)
	},
}

// saveConfig validates cfg and writes it to the config file.
func saveConfig(cmd *cobra.Command, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if err := config.SaveFile(path, &cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s\n", path)
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, setTerminalCmd, setHotkeyCmd, setSizeCmd)
	rootCmd.AddCommand(configCmd)
}
