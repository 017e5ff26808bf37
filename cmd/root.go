package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/helix-anywhere/helix-anywhere/internal/config"
	"github.com/helix-anywhere/helix-anywhere/internal/hotkey"
	"github.com/helix-anywhere/helix-anywhere/internal/logging"
	"github.com/helix-anywhere/helix-anywhere/internal/terminal"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

// store holds the live configuration, populated in PersistentPreRunE.
var store *config.Store

// Host hooks, replaced in tests.
var (
	newTerminalEnv       = terminal.SystemEnv
	accessibilityTrusted = hotkey.AccessibilityTrusted
	isInteractive        = func() bool { return term.IsTerminal(os.Stdin.Fd()) }
)

var rootCmd = &cobra.Command{
	Use:   "helix-anywhere",
	Short: "Edit selected text from any app in Helix, triggered by a global hotkey",
	Long: `helix-anywhere listens for a global hotkey. When pressed it copies the
current selection, opens it in your editor inside a terminal window, and pastes
the result back once you save and quit. Closing the editor without changes
leaves everything as it was.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Setup(cmd.ErrOrStderr(), logLevel, logFormat); err != nil {
			return err
		}

		path, err := resolveConfigPath()
		if err != nil {
			return err
		}

		// First run: no config yet → run the setup wizard when interactive.
		// Non-interactive (tests, launchd): defaults are written instead.
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && isInteractive() {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "  Welcome to helix-anywhere! Looks like this is your first time.")
			if err := runSetup(cmd, path); err != nil {
				return err
			}
		}

		cfg, err := config.LoadOrCreate(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.WithError(err).Warn("Config has problems")
		}
		store = config.NewStore(*cfg)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd)
	},
}

// resolveConfigPath returns the --config flag or the default location.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	p, err := config.Path()
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	return p, nil
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/helix-anywhere/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default $"+logging.EnvLevel+" or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatText, "log format: text or json")
}
