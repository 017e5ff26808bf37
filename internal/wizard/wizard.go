// Package wizard runs the interactive first-run setup and writes the
// answers into a config.Config.
package wizard

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/helix-anywhere/helix-anywhere/internal/config"
	"github.com/helix-anywhere/helix-anywhere/internal/hotkey"
	"github.com/helix-anywhere/helix-anywhere/internal/terminal"
)

// Run asks for each setting, using cur as the default for every prompt,
// and returns the updated config. Invalid answers keep the default.
// installed lists the terminals offered first.
func Run(in io.Reader, out io.Writer, cur config.Config, installed []terminal.Profile) (config.Config, error) {
	r := bufio.NewReader(in)
	cfg := cur.Clone()

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Fprintf(out, "%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Fprintf(out, "%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	askSize := func(prompt string, defaultVal uint) (uint, error) {
		ans, err := ask(prompt, strconv.FormatUint(uint64(defaultVal), 10))
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseUint(ans, 10, 32)
		if err != nil || n == 0 {
			fmt.Fprintf(out, "  ⚠ %q is not a positive number, keeping %d\n", ans, defaultVal)
			return defaultVal, nil
		}
		return uint(n), nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  ┌─────────────────────────────────────┐")
	fmt.Fprintln(out, "  │   helix-anywhere - first-time setup │")
	fmt.Fprintln(out, "  └─────────────────────────────────────┘")
	fmt.Fprintln(out)

	if len(installed) > 0 {
		names := make([]string, 0, len(installed))
		for _, p := range installed {
			names = append(names, p.ConfigName())
		}
		fmt.Fprintf(out, "  Installed terminals: %s\n", strings.Join(names, ", "))
	} else {
		fmt.Fprintln(out, "  ⚠ No supported terminal found in /Applications")
	}

	name, err := ask("  Terminal", cfg.Terminal.Name)
	if err != nil {
		return cur, err
	}
	if p, err := terminal.Lookup(name); err != nil {
		fmt.Fprintf(out, "  ⚠ %v, keeping %s\n", err, cfg.Terminal.Name)
	} else {
		cfg.Terminal.Name = p.ConfigName()
	}

	if cfg.Editor, err = ask("  Editor binary", cfg.Editor); err != nil {
		return cur, err
	}
	if cfg.Terminal.Width, err = askSize("  Window width (columns)", cfg.Terminal.Width); err != nil {
		return cur, err
	}
	if cfg.Terminal.Height, err = askSize("  Window height (rows)", cfg.Terminal.Height); err != nil {
		return cur, err
	}

	binding := strings.Join(append(append([]string(nil), cfg.Hotkey.Modifiers...), cfg.Hotkey.Key), "+")
	ans, err := ask("  Hotkey", binding)
	if err != nil {
		return cur, err
	}
	if chord, err := hotkey.ParseBinding(ans); err != nil {
		fmt.Fprintf(out, "  ⚠ %v, keeping %s\n", err, binding)
	} else {
		if reason := hotkey.Reserved(chord); reason != "" {
			fmt.Fprintf(out, "  ⚠ %s\n", reason)
		}
		cfg.SetChord(chord)
	}

	fmt.Fprintln(out)
	return cfg, nil
}
