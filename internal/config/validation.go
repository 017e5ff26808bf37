package config

import (
	"fmt"
	"strings"

	"github.com/helix-anywhere/helix-anywhere/internal/hotkey"
	"github.com/helix-anywhere/helix-anywhere/internal/terminal"
)

// ValidationError lists every problem found in a config.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

// Validate checks c for values that would make sessions or the hotkey
// listener fail. It returns nil or a *ValidationError.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Editor) == "" {
		problems = append(problems, "editor must not be empty")
	}

	if strings.TrimSpace(c.Hotkey.Key) == "" {
		problems = append(problems, "hotkey.key must be set")
	} else if _, err := c.Chord(); err != nil {
		problems = append(problems, fmt.Sprintf("hotkey: %v", err))
	}

	if _, err := terminal.Lookup(c.Terminal.Name); err != nil {
		problems = append(problems, fmt.Sprintf("terminal.name: %v", err))
	}
	if c.Terminal.Width == 0 {
		problems = append(problems, "terminal.width must be greater than 0")
	}
	if c.Terminal.Height == 0 {
		problems = append(problems, "terminal.height must be greater than 0")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Chord parses the configured hotkey.
func (c *Config) Chord() (hotkey.Chord, error) {
	return hotkey.ParseChord(c.Hotkey.Modifiers, c.Hotkey.Key)
}

// SetChord stores ch using canonical names.
func (c *Config) SetChord(ch hotkey.Chord) {
	c.Hotkey = Hotkey{Modifiers: ch.ModifierNames(), Key: ch.KeyName()}
}
