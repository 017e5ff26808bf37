package terminal

import (
	"fmt"
	"strings"
)

var profiles = []Profile{
	Ghostty{app{"Ghostty", "ghostty", "/Applications/Ghostty.app"}},
	WezTerm{app{"WezTerm", "wezterm", "/Applications/WezTerm.app"}},
	Kitty{app{"Kitty", "kitty", "/Applications/kitty.app"}},
	Alacritty{app{"Alacritty", "alacritty", "/Applications/Alacritty.app"}},
	ITerm{app{"iTerm2", "iterm", "/Applications/iTerm.app"}},
	TerminalApp{app{"Terminal.app", "terminal", "/System/Applications/Utilities/Terminal.app"}},
}

var aliases = map[string]string{
	"iterm2":       "iterm",
	"terminal.app": "terminal",
}

// All returns every supported profile in display order.
func All() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// Lookup finds a profile by config name or alias, case-insensitively.
func Lookup(name string) (Profile, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	for _, p := range profiles {
		if p.ConfigName() == key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTerminal, name)
}

// Installed returns the profiles whose application bundle is present.
func Installed(env *Env) []Profile {
	var out []Profile
	for _, p := range profiles {
		if p.Installed(env) {
			out = append(out, p)
		}
	}
	return out
}
