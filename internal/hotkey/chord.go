package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

// Modifier is a set of modifier flags using the CGEventFlags bit layout.
type Modifier uint64

const (
	Primary Modifier = 0x00100000 // command
	Shift   Modifier = 0x00020000
	Control Modifier = 0x00040000
	Option  Modifier = 0x00080000

	// ModifierMask keeps the four tracked modifiers; every other flag bit
	// (caps lock, fn, numeric pad, device-dependent bits) is ignored.
	ModifierMask = Primary | Shift | Control | Option
)

var (
	ErrUnknownKey      = errors.New("unknown key")
	ErrUnknownModifier = errors.New("unknown modifier")
	ErrEmptyBinding    = errors.New("empty hotkey binding")
)

var modifierNames = map[string]Modifier{
	"cmd":     Primary,
	"command": Primary,
	"shift":   Shift,
	"alt":     Option,
	"option":  Option,
	"ctrl":    Control,
	"control": Control,
}

// ParseModifier resolves a modifier name or alias.
func ParseModifier(name string) (Modifier, bool) {
	m, ok := modifierNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// Chord is a modifier set plus one physical key, matched as an exact set.
type Chord struct {
	Modifiers Modifier
	Key       KeyCode
}

// ParseChord builds a Chord from stored configuration.
func ParseChord(modifiers []string, key string) (Chord, error) {
	code, ok := KeyCodeFromName(key)
	if !ok {
		return Chord{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	var mods Modifier
	for _, name := range modifiers {
		m, ok := ParseModifier(name)
		if !ok {
			return Chord{}, fmt.Errorf("%w: %q", ErrUnknownModifier, name)
		}
		mods |= m
	}
	return Chord{Modifiers: mods, Key: code}, nil
}

// ParseBinding parses a "cmd+shift+semicolon" style binding.
func ParseBinding(binding string) (Chord, error) {
	binding = strings.TrimSpace(binding)
	if binding == "" {
		return Chord{}, ErrEmptyBinding
	}
	parts := strings.Split(binding, "+")
	key := parts[len(parts)-1]
	if key == "" {
		// "cmd++" style bindings are not supported; "=" is the plus key.
		return Chord{}, fmt.Errorf("%w: %q", ErrUnknownKey, binding)
	}
	return ParseChord(parts[:len(parts)-1], key)
}

// Matches reports whether a key-down with the given raw flags is this chord.
// Only the tracked modifier bits are compared, and they must be equal: extra
// tracked modifiers on the event are a mismatch.
func (c Chord) Matches(key KeyCode, flags uint64) bool {
	return key == c.Key && Modifier(flags)&ModifierMask == c.Modifiers&ModifierMask
}

// ModifierNames returns the canonical config names of c's modifiers.
func (c Chord) ModifierNames() []string {
	var out []string
	for _, m := range []struct {
		flag Modifier
		name string
	}{
		{Primary, "cmd"},
		{Shift, "shift"},
		{Option, "option"},
		{Control, "control"},
	} {
		if c.Modifiers&m.flag != 0 {
			out = append(out, m.name)
		}
	}
	return out
}

// KeyName returns the canonical config name of c's key.
func (c Chord) KeyName() string {
	name, ok := KeyName(c.Key)
	if !ok {
		return fmt.Sprintf("0x%02X", uint16(c.Key))
	}
	return name
}

// String renders c the way macOS menus do, e.g. "⌘⇧;".
func (c Chord) String() string {
	var b strings.Builder
	if c.Modifiers&Control != 0 {
		b.WriteString("⌃")
	}
	if c.Modifiers&Option != 0 {
		b.WriteString("⌥")
	}
	if c.Modifiers&Shift != 0 {
		b.WriteString("⇧")
	}
	if c.Modifiers&Primary != 0 {
		b.WriteString("⌘")
	}
	if k, ok := keysByCode[c.Key]; ok {
		b.WriteString(k.label)
	} else {
		fmt.Fprintf(&b, "0x%02X", uint16(c.Key))
	}
	return b.String()
}

// Reserved returns why c collides with a system shortcut, or "" if it does not.
func Reserved(c Chord) string {
	if c.Modifiers&ModifierMask != Primary {
		return ""
	}
	switch c.KeyName() {
	case "q":
		return "Cmd+Q is reserved for Quit"
	case "w":
		return "Cmd+W is reserved for Close Window"
	case "h":
		return "Cmd+H is reserved for Hide"
	case "m":
		return "Cmd+M is reserved for Minimize"
	case "tab":
		return "Cmd+Tab is reserved for App Switcher"
	case "space":
		return "Cmd+Space is reserved for Spotlight"
	}
	return ""
}
