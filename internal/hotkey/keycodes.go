package hotkey

import "strings"

// KeyCode is a macOS virtual key code (ANSI layout).
type KeyCode uint16

type keyInfo struct {
	code  KeyCode
	names []string // first entry is the canonical config name
	label string   // shown in chord displays
}

var keyTable = []keyInfo{
	{0x00, []string{"a"}, "A"},
	{0x01, []string{"s"}, "S"},
	{0x02, []string{"d"}, "D"},
	{0x03, []string{"f"}, "F"},
	{0x04, []string{"h"}, "H"},
	{0x05, []string{"g"}, "G"},
	{0x06, []string{"z"}, "Z"},
	{0x07, []string{"x"}, "X"},
	{0x08, []string{"c"}, "C"},
	{0x09, []string{"v"}, "V"},
	{0x0B, []string{"b"}, "B"},
	{0x0C, []string{"q"}, "Q"},
	{0x0D, []string{"w"}, "W"},
	{0x0E, []string{"e"}, "E"},
	{0x0F, []string{"r"}, "R"},
	{0x10, []string{"y"}, "Y"},
	{0x11, []string{"t"}, "T"},
	{0x12, []string{"1"}, "1"},
	{0x13, []string{"2"}, "2"},
	{0x14, []string{"3"}, "3"},
	{0x15, []string{"4"}, "4"},
	{0x16, []string{"6"}, "6"},
	{0x17, []string{"5"}, "5"},
	{0x18, []string{"="}, "="},
	{0x19, []string{"9"}, "9"},
	{0x1A, []string{"7"}, "7"},
	{0x1B, []string{"-"}, "-"},
	{0x1C, []string{"8"}, "8"},
	{0x1D, []string{"0"}, "0"},
	{0x1E, []string{"]"}, "]"},
	{0x1F, []string{"o"}, "O"},
	{0x20, []string{"u"}, "U"},
	{0x21, []string{"["}, "["},
	{0x22, []string{"i"}, "I"},
	{0x23, []string{"p"}, "P"},
	{0x24, []string{"return", "enter"}, "↩"},
	{0x25, []string{"l"}, "L"},
	{0x26, []string{"j"}, "J"},
	{0x27, []string{"quote", "'"}, "'"},
	{0x28, []string{"k"}, "K"},
	{0x29, []string{"semicolon", ";"}, ";"},
	{0x2A, []string{"backslash", "\\"}, "\\"},
	{0x2B, []string{"comma", ","}, ","},
	{0x2C, []string{"slash", "/"}, "/"},
	{0x2D, []string{"n"}, "N"},
	{0x2E, []string{"m"}, "M"},
	{0x2F, []string{"period", "."}, "."},
	{0x30, []string{"tab"}, "⇥"},
	{0x31, []string{"space"}, "Space"},
	{0x32, []string{"grave", "`", "backtick"}, "`"},
	{0x33, []string{"delete", "backspace"}, "⌫"},
	{0x35, []string{"escape", "esc"}, "⎋"},
}

var (
	keysByName = map[string]keyInfo{}
	keysByCode = map[KeyCode]keyInfo{}
)

func init() {
	for _, k := range keyTable {
		keysByCode[k.code] = k
		for _, n := range k.names {
			keysByName[n] = k
		}
	}
}

// KeyCodeFromName resolves a config key name or alias.
func KeyCodeFromName(name string) (KeyCode, bool) {
	k, ok := keysByName[strings.ToLower(strings.TrimSpace(name))]
	return k.code, ok
}

// KeyName returns the canonical config name for code.
func KeyName(code KeyCode) (string, bool) {
	k, ok := keysByCode[code]
	if !ok {
		return "", false
	}
	return k.names[0], true
}

// IsModifierKey reports whether code is a bare modifier key
// (command, shift, caps lock, option, control, fn; either side).
func IsModifierKey(code KeyCode) bool {
	return code >= 54 && code <= 63
}
