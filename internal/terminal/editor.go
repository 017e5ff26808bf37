package terminal

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultEditor is the Helix binary name.
const DefaultEditor = "hx"

// editorDirs lists install locations checked before the search path. A GUI
// launched app does not inherit the login shell's PATH.
func editorDirs(home string) []string {
	dirs := []string{
		"/opt/homebrew/bin", // Homebrew on Apple Silicon
		"/usr/local/bin",    // Homebrew on Intel
	}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, ".cargo", "bin"))
	}
	return append(dirs, "/usr/bin")
}

// FindEditor resolves name to an absolute binary path.
func FindEditor(env *Env, name string) (string, error) {
	if name == "" {
		name = DefaultEditor
	}

	if strings.ContainsRune(name, filepath.Separator) {
		if env.isFile(name) {
			return name, nil
		}
		return "", editorNotFound(name)
	}

	for _, dir := range editorDirs(env.Home) {
		candidate := filepath.Join(dir, name)
		if env.isFile(candidate) {
			return candidate, nil
		}
	}

	for _, dir := range filepath.SplitList(env.Path) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if env.isFile(candidate) {
			return candidate, nil
		}
	}

	return "", editorNotFound(name)
}

func editorNotFound(name string) error {
	if filepath.Base(name) == DefaultEditor {
		return fmt.Errorf("%w: Helix editor (hx) not found. Install with: brew install helix", ErrEditorNotFound)
	}
	return fmt.Errorf("%w: %s not found in common install locations or PATH", ErrEditorNotFound, name)
}
