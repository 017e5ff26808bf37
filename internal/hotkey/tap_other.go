//go:build !darwin

package hotkey

// SystemTap is unavailable off macOS.
func SystemTap(h Handler) (Tap, error) {
	return nil, ErrUnsupported
}

// AccessibilityTrusted always reports false off macOS.
func AccessibilityTrusted(prompt bool) bool {
	return false
}
