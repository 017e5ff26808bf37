// Package desktop wraps the host OS services an edit session touches: the
// text clipboard, synthetic copy/paste gestures and application focus.
package desktop

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned where the host OS has no implementation.
var ErrUnsupported = errors.New("not supported on this platform")

// Clipboard reads and writes plain text on the OS clipboard.
type Clipboard struct{}

// ReadText returns the current clipboard text.
func (Clipboard) ReadText() (string, error) {
	return clipboard.ReadAll()
}

// WriteText replaces the clipboard contents with text.
func (Clipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
