// Package hotkey captures a global keyboard chord and turns it into triggers.
//
// A Controller owns the system event tap on a dedicated OS thread and accepts
// Restart/Stop commands over an ordered queue. Matching key-downs are
// consumed and handed to a Dispatcher, whose single worker runs the trigger
// callback one trigger at a time.
package hotkey

import (
	"errors"
	"time"
)

var (
	// ErrPermissionDenied is returned when the event tap cannot be installed,
	// which on macOS means Accessibility access has not been granted.
	ErrPermissionDenied = errors.New("failed to create event tap: grant Accessibility access in System Settings > Privacy & Security > Accessibility and restart helix-anywhere")
	// ErrUnsupported is returned on platforms without an event tap.
	ErrUnsupported = errors.New("global hotkeys are not supported on this platform")
)

// Event is a key-down seen by the tap.
type Event struct {
	Key   KeyCode
	Flags uint64 // raw modifier flags
}

// Handler inspects an event and reports whether to consume it. Consumed
// events are not delivered to other applications.
type Handler func(Event) bool

// Tap is an installed keyboard filter. Service and Close must be called on
// the OS thread that created it, because the tap is bound to that thread's
// run loop.
type Tap interface {
	// Service runs the run loop for at most d, invoking the handler for
	// events that arrive meanwhile.
	Service(d time.Duration)
	Close() error
}

// TapFactory installs a Tap that filters events through h.
type TapFactory func(h Handler) (Tap, error)
