//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation

#include <stdint.h>
#include "tap_darwin.h"
*/
import "C"

import (
	"runtime/cgo"
	"time"
)

// systemTap is a CGEventTap on the session event stream.
type systemTap struct {
	ref     *C.HelixTap
	handle  cgo.Handle
	handler Handler
}

// SystemTap installs a CGEventTap on the calling OS thread's run loop.
// Callers must hold runtime.LockOSThread for the tap's whole life.
func SystemTap(h Handler) (Tap, error) {
	if !AccessibilityTrusted(false) {
		return nil, ErrPermissionDenied
	}
	t := &systemTap{handler: h}
	t.handle = cgo.NewHandle(t)
	t.ref = C.helixTapCreate(C.uintptr_t(t.handle))
	if t.ref == nil {
		t.handle.Delete()
		return nil, ErrPermissionDenied
	}
	return t, nil
}

func (t *systemTap) Service(d time.Duration) {
	C.helixTapService(C.double(d.Seconds()))
}

func (t *systemTap) Close() error {
	if t.ref == nil {
		return nil
	}
	C.helixTapDestroy(t.ref)
	t.ref = nil
	t.handle.Delete()
	return nil
}

//export helixTapEvent
func helixTapEvent(handle C.uintptr_t, key C.int64_t, flags C.uint64_t) C.int {
	t, ok := cgo.Handle(handle).Value().(*systemTap)
	if !ok || t.handler == nil {
		return 0
	}
	if t.handler(Event{Key: KeyCode(key), Flags: uint64(flags)}) {
		return 1
	}
	return 0
}

// AccessibilityTrusted reports whether this process may install event taps.
// With prompt set, macOS shows its permission dialog when access is missing.
func AccessibilityTrusted(prompt bool) bool {
	p := C.int(0)
	if prompt {
		p = 1
	}
	return C.helixAccessibilityTrusted(p) == 1
}
