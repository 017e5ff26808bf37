package hotkey

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultRecordTimeout is how long Record waits for a chord.
const DefaultRecordTimeout = 10 * time.Second

// ErrRecordTimeout is returned when no valid chord was pressed in time.
var ErrRecordTimeout = errors.New("no hotkey recorded before timeout")

// Recorder captures the next valid chord the user presses.
type Recorder struct {
	Factory TapFactory
	Timeout time.Duration
	Slice   time.Duration
}

// Record installs a temporary tap and returns the first key-down that has a
// nameable, non-modifier key and at least one modifier. That key-down is
// consumed; everything else passes through.
func (r Recorder) Record(ctx context.Context) (Chord, error) {
	factory := r.Factory
	if factory == nil {
		factory = SystemTap
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultRecordTimeout
	}
	slice := r.Slice
	if slice <= 0 {
		slice = DefaultSlice
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var got *Chord
	tap, err := factory(func(ev Event) bool {
		if got != nil || IsModifierKey(ev.Key) {
			return false
		}
		if _, ok := KeyName(ev.Key); !ok {
			logrus.WithField("keycode", uint16(ev.Key)).Debug("Ignoring unmapped key while recording")
			return false
		}
		mods := Modifier(ev.Flags) & ModifierMask
		if mods == 0 {
			logrus.Debug("Ignoring key without modifiers while recording")
			return false
		}
		got = &Chord{Modifiers: mods, Key: ev.Key}
		return true
	})
	if err != nil {
		return Chord{}, err
	}
	defer tap.Close()

	deadline := time.Now().Add(timeout)
	for got == nil {
		if err := ctx.Err(); err != nil {
			return Chord{}, err
		}
		left := time.Until(deadline)
		if left <= 0 {
			return Chord{}, ErrRecordTimeout
		}
		tap.Service(min(slice, left))
	}
	return *got, nil
}
