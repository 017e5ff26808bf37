package desktop

import (
	"fmt"
	"time"
)

// Virtual key codes on the ANSI layout.
const (
	keyC uint16 = 0x08
	keyV uint16 = 0x09
)

// Keyboard posts synthetic Cmd+C / Cmd+V gestures.
type Keyboard struct {
	PressDelay time.Duration // between key down and key up
	CopySettle time.Duration // after the copy gesture
}

// NewKeyboard returns a Keyboard with the usual settle delays.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		PressDelay: 10 * time.Millisecond,
		CopySettle: 100 * time.Millisecond,
	}
}

// Copy simulates the platform copy gesture.
func (k *Keyboard) Copy() error {
	if err := k.press(keyC); err != nil {
		return fmt.Errorf("simulating copy: %w", err)
	}
	time.Sleep(k.CopySettle)
	return nil
}

// Paste simulates the platform paste gesture.
func (k *Keyboard) Paste() error {
	if err := k.press(keyV); err != nil {
		return fmt.Errorf("simulating paste: %w", err)
	}
	return nil
}

func (k *Keyboard) press(key uint16) error {
	if err := postCommandKey(key, true); err != nil {
		return err
	}
	time.Sleep(k.PressDelay)
	return postCommandKey(key, false)
}
