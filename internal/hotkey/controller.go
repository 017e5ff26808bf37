package hotkey

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultSlice bounds how long the run loop is serviced between checks
	// for pending commands.
	DefaultSlice = 100 * time.Millisecond
	// DefaultRetryEvery is the wait between failed install attempts.
	DefaultRetryEvery = 2 * time.Second
)

type command struct {
	stop  bool
	chord Chord
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	Factory    TapFactory
	OnTrigger  func(Chord)
	Slice      time.Duration
	RetryEvery time.Duration
}

// Controller owns the event tap on a dedicated OS thread.
type Controller struct {
	cmds *queue[command]
	done chan struct{}
	opts ControllerOptions
}

// StartController installs a tap for chord on a new locked OS thread.
// Install failures are logged and retried; they never stop the controller.
func StartController(chord Chord, opts ControllerOptions) *Controller {
	if opts.Factory == nil {
		opts.Factory = SystemTap
	}
	if opts.Slice <= 0 {
		opts.Slice = DefaultSlice
	}
	if opts.RetryEvery <= 0 {
		opts.RetryEvery = DefaultRetryEvery
	}
	c := &Controller{
		cmds: newQueue[command](),
		done: make(chan struct{}),
		opts: opts,
	}
	go c.loop(chord)
	return c
}

// Restart swaps the active chord. The old tap is removed before the new one
// is installed. It reports false once the controller has stopped.
func (c *Controller) Restart(chord Chord) bool {
	return c.cmds.push(command{chord: chord})
}

// Stop removes the tap and ends the controller thread within one slice.
func (c *Controller) Stop() {
	c.cmds.push(command{stop: true})
}

// Close abandons pending commands and ends the controller thread.
func (c *Controller) Close() {
	c.cmds.close()
}

// Done is closed after the tap has been removed and the thread released.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

type listener struct {
	chord     Chord
	tap       Tap
	lastTry   time.Time
	onTrigger func(Chord)
	log       *logrus.Entry
}

func (l *listener) handle(ev Event) bool {
	if !l.chord.Matches(ev.Key, ev.Flags) {
		return false
	}
	if l.onTrigger != nil {
		l.onTrigger(l.chord)
	}
	return true
}

func (l *listener) install(factory TapFactory) {
	l.lastTry = time.Now()
	l.log = logrus.WithField("chord", l.chord.String())
	tap, err := factory(l.handle)
	if err != nil {
		l.log.WithError(err).Error("Failed to install hotkey listener")
		return
	}
	l.tap = tap
	l.log.Info("Hotkey listener installed")
}

func (l *listener) teardown() {
	if l.tap == nil {
		return
	}
	if err := l.tap.Close(); err != nil {
		l.log.WithError(err).Warn("Failed to remove hotkey listener")
	}
	l.tap = nil
	l.log.Debug("Hotkey listener removed")
}

func (c *Controller) loop(chord Chord) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(c.done)
	defer c.cmds.close()

	l := &listener{chord: chord, onTrigger: c.opts.OnTrigger}
	l.install(c.opts.Factory)
	defer l.teardown()

	for {
		if l.tap != nil {
			l.tap.Service(c.opts.Slice)
		} else {
			time.Sleep(c.opts.Slice)
			if time.Since(l.lastTry) >= c.opts.RetryEvery {
				l.install(c.opts.Factory)
			}
		}

		for {
			cmd, ok, closed := c.cmds.tryPop()
			if closed {
				return
			}
			if !ok {
				break
			}
			if cmd.stop {
				return
			}
			l.teardown()
			l.chord = cmd.chord
			l.install(c.opts.Factory)
		}
	}
}
