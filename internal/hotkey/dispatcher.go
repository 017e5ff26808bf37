package hotkey

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Trigger is one activation of the hotkey.
type Trigger struct {
	Seq   uint64
	Chord Chord
	At    time.Time
}

// Dispatcher runs a callback for each trigger on a single worker goroutine.
// Triggers that arrive while a callback is running wait in order behind it,
// so at most one callback is ever in flight.
type Dispatcher struct {
	q    *queue[Trigger]
	fn   func(Trigger)
	seq  atomic.Uint64
	busy atomic.Bool
	done chan struct{}
	now  func() time.Time
}

// NewDispatcher starts the worker.
func NewDispatcher(fn func(Trigger)) *Dispatcher {
	d := &Dispatcher{
		q:    newQueue[Trigger](),
		fn:   fn,
		done: make(chan struct{}),
		now:  time.Now,
	}
	go d.work()
	return d
}

// Dispatch enqueues a trigger for c and returns immediately. It is safe to
// call from the event tap callback. It reports false after Close.
func (d *Dispatcher) Dispatch(c Chord) bool {
	t := Trigger{Seq: d.seq.Add(1), Chord: c, At: d.now()}
	if !d.q.push(t) {
		return false
	}
	entry := logrus.WithFields(logrus.Fields{"chord": c.String(), "trigger": t.Seq})
	if d.busy.Load() {
		entry.Info("Hotkey pressed while a session is active, queued")
	} else {
		entry.Info("Hotkey pressed")
	}
	return true
}

// Pending returns the number of triggers waiting behind the active one.
func (d *Dispatcher) Pending() int {
	return d.q.len()
}

// Close drops pending triggers and stops the worker once the running
// callback returns.
func (d *Dispatcher) Close() {
	d.q.close()
}

// Done is closed when the worker has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) work() {
	defer close(d.done)
	for {
		t, ok := d.q.pop()
		if !ok {
			return
		}
		d.run(t)
	}
}

func (d *Dispatcher) run(t Trigger) {
	d.busy.Store(true)
	defer d.busy.Store(false)
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("trigger", t.Seq).Errorf("Trigger handler panicked: %v", r)
		}
	}()
	d.fn(t)
}
