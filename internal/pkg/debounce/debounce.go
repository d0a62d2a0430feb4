// Package debounce collapses bursts of events into a single callback once
// the burst quiets down. Timers are injectable so debounce behavior can be
// tested against a controlled clock instead of wall-clock delays.
package debounce

import (
	"sync"
	"time"
)

// Timer is a single-shot cancellable timer handle.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules fn to run after d and returns a cancel handle.
type TimerFactory func(d time.Duration, fn func()) Timer

// Wallclock is the production TimerFactory backed by time.AfterFunc.
func Wallclock(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Debouncer arms a timer on every Trigger, cancelling the previous one, so
// only the last-armed callback of a burst ever runs. The hot path does no
// work beyond cancel+rearm.
type Debouncer struct {
	delay    time.Duration
	newTimer TimerFactory

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

// New returns a Debouncer with the given settle delay. A nil factory
// selects Wallclock.
func New(delay time.Duration, factory TimerFactory) *Debouncer {
	if factory == nil {
		factory = Wallclock
	}
	return &Debouncer{delay: delay, newTimer: factory}
}

// Trigger cancels any pending callback and arms fn to run after the settle
// delay. A timer that already fired its Stop race is fenced out by the
// generation counter, so a superseded callback can never run.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.newTimer(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	d.mu.Unlock()
}

// Cancel stops any pending callback. Used on session teardown so no timer
// fires after its owner is gone.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.mu.Unlock()
}

// Pending reports whether a callback is currently armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
