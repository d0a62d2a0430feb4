package debounce_test

import (
	"testing"
	"time"

	"github.com/rutamapa/rutamapa/internal/pkg/debounce"
)

// --- Controlled clock ---

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) factory(d time.Duration, fn func()) debounce.Timer {
	t := &fakeTimer{fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every armed timer callback, including ones whose Stop raced the
// firing — the debouncer's generation guard must keep stale callbacks inert.
func (c *fakeClock) fireAll() {
	for _, t := range c.timers {
		t.fn()
	}
}

func (c *fakeClock) fireLive() {
	for _, t := range c.timers {
		if !t.stopped {
			t.fn()
		}
	}
}

// --- Tests ---

func TestDebouncer_BurstYieldsOneCallback(t *testing.T) {
	clock := &fakeClock{}
	d := debounce.New(300*time.Millisecond, clock.factory)

	fired := 0
	last := -1
	for i := 0; i < 10; i++ {
		i := i
		d.Trigger(func() {
			fired++
			last = i
		})
	}

	clock.fireLive()
	if fired != 1 {
		t.Fatalf("expected exactly one callback, got %d", fired)
	}
	if last != 9 {
		t.Errorf("expected the final trigger's callback, got trigger %d", last)
	}
}

func TestDebouncer_StaleTimerIsFencedOut(t *testing.T) {
	clock := &fakeClock{}
	d := debounce.New(300*time.Millisecond, clock.factory)

	fired := 0
	last := -1
	for i := 0; i < 5; i++ {
		i := i
		d.Trigger(func() {
			fired++
			last = i
		})
	}

	// Simulate the worst race: every timer fires, stopped or not.
	clock.fireAll()
	if fired != 1 {
		t.Fatalf("generation guard failed, %d callbacks ran", fired)
	}
	if last != 4 {
		t.Errorf("expected last trigger to win, got trigger %d", last)
	}
}

func TestDebouncer_CancelPreventsFiring(t *testing.T) {
	clock := &fakeClock{}
	d := debounce.New(300*time.Millisecond, clock.factory)

	fired := false
	d.Trigger(func() { fired = true })
	d.Cancel()

	clock.fireAll()
	if fired {
		t.Error("cancelled callback must not run")
	}
	if d.Pending() {
		t.Error("no callback should be pending after cancel")
	}
}

func TestDebouncer_TriggerAfterCancel(t *testing.T) {
	clock := &fakeClock{}
	d := debounce.New(300*time.Millisecond, clock.factory)

	d.Trigger(func() { t.Error("superseded callback ran") })
	d.Cancel()

	fired := false
	d.Trigger(func() { fired = true })
	if !d.Pending() {
		t.Fatal("expected a pending callback after re-trigger")
	}

	clock.fireAll()
	if !fired {
		t.Error("re-armed callback did not run")
	}
}
