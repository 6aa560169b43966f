package schedule

import (
	"sync"
	"time"

	"github.com/go-plotkit/plotkit/pkg/errors"
)

// Debouncer coalesces bursts of triggers into a single deferred callback.
//
// The first Trigger after an idle period arms a one-shot timer; further
// triggers while the timer is pending are no-ops. When the timer fires, the
// pending flag clears before the callback runs, so the callback itself may
// re-trigger.
//
// Trigger is fire-and-forget: callers never block on, or observe, the
// eventual callback run.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   Timer
	pending bool
	closed  bool
}

// NewDebouncer creates a debouncer that runs fn delay after the first
// trigger of each burst.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger requests a callback run. If one is already pending and its delay
// has not yet elapsed, the request coalesces into it.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.pending {
		return
	}
	d.pending = true
	d.timer = newTimer(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	fn := d.fn
	d.mu.Unlock()

	if fn != nil {
		// The callback runs on the timer goroutine; a panic here would
		// otherwise take the process down with no context.
		defer errors.Recover("schedule.Debouncer.fire")
		fn()
	}
}

// SetDelay changes the delay used by future triggers. A pending timer
// keeps its original delay.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// Delay returns the delay future triggers will use.
func (d *Debouncer) Delay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delay
}

// Pending reports whether a callback run is currently scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Cancel stops any pending run without closing the debouncer.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}

// Close cancels any pending run and rejects future triggers.
// Close is idempotent.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.cancelLocked()
}
