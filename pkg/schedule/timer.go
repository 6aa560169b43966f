// Package schedule provides the debounced one-shot that coalesces chart
// invalidation requests into single redraw cycles.
package schedule

import "time"

// Timer is a stoppable pending callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the timer was still
	// pending, mirroring time.Timer.Stop.
	Stop() bool
}

// TimerFactory schedules fn to run once after d.
type TimerFactory func(d time.Duration, fn func()) Timer

// realTimer wraps time.AfterFunc.
type realTimer struct {
	t *time.Timer
}

func (r realTimer) Stop() bool { return r.t.Stop() }

// newTimer is the package-level timer source, replaceable for testing.
var newTimer TimerFactory = func(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

// SetTimerFactory replaces the timer source. Returns the previous factory
// so callers can restore it during cleanup.
func SetTimerFactory(f TimerFactory) TimerFactory {
	prev := newTimer
	if f == nil {
		f = func(d time.Duration, fn func()) Timer {
			return realTimer{t: time.AfterFunc(d, fn)}
		}
	}
	newTimer = f
	return prev
}
