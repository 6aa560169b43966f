package schedule

import (
	"sync"
	"time"
)

// ManualTimers is a [TimerFactory] whose timers fire only when told to,
// for deterministic debounce tests. Install with [SetTimerFactory]:
//
//	timers := schedule.NewManualTimers()
//	prev := schedule.SetTimerFactory(timers.New)
//	defer schedule.SetTimerFactory(prev)
//
// All methods are safe for concurrent use.
type ManualTimers struct {
	mu      sync.Mutex
	pending []*manualTimer
}

// NewManualTimers returns an empty manual timer set.
func NewManualTimers() *ManualTimers {
	return &ManualTimers{}
}

type manualTimer struct {
	owner   *ManualTimers
	fn      func()
	delay   time.Duration
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// New schedules fn as a manual timer. It has the [TimerFactory] signature.
func (m *ManualTimers) New(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{owner: m, fn: fn, delay: d}
	m.pending = append(m.pending, t)
	return t
}

// Pending returns the number of scheduled, unstopped timers.
func (m *ManualTimers) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

// LastDelay returns the delay of the most recently scheduled timer,
// or zero when none has been scheduled.
func (m *ManualTimers) LastDelay() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return 0
	}
	return m.pending[len(m.pending)-1].delay
}

// Fire runs every scheduled, unstopped timer and returns how many ran.
// Timers scheduled by the callbacks themselves wait for the next Fire.
func (m *ManualTimers) Fire() int {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	n := 0
	for _, t := range batch {
		m.mu.Lock()
		skip := t.stopped
		t.stopped = true
		m.mu.Unlock()
		if skip {
			continue
		}
		t.fn()
		n++
	}
	return n
}
