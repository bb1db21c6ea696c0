package timing

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by an explicit virtual clock. Nothing fires
// until Advance or Flush is called.
type Manual struct {
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	m   *Manual
	due time.Duration
	seq uint64
	fn  func()
}

var _ Scheduler = (*Manual)(nil)

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, due: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	return t.m.remove(t)
}

func (m *Manual) remove(t *manualTimer) bool {
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward by d, firing every timer that comes due
// in order. Timers scheduled by fired callbacks also run if they fall
// inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.remove(t)
		m.now = t.due
		t.fn()
	}
	m.now = target
}

// Flush runs timers until none are pending.
func (m *Manual) Flush() {
	for len(m.timers) > 0 {
		m.sortTimers()
		m.Advance(m.timers[len(m.timers)-1].due - m.now)
	}
}

func (m *Manual) Now() time.Duration {
	return m.now
}

func (m *Manual) Pending() int {
	return len(m.timers)
}

func (m *Manual) nextDue(limit time.Duration) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	m.sortTimers()
	if t := m.timers[0]; t.due <= limit {
		return t
	}
	return nil
}

func (m *Manual) sortTimers() {
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due != m.timers[j].due {
			return m.timers[i].due < m.timers[j].due
		}
		return m.timers[i].seq < m.timers[j].seq
	})
}
