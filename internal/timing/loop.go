package timing

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FireMsg is delivered by the Bubble Tea runtime when a Loop timer is due.
type FireMsg struct {
	id uint64
}

// Loop is a Scheduler backed by the Bubble Tea program. Each timer becomes
// a tea.Tick command; the resulting FireMsg must be handed back to Fire from
// Update so the callback runs on the program's goroutine.
type Loop struct {
	seq    uint64
	timers map[uint64]func()
	queued []tea.Cmd
}

type loopTimer struct {
	loop *Loop
	id   uint64
}

var _ Scheduler = (*Loop)(nil)

func NewLoop() *Loop {
	return &Loop{timers: map[uint64]func(){}}
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	l.seq++
	id := l.seq
	l.timers[id] = fn
	l.queued = append(l.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return FireMsg{id: id}
	}))
	return loopTimer{loop: l, id: id}
}

func (t loopTimer) Stop() bool {
	if _, ok := t.loop.timers[t.id]; !ok {
		return false
	}
	delete(t.loop.timers, t.id)
	return true
}

// Cmd drains the ticks scheduled since the last call.
func (l *Loop) Cmd() tea.Cmd {
	if len(l.queued) == 0 {
		return nil
	}
	cmds := l.queued
	l.queued = nil
	return tea.Batch(cmds...)
}

// Fire runs the callback for msg unless its timer was stopped. It reports
// whether a callback ran.
func (l *Loop) Fire(msg FireMsg) bool {
	fn, ok := l.timers[msg.id]
	if !ok {
		return false
	}
	delete(l.timers, msg.id)
	fn()
	return true
}

func (l *Loop) Pending() int {
	return len(l.timers)
}
