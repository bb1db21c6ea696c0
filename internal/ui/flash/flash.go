package flash

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/layerkit/internal/timing"
	"github.com/idursun/layerkit/internal/ui/render"
)

const expiringMessageTimeout = 4 * time.Second

type flashMessage struct {
	text  string
	error error
	id    uint64
	timer timing.Timer
}

// Model shows short-lived messages stacked in the bottom right corner.
// Expiry runs on the same scheduler as the layers, so tests drive it with a
// manual clock.
type Model struct {
	scheduler    timing.Scheduler
	timeout      time.Duration
	messages     []flashMessage
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	currentId    uint64
}

// New returns a flash model whose messages expire after timeout, or after
// four seconds when timeout is not positive.
func New(scheduler timing.Scheduler, timeout time.Duration) *Model {
	if timeout <= 0 {
		timeout = expiringMessageTimeout
	}
	return &Model{
		scheduler:    scheduler,
		timeout:      timeout,
		messages:     make([]flashMessage, 0),
		successStyle: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("2")).PaddingLeft(1).PaddingRight(1),
		errorStyle:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("1")).PaddingLeft(1).PaddingRight(1),
	}
}

// Add shows text until it expires. Errors stay until dismissed.
func (m *Model) Add(text string, err error) uint64 {
	text = strings.TrimSpace(text)
	if text == "" && err == nil {
		return 0
	}
	m.currentId++
	msg := flashMessage{id: m.currentId, text: text, error: err}
	if err == nil {
		id := msg.id
		msg.timer = m.scheduler.AfterFunc(m.timeout, func() {
			m.expire(id)
		})
	}
	m.messages = append(m.messages, msg)
	return msg.id
}

func (m *Model) expire(id uint64) {
	for i, message := range m.messages {
		if message.id == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return
		}
	}
}

func (m *Model) Any() bool {
	return len(m.messages) > 0
}

func (m *Model) DeleteOldest() {
	if len(m.messages) == 0 {
		return
	}
	if t := m.messages[0].timer; t != nil {
		t.Stop()
	}
	m.messages = m.messages[1:]
}

// Texts returns the visible messages, oldest first.
func (m *Model) Texts() []string {
	texts := make([]string, len(m.messages))
	for i, message := range m.messages {
		if message.error != nil {
			texts[i] = message.error.Error()
			continue
		}
		texts[i] = message.text
	}
	return texts
}

func (m *Model) ViewRect(dl *render.DisplayContext, area cellbuf.Rectangle) {
	y := area.Max.Y
	for i := len(m.messages) - 1; i >= 0; i-- {
		message := m.messages[i]
		var content string
		if message.error != nil {
			content = m.errorStyle.Render(message.error.Error())
		} else {
			content = m.successStyle.Render(message.text)
		}
		w, h := lipgloss.Size(content)
		y -= h
		if y < area.Min.Y {
			return
		}
		dl.AddDraw(cellbuf.Rect(area.Max.X-w, y, w, h), content, render.ZStatus)
	}
}
