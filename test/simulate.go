package test

import (
	"reflect"

	tea "github.com/charmbracelet/bubbletea"
)

// maxSteps bounds a simulation so a model that keeps rescheduling itself
// fails loudly instead of hanging the test.
const maxSteps = 10_000

// SimulateModel runs first, feeds the resulting message to model.Update and
// keeps running whatever commands come back until none are left. Batches
// and sequences are flattened in order. Ticks sleep for real.
func SimulateModel[T interface {
	Update(tea.Msg) tea.Cmd
}](model T, first tea.Cmd) {
	pending := []tea.Cmd{first}
	for steps := 0; len(pending) > 0; steps++ {
		if steps == maxSteps {
			panic("test: simulation did not settle")
		}
		cmd := pending[0]
		pending = pending[1:]
		if cmd == nil {
			continue
		}
		msg := cmd()
		if msg == nil {
			continue
		}
		if nested, ok := flatten(msg); ok {
			pending = append(nested, pending...)
			continue
		}
		if next := model.Update(msg); next != nil {
			pending = append(pending, next)
		}
	}
}

func Type(runes string) tea.Cmd {
	press := func(r rune) tea.Cmd {
		return func() tea.Msg {
			return tea.KeyMsg{
				Type:  tea.KeyRunes,
				Runes: []rune{r},
			}
		}
	}
	var cmds []tea.Cmd
	for _, r := range runes {
		cmds = append(cmds, press(r))
	}
	return tea.Sequence(cmds...)
}

func Press(key tea.KeyType) tea.Cmd {
	return func() tea.Msg {
		return tea.KeyMsg{
			Type: key,
		}
	}
}

func Mouse(x, y int, button tea.MouseButton, action tea.MouseAction) tea.Cmd {
	return func() tea.Msg {
		return tea.MouseMsg{X: x, Y: y, Button: button, Action: action}
	}
}

// Click presses and releases button at the same cell.
func Click(x, y int, button tea.MouseButton) tea.Cmd {
	return Drag(x, y, x, y, button)
}

// Drag presses button at (x0, y0) and releases it at (x1, y1). Like most
// terminals, the release does not carry the button.
func Drag(x0, y0, x1, y1 int, button tea.MouseButton) tea.Cmd {
	return tea.Sequence(
		Mouse(x0, y0, button, tea.MouseActionPress),
		Mouse(x1, y1, tea.MouseButtonNone, tea.MouseActionRelease),
	)
}

var cmdType = reflect.TypeOf((tea.Cmd)(nil))

// flatten unpacks tea.BatchMsg and the unexported sequence message, which
// is a named []tea.Cmd.
func flatten(msg tea.Msg) ([]tea.Cmd, bool) {
	if batch, ok := msg.(tea.BatchMsg); ok {
		return batch, true
	}
	val := reflect.ValueOf(msg)
	if val.Kind() != reflect.Slice || !val.Type().Elem().AssignableTo(cmdType) {
		return nil, false
	}
	cmds := make([]tea.Cmd, val.Len())
	for i := range cmds {
		cmds[i], _ = val.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}
