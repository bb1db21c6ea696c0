package ui

import (
	"bytes"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/idursun/layerkit/internal/config"
	"github.com/idursun/layerkit/internal/dom"
	"github.com/idursun/layerkit/test"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// With the default config the overlays sit at
//
//	outer-0  x 2..36  y 2..10  defer-otherwise-close
//	middle-1 x 30..60 y 5..12  defer-otherwise-close
//	inner-2  x 14..54 y 10..18 close, closes on focus outside
const outsideX, outsideY = 70, 1

func newTestUI(t *testing.T) *Model {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.UI.FlashTimeout = time.Millisecond
	m := NewUI(cfg, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func openAll(m *Model) {
	test.SimulateModel(m, test.Type("ooo"))
}

func TestUpdate_OpenKeyNestsOverlays(t *testing.T) {
	m := newTestUI(t)
	openAll(m)

	assert.Equal(t, []string{"outer-0", "middle-1", "inner-2"}, m.Overlays())
	assert.Equal(t, 3, m.ctx.Dismissible.Len())
	assert.Equal(t, 3, m.ctx.Escape.Len())
}

func TestUpdate_EscapeClosesTopmostOnePerPress(t *testing.T) {
	m := newTestUI(t)
	openAll(m)

	test.SimulateModel(m, test.Press(tea.KeyEsc))
	assert.Equal(t, []string{"outer-0", "middle-1"}, m.Overlays())

	test.SimulateModel(m, test.Press(tea.KeyEsc))
	assert.Equal(t, []string{"outer-0"}, m.Overlays())
	assert.Equal(t, "closed middle-1 (escape)", m.History()[len(m.History())-1])
}

func TestUpdate_OutsideClickClosesInnerThenFallsBackToOuter(t *testing.T) {
	m := newTestUI(t)
	openAll(m)

	test.SimulateModel(m, test.Click(outsideX, outsideY, tea.MouseButtonLeft))
	assert.Equal(t, []string{"outer-0", "middle-1"}, m.Overlays())

	// both remaining layers defer, so the outermost one is responsible and
	// takes its nested overlay down with it
	test.SimulateModel(m, test.Click(outsideX, outsideY, tea.MouseButtonLeft))
	assert.Empty(t, m.Overlays())
	assert.Equal(t, "closed outer-0 (outside click)", m.History()[len(m.History())-1])
	assert.Equal(t, 0, m.ctx.Dismissible.Len())
	assert.Equal(t, 0, m.doc.ListenerCount())
}

func TestUpdate_ClickInsideMiddleClosesOnlyInner(t *testing.T) {
	m := newTestUI(t)
	openAll(m)

	test.SimulateModel(m, test.Click(58, 7, tea.MouseButtonLeft))
	assert.Equal(t, []string{"outer-0", "middle-1"}, m.Overlays())
}

func TestUpdate_SecondaryClickOutsideIsIgnored(t *testing.T) {
	m := newTestUI(t)
	openAll(m)

	test.SimulateModel(m, test.Click(outsideX, outsideY, tea.MouseButtonRight))
	assert.Len(t, m.Overlays(), 3)
}

func TestUpdate_DragFromInsideToOutsideKeepsOverlay(t *testing.T) {
	m := newTestUI(t)
	openAll(m)

	test.SimulateModel(m, test.Drag(20, 15, outsideX, outsideY, tea.MouseButtonLeft))
	assert.Len(t, m.Overlays(), 3)
}

func TestUpdate_CloseButtonClosesNestedOverlays(t *testing.T) {
	m := newTestUI(t)
	openAll(m)

	btn := m.doc.GetElementByID("middle-1-close")
	require.NotNil(t, btn)
	test.SimulateModel(m, test.Click(btn.Frame.Min.X, btn.Frame.Min.Y, tea.MouseButtonLeft))

	assert.Equal(t, []string{"outer-0"}, m.Overlays())
	assert.Nil(t, m.doc.GetElementByID("inner-2"))
}

func TestUpdate_FocusLeavingInnerClosesIt(t *testing.T) {
	m := newTestUI(t)
	openAll(m)

	test.SimulateModel(m, test.Click(20, 15, tea.MouseButtonLeft))
	require.NotNil(t, m.doc.ActiveElement())
	assert.Equal(t, "inner-2", m.doc.ActiveElement().ID)

	test.SimulateModel(m, test.Press(tea.KeyTab))
	assert.Equal(t, "button-1", m.doc.ActiveElement().ID)
	assert.Equal(t, []string{"outer-0", "middle-1"}, m.Overlays())
	assert.Equal(t, "closed inner-2 (focus outside)", m.History()[len(m.History())-1])
}

func TestUpdate_SelectionLockedWhilePressed(t *testing.T) {
	m := newTestUI(t)
	test.SimulateModel(m, test.Type("o"))

	m.Update(tea.MouseMsg{X: 5, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, "none", m.doc.Body.Style.Get(dom.UserSelect))
	assert.Contains(t, m.View(), "user-select: none")

	m.Update(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionRelease})
	assert.Equal(t, "", m.doc.Body.Style.Get(dom.UserSelect))
}

func TestUpdate_OtherKeysReachFocusedNode(t *testing.T) {
	m := newTestUI(t)
	test.SimulateModel(m, test.Press(tea.KeyTab))

	var got []string
	m.doc.ActiveElement().AddEventListener(dom.EventKeyDown, func(e *dom.Event) {
		got = append(got, e.Key)
	})
	test.SimulateModel(m, test.Type("x"))
	assert.Equal(t, []string{"x"}, got)
}

func TestView_ShowsOverlaysAndStatus(t *testing.T) {
	m := newTestUI(t)
	assert.Contains(t, m.View(), "no overlays")

	test.SimulateModel(m, test.Type("oo"))
	view := test.Stripped(m.View())
	assert.Contains(t, view, "Outer menu")
	assert.Contains(t, view, "Submenu")
	assert.Contains(t, view, "outer-0* > middle-1")
}

func TestView_EmptyBeforeFirstResize(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	m := NewUI(cfg, nil)
	assert.Empty(t, m.View())
}

func TestProgram_OpenAndEscape(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.UI.FlashTimeout = 10 * time.Millisecond

	tm := teatest.NewTestModel(t, New(cfg, nil), teatest.WithInitialTermSize(80, 24))
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Outer menu"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final, ok := tm.FinalModel(t).(*wrapper)
	require.True(t, ok)
	assert.Equal(t, []string{"opened outer-0", "closed outer-0 (escape)"}, final.ui.History())
}

func TestUpdate_ConfigReload(t *testing.T) {
	m := newTestUI(t)

	cfg, err := config.Parse(`
[keys]
open = ["n"]
escape = ["esc"]
focus = ["tab"]
quit = ["q"]

[[overlays]]
id = "reloaded"
width = 10
height = 5
`)
	require.NoError(t, err)
	test.SimulateModel(m, func() tea.Msg { return ConfigReloadedMsg{Config: cfg} })

	test.SimulateModel(m, test.Type("o"))
	assert.Empty(t, m.Overlays())
	test.SimulateModel(m, test.Type("n"))
	assert.Equal(t, []string{"reloaded-0"}, m.Overlays())

	test.SimulateModel(m, func() tea.Msg { return ConfigReloadedMsg{Err: assert.AnError} })
	assert.Equal(t, "opened reloaded-0", m.History()[len(m.History())-1])
	assert.Contains(t, m.flash.Texts(), assert.AnError.Error())
}
