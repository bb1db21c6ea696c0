package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/layerkit/internal/config"
	"github.com/idursun/layerkit/internal/dom"
	"github.com/idursun/layerkit/internal/layer"
	"github.com/idursun/layerkit/internal/timing"
	"github.com/idursun/layerkit/internal/ui/flash"
	"github.com/idursun/layerkit/internal/ui/overlay"
	"github.com/idursun/layerkit/internal/ui/render"
	"github.com/idursun/layerkit/internal/ui/status"
)

const (
	pageID    = "page"
	buttonGap = 2
)

var buttonIDs = []string{"button-1", "button-2"}

// Model is the playground: a page with a few focusable buttons and a stack
// of nested overlays, all living in one headless document. Terminal input
// is translated into document events; the layers never see tea messages.
type Model struct {
	doc     *dom.Document
	loop    *timing.Loop
	ctx     *layer.Context
	cfg     *config.Config
	keyMap  config.KeyMap
	log     *slog.Logger
	page    *dom.Node
	buttons []*dom.Node

	overlays []*overlay.Model
	history  []string
	press    *press

	flash          *flash.Model
	status         *status.Model
	displayContext *render.DisplayContext
	styles         styles
	width          int
	height         int
}

// ConfigReloadedMsg carries a config reloaded from disk. Overlays that are
// already open keep the config they were opened with.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

type press struct {
	target *dom.Node
	button int
}

type styles struct {
	page    lipgloss.Style
	button  lipgloss.Style
	focused lipgloss.Style
}

func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("layerkit")
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case timing.FireMsg:
		m.loop.Fire(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case ConfigReloadedMsg:
		m.applyConfig(msg)
	}
	return tea.Batch(cmd, m.loop.Cmd())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keyMap.Escape):
		m.dispatchKey(dom.KeyEscape)
	case key.Matches(msg, m.keyMap.Open):
		m.openNext()
	case key.Matches(msg, m.keyMap.Focus):
		m.doc.FocusNext()
	default:
		m.dispatchKey(msg.String())
	}
	return nil
}

func (m *Model) dispatchKey(k string) {
	m.doc.Dispatch(dom.NewKeyboardEvent(m.doc.ActiveElement(), k))
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	event := tea.MouseEvent(msg)
	if event.IsWheel() {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		target := m.doc.NodeAt(msg.X, msg.Y)
		button := pointerButton(msg.Button)
		down := dom.NewPointerEvent(dom.EventPointerDown, target, msg.X, msg.Y, button, dom.PointerMouse)
		if m.doc.Dispatch(down) && target.IsConnected() {
			m.doc.Focus(dom.FocusableAncestor(target))
		}
		m.press = &press{target: target, button: button}
	case tea.MouseActionRelease:
		target := m.doc.NodeAt(msg.X, msg.Y)
		button := dom.ButtonPrimary
		if m.press != nil {
			// terminals do not always report which button was released
			button = m.press.button
		}
		m.doc.Dispatch(dom.NewPointerEvent(dom.EventPointerUp, target, msg.X, msg.Y, button, dom.PointerMouse))
		if m.press != nil {
			if common := commonAncestor(m.press.target, target); common != nil {
				m.doc.Dispatch(dom.NewPointerEvent(dom.EventClick, common, msg.X, msg.Y, button, dom.PointerMouse))
			}
		}
		m.press = nil
	}
}

func pointerButton(b tea.MouseButton) int {
	switch b {
	case tea.MouseButtonMiddle:
		return dom.ButtonAuxiliary
	case tea.MouseButtonRight:
		return dom.ButtonSecondary
	}
	return dom.ButtonPrimary
}

// commonAncestor returns the deepest connected node containing both a and b.
func commonAncestor(a, b *dom.Node) *dom.Node {
	for cur := a; cur != nil; cur = cur.Parent() {
		if cur.IsConnected() && cur.Contains(b) {
			return cur
		}
	}
	return nil
}

func (m *Model) applyConfig(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		m.log.Warn("config reload failed", "error", msg.Err)
		m.flash.Add("", msg.Err)
		return
	}
	m.cfg = msg.Config
	m.keyMap = msg.Config.Keys.KeyMap()
	m.status = status.New(m.keyMap)
	m.record("config reloaded")
}

// openNext opens an overlay nested in the topmost one. The overlay at depth
// d uses the d-th configured overlay, wrapping around.
func (m *Model) openNext() {
	if len(m.cfg.Overlays) == 0 {
		m.flash.Add("", fmt.Errorf("no overlays configured"))
		return
	}
	depth := len(m.overlays)
	cfg := m.cfg.Overlays[depth%len(m.cfg.Overlays)]
	o := overlay.Open(m.ctx, cfg, depth, m.onOverlayClose)
	m.overlays = append(m.overlays, o)
	m.record("opened " + o.ID())
}

// onOverlayClose closes o together with every overlay nested in it,
// innermost first.
func (m *Model) onOverlayClose(o *overlay.Model, reason overlay.Reason) {
	idx := -1
	for i, candidate := range m.overlays {
		if candidate == o {
			idx = i
			break
		}
	}
	if idx < 0 {
		o.Close()
		return
	}
	for i := len(m.overlays) - 1; i >= idx; i-- {
		m.overlays[i].Close()
	}
	m.overlays = m.overlays[:idx]
	m.record(fmt.Sprintf("closed %s (%s)", o.ID(), reason))
}

func (m *Model) record(entry string) {
	m.history = append(m.history, entry)
	m.flash.Add(entry, nil)
	m.log.Info(entry)
}

// History returns the open and close events seen so far, oldest first.
func (m *Model) History() []string {
	return m.history
}

// Overlays returns the ids of the open overlays, outermost first.
func (m *Model) Overlays() []string {
	ids := make([]string, len(m.overlays))
	for i, o := range m.overlays {
		ids[i] = o.ID()
	}
	return ids
}

func (m *Model) Document() *dom.Document {
	return m.doc
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.doc.Resize(width, height)
	m.page.SetFrame(cellbuf.Rect(0, 0, width, max(height-1, 0)))
	x := buttonGap
	y := max(height-3, 0)
	for _, b := range m.buttons {
		w := lipgloss.Width(m.renderButton(b))
		b.SetFrame(cellbuf.Rect(x, y, w, 1))
		x += w + buttonGap
	}
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	m.displayContext = render.NewDisplayContext()
	dl := m.displayContext

	m.renderPage(dl)
	for _, o := range m.overlays {
		o.ViewRect(dl)
	}
	m.flash.ViewRect(dl, m.page.Frame)
	m.status.SetInfo(m.summary())
	m.status.ViewRect(dl, cellbuf.Rect(0, m.height-1, m.width, 1))

	return dl.RenderToString(m.width, m.height)
}

func (m *Model) renderPage(dl *render.DisplayContext) {
	lines := []string{
		"body: " + m.doc.Body.Style.String(),
		"",
		"Click anywhere, open overlays with the open key and dismiss them",
		"by clicking outside, pressing escape or moving focus away.",
	}
	dl.AddDraw(m.page.Frame, m.styles.page.Render(strings.Join(lines, "\n")), render.ZBase)
	for _, b := range m.buttons {
		dl.AddDraw(b.Frame, m.renderButton(b), render.ZBase)
	}
}

func (m *Model) renderButton(b *dom.Node) string {
	if m.doc.ActiveElement() == b {
		return m.styles.focused.Render(b.ID)
	}
	return m.styles.button.Render(b.ID)
}

// summary describes the overlay stack and which overlay would react to an
// outside click, for example "outer-0 > inner-1* | focus: inner-1".
func (m *Model) summary() string {
	if len(m.overlays) == 0 {
		return "no overlays"
	}
	ids := make([]string, len(m.overlays))
	for i, o := range m.overlays {
		ids[i] = o.ID()
		if o.Responsible() {
			ids[i] += "*"
		}
	}
	focus := "none"
	if active := m.doc.ActiveElement(); active != nil {
		focus = active.ID
	}
	return strings.Join(ids, " > ") + " | focus: " + focus
}

var _ tea.Model = (*wrapper)(nil)

type (
	frameTickMsg struct{}
	wrapper      struct {
		ui                 *Model
		scheduledNextFrame bool
		render             bool
		cachedFrame        string
	}
)

func (w *wrapper) Init() tea.Cmd {
	return w.ui.Init()
}

func (w *wrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(frameTickMsg); ok {
		w.render = true
		w.scheduledNextFrame = false
		return w, nil
	}
	cmd := w.ui.Update(msg)
	if !w.scheduledNextFrame {
		w.scheduledNextFrame = true
		return w, tea.Batch(cmd, tea.Tick(time.Millisecond*8, func(t time.Time) tea.Msg {
			return frameTickMsg{}
		}))
	}
	return w, cmd
}

func (w *wrapper) View() string {
	if w.render {
		w.cachedFrame = w.ui.View()
		w.render = false
	}
	return w.cachedFrame
}

func NewUI(cfg *config.Config, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	doc := dom.NewDocument(0, 0)
	loop := timing.NewLoop()
	keyMap := cfg.Keys.KeyMap()
	m := &Model{
		doc:    doc,
		loop:   loop,
		ctx:    layer.NewContext(doc, loop, layer.WithLogger(logger)),
		cfg:    cfg,
		keyMap: keyMap,
		log:    logger,
		flash:  flash.New(loop, cfg.UI.FlashTimeout),
		status: status.New(keyMap),
		styles: styles{
			page:    lipgloss.NewStyle().Padding(1, 2),
			button:  lipgloss.NewStyle().Border(lipgloss.HiddenBorder(), false, true),
			focused: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true).Reverse(true),
		},
	}
	m.page = dom.NewNode(pageID, cellbuf.Rectangle{})
	doc.Body.AppendChild(m.page)
	for _, id := range buttonIDs {
		b := dom.NewNode(id, cellbuf.Rectangle{})
		b.Focusable = true
		b.Z = 1
		m.page.AppendChild(b)
		m.buttons = append(m.buttons, b)
	}
	return m
}

func New(cfg *config.Config, logger *slog.Logger) tea.Model {
	return &wrapper{ui: NewUI(cfg, logger)}
}
