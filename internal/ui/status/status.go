package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/layerkit/internal/ui/render"
)

const moreHint = "…"

// Model is the single status line: a mode badge, the layer summary and as
// many key hints as fit.
type Model struct {
	keyMap help.KeyMap
	mode   string
	info   string
	styles styles
}

type styles struct {
	shortcut lipgloss.Style
	dimmed   lipgloss.Style
	text     lipgloss.Style
	title    lipgloss.Style
}

func New(keyMap help.KeyMap) *Model {
	return &Model{
		keyMap: keyMap,
		mode:   "layers",
		styles: styles{
			shortcut: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
			dimmed:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			text:     lipgloss.NewStyle(),
			title:    lipgloss.NewStyle().Bold(true).Reverse(true),
		},
	}
}

func (m *Model) SetMode(mode string) {
	m.mode = mode
}

// SetInfo replaces the layer summary shown next to the mode.
func (m *Model) SetInfo(info string) {
	m.info = strings.ReplaceAll(info, "\n", " ")
}

func (m *Model) Info() string {
	return m.info
}

func (m *Model) ViewRect(dl *render.DisplayContext, area cellbuf.Rectangle) {
	width := area.Dx()
	modeWidth := max(10, len(m.mode)+2)
	mode := m.styles.title.Width(modeWidth).Render(" " + m.mode)
	info := m.styles.text.Render(" " + m.info + " ")

	available := max(0, width-modeWidth-lipgloss.Width(info))
	helpContent, _ := m.helpView(available)
	statusLine := lipgloss.JoinHorizontal(lipgloss.Left, mode, info, helpContent)
	dl.AddDraw(area, statusLine, render.ZStatus)
}

func (m *Model) helpView(maxWidth int) (string, bool) {
	if m.keyMap == nil {
		return "", false
	}
	separator := m.styles.dimmed.Render(" • ")
	hint := m.styles.dimmed.Render(moreHint)
	entries, truncated := m.collectHelpEntriesWithLimit(maxWidth, lipgloss.Width(separator), lipgloss.Width(hint))

	view := strings.Join(entries, separator)
	if truncated {
		view += hint
	}
	return view, truncated
}

// collectHelpEntriesWithLimit gathers help entries that fit within maxWidth,
// reserving room for the hint when later entries are dropped.
func (m *Model) collectHelpEntriesWithLimit(maxWidth, separatorWidth, hintWidth int) ([]string, bool) {
	shortHelp := m.keyMap.ShortHelp()
	var entries []string
	currentWidth := 0

	for i, binding := range shortHelp {
		if !binding.Enabled() {
			continue
		}

		h := binding.Help()
		entry := m.styles.shortcut.Render(h.Key) + m.styles.dimmed.PaddingLeft(1).Render(h.Desc)
		addedWidth := lipgloss.Width(entry)
		if len(entries) > 0 {
			addedWidth += separatorWidth
		}

		reservedWidth := 0
		if i < len(shortHelp)-1 {
			reservedWidth = hintWidth
		}

		if currentWidth+addedWidth+reservedWidth > maxWidth {
			return entries, true
		}

		entries = append(entries, entry)
		currentWidth += addedWidth
	}

	return entries, false
}
