// Package overlay renders a configured box and wires it to the dismissible,
// escape and text-selection layers.
package overlay

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/layerkit/internal/config"
	"github.com/idursun/layerkit/internal/dom"
	"github.com/idursun/layerkit/internal/layer"
	"github.com/idursun/layerkit/internal/layer/dismiss"
	"github.com/idursun/layerkit/internal/layer/escape"
	"github.com/idursun/layerkit/internal/layer/selection"
	"github.com/idursun/layerkit/internal/ui/render"
	"github.com/rivo/uniseg"
)

type Reason string

const (
	ReasonOutside Reason = "outside click"
	ReasonEscape  Reason = "escape"
	ReasonFocus   Reason = "focus outside"
	ReasonButton  Reason = "close button"
)

const closeLabel = "[x]"

// CloseFunc is asked to close m. The overlay does not close itself when a
// CloseFunc is set, so the owner can take nested overlays down with it.
type CloseFunc func(m *Model, reason Reason)

type Model struct {
	ctx     *layer.Context
	cfg     config.OverlayConfig
	depth   int
	log     *slog.Logger
	onClose CloseFunc
	closed  bool

	node        *dom.Node
	closeButton *dom.Node

	dismiss   *dismiss.Manager
	escape    *escape.Manager
	selection *selection.Manager

	styles styles
}

type styles struct {
	border    lipgloss.Style
	title     lipgloss.Style
	selecting lipgloss.Style
}

// Open mounts the overlay into the document body. Overlays are portalled:
// a nested overlay is a sibling of its parent in the tree, and only the
// layer registries know it sits above.
func Open(ctx *layer.Context, cfg config.OverlayConfig, depth int, onClose CloseFunc) *Model {
	m := &Model{
		ctx:     ctx,
		cfg:     cfg,
		depth:   depth,
		onClose: onClose,
		styles: styles{
			border:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")),
			title:     lipgloss.NewStyle().Bold(true),
			selecting: lipgloss.NewStyle().Reverse(true),
		},
	}
	id := fmt.Sprintf("%s-%d", cfg.ID, depth)
	m.log = ctx.Logger.With("overlay", id)

	frame := cellbuf.Rect(cfg.X, cfg.Y, cfg.Width, cfg.Height)
	m.node = dom.NewNode(id, frame)
	m.node.Z = render.OverlayZ(depth)
	m.node.Focusable = true
	m.closeButton = dom.NewNode(id+"-close", cellbuf.Rect(frame.Max.X-len(closeLabel)-1, frame.Min.Y, len(closeLabel), 1))
	m.closeButton.Z = m.node.Z
	m.closeButton.AddEventListener(dom.EventClick, func(*dom.Event) {
		m.requestClose(ReasonButton)
	})
	m.node.AppendChild(m.closeButton)
	ctx.Document.Body.AppendChild(m.node)

	m.dismiss = dismiss.New(ctx, dismiss.Options{
		OwnedNodeID: id,
		Behavior:    cfg.Dismiss,
		Enabled:     true,
		OnInteractOutside: func(*layer.InteractEvent) {
			m.requestClose(ReasonOutside)
		},
		OnFocusOutside: m.onFocusOutside,
		IsValidEvent:   validator(cfg),
	})
	m.escape = escape.New(ctx, escape.Options{
		Behavior: cfg.Escape,
		Enabled:  true,
		OnEscape: func(*dom.Event) {
			m.requestClose(ReasonEscape)
		},
	})
	m.selection = selection.New(ctx, selection.Options{
		OwnedNodeID: id,
		Enabled:     cfg.PreventSelectionOverflow,
	})
	m.log.Debug("opened", "depth", depth, "dismiss", cfg.Dismiss, "escape", cfg.Escape)
	return m
}

func validator(cfg config.OverlayConfig) func(*dom.Event, *dom.Node) bool {
	if !cfg.AnyButton {
		return nil
	}
	return func(e *dom.Event, node *dom.Node) bool {
		return e.Target.IsConnected() && !node.Contains(e.Target)
	}
}

func (m *Model) ID() string {
	return m.node.ID
}

func (m *Model) Node() *dom.Node {
	return m.node
}

func (m *Model) Config() config.OverlayConfig {
	return m.cfg
}

func (m *Model) Depth() int {
	return m.depth
}

func (m *Model) Closed() bool {
	return m.closed
}

// Selecting reports whether a text selection started inside the overlay
// is currently held.
func (m *Model) Selecting() bool {
	return m.selection.Locked()
}

// Responsible reports whether the overlay would react to an outside
// interaction starting now.
func (m *Model) Responsible() bool {
	return !m.closed && layer.IsResponsible(m.ctx.Dismissible, m.dismiss)
}

// Close unmounts the layers and removes the node. It is idempotent and does
// not call the CloseFunc.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.dismiss.Close()
	m.escape.Close()
	m.selection.Close()
	m.node.Remove()
	m.log.Debug("closed")
}

func (m *Model) requestClose(reason Reason) {
	if m.closed {
		return
	}
	m.log.Info("close requested", "reason", reason)
	if m.onClose != nil {
		m.onClose(m, reason)
		return
	}
	m.Close()
}

func (m *Model) onFocusOutside(*dom.Event) {
	if m.cfg.CloseOnFocusOutside {
		m.requestClose(ReasonFocus)
	}
}

func (m *Model) ViewRect(dl *render.DisplayContext) {
	if m.closed {
		return
	}
	frame := m.node.Frame
	innerWidth := max(frame.Dx()-2, 0)
	innerHeight := max(frame.Dy()-2, 0)

	title := truncate(m.cfg.Title, innerWidth-len(closeLabel)-1)
	header := m.styles.title.Render(title)
	if pad := innerWidth - len(closeLabel) - lipgloss.Width(header); pad > 0 {
		header += strings.Repeat(" ", pad)
	}
	header += closeLabel

	body := m.cfg.Body
	if m.Selecting() {
		body = m.styles.selecting.Render("selecting") + " " + body
	}
	content := lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.NewStyle().Width(innerWidth).Render(body))
	box := m.styles.border.
		Width(innerWidth).
		Height(innerHeight).
		MaxHeight(frame.Dy()).
		Render(content)
	dl.AddDraw(frame, box, m.node.Z)
}

// truncate cuts s to at most width display cells, keeping whole grapheme
// clusters.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width-1 {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	return b.String() + "…"
}
