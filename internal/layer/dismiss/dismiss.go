// Package dismiss implements the dismissible layer: an overlay that reacts
// to pointer interactions and focus moving outside of its node.
package dismiss

import (
	"log/slog"
	"time"

	"github.com/idursun/layerkit/internal/dom"
	"github.com/idursun/layerkit/internal/events"
	"github.com/idursun/layerkit/internal/layer"
	"github.com/idursun/layerkit/internal/timing"
)

// settleDelay spans one full dispatch cycle across nested layers before the
// finished gesture is forgotten.
const settleDelay = 20 * time.Millisecond

var (
	startEvents = []string{dom.EventPointerDown, dom.EventTouchStart}
	endEvents   = []string{dom.EventPointerUp, dom.EventTouchEnd, dom.EventClick}
)

type Options struct {
	OwnedNodeID string
	Behavior    layer.Behavior
	Enabled     bool

	// OnInteractOutsideStart runs when a gesture starts outside the node.
	// Preventing default cancels OnInteractOutside for the same gesture.
	OnInteractOutsideStart func(e *layer.InteractEvent)
	OnInteractOutside      func(e *layer.InteractEvent)
	OnFocusOutside         func(e *dom.Event)

	// IsValidEvent replaces DefaultIsValidEvent when set.
	IsValidEvent func(e *dom.Event, node *dom.Node) bool
}

type Manager struct {
	ctx      *layer.Context
	id       string
	log      *slog.Logger
	opts     Options
	enabled  bool
	teardown func()
	reset    *timing.Debounced[layer.GestureID]

	// per-gesture state
	gesture     *layer.Gesture
	responsible bool
	started     bool
	confirmed   bool

	focusInside bool
}

var _ layer.Layer = (*Manager)(nil)

func New(ctx *layer.Context, opts Options) *Manager {
	m := &Manager{ctx: ctx, id: layer.NewID()}
	m.log = ctx.Logger.With("layer", "dismissible", "id", m.id)
	m.reset = timing.Debounce(ctx.Scheduler, settleDelay, m.resetGesture)
	m.Configure(opts)
	return m
}

func (m *Manager) ID() string {
	return m.id
}

// OwnedNode returns the protected node, or nil if it is not mounted yet.
func (m *Manager) OwnedNode() *dom.Node {
	return m.ctx.Document.GetElementByID(m.opts.OwnedNodeID)
}

func (m *Manager) Enabled() bool {
	return m.enabled
}

// Configure applies opts. Toggling Enabled registers or tears down the
// layer; a behavior change on an enabled layer keeps its position.
func (m *Manager) Configure(opts Options) {
	m.opts = opts
	switch {
	case opts.Enabled && !m.enabled:
		m.enable()
	case !opts.Enabled && m.enabled:
		m.disable()
	case m.enabled:
		m.ctx.Dismissible.Register(m, opts.Behavior)
	}
}

// Close tears the layer down. It is safe to call more than once.
func (m *Manager) Close() {
	if m.enabled {
		m.disable()
	}
	m.opts.Enabled = false
}

func (m *Manager) enable() {
	m.enabled = true
	m.ctx.Dismissible.Register(m, m.opts.Behavior)
	doc := m.ctx.Document
	m.focusInside = m.OwnedNode().Contains(doc.ActiveElement())
	m.teardown = events.Teardown(
		events.OnAll(doc, startEvents, m.onStartCapture, dom.Capture()),
		events.OnAll(doc, endEvents, m.onEndCapture, dom.Capture()),
		events.OnAll(doc, startEvents, m.onInteractStart),
		events.OnAll(doc, endEvents, m.onInteractEnd),
		events.On(doc, dom.EventFocusIn, m.onFocusIn),
	)
	m.log.Debug("registered", "behavior", m.opts.Behavior, "node", m.opts.OwnedNodeID, "depth", m.ctx.Dismissible.Len())
}

func (m *Manager) disable() {
	m.enabled = false
	m.ctx.Dismissible.Unregister(m)
	if m.teardown != nil {
		m.teardown()
		m.teardown = nil
	}
	m.reset.Cancel()
	m.clearGesture()
	m.log.Debug("unregistered", "depth", m.ctx.Dismissible.Len())
}

// onStartCapture runs before any element handler of the dispatch. The
// responsibility snapshot taken here holds for the whole gesture, so a layer
// mounted while the gesture is in flight cannot steal it.
func (m *Manager) onStartCapture(e *dom.Event) {
	g := m.ctx.Gestures.Begin(e)
	if m.gesture != g {
		m.reset.Cancel()
		m.gesture = g
		m.started = false
		m.confirmed = false
		m.responsible = layer.IsResponsible(m.ctx.Dismissible, m)
	}
	m.claimIfInside(e)
}

func (m *Manager) onEndCapture(e *dom.Event) {
	if m.gesture == nil || m.gesture != m.ctx.Gestures.Current() {
		return
	}
	m.claimIfInside(e)
}

func (m *Manager) claimIfInside(e *dom.Event) {
	if m.gesture.ClaimedBy(m) || !m.OwnedNode().Contains(e.Target) {
		return
	}
	if stamp, ok := m.ctx.Dismissible.Stamp(m); ok {
		m.gesture.Claim(m, stamp)
	}
}

func (m *Manager) onInteractStart(e *dom.Event) {
	g := m.gesture
	if g == nil || m.started || !m.responsible {
		return
	}
	if m.suppressed() || !m.isValidEvent(e) {
		return
	}
	m.started = true
	if !m.opts.Behavior.Fires() {
		m.log.Debug("outside interaction ignored", "gesture", g.ID, "behavior", m.opts.Behavior)
		return
	}
	ie := layer.NewInteractEvent(e, g.ID)
	if m.opts.OnInteractOutsideStart != nil {
		m.opts.OnInteractOutsideStart(ie)
	}
	m.confirmed = !ie.DefaultPrevented()
}

func (m *Manager) onInteractEnd(e *dom.Event) {
	g := m.gesture
	if g == nil || g != m.ctx.Gestures.End() {
		return
	}
	confirmed := m.confirmed
	m.confirmed = false
	// an end event that lands inside, or that a nested layer took, closes
	// the gesture without an outside interaction
	if confirmed && !m.suppressed() && m.isValidEvent(e) {
		m.log.Debug("interact outside", "gesture", g.ID, "event", e.Type)
		if m.opts.OnInteractOutside != nil {
			m.opts.OnInteractOutside(layer.NewInteractEvent(e, g.ID))
		}
	}
	// the callback may have torn the layer down
	if m.enabled {
		m.reset.Call(g.ID)
	}
}

func (m *Manager) onFocusIn(e *dom.Event) {
	node := m.OwnedNode()
	if node == nil {
		return
	}
	if node.Contains(e.Target) {
		m.focusInside = true
		return
	}
	losing := m.focusInside || node.Contains(e.RelatedTarget)
	if !losing || m.insideLayerAbove(e.Target) {
		return
	}
	m.focusInside = false
	m.log.Debug("focus outside", "target", targetID(e.Target))
	if m.opts.OnFocusOutside != nil {
		m.opts.OnFocusOutside(e)
	}
}

// insideLayerAbove reports whether n belongs to a layer mounted above this
// one. Focus moving into a nested layer stays within the boundary.
func (m *Manager) insideLayerAbove(n *dom.Node) bool {
	for _, l := range m.ctx.Dismissible.After(m) {
		owner, ok := l.(interface{ OwnedNode() *dom.Node })
		if ok && owner.OwnedNode().Contains(n) {
			return true
		}
	}
	return false
}

func (m *Manager) suppressed() bool {
	stamp, ok := m.ctx.Dismissible.Stamp(m)
	if !ok {
		return true
	}
	return m.gesture.SuppressedFor(m, stamp)
}

func (m *Manager) isValidEvent(e *dom.Event) bool {
	node := m.OwnedNode()
	if node == nil {
		return false
	}
	if m.opts.IsValidEvent != nil {
		return m.opts.IsValidEvent(e, node)
	}
	return DefaultIsValidEvent(e, node)
}

func (m *Manager) resetGesture(id layer.GestureID) {
	if m.gesture != nil && m.gesture.ID == id {
		m.clearGesture()
	}
	m.ctx.Gestures.Release(id)
}

func (m *Manager) clearGesture() {
	m.gesture = nil
	m.responsible = false
	m.started = false
	m.confirmed = false
}

// DefaultIsValidEvent accepts primary-button and touch interactions whose
// target is still connected and lies outside node.
func DefaultIsValidEvent(e *dom.Event, node *dom.Node) bool {
	if e.PointerType != dom.PointerTouch && e.Button > dom.ButtonPrimary {
		return false
	}
	target := e.Target
	if target == nil || !target.IsConnected() {
		return false
	}
	return !node.Contains(target)
}

func targetID(n *dom.Node) string {
	if n == nil {
		return ""
	}
	return n.ID
}
