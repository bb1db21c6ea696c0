// Package selection keeps a text selection started inside an overlay from
// leaking into the rest of the page.
package selection

import (
	"log/slog"

	"github.com/idursun/layerkit/internal/dom"
	"github.com/idursun/layerkit/internal/events"
	"github.com/idursun/layerkit/internal/layer"
)

type Options struct {
	OwnedNodeID string
	// Enabled marks the layer as wanting to prevent selection overflow.
	Enabled bool
	// OnPointerUp runs after the lock has been released, whether or not the
	// pointerup was default-prevented.
	OnPointerUp dom.Handler
}

type Manager struct {
	ctx      *layer.Context
	id       string
	log      *slog.Logger
	opts     Options
	mounted  bool
	teardown func()
	lock     *lock
}

// lock remembers the inline values observed before locking so they can be
// restored verbatim.
type lock struct {
	node, body             *dom.Node
	nodeSelect, nodeWebkit string
	bodySelect, bodyWebkit string
}

var _ layer.Layer = (*Manager)(nil)

// New mounts the layer. It stays registered until Close, with Enabled as
// its registry value.
func New(ctx *layer.Context, opts Options) *Manager {
	m := &Manager{ctx: ctx, id: layer.NewID(), opts: opts, mounted: true}
	m.log = ctx.Logger.With("layer", "text-selection", "id", m.id)
	ctx.TextSelection.Register(m, opts.Enabled)
	doc := ctx.Document
	m.teardown = events.Teardown(
		events.On(doc, dom.EventPointerDown, m.onPointerDown),
		events.On(doc, dom.EventPointerUp, events.Chain(m.onPointerUp, m.callerPointerUp)),
	)
	return m
}

func (m *Manager) ID() string {
	return m.id
}

func (m *Manager) Locked() bool {
	return m.lock != nil
}

func (m *Manager) Configure(opts Options) {
	if !m.mounted {
		return
	}
	m.opts = opts
	m.ctx.TextSelection.Register(m, opts.Enabled)
	if !opts.Enabled {
		m.release()
	}
}

// Close unregisters the layer and releases a held lock so the page is never
// left unselectable.
func (m *Manager) Close() {
	if !m.mounted {
		return
	}
	m.mounted = false
	m.ctx.TextSelection.Unregister(m)
	m.teardown()
	m.release()
}

// IsHighest reports whether this layer is the most recently registered one
// that prevents selection overflow.
func (m *Manager) IsHighest() bool {
	highest, ok := m.ctx.TextSelection.Highest(func(enabled bool) bool { return enabled })
	return ok && highest == m
}

func (m *Manager) onPointerDown(e *dom.Event) {
	if !m.IsHighest() {
		return
	}
	node := m.ctx.Document.GetElementByID(m.opts.OwnedNodeID)
	if !node.Contains(e.Target) {
		return
	}
	m.acquire(node)
}

func (m *Manager) onPointerUp(*dom.Event) {
	m.release()
}

func (m *Manager) callerPointerUp(e *dom.Event) {
	if m.opts.OnPointerUp != nil {
		m.opts.OnPointerUp(e)
	}
}

func (m *Manager) acquire(node *dom.Node) {
	if m.lock != nil {
		return
	}
	body := m.ctx.Document.Body
	m.lock = &lock{
		node:       node,
		body:       body,
		nodeSelect: node.Style.Get(dom.UserSelect),
		nodeWebkit: node.Style.Get(dom.WebkitUserSelect),
		bodySelect: body.Style.Get(dom.UserSelect),
		bodyWebkit: body.Style.Get(dom.WebkitUserSelect),
	}
	node.Style.Set(dom.UserSelect, "text")
	node.Style.Set(dom.WebkitUserSelect, "text")
	body.Style.Set(dom.UserSelect, "none")
	body.Style.Set(dom.WebkitUserSelect, "none")
	m.log.Debug("selection locked", "node", node.ID)
}

func (m *Manager) release() {
	l := m.lock
	if l == nil {
		return
	}
	m.lock = nil
	l.node.Style.Set(dom.UserSelect, l.nodeSelect)
	l.node.Style.Set(dom.WebkitUserSelect, l.nodeWebkit)
	l.body.Style.Set(dom.UserSelect, l.bodySelect)
	l.body.Style.Set(dom.WebkitUserSelect, l.bodyWebkit)
	m.log.Debug("selection released", "node", l.node.ID)
}
