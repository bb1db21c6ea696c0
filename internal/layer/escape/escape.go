// Package escape implements the escape layer: of all mounted overlays only
// the responsible one reacts to the Escape key.
package escape

import (
	"log/slog"

	"github.com/idursun/layerkit/internal/dom"
	"github.com/idursun/layerkit/internal/events"
	"github.com/idursun/layerkit/internal/layer"
)

type Options struct {
	Behavior layer.Behavior
	OnEscape func(e *dom.Event)
	Enabled  bool
}

type Manager struct {
	ctx      *layer.Context
	id       string
	log      *slog.Logger
	opts     Options
	enabled  bool
	teardown func()

	// dispatch sequence of the Escape press this layer is responsible for
	responsibleSeq uint64
}

var _ layer.Layer = (*Manager)(nil)

func New(ctx *layer.Context, opts Options) *Manager {
	m := &Manager{ctx: ctx, id: layer.NewID()}
	m.log = ctx.Logger.With("layer", "escape", "id", m.id)
	m.Configure(opts)
	return m
}

func (m *Manager) ID() string {
	return m.id
}

func (m *Manager) Enabled() bool {
	return m.enabled
}

func (m *Manager) Configure(opts Options) {
	m.opts = opts
	switch {
	case opts.Enabled && !m.enabled:
		m.enabled = true
		m.ctx.Escape.Register(m, opts.Behavior)
		m.teardown = events.Teardown(
			events.On(m.ctx.Document, dom.EventKeyDown, m.onKeyDownCapture, dom.Capture()),
			events.On(m.ctx.Document, dom.EventKeyDown, m.onKeyDown),
		)
		m.log.Debug("registered", "behavior", opts.Behavior, "depth", m.ctx.Escape.Len())
	case !opts.Enabled && m.enabled:
		m.disable()
	case m.enabled:
		m.ctx.Escape.Register(m, opts.Behavior)
	}
}

func (m *Manager) Close() {
	if m.enabled {
		m.disable()
	}
	m.opts.Enabled = false
}

func (m *Manager) disable() {
	m.enabled = false
	m.ctx.Escape.Unregister(m)
	if m.teardown != nil {
		m.teardown()
		m.teardown = nil
	}
	m.log.Debug("unregistered", "depth", m.ctx.Escape.Len())
}

// onKeyDownCapture resolves responsibility before any layer reacts, so a
// layer closing on this press cannot hand it to the layer below.
func (m *Manager) onKeyDownCapture(e *dom.Event) {
	m.responsibleSeq = 0
	if e.Key == dom.KeyEscape && layer.IsResponsible(m.ctx.Escape, m) {
		m.responsibleSeq = e.Seq()
	}
}

func (m *Manager) onKeyDown(e *dom.Event) {
	if e.Key != dom.KeyEscape {
		return
	}
	// suppress native handling such as leaving fullscreen
	e.PreventDefault()
	if m.responsibleSeq != e.Seq() || !m.opts.Behavior.Fires() {
		return
	}
	m.log.Debug("escape", "behavior", m.opts.Behavior)
	if m.opts.OnEscape != nil {
		m.opts.OnEscape(e)
	}
}
