package escape

import (
	"testing"

	"github.com/idursun/layerkit/internal/dom"
	"github.com/idursun/layerkit/internal/layer"
	"github.com/idursun/layerkit/internal/timing"
	"github.com/stretchr/testify/assert"
)

type harness struct {
	doc   *dom.Document
	ctx   *layer.Context
	fired []string
}

func newHarness() *harness {
	doc := dom.NewDocument(80, 24)
	return &harness{doc: doc, ctx: layer.NewContext(doc, timing.NewManual())}
}

func (h *harness) layer(name string, b layer.Behavior) *Manager {
	return New(h.ctx, Options{
		Behavior: b,
		Enabled:  true,
		OnEscape: func(*dom.Event) { h.fired = append(h.fired, name) },
	})
}

func (h *harness) press(key string) *dom.Event {
	e := dom.NewKeyboardEvent(nil, key)
	h.doc.Dispatch(e)
	return e
}

func (h *harness) takeFired() []string {
	out := h.fired
	h.fired = nil
	return out
}

func TestEscape_MostRecentCloseWins(t *testing.T) {
	h := newHarness()
	h.layer("l1", layer.Close)
	h.layer("l2", layer.Close)

	h.press(dom.KeyEscape)
	assert.Equal(t, []string{"l2"}, h.takeFired())
}

func TestEscape_AlwaysPreventsDefault(t *testing.T) {
	h := newHarness()
	h.layer("silent", layer.Ignore)

	e := h.press(dom.KeyEscape)
	assert.True(t, e.DefaultPrevented())
	assert.Empty(t, h.takeFired())
}

func TestEscape_OtherKeysIgnored(t *testing.T) {
	h := newHarness()
	h.layer("l1", layer.Close)

	e := h.press("Enter")
	assert.False(t, e.DefaultPrevented())
	assert.Empty(t, h.takeFired())
}

func TestEscape_IgnoreClaimsSilently(t *testing.T) {
	h := newHarness()
	h.layer("dialog", layer.Close)
	h.layer("select", layer.Ignore)
	h.layer("tooltip", layer.DeferOtherwiseClose)

	h.press(dom.KeyEscape)
	assert.Empty(t, h.takeFired())
}

func TestEscape_DeferOtherwiseIgnoreDoesNotClaim(t *testing.T) {
	h := newHarness()
	h.layer("dialog", layer.Close)
	h.layer("hover card", layer.DeferOtherwiseIgnore)

	h.press(dom.KeyEscape)
	assert.Equal(t, []string{"dialog"}, h.takeFired())
}

func TestEscape_FallbackToOutermost(t *testing.T) {
	h := newHarness()
	h.layer("outer", layer.DeferOtherwiseClose)
	h.layer("inner", layer.DeferOtherwiseClose)

	h.press(dom.KeyEscape)
	assert.Equal(t, []string{"outer"}, h.takeFired())

	h2 := newHarness()
	h2.layer("outer", layer.DeferOtherwiseIgnore)
	h2.layer("inner", layer.DeferOtherwiseClose)
	h2.press(dom.KeyEscape)
	assert.Empty(t, h2.takeFired())
}

func TestEscape_ClosingOnPressDoesNotCascade(t *testing.T) {
	h := newHarness()
	var managers []*Manager
	for _, name := range []string{"l1", "l2", "l3"} {
		name := name
		var m *Manager
		m = New(h.ctx, Options{
			Behavior: layer.Close,
			Enabled:  true,
			OnEscape: func(*dom.Event) {
				h.fired = append(h.fired, name)
				m.Close()
			},
		})
		managers = append(managers, m)
	}

	h.press(dom.KeyEscape)
	assert.Equal(t, []string{"l3"}, h.takeFired())
	h.press(dom.KeyEscape)
	assert.Equal(t, []string{"l2"}, h.takeFired())
	assert.Equal(t, 1, h.ctx.Escape.Len())
	assert.True(t, managers[0].Enabled())
}

func TestEscape_TeardownStopsCallbacks(t *testing.T) {
	h := newHarness()
	l1 := h.layer("l1", layer.Close)
	l2 := h.layer("l2", layer.Close)

	l2.Close()
	assert.Equal(t, 1, h.ctx.Escape.Len())
	h.press(dom.KeyEscape)
	assert.Equal(t, []string{"l1"}, h.takeFired())

	l1.Configure(Options{Behavior: layer.Close, Enabled: false})
	assert.Equal(t, 0, h.ctx.Escape.Len())
	assert.Equal(t, 0, h.doc.ListenerCount())
	h.press(dom.KeyEscape)
	assert.Empty(t, h.takeFired())
}

func TestEscape_InnerHandlerCanStopPropagation(t *testing.T) {
	h := newHarness()
	h.layer("l1", layer.Close)
	input := dom.NewNode("input", h.doc.Body.Frame)
	h.doc.Body.AppendChild(input)
	input.AddEventListener(dom.EventKeyDown, func(e *dom.Event) { e.StopPropagation() })

	h.doc.Dispatch(dom.NewKeyboardEvent(input, dom.KeyEscape))
	assert.Empty(t, h.takeFired())
}
