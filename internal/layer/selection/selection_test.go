package selection

import (
	"testing"

	"github.com/charmbracelet/x/cellbuf"
	"github.com/idursun/layerkit/internal/dom"
	"github.com/idursun/layerkit/internal/layer"
	"github.com/idursun/layerkit/internal/timing"
	"github.com/stretchr/testify/assert"
)

type harness struct {
	doc *dom.Document
	ctx *layer.Context
}

func newHarness() *harness {
	doc := dom.NewDocument(80, 24)
	return &harness{doc: doc, ctx: layer.NewContext(doc, timing.NewManual())}
}

func (h *harness) mount(id string, x int) *dom.Node {
	n := dom.NewNode(id, cellbuf.Rect(x, 0, 8, 4))
	h.doc.Body.AppendChild(n)
	return n
}

func (h *harness) down(x, y int) {
	h.doc.Dispatch(dom.NewPointerEvent(dom.EventPointerDown, h.doc.NodeAt(x, y), x, y, dom.ButtonPrimary, dom.PointerMouse))
}

func (h *harness) up(x, y int) {
	h.doc.Dispatch(dom.NewPointerEvent(dom.EventPointerUp, h.doc.NodeAt(x, y), x, y, dom.ButtonPrimary, dom.PointerMouse))
}

func userSelect(n *dom.Node) (string, string) {
	return n.Style.Get(dom.UserSelect), n.Style.Get(dom.WebkitUserSelect)
}

func TestLockAndRestore(t *testing.T) {
	h := newHarness()
	node := h.mount("content", 0)
	node.Style.Set(dom.UserSelect, "contain")
	h.doc.Body.Style.Set(dom.WebkitUserSelect, "auto")
	m := New(h.ctx, Options{OwnedNodeID: "content", Enabled: true})

	h.down(1, 1)
	assert.True(t, m.Locked())
	s, w := userSelect(node)
	assert.Equal(t, "text", s)
	assert.Equal(t, "text", w)
	s, w = userSelect(h.doc.Body)
	assert.Equal(t, "none", s)
	assert.Equal(t, "none", w)

	h.up(50, 20)
	assert.False(t, m.Locked())
	s, w = userSelect(node)
	assert.Equal(t, "contain", s)
	assert.Equal(t, "", w)
	s, w = userSelect(h.doc.Body)
	assert.Equal(t, "", s)
	assert.Equal(t, "auto", w)
}

func TestRepeatedPointerDown_RestoresOriginal(t *testing.T) {
	h := newHarness()
	node := h.mount("content", 0)
	New(h.ctx, Options{OwnedNodeID: "content", Enabled: true})

	h.down(1, 1)
	h.down(2, 2)
	h.up(2, 2)

	assert.Equal(t, 0, node.Style.Len())
	assert.Equal(t, 0, h.doc.Body.Style.Len())
}

func TestOutsidePointerDown_DoesNotLock(t *testing.T) {
	h := newHarness()
	h.mount("content", 0)
	m := New(h.ctx, Options{OwnedNodeID: "content", Enabled: true})

	h.down(50, 20)
	assert.False(t, m.Locked())
	assert.Equal(t, "", h.doc.Body.Style.Get(dom.UserSelect))
}

func TestOnlyHighestLayerLocks(t *testing.T) {
	h := newHarness()
	h.mount("outer", 0)
	h.mount("inner", 10)
	outer := New(h.ctx, Options{OwnedNodeID: "outer", Enabled: true})
	inner := New(h.ctx, Options{OwnedNodeID: "inner", Enabled: true})

	h.down(1, 1)
	assert.False(t, outer.Locked())
	h.up(1, 1)

	h.down(11, 1)
	assert.True(t, inner.Locked())
	h.up(11, 1)

	inner.Configure(Options{OwnedNodeID: "inner", Enabled: false})
	assert.True(t, outer.IsHighest())
	h.down(1, 1)
	assert.True(t, outer.Locked())
}

func TestNestedLayersOnSameNode(t *testing.T) {
	h := newHarness()
	node := h.mount("content", 0)
	node.Style.Set(dom.UserSelect, "all")
	outer := New(h.ctx, Options{OwnedNodeID: "content", Enabled: true})
	inner := New(h.ctx, Options{OwnedNodeID: "content", Enabled: true})

	h.down(1, 1)
	assert.True(t, inner.Locked())
	assert.False(t, outer.Locked())
	h.up(1, 1)
	assert.Equal(t, "all", node.Style.Get(dom.UserSelect))

	inner.Close()
	h.down(1, 1)
	assert.True(t, outer.Locked())
	h.up(1, 1)
	assert.Equal(t, "all", node.Style.Get(dom.UserSelect))
	assert.Equal(t, "", node.Style.Get(dom.WebkitUserSelect))
	assert.Equal(t, 0, h.doc.Body.Style.Len())
}

func TestCloseReleasesHeldLock(t *testing.T) {
	h := newHarness()
	h.mount("content", 0)
	m := New(h.ctx, Options{OwnedNodeID: "content", Enabled: true})

	h.down(1, 1)
	assert.Equal(t, "none", h.doc.Body.Style.Get(dom.UserSelect))

	m.Close()
	m.Close()
	assert.Equal(t, "", h.doc.Body.Style.Get(dom.UserSelect))
	assert.Equal(t, 0, h.ctx.TextSelection.Len())
	assert.Equal(t, 0, h.doc.ListenerCount())
}

func TestCallerPointerUpRunsAfterRelease(t *testing.T) {
	h := newHarness()
	h.mount("content", 0)
	var bodyDuringCallback string
	calls := 0
	New(h.ctx, Options{
		OwnedNodeID: "content",
		Enabled:     true,
		OnPointerUp: func(*dom.Event) {
			calls++
			bodyDuringCallback = h.doc.Body.Style.Get(dom.UserSelect)
		},
	})

	h.down(1, 1)
	h.up(1, 1)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "", bodyDuringCallback)
}

func TestPreventedPointerUp_StillReleases(t *testing.T) {
	h := newHarness()
	node := h.mount("content", 0)
	node.AddEventListener(dom.EventPointerUp, func(e *dom.Event) { e.PreventDefault() })
	calls := 0
	m := New(h.ctx, Options{
		OwnedNodeID: "content",
		Enabled:     true,
		OnPointerUp: func(*dom.Event) { calls++ },
	})

	h.down(1, 1)
	h.up(1, 1)

	assert.False(t, m.Locked())
	assert.Equal(t, "", h.doc.Body.Style.Get(dom.UserSelect))
	assert.Equal(t, "", node.Style.Get(dom.UserSelect))
	assert.Equal(t, 1, calls)
}

func TestCallerPreventingPointerUp_DoesNotKeepLock(t *testing.T) {
	h := newHarness()
	h.mount("content", 0)
	m := New(h.ctx, Options{
		OwnedNodeID: "content",
		Enabled:     true,
		OnPointerUp: func(e *dom.Event) { e.PreventDefault() },
	})

	h.down(1, 1)
	h.up(1, 1)
	assert.False(t, m.Locked())

	h.down(1, 1)
	assert.True(t, m.Locked())
	h.up(1, 1)
	assert.False(t, m.Locked())
	assert.Equal(t, 0, h.doc.Body.Style.Len())
}
