package layer

import "github.com/idursun/layerkit/internal/dom"

type GestureID uint64

// Gesture is the token shared by every dismissible layer for one pointer
// interaction, from interaction start to the last end event.
type Gesture struct {
	ID      GestureID
	Pointer dom.PointerType

	startSeq    uint64
	starts      map[string]bool
	ended       bool
	intercepted bool
	claims      map[Layer]uint64
}

// Claim records that the gesture happened inside l. stamp is l's
// registration stamp at claim time, so the claim still orders correctly if l
// unmounts before the gesture ends.
func (g *Gesture) Claim(l Layer, stamp uint64) {
	if g.claims == nil {
		g.claims = map[Layer]uint64{}
	}
	g.claims[l] = stamp
}

func (g *Gesture) ClaimedBy(l Layer) bool {
	_, ok := g.claims[l]
	return ok
}

// Intercept marks the gesture as handled by an element outside the layer
// bookkeeping, such as a select item. No layer treats it as outside.
func (g *Gesture) Intercept() {
	g.intercepted = true
}

func (g *Gesture) Intercepted() bool {
	return g.intercepted
}

// SuppressedFor reports whether the layer registered with stamp must not
// treat this gesture as an outside interaction: it was intercepted, it was
// claimed by the layer itself, or it was claimed by a layer mounted above.
func (g *Gesture) SuppressedFor(l Layer, stamp uint64) bool {
	if g.intercepted {
		return true
	}
	for claimant, s := range g.claims {
		if claimant == l || s > stamp {
			return true
		}
	}
	return false
}

// Gestures hands out gesture tokens. IDs increase monotonically.
type Gestures struct {
	next    GestureID
	current *Gesture
}

func NewGestures() *Gestures {
	return &Gestures{}
}

// Begin returns the gesture an interaction-start event belongs to. Every
// listener seeing the same dispatch gets the same token. A touch contact
// delivers both touchstart and pointerdown; the second joins the first.
func (gs *Gestures) Begin(e *dom.Event) *Gesture {
	if cur := gs.current; cur != nil {
		if cur.startSeq == e.Seq() {
			return cur
		}
		if !cur.ended && cur.Pointer == dom.PointerTouch && e.PointerType == dom.PointerTouch && !cur.starts[e.Type] {
			cur.starts[e.Type] = true
			cur.startSeq = e.Seq()
			return cur
		}
	}
	gs.next++
	gs.current = &Gesture{
		ID:       gs.next,
		Pointer:  e.PointerType,
		startSeq: e.Seq(),
		starts:   map[string]bool{e.Type: true},
	}
	return gs.current
}

// End marks the current gesture as ended and returns it.
func (gs *Gestures) End() *Gesture {
	if gs.current != nil {
		gs.current.ended = true
	}
	return gs.current
}

func (gs *Gestures) Current() *Gesture {
	return gs.current
}

// Release forgets the gesture once it has settled. Releasing a gesture that
// is no longer current is a no-op.
func (gs *Gestures) Release(id GestureID) {
	if gs.current != nil && gs.current.ID == id {
		gs.current = nil
	}
}

// Intercept marks the gesture in flight as handled, for pointer events only.
func Intercept(ctx *Context, e *dom.Event) {
	switch e.Type {
	case dom.EventPointerDown, dom.EventTouchStart, dom.EventPointerUp, dom.EventTouchEnd, dom.EventClick:
		if g := ctx.Gestures.Current(); g != nil {
			g.Intercept()
		}
	}
}
