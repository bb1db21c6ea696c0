package dom

import "github.com/charmbracelet/x/cellbuf"

const BodyID = "body"

// Document is the root event target. Every connected node is reachable from
// Body, and listeners attached to the document see every dispatched event.
type Document struct {
	Body *Node

	byID      map[string]*Node
	active    *Node
	listeners listenerSet
	seq       uint64
}

var _ EventTarget = (*Document)(nil)

func NewDocument(width, height int) *Document {
	d := &Document{byID: map[string]*Node{}}
	d.Body = NewNode(BodyID, cellbuf.Rect(0, 0, width, height))
	d.connect(d.Body)
	return d
}

func (d *Document) Resize(width, height int) {
	d.Body.SetFrame(cellbuf.Rect(0, 0, width, height))
}

// GetElementByID returns the connected node with the given id, or nil.
func (d *Document) GetElementByID(id string) *Node {
	if id == "" {
		return nil
	}
	return d.byID[id]
}

func (d *Document) Contains(n *Node) bool {
	return n != nil && n.doc == d
}

// NodeAt returns the deepest node whose frame contains the point. Among
// overlapping siblings the higher Z wins, then the later child.
func (d *Document) NodeAt(x, y int) *Node {
	cur := d.Body
	for {
		next := topChildAt(cur, x, y)
		if next == nil {
			return cur
		}
		cur = next
	}
}

func topChildAt(n *Node, x, y int) *Node {
	var best *Node
	for i := len(n.children) - 1; i >= 0; i-- {
		c := n.children[i]
		if c.hit(x, y) && (best == nil || c.Z > best.Z) {
			best = c
		}
	}
	return best
}

func (d *Document) ActiveElement() *Node {
	return d.active
}

// Focus moves focus to n, dispatching focusout on the previously focused
// node and focusin on n.
func (d *Document) Focus(n *Node) {
	if n == d.active || (n != nil && !d.Contains(n)) {
		return
	}
	prev := d.active
	d.active = n
	if prev != nil && d.Contains(prev) {
		d.Dispatch(NewFocusEvent(EventFocusOut, prev, n))
	}
	if n != nil {
		d.Dispatch(NewFocusEvent(EventFocusIn, n, prev))
	}
}

// FocusNext moves focus to the next focusable node in tree order, wrapping
// around at the end.
func (d *Document) FocusNext() {
	var focusable []*Node
	walk(d.Body, func(n *Node) {
		if n.Focusable {
			focusable = append(focusable, n)
		}
	})
	if len(focusable) == 0 {
		return
	}
	next := focusable[0]
	for i, n := range focusable {
		if n == d.active {
			next = focusable[(i+1)%len(focusable)]
			break
		}
	}
	d.Focus(next)
}

// FocusableAncestor returns the closest focusable node at or above n.
func FocusableAncestor(n *Node) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Focusable {
			return cur
		}
	}
	return nil
}

func (d *Document) AddEventListener(typ string, h Handler, opts ...ListenerOption) func() {
	return d.listeners.add(typ, h, opts)
}

func (d *Document) listenerSet() *listenerSet {
	return &d.listeners
}

func (d *Document) parentTarget() EventTarget {
	return nil
}

func (d *Document) connect(n *Node) {
	walk(n, func(c *Node) {
		c.doc = d
		if c.ID != "" {
			d.byID[c.ID] = c
		}
	})
}

func (d *Document) disconnect(n *Node) {
	if n.Contains(d.active) {
		d.active = nil
	}
	walk(n, func(c *Node) {
		if c.ID != "" && d.byID[c.ID] == c {
			delete(d.byID, c.ID)
		}
		c.doc = nil
	})
}

func walk(n *Node, fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		walk(c, fn)
	}
}
