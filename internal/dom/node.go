package dom

import "github.com/charmbracelet/x/cellbuf"

// Node is an element of the headless document. Frames are absolute cell
// rectangles; a node is hit only within its own frame, so portalled
// overlays are siblings of the content they float above.
type Node struct {
	ID        string
	Frame     cellbuf.Rectangle
	Z         int
	Focusable bool
	Style     Style

	parent    *Node
	children  []*Node
	doc       *Document
	listeners listenerSet
}

var _ EventTarget = (*Node)(nil)

func NewNode(id string, frame cellbuf.Rectangle) *Node {
	return &Node{ID: id, Frame: frame}
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

// Document returns the owning document, or nil once the node is detached.
func (n *Node) Document() *Document {
	return n.doc
}

func (n *Node) IsConnected() bool {
	return n != nil && n.doc != nil
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	if n == nil {
		return false
	}
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// AppendChild moves child under n. If n is connected the child's subtree
// becomes connected to the same document.
func (n *Node) AppendChild(child *Node) {
	if child == nil || child == n || child.Contains(n) {
		return
	}
	child.Remove()
	child.parent = n
	n.children = append(n.children, child)
	if n.doc != nil {
		n.doc.connect(child)
	}
}

// Remove detaches n from its parent and disconnects its subtree.
func (n *Node) Remove() {
	if n.parent != nil {
		siblings := n.parent.children
		for i, c := range siblings {
			if c == n {
				n.parent.children = append(siblings[:i:i], siblings[i+1:]...)
				break
			}
		}
		n.parent = nil
	}
	if n.doc != nil {
		n.doc.disconnect(n)
	}
}

func (n *Node) SetFrame(f cellbuf.Rectangle) {
	n.Frame = f
}

func (n *Node) ToLocal(x, y int) (int, int) {
	return x - n.Frame.Min.X, y - n.Frame.Min.Y
}

func (n *Node) hit(x, y int) bool {
	return x >= n.Frame.Min.X && x < n.Frame.Max.X &&
		y >= n.Frame.Min.Y && y < n.Frame.Max.Y
}

func (n *Node) AddEventListener(typ string, h Handler, opts ...ListenerOption) func() {
	return n.listeners.add(typ, h, opts)
}

func (n *Node) listenerSet() *listenerSet {
	return &n.listeners
}

func (n *Node) parentTarget() EventTarget {
	if n.parent != nil {
		return n.parent
	}
	if n.doc != nil {
		return n.doc
	}
	return nil
}
