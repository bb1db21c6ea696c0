package dom

type Handler func(e *Event)

// EventTarget is implemented by Document and Node.
type EventTarget interface {
	// AddEventListener registers h and returns a function that removes it.
	AddEventListener(typ string, h Handler, opts ...ListenerOption) func()

	listenerSet() *listenerSet
	parentTarget() EventTarget
}

type ListenerOptions struct {
	Capture bool
	Passive bool
	Once    bool
}

type ListenerOption func(*ListenerOptions)

func Capture() ListenerOption {
	return func(o *ListenerOptions) { o.Capture = true }
}

func Passive() ListenerOption {
	return func(o *ListenerOptions) { o.Passive = true }
}

func Once() ListenerOption {
	return func(o *ListenerOptions) { o.Once = true }
}

type listener struct {
	typ     string
	handler Handler
	opts    ListenerOptions
	removed bool
}

type listenerSet struct {
	items []*listener
}

func (s *listenerSet) add(typ string, h Handler, opts []ListenerOption) func() {
	if h == nil {
		return func() {}
	}
	l := &listener{typ: typ, handler: h}
	for _, opt := range opts {
		opt(&l.opts)
	}
	s.items = append(s.items, l)
	return func() { s.remove(l) }
}

func (s *listenerSet) remove(l *listener) {
	if l.removed {
		return
	}
	l.removed = true
	for i, item := range s.items {
		if item == l {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}

// matching returns the listeners registered for typ at the time of the call.
// Listeners added while the returned slice is being walked are not included.
func (s *listenerSet) matching(typ string, capture bool) []*listener {
	var out []*listener
	for _, l := range s.items {
		if l.typ == typ && l.opts.Capture == capture {
			out = append(out, l)
		}
	}
	return out
}

func (s *listenerSet) len() int {
	return len(s.items)
}
