package layer

// Layer is a registration key. Managers register themselves, so identity is
// the controller instance rather than its node.
type Layer interface {
	ID() string
}

type entry[V any] struct {
	layer Layer
	value V
	stamp uint64
}

// Registry is an insertion-ordered set of layers of one kind. Order follows
// mount order: outer layers come first.
type Registry[V any] struct {
	entries []*entry[V]
	index   map[Layer]*entry[V]
	stamp   uint64
}

func NewRegistry[V any]() *Registry[V] {
	return &Registry[V]{index: map[Layer]*entry[V]{}}
}

// Register appends l, or updates its value in place if already present.
func (r *Registry[V]) Register(l Layer, value V) {
	if e, ok := r.index[l]; ok {
		e.value = value
		return
	}
	r.stamp++
	e := &entry[V]{layer: l, value: value, stamp: r.stamp}
	r.entries = append(r.entries, e)
	r.index[l] = e
}

// Unregister removes l and reports whether it was present.
func (r *Registry[V]) Unregister(l Layer) bool {
	e, ok := r.index[l]
	if !ok {
		return false
	}
	delete(r.index, l)
	for i, other := range r.entries {
		if other == e {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry[V]) Len() int {
	return len(r.entries)
}

func (r *Registry[V]) Has(l Layer) bool {
	_, ok := r.index[l]
	return ok
}

func (r *Registry[V]) Value(l Layer) (V, bool) {
	if e, ok := r.index[l]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Index returns the position of l in registration order, or -1.
func (r *Registry[V]) Index(l Layer) int {
	for i, e := range r.entries {
		if e.layer == l {
			return i
		}
	}
	return -1
}

// Stamp returns a number that grows with every fresh registration. A layer
// removed and registered again receives a new, larger stamp.
func (r *Registry[V]) Stamp(l Layer) (uint64, bool) {
	if e, ok := r.index[l]; ok {
		return e.stamp, true
	}
	return 0, false
}

// Layers returns the registered layers in registration order.
func (r *Registry[V]) Layers() []Layer {
	out := make([]Layer, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.layer
	}
	return out
}

// After returns the layers registered after l, innermost last.
func (r *Registry[V]) After(l Layer) []Layer {
	i := r.Index(l)
	if i < 0 {
		return nil
	}
	out := make([]Layer, 0, len(r.entries)-i-1)
	for _, e := range r.entries[i+1:] {
		out = append(out, e.layer)
	}
	return out
}

// Above reports whether b was registered after a. Both must be present.
func (r *Registry[V]) Above(a, b Layer) bool {
	ea, okA := r.index[a]
	eb, okB := r.index[b]
	return okA && okB && eb.stamp > ea.stamp
}

// Highest returns the most recently registered layer whose value matches.
func (r *Registry[V]) Highest(match func(V) bool) (Layer, bool) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if match(r.entries[i].value) {
			return r.entries[i].layer, true
		}
	}
	return nil, false
}

// ResolveResponsible picks the single layer that handles an interaction:
// the topmost layer whose behavior claims, or the outermost layer when
// every registered layer defers.
func ResolveResponsible(r *Registry[Behavior]) (Layer, bool) {
	if l, ok := r.Highest(Behavior.Claims); ok {
		return l, true
	}
	if len(r.entries) == 0 {
		return nil, false
	}
	return r.entries[0].layer, true
}

func IsResponsible(r *Registry[Behavior], l Layer) bool {
	responsible, ok := ResolveResponsible(r)
	return ok && responsible == l
}
